package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:         9,
		OrderRef:   "20260101120000-abc",
		UserID:     3,
		Status:     models.OrderStatusPending,
		TotalPrice: decimal.RequireFromString("20.00"),
		Items: []models.OrderItem{
			{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("10.00")},
		},
		CreatedAt: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

type recordingNotifier struct {
	got []OrderPlaced
	err error
}

func (r *recordingNotifier) OrderPlaced(_ context.Context, evt OrderPlaced) error {
	r.got = append(r.got, evt)
	return r.err
}

func TestNewOrderPlaced(t *testing.T) {
	evt := NewOrderPlaced(sampleOrder())
	require.Equal(t, TypeOrderPlaced, evt.Type)
	require.EqualValues(t, 9, evt.OrderID)
	require.Equal(t, "Pending", evt.Status)
	require.Len(t, evt.Items, 1)
	require.Equal(t, 2, evt.Items[0].Quantity)
}

func TestMultiDeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recordingNotifier{}
	failing := &recordingNotifier{err: errors.New("boom")}
	m := Multi{ok, nil, failing}

	err := m.OrderPlaced(context.Background(), NewOrderPlaced(sampleOrder()))
	require.ErrorContains(t, err, "boom")
	require.Len(t, ok.got, 1)
	require.Len(t, failing.got, 1)
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	require.NoError(t, p.OrderPlaced(context.Background(), NewOrderPlaced(sampleOrder())))
	require.Len(t, w.msgs, 1)
	require.Equal(t, "9", string(w.msgs[0].Key))
	require.Equal(t, "event_type", w.msgs[0].Headers[0].Key)

	var decoded OrderPlaced
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	require.Equal(t, "20260101120000-abc", decoded.OrderRef)

	w.err = errors.New("broker down")
	require.ErrorContains(t, p.OrderPlaced(context.Background(), NewOrderPlaced(sampleOrder())), "broker down")

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.OrderPlaced(context.Background(), NewOrderPlaced(sampleOrder())))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := client.ReadMessage()
	require.NoError(t, err)

	var evt OrderPlaced
	require.NoError(t, json.Unmarshal(data, &evt))
	require.EqualValues(t, 9, evt.OrderID)

	hub.Close()
	require.Zero(t, hub.Len())
}

func TestHubDropsStalledClientWithoutBlocking(t *testing.T) {
	hub := NewHub()
	stalled := &client{conn: new(websocket.Conn), send: make(chan []byte, 1)}
	stalled.send <- []byte("unread")
	healthy := &client{conn: new(websocket.Conn), send: make(chan []byte, 1)}
	hub.clients[stalled.conn] = stalled
	hub.clients[healthy.conn] = healthy

	done := make(chan error, 1)
	go func() {
		done <- hub.OrderPlaced(context.Background(), NewOrderPlaced(sampleOrder()))
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full client queue")
	}

	require.Equal(t, 1, hub.Len())
	require.Contains(t, string(<-healthy.send), `"order_id":9`)

	<-stalled.send
	_, open := <-stalled.send
	require.False(t, open, "stalled client queue is closed")
}
