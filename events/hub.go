package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait = 5 * time.Second
	// events buffered per dashboard before it is considered stalled
	sendBuffer = 16
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub keeps the set of connected admin dashboards and pushes every placed order to them.
// Each connection has its own writer goroutine, so a slow dashboard never holds the lock.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

func (h *Hub) Register(conn *websocket.Conn) {
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	h.clients[conn] = cl
	h.mu.Unlock()
	go h.writePump(cl)
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	h.drop(conn)
	h.mu.Unlock()
}

// drop must be called with mu held. Closing send tells the writer to close the socket.
func (h *Hub) drop(conn *websocket.Conn) {
	if cl, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(cl.send)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// OrderPlaced queues the event for every client. A client whose queue is full is dropped.
func (h *Hub) OrderPlaced(_ context.Context, evt OrderPlaced) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			log.Warn().Uint("order_id", evt.OrderID).Msg("dropping stalled websocket client")
			h.drop(conn)
		}
	}
	return nil
}

func (h *Hub) writePump(cl *client) {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warn().Err(err).Str("remote", cl.conn.RemoteAddr().String()).Msg("dropping websocket client")
			h.Unregister(cl.conn)
			// drain until drop closes the channel
			for range cl.send {
			}
			return
		}
	}
	cl.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
		time.Now().Add(writeWait))
}

// Close disconnects every client, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		h.drop(conn)
	}
}
