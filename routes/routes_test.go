package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const apiKey = "admin-key"

type RoutesTestSuite struct {
	suite.Suite
	db  *gorm.DB
	hub *events.Hub
	srv *httptest.Server
}

func TestRoutesSuite(t *testing.T) {
	suite.Run(t, new(RoutesTestSuite))
}

func (s *RoutesTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	db, err := database.OpenInMemory()
	s.Require().NoError(err)
	s.db = db
	s.hub = events.NewHub()

	r := gin.New()
	SetupRoutes(r, Deps{
		DB:          db,
		Notifier:    events.Multi{s.hub},
		Hub:         s.hub,
		JWTSecret:   "routes-secret",
		TokenTTL:    time.Hour,
		AdminAPIKey: apiKey,
	})
	s.srv = httptest.NewServer(r)
}

func (s *RoutesTestSuite) TearDownTest() {
	s.hub.Close()
	s.srv.Close()
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

type call struct {
	method string
	path   string
	body   interface{}
	token  string
	admin  bool
}

func (s *RoutesTestSuite) do(c call) (int, []byte) {
	var buf bytes.Buffer
	if c.body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(c.body))
	}
	req, err := http.NewRequest(c.method, s.srv.URL+c.path, &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.admin {
		req.Header.Set("X-API-KEY", apiKey)
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, data
}

func (s *RoutesTestSuite) signup(username string) string {
	code, body := s.do(call{method: http.MethodPost, path: "/auth/register", body: gin.H{
		"username": username, "email": username + "@example.com", "password": "password123",
	}})
	s.Require().Equal(http.StatusCreated, code, string(body))
	return s.login(username)
}

func (s *RoutesTestSuite) login(username string) string {
	code, body := s.do(call{method: http.MethodPost, path: "/auth/login", body: gin.H{
		"username": username, "password": "password123",
	}})
	s.Require().Equal(http.StatusOK, code, string(body))
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(body, &out))
	return out.Token
}

func (s *RoutesTestSuite) createProduct(name, price string, stock int) models.Product {
	code, body := s.do(call{method: http.MethodPost, path: "/admin/products", admin: true, body: gin.H{
		"name": name, "price": price, "stock": stock,
	}})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var p models.Product
	s.Require().NoError(json.Unmarshal(body, &p))
	return p
}

func (s *RoutesTestSuite) TestHealth() {
	code, _ := s.do(call{method: http.MethodGet, path: "/healthz"})
	s.Equal(http.StatusOK, code)
}

func (s *RoutesTestSuite) TestGroupsAreProtected() {
	code, _ := s.do(call{method: http.MethodGet, path: "/user/cart"})
	s.Equal(http.StatusUnauthorized, code)

	code, _ = s.do(call{method: http.MethodGet, path: "/admin/orders"})
	s.Equal(http.StatusUnauthorized, code)

	token := s.signup("mallory")
	code, _ = s.do(call{method: http.MethodGet, path: "/admin/orders", token: token})
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RoutesTestSuite) TestCheckoutFlow() {
	token := s.signup("alice")
	shirt := s.createProduct("Shirt", "10.00", 5)
	hat := s.createProduct("Hat", "7.50", 2)

	// admin dashboard listening for new orders
	wsURL := "ws" + strings.TrimPrefix(s.srv.URL, "http") + "/admin/ws/orders?api_key=" + apiKey
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	s.Require().NoError(err)
	defer conn.Close()
	s.Require().Eventually(func() bool { return s.hub.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	// public catalog
	code, body := s.do(call{method: http.MethodGet, path: "/products?sort_by=price&order=asc"})
	s.Require().Equal(http.StatusOK, code)
	var catalog []models.Product
	s.Require().NoError(json.Unmarshal(body, &catalog))
	s.Require().Len(catalog, 2)
	s.Equal("Hat", catalog[0].Name)

	// cart
	for _, add := range []gin.H{
		{"product_id": shirt.ID, "quantity": 1},
		{"product_id": shirt.ID, "quantity": 1},
		{"product_id": hat.ID},
	} {
		code, body = s.do(call{method: http.MethodPost, path: "/user/cart/add", token: token, body: add})
		s.Require().Equal(http.StatusOK, code, string(body))
	}
	code, body = s.do(call{method: http.MethodGet, path: "/user/cart", token: token})
	s.Require().Equal(http.StatusOK, code)
	var cart models.Cart
	s.Require().NoError(json.Unmarshal(body, &cart))
	s.Require().Len(cart.Items, 2)
	s.Equal(2, cart.Items[0].Quantity)

	// place the order
	code, body = s.do(call{method: http.MethodPost, path: "/user/orders", token: token, body: gin.H{
		"shipping_address": "42 Harbour Road", "phone_number": "+44 20 7946 0000",
	}})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var order models.Order
	s.Require().NoError(json.Unmarshal(body, &order))
	s.Equal("27.50", order.TotalPrice.StringFixed(2))
	s.Len(order.Items, 2)

	// the dashboard sees it
	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, msg, err := conn.ReadMessage()
	s.Require().NoError(err)
	var evt events.OrderPlaced
	s.Require().NoError(json.Unmarshal(msg, &evt))
	s.Equal(order.ID, evt.OrderID)
	s.Equal(events.TypeOrderPlaced, evt.Type)

	// stock went down and the cart is empty
	code, body = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/products/%d", shirt.ID)})
	s.Require().Equal(http.StatusOK, code)
	var reloaded models.Product
	s.Require().NoError(json.Unmarshal(body, &reloaded))
	s.Equal(3, reloaded.Stock)

	code, body = s.do(call{method: http.MethodGet, path: "/user/cart", token: token})
	s.Require().Equal(http.StatusOK, code)
	s.Require().NoError(json.Unmarshal(body, &cart))
	s.Empty(cart.Items)

	// a second checkout finds nothing to buy
	code, body = s.do(call{method: http.MethodPost, path: "/user/orders", token: token, body: gin.H{
		"shipping_address": "42 Harbour Road", "phone_number": "1",
	}})
	s.Equal(http.StatusBadRequest, code)
	s.Contains(string(body), "Your cart is empty")

	// order history
	code, body = s.do(call{method: http.MethodGet, path: "/user/orders", token: token})
	s.Require().Equal(http.StatusOK, code)
	var mine []models.Order
	s.Require().NoError(json.Unmarshal(body, &mine))
	s.Len(mine, 1)

	// admin moves it along
	code, _ = s.do(call{method: http.MethodPut, path: fmt.Sprintf("/admin/orders/%d/status", order.ID), admin: true,
		body: gin.H{"status": "Processing"}})
	s.Equal(http.StatusOK, code)

	// pay for it
	code, body = s.do(call{method: http.MethodPost, path: "/user/payments", token: token, body: gin.H{
		"order_id": order.ID, "amount": "27.50", "payment_method": "card", "transaction_id": "tx-1",
	}})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var payment models.Payment
	s.Require().NoError(json.Unmarshal(body, &payment))
	s.Equal(models.PaymentStatusPending, payment.Status)

	code, _ = s.do(call{method: http.MethodPut, path: fmt.Sprintf("/admin/payments/%d/status", payment.ID), admin: true,
		body: gin.H{"status": "Completed"}})
	s.Equal(http.StatusOK, code)

	code, body = s.do(call{method: http.MethodGet, path: "/user/payments", token: token})
	s.Require().Equal(http.StatusOK, code)
	var payments []models.Payment
	s.Require().NoError(json.Unmarshal(body, &payments))
	s.Require().Len(payments, 1)
	s.Equal(models.PaymentStatusCompleted, payments[0].Status)

	// admin stats see the revenue
	code, body = s.do(call{method: http.MethodGet, path: "/admin/stats?low_stock=2", admin: true})
	s.Require().Equal(http.StatusOK, code)
	var stats struct {
		Revenue  string           `json:"revenue"`
		LowStock []models.Product `json:"low_stock"`
	}
	s.Require().NoError(json.Unmarshal(body, &stats))
	s.Equal("27.50", stats.Revenue)
	s.Require().Len(stats.LowStock, 1)
	s.Equal("Hat", stats.LowStock[0].Name)
}

func (s *RoutesTestSuite) TestOutOfStockCheckout() {
	token := s.signup("bob")
	a := s.createProduct("A", "10.00", 5)
	b := s.createProduct("B", "5.00", 3)

	s.do(call{method: http.MethodPost, path: "/user/cart/add", token: token, body: gin.H{"product_id": a.ID, "quantity": 2}})
	s.do(call{method: http.MethodPost, path: "/user/cart/add", token: token, body: gin.H{"product_id": b.ID, "quantity": 3}})

	// stock drops after the item went into the cart
	code, _ := s.do(call{method: http.MethodPut, path: fmt.Sprintf("/admin/products/%d", b.ID), admin: true, body: gin.H{"stock": 1}})
	s.Require().Equal(http.StatusOK, code)

	code, body := s.do(call{method: http.MethodPost, path: "/user/orders", token: token, body: gin.H{
		"shipping_address": "x", "phone_number": "y",
	}})
	s.Equal(http.StatusBadRequest, code)
	s.JSONEq(`{"error":"Not enough stock for B"}`, string(body))

	code, body = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/products/%d", a.ID)})
	s.Require().Equal(http.StatusOK, code)
	var reloaded models.Product
	s.Require().NoError(json.Unmarshal(body, &reloaded))
	s.Equal(5, reloaded.Stock)

	code, body = s.do(call{method: http.MethodGet, path: "/user/cart", token: token})
	s.Require().Equal(http.StatusOK, code)
	var cart models.Cart
	s.Require().NoError(json.Unmarshal(body, &cart))
	s.Len(cart.Items, 2)
}

func (s *RoutesTestSuite) TestProfilesReviewsAndCoupons() {
	token := s.signup("carol")
	p := s.createProduct("Mug", "8.00", 10)

	code, body := s.do(call{method: http.MethodGet, path: "/user/profiles/carol", token: token})
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`{"username":"carol","role":"customer"}`, string(body))

	code, body = s.do(call{method: http.MethodGet, path: "/user/profiles/nobody", token: token})
	s.Equal(http.StatusNotFound, code)
	s.Contains(string(body), "UserProfile not found")

	reviews := fmt.Sprintf("/user/products/%d/reviews", p.ID)
	code, _ = s.do(call{method: http.MethodPost, path: reviews, token: token, body: gin.H{"rating": 6}})
	s.Equal(http.StatusBadRequest, code)
	code, _ = s.do(call{method: http.MethodPost, path: reviews, token: token, body: gin.H{"rating": 5, "comment": "Great mug"}})
	s.Equal(http.StatusCreated, code)
	code, _ = s.do(call{method: http.MethodPost, path: "/user/products/999/reviews", token: token, body: gin.H{"rating": 4}})
	s.Equal(http.StatusNotFound, code)

	code, body = s.do(call{method: http.MethodGet, path: reviews, token: token})
	s.Require().Equal(http.StatusOK, code)
	var list []struct {
		Rating   int    `json:"rating"`
		Username string `json:"username"`
	}
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Require().Len(list, 1)
	s.Equal("carol", list[0].Username)

	now := time.Now().UTC()
	for _, cp := range []gin.H{
		{"code": "spring10", "discount_percent": "10", "valid_from": now, "valid_to": now.Add(24 * time.Hour)},
		{"code": "OLD", "discount_percent": "5", "valid_from": now, "valid_to": now.Add(time.Hour), "active": false},
	} {
		code, body = s.do(call{method: http.MethodPost, path: "/admin/coupons", admin: true, body: cp})
		s.Require().Equal(http.StatusCreated, code, string(body))
	}
	code, _ = s.do(call{method: http.MethodPost, path: "/admin/coupons", admin: true, body: gin.H{
		"code": "TOO-MUCH", "discount_percent": "150", "valid_from": now, "valid_to": now.Add(time.Hour),
	}})
	s.Equal(http.StatusBadRequest, code)
	code, _ = s.do(call{method: http.MethodPost, path: "/admin/coupons", admin: true, body: gin.H{
		"code": "SPRING10", "discount_percent": "1", "valid_from": now, "valid_to": now.Add(time.Hour),
	}})
	s.Equal(http.StatusConflict, code)

	code, body = s.do(call{method: http.MethodGet, path: "/coupons"})
	s.Require().Equal(http.StatusOK, code)
	var coupons []models.Coupon
	s.Require().NoError(json.Unmarshal(body, &coupons))
	s.Require().Len(coupons, 1)
	s.Equal("SPRING10", coupons[0].Code)
}

func (s *RoutesTestSuite) TestProductImagesNeedAdminRole() {
	token := s.signup("dan")
	p := s.createProduct("Lamp", "30.00", 1)
	path := fmt.Sprintf("/user/products/%d/images", p.ID)
	img := gin.H{"image_url": "https://cdn.example.com/lamp.jpg", "is_primary": true}

	code, _ := s.do(call{method: http.MethodPost, path: path, token: token, body: img})
	s.Equal(http.StatusForbidden, code)

	var user models.User
	s.Require().NoError(s.db.Where("username = ?", "dan").First(&user).Error)
	code, _ = s.do(call{method: http.MethodPut, path: fmt.Sprintf("/admin/users/%d/role", user.ID), admin: true,
		body: gin.H{"role": models.RoleAdmin}})
	s.Require().Equal(http.StatusOK, code)

	// the role travels in the token, so log in again
	token = s.login("dan")
	code, body := s.do(call{method: http.MethodPost, path: path, token: token, body: img})
	s.Require().Equal(http.StatusCreated, code, string(body))

	code, body = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/products/%d", p.ID)})
	s.Require().Equal(http.StatusOK, code)
	var detail models.Product
	s.Require().NoError(json.Unmarshal(body, &detail))
	s.Require().Len(detail.Images, 1)
	s.True(detail.Images[0].IsPrimary)

	code, body = s.do(call{method: http.MethodGet, path: "/admin/admins", admin: true})
	s.Require().Equal(http.StatusOK, code)
	var admins []models.User
	s.Require().NoError(json.Unmarshal(body, &admins))
	s.Require().Len(admins, 1)
	s.Equal("dan", admins[0].Username)
}

func (s *RoutesTestSuite) TestCannotTouchAnotherUsersOrder() {
	alice := s.signup("alice")
	eve := s.signup("eve")
	p := s.createProduct("Pen", "2.00", 10)

	s.do(call{method: http.MethodPost, path: "/user/cart/add", token: alice, body: gin.H{"product_id": p.ID}})
	code, body := s.do(call{method: http.MethodPost, path: "/user/orders", token: alice, body: gin.H{
		"shipping_address": "a", "phone_number": "b",
	}})
	s.Require().Equal(http.StatusCreated, code, string(body))
	var order models.Order
	s.Require().NoError(json.Unmarshal(body, &order))

	code, _ = s.do(call{method: http.MethodGet, path: fmt.Sprintf("/user/orders/%d", order.ID), token: eve})
	s.Equal(http.StatusNotFound, code)

	code, _ = s.do(call{method: http.MethodPost, path: "/user/payments", token: eve, body: gin.H{
		"order_id": order.ID, "amount": "2.00", "payment_method": "card",
	}})
	s.Equal(http.StatusNotFound, code)

	code, body = s.do(call{method: http.MethodGet, path: "/user/payments", token: eve})
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`[]`, string(body))
}
