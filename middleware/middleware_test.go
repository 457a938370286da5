package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

const secret = "mw-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	r := gin.New()
	r.GET("/me", ValidateToken(secret), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": c.GetString(ContextUsername), "role": c.GetString(ContextRole)})
	})

	token, err := auth.IssueToken(secret, time.Hour, 5, "erin", "customer")
	require.NoError(t, err)

	for _, header := range []string{"Bearer " + token, token} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		w := serve(r, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"id":5,"username":"erin","role":"customer"}`, w.Body.String())
	}

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "Authorization header is missing")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, serve(r, req).Code)
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/admin-only", ValidateToken(secret), RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	customer, _ := auth.IssueToken(secret, time.Hour, 1, "c", "customer")
	admin, _ := auth.IssueToken(secret, time.Hour, 2, "a", "admin")

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	w := serve(r, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "You do not have permission")

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	require.Equal(t, http.StatusNoContent, serve(r, req).Code)
}

func TestValidateAPIKey(t *testing.T) {
	r := gin.New()
	r.GET("/admin", ValidateAPIKey("k3y"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-API-KEY", "k3y")
	require.Equal(t, http.StatusNoContent, serve(r, req).Code)

	require.Equal(t, http.StatusNoContent, serve(r, httptest.NewRequest(http.MethodGet, "/admin?api_key=k3y", nil)).Code)
	require.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/admin?api_key=nope", nil)).Code)
	require.Equal(t, http.StatusUnauthorized, serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)

	// an unset key locks the group instead of opening it
	open := gin.New()
	open.GET("/admin", ValidateAPIKey(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	require.Equal(t, http.StatusUnauthorized, serve(open, httptest.NewRequest(http.MethodGet, "/admin", nil)).Code)
}

func TestRequestIDAndLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ok", nil))
	generated := w.Header().Get(HeaderRequestID)
	require.NotEmpty(t, generated)
	require.Contains(t, buf.String(), `"request_id":"`+generated+`"`)
	require.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = serve(r, req)
	require.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
	require.Contains(t, buf.String(), `"level":"error"`)
	require.Contains(t, buf.String(), `"status":500`)
}
