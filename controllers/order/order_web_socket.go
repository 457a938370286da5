// order_websocket.go
package orderControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The admin group is already behind the API key.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GET /admin/ws/orders streams every placed order to the connected dashboard.
func OrderWebSocketHandler(hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		hub.Register(conn)
		log.Info().Str("remote", conn.RemoteAddr().String()).Int("clients", hub.Len()).Msg("📡 Order feed client connected")

		// The feed is write-only; reading just detects the close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				hub.Unregister(conn)
				break
			}
		}
	}
}
