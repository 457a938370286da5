package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/junaidrashid-git/storefront-api/events"
	"gorm.io/gorm"
)

// Deps is everything the handlers need, built once in main.
type Deps struct {
	DB          *gorm.DB
	Cache       cache.ProductCache
	Notifier    events.OrderNotifier
	Hub         *events.Hub
	JWTSecret   string
	TokenTTL    time.Duration
	AdminAPIKey string
}

// SetupRoutes is the single entry‐point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	if d.Cache == nil {
		d.Cache = cache.Noop()
	}

	// 1️⃣ Public catalog + health
	SetupPublicRoutes(r, d)

	// 2️⃣ Public Auth routes (no middleware)
	SetupAuthRoutes(r, d)

	// 3️⃣ User routes (JWT‐protected)
	SetupUserRoutes(r, d)

	// 4️⃣ Admin routes (API‐Key‐protected)
	SetupAdminRoutes(r, d)
}
