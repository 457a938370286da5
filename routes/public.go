package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	couponControllers "github.com/junaidrashid-git/storefront-api/controllers/coupon"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
)

// SetupPublicRoutes registers the read-only catalog, no auth required.
func SetupPublicRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/products", productcontroller.GetProducts(d.DB))
	r.GET("/products/:id", productcontroller.GetProductByID(d.DB, d.Cache))

	r.GET("/categories", productcontroller.GetAllCategories(d.DB))
	r.GET("/categories/:id", productcontroller.GetCategoryByID(d.DB))

	r.GET("/sizes", productcontroller.GetAllSizes(d.DB))
	r.GET("/sizes/:id", productcontroller.GetSizeByID(d.DB))

	r.GET("/coupons", couponControllers.ListActiveCoupons(d.DB))
}
