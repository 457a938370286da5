package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	paymentControllers "github.com/junaidrashid-git/storefront-api/controllers/payment"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	reviewControllers "github.com/junaidrashid-git/storefront-api/controllers/review"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

// SetupUserRoutes registers all “/user/*” endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.JWTSecret))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/me", userControllers.GetUser(d.DB))
		userGroup.PUT("/me", userControllers.UpdateUser(d.DB))
		userGroup.GET("/profiles/:username", userControllers.GetProfileByUsername(d.DB))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(d.DB))
			cartGroup.POST("/add", cartControllers.AddToCartHandler(d.DB))
			cartGroup.POST("/remove", cartControllers.RemoveFromCartHandler(d.DB))
			cartGroup.DELETE("", cartControllers.ClearUserCart(d.DB))
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("", orderControllers.PlaceOrderHandler(d.DB, d.Cache, d.Notifier))
			orderGroup.GET("", orderControllers.ListUserOrdersHandler(d.DB))
			orderGroup.GET("/:orderID", orderControllers.GetUserOrderHandler(d.DB))
		}

		// ──────────────── Payments ────────────────
		userGroup.GET("/payments", paymentControllers.ListUserPayments(d.DB))
		userGroup.POST("/payments", paymentControllers.CreatePayment(d.DB))

		// ──────────────── Reviews ────────────────
		userGroup.GET("/products/:id/reviews", reviewControllers.ListProductReviews(d.DB))
		userGroup.POST("/products/:id/reviews", reviewControllers.CreateProductReview(d.DB))

		// ──────────────── Product Images (admin role) ────────────────
		images := userGroup.Group("/products/:id/images", middleware.RequireRole(models.RoleAdmin))
		{
			images.POST("", productcontroller.CreateProductImage(d.DB, d.Cache))
			images.PATCH("/:image_id", productcontroller.UpdateProductImage(d.DB, d.Cache))
			images.DELETE("/:image_id", productcontroller.DeleteProductImage(d.DB, d.Cache))
		}
	}
}
