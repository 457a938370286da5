package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	couponControllers "github.com/junaidrashid-git/storefront-api/controllers/coupon"
	orderControllers "github.com/junaidrashid-git/storefront-api/controllers/order"
	paymentControllers "github.com/junaidrashid-git/storefront-api/controllers/payment"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires API‐Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		// ─────────── Admin & User Management ───────────
		adminGroup.GET("/admins", adminController.GetAllAdmins(d.DB))
		adminGroup.GET("/users", userControllers.GetAllUsers(d.DB))
		adminGroup.PUT("/users/:id/role", userControllers.UpdateUserRole(d.DB))
		adminGroup.GET("/stats", adminController.GetDashboardStats(d.DB))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productcontroller.CreateProduct(d.DB))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.DB, d.Cache))
			productAdmin.GET("", productcontroller.GetProducts(d.DB))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.DB, d.Cache))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.DB, d.Cache))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.DB))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(d.DB, d.Cache))
			categoryAdmin.GET("", productcontroller.GetAllCategories(d.DB))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.DB, d.Cache))
		}

		// ─────────── Size Management ───────────
		sizeAdmin := adminGroup.Group("/sizes")
		{
			sizeAdmin.POST("", productcontroller.CreateSize(d.DB))
			sizeAdmin.PUT("/:id", productcontroller.UpdateSize(d.DB, d.Cache))
			sizeAdmin.DELETE("/:id", productcontroller.DeleteSize(d.DB, d.Cache))
		}

		// ─────────── Orders & Payments ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.DB))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.DB))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(d.DB))
		}
		adminGroup.PUT("/payments/:id/status", paymentControllers.UpdatePaymentStatus(d.DB))

		// websocket endpoint for real-time order updates
		if d.Hub != nil {
			adminGroup.GET("/ws/orders", orderControllers.OrderWebSocketHandler(d.Hub))
		}

		// ─────────── Coupons ───────────
		adminGroup.POST("/coupons", couponControllers.CreateCoupon(d.DB))

		cartMgmt := adminGroup.Group("/user-cart")
		{
			cartMgmt.GET("/:user_id", cartControllers.GetAdminUserCart(d.DB))
		}
	}
}
