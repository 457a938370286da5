package adminController

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultLowStock = 5

// GET /admin/admins lists users whose profile carries the admin role.
func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.User

		if err := db.
			Preload("Profile").
			Where("id IN (?)", db.Model(&models.UserProfile{}).Select("user_id").Where("role = ?", models.RoleAdmin)).
			Order("id").
			Find(&admins).Error; err != nil {
			log.Error().Err(err).Msg("❌ Failed to fetch admins")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}

		c.JSON(http.StatusOK, admins)
	}
}

type statusCount struct {
	Status models.OrderStatus `json:"status"`
	Count  int64              `json:"count"`
}

// GET /admin/stats?low_stock=5
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		threshold := defaultLowStock
		if v := c.Query("low_stock"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid low_stock"})
				return
			}
			threshold = n
		}

		var byStatus []statusCount
		if err := db.Model(&models.Order{}).
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("status").
			Scan(&byStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute order stats"})
			return
		}

		// Summed in Go so the decimal stays exact on every driver.
		var totals []decimal.Decimal
		if err := db.Model(&models.Order{}).
			Where("status <> ?", models.OrderStatusCancelled).
			Pluck("total_price", &totals).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute revenue"})
			return
		}
		revenue := decimal.Sum(decimal.Zero, totals...)

		var lowStock []models.Product
		if err := db.Where("stock <= ?", threshold).Order("stock, id").Find(&lowStock).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch low stock products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orders_by_status": byStatus,
			"revenue":          revenue.StringFixed(2),
			"low_stock":        lowStock,
		})
	}
}
