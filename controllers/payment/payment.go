package paymentControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentInput struct {
	OrderID       uint             `json:"order_id" binding:"required"`
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string           `json:"payment_method" binding:"required,max=32"`
	TransactionID string           `json:"transaction_id" binding:"max=255"`
}

type UpdatePaymentStatusInput struct {
	Status string `json:"status" binding:"required,oneof=Pending Completed Failed Refunded"`
}

// GET /user/payments
func ListUserPayments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var payments []models.Payment
		if err := db.
			Where("order_id IN (?)", db.Model(&models.Order{}).Select("id").Where("user_id = ?", userID)).
			Order("created_at DESC").
			Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		c.JSON(http.StatusOK, payments)
	}
}

// POST /user/payments
func CreatePayment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CurrentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input PaymentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !input.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
			return
		}

		var order models.Order
		if err := db.Where("id = ? AND user_id = ?", input.OrderID, userID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}

		payment := models.Payment{
			OrderID:       order.ID,
			Amount:        *input.Amount,
			PaymentMethod: input.PaymentMethod,
			Status:        models.PaymentStatusPending,
			TransactionID: input.TransactionID,
		}
		if err := db.Create(&payment).Error; err != nil {
			log.Error().Err(err).Uint("order_id", order.ID).Msg("❌ Failed to record payment")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
			return
		}
		c.JSON(http.StatusCreated, payment)
	}
}

// PUT /admin/payments/:id/status
func UpdatePaymentStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdatePaymentStatusInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		res := db.Model(&models.Payment{}).Where("id = ?", c.Param("id")).Update("status", input.Status)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment status"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Payment status updated successfully", "status": input.Status})
	}
}
