package couponControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type CouponInput struct {
	Code            string           `json:"code" binding:"required,max=50"`
	DiscountPercent *decimal.Decimal `json:"discount_percent" binding:"required"`
	ValidFrom       time.Time        `json:"valid_from" binding:"required"`
	ValidTo         time.Time        `json:"valid_to" binding:"required"`
	Active          *bool            `json:"active"` // defaults to true
}

func (in CouponInput) validate() error {
	if in.DiscountPercent.IsNegative() || in.DiscountPercent.GreaterThan(hundred) {
		return errors.New("discount_percent must be between 0 and 100")
	}
	if !in.ValidTo.After(in.ValidFrom) {
		return errors.New("valid_to must be after valid_from")
	}
	return nil
}

// GET /coupons
func ListActiveCoupons(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var coupons []models.Coupon
		if err := db.Where("active = ?", true).Order("id").Find(&coupons).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch coupons"})
			return
		}
		c.JSON(http.StatusOK, coupons)
	}
}

// POST /admin/coupons
func CreateCoupon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CouponInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := input.validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		code := strings.ToUpper(strings.TrimSpace(input.Code))
		var n int64
		if err := db.Model(&models.Coupon{}).Where("code = ?", code).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
			return
		}
		if n > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Coupon code already exists"})
			return
		}

		coupon := models.Coupon{
			Code:            code,
			DiscountPercent: *input.DiscountPercent,
			ValidFrom:       input.ValidFrom,
			ValidTo:         input.ValidTo,
			Active:          input.Active == nil || *input.Active,
		}
		if err := db.Create(&coupon).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create coupon"})
			return
		}
		c.JSON(http.StatusCreated, coupon)
	}
}
