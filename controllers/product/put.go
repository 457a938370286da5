package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UpdateProductInput is a partial update, absent fields keep their value.
type UpdateProductInput struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Materials   *string          `json:"materials"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID  *uint            `json:"category_id"`
	SizeIDs     *[]uint          `json:"size_ids"`
}

// UpdateProduct updates an existing product by ID.
func UpdateProduct(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			product.Name = strings.TrimSpace(*input.Name)
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Materials != nil {
			product.Materials = *input.Materials
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}
		if input.CategoryID != nil {
			product.CategoryID = input.CategoryID
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if product.Price.IsNegative() {
				return errNegativePrice
			}
			if err := checkCategory(tx, input.CategoryID); err != nil {
				return err
			}
			if err := tx.Omit("Sizes", "Images", "Category").Save(&product).Error; err != nil {
				return err
			}
			if input.SizeIDs != nil {
				sizes, err := loadSizes(tx, *input.SizeIDs)
				if err != nil {
					return err
				}
				return tx.Model(&product).Association("Sizes").Replace(sizes)
			}
			return nil
		})
		if err != nil {
			if badProductInput(c, err) {
				return
			}
			log.Error().Err(err).Uint64("product_id", id).Msg("❌ Failed to update product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		invalidateProducts(c.Request.Context(), pc, product.ID)

		updated, err := loadProduct(db, product.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
