package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GetProductByID returns a single product with category, sizes and images.
// URL param: /products/:id
func GetProductByID(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		ctx := c.Request.Context()

		if pc != nil {
			cached, err := pc.Get(ctx, uint(id))
			if err != nil {
				log.Warn().Err(err).Uint64("product_id", id).Msg("product cache read failed")
			}
			if cached != nil {
				c.Header("X-Cache", "HIT")
				c.JSON(http.StatusOK, cached)
				return
			}
		}

		product, err := loadProduct(db, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
			}
			return
		}

		if pc != nil {
			if err := pc.Set(ctx, product); err != nil {
				log.Warn().Err(err).Uint("product_id", product.ID).Msg("product cache write failed")
			}
			c.Header("X-Cache", "MISS")
		}
		c.JSON(http.StatusOK, product)
	}
}
