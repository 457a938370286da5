package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type ProductImageInput struct {
	ImageURL  string `json:"image_url" binding:"required,url"`
	AltText   string `json:"alt_text" binding:"max=255"`
	IsPrimary bool   `json:"is_primary"`
}

type UpdateProductImageInput struct {
	ImageURL  *string `json:"image_url" binding:"omitempty,url"`
	AltText   *string `json:"alt_text" binding:"omitempty,max=255"`
	IsPrimary *bool   `json:"is_primary"`
}

// A product has at most one primary image.
func clearPrimary(tx *gorm.DB, productID, keepID uint) error {
	return tx.Model(&models.ProductImage{}).
		Where("product_id = ? AND id <> ? AND is_primary = ?", productID, keepID, true).
		Update("is_primary", false).Error
}

func findImage(db *gorm.DB, c *gin.Context) (*models.ProductImage, bool) {
	var img models.ProductImage
	err := db.Where("id = ? AND product_id = ?", c.Param("image_id"), c.Param("id")).First(&img).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product image not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product image"})
		}
		return nil, false
	}
	return &img, true
}

// POST /user/products/:id/images
func CreateProductImage(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input ProductImageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		img := models.ProductImage{
			ProductID: product.ID,
			ImageURL:  input.ImageURL,
			AltText:   input.AltText,
			IsPrimary: input.IsPrimary,
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
			if img.IsPrimary {
				return clearPrimary(tx, product.ID, img.ID)
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save product image"})
			return
		}

		invalidateProducts(c.Request.Context(), pc, product.ID)
		c.JSON(http.StatusCreated, img)
	}
}

// PATCH /user/products/:id/images/:image_id
func UpdateProductImage(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, ok := findImage(db, c)
		if !ok {
			return
		}

		var input UpdateProductImageInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if input.ImageURL != nil {
			img.ImageURL = *input.ImageURL
		}
		if input.AltText != nil {
			img.AltText = *input.AltText
		}
		if input.IsPrimary != nil {
			img.IsPrimary = *input.IsPrimary
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(img).Error; err != nil {
				return err
			}
			if img.IsPrimary {
				return clearPrimary(tx, img.ProductID, img.ID)
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product image"})
			return
		}

		invalidateProducts(c.Request.Context(), pc, img.ProductID)
		c.JSON(http.StatusOK, img)
	}
}

// DELETE /user/products/:id/images/:image_id
func DeleteProductImage(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, ok := findImage(db, c)
		if !ok {
			return
		}
		if err := db.Delete(img).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product image"})
			return
		}

		invalidateProducts(c.Request.Context(), pc, img.ProductID)
		c.Status(http.StatusNoContent)
	}
}
