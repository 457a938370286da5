package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/junaidrashid-git/storefront-api/models"
	"gorm.io/gorm"
)

type SizeInput struct {
	Name string `json:"name" binding:"required,max=20"`
}

func productsWithSize(db *gorm.DB, sizeID uint) ([]uint, error) {
	var ids []uint
	err := db.Table("product_sizes").Where("size_id = ?", sizeID).Pluck("product_id", &ids).Error
	return ids, err
}

func GetAllSizes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sizes []models.Size
		if err := db.Order("id").Find(&sizes).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sizes"})
			return
		}
		c.JSON(http.StatusOK, sizes)
	}
}

func GetSizeByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var size models.Size
		if err := db.First(&size, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch size"})
			return
		}
		c.JSON(http.StatusOK, size)
	}
}

func CreateSize(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SizeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := strings.TrimSpace(input.Name)

		var n int64
		if err := db.Model(&models.Size{}).Where("name = ?", name).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create size"})
			return
		}
		if n > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Size already exists"})
			return
		}

		size := models.Size{Name: name}
		if err := db.Create(&size).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create size"})
			return
		}
		c.JSON(http.StatusCreated, size)
	}
}

func UpdateSize(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var size models.Size
		if err := db.First(&size, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
			return
		}

		var input SizeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		size.Name = strings.TrimSpace(input.Name)

		var affected []uint
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			if affected, err = productsWithSize(tx, size.ID); err != nil {
				return err
			}
			return tx.Save(&size).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update size"})
			return
		}
		invalidateProducts(c.Request.Context(), pc, affected...)
		c.JSON(http.StatusOK, size)
	}
}

// DeleteSize also drops the size from every product that offered it.
func DeleteSize(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var size models.Size
		if err := db.First(&size, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Size not found"})
			return
		}

		var affected []uint
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			if affected, err = productsWithSize(tx, size.ID); err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM product_sizes WHERE size_id = ?", size.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&size).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete size"})
			return
		}
		invalidateProducts(c.Request.Context(), pc, affected...)
		c.Status(http.StatusNoContent)
	}
}
