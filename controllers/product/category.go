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

type CategoryInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateCategoryInput struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	ParentID *uint   `json:"parent_id"`
}

// validParent checks that the parent exists and is not the category itself.
func validParent(db *gorm.DB, selfID uint, parentID *uint) (bool, error) {
	if parentID == nil {
		return true, nil
	}
	if *parentID == selfID {
		return false, nil
	}
	var n int64
	if err := db.Model(&models.Category{}).Where("id = ?", *parentID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// productsInCategory lists the products whose cached detail embeds the category.
func productsInCategory(db *gorm.DB, categoryID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Product{}).Where("category_id = ?", categoryID).Pluck("id", &ids).Error
	return ids, err
}

func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ok, err := validParent(db, 0, input.ParentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate parent category"})
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent_id"})
			return
		}

		category := models.Category{Name: strings.TrimSpace(input.Name), ParentID: input.ParentID}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

// GetAllCategories returns all categories.
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("id").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

func UpdateCategory(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.First(&category, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var input UpdateCategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
			category.Name = strings.TrimSpace(*input.Name)
		}
		if input.ParentID != nil {
			ok, err := validParent(db, category.ID, input.ParentID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate parent category"})
				return
			}
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent_id"})
				return
			}
			category.ParentID = input.ParentID
		}

		var affected []uint
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			if affected, err = productsInCategory(tx, category.ID); err != nil {
				return err
			}
			return tx.Save(&category).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		invalidateProducts(c.Request.Context(), pc, affected...)

		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory detaches products and child categories before removing the row.
func DeleteCategory(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var cat models.Category
		if err := db.First(&cat, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var affected []uint
		err := db.Transaction(func(tx *gorm.DB) error {
			var err error
			if affected, err = productsInCategory(tx, cat.ID); err != nil {
				return err
			}
			if err := tx.Model(&models.Product{}).Where("category_id = ?", cat.ID).
				Update("category_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Category{}).Where("parent_id = ?", cat.ID).
				Update("parent_id", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&cat).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		invalidateProducts(c.Request.Context(), pc, affected...)

		c.Status(http.StatusNoContent)
	}
}
