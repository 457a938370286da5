package productcontroller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	errUnknownCategory = errors.New("category does not exist")
	errUnknownSize     = errors.New("one or more sizes do not exist")
	errNegativePrice   = errors.New("price must not be negative")
)

type ProductInput struct {
	Name        string           `json:"name" binding:"required,max=255"`
	Description string           `json:"description"`
	Materials   string           `json:"materials"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	CategoryID  *uint            `json:"category_id"`
	SizeIDs     []uint           `json:"size_ids"`
}

func checkCategory(db *gorm.DB, id *uint) error {
	if id == nil {
		return nil
	}
	var n int64
	if err := db.Model(&models.Category{}).Where("id = ?", *id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return errUnknownCategory
	}
	return nil
}

func loadSizes(db *gorm.DB, ids []uint) ([]models.Size, error) {
	if len(ids) == 0 {
		return []models.Size{}, nil
	}
	var sizes []models.Size
	if err := db.Where("id IN ?", ids).Find(&sizes).Error; err != nil {
		return nil, err
	}
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	if len(sizes) != len(unique) {
		return nil, errUnknownSize
	}
	return sizes, nil
}

// loadProduct fetches a product with everything the detail view shows.
func loadProduct(db *gorm.DB, id interface{}) (*models.Product, error) {
	var product models.Product
	err := db.
		Preload("Category").
		Preload("Sizes").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, id") }).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func invalidateProducts(ctx context.Context, pc cache.ProductCache, ids ...uint) {
	if pc == nil {
		return
	}
	if err := pc.Invalidate(ctx, ids...); err != nil {
		log.Warn().Err(err).Uints("product_ids", ids).Msg("product cache invalidation failed")
	}
}

func badProductInput(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, errUnknownCategory), errors.Is(err, errUnknownSize), errors.Is(err, errNegativePrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return true
	}
	return false
}

// CreateProduct creates a product with its category and sizes.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			Name:        strings.TrimSpace(input.Name),
			Description: input.Description,
			Materials:   input.Materials,
			Price:       *input.Price,
			CategoryID:  input.CategoryID,
		}
		if input.Stock != nil {
			product.Stock = *input.Stock
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if product.Price.IsNegative() {
				return errNegativePrice
			}
			if err := checkCategory(tx, input.CategoryID); err != nil {
				return err
			}
			sizes, err := loadSizes(tx, input.SizeIDs)
			if err != nil {
				return err
			}
			product.Sizes = sizes
			return tx.Create(&product).Error
		})
		if err != nil {
			if badProductInput(c, err) {
				return
			}
			log.Error().Err(err).Msg("❌ Failed to create product")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		created, err := loadProduct(db, product.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}
