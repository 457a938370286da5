package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/storefront-api/cache"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// Column layout shared by import and export.
var excelHeaders = []string{
	"ID", "Name", "Description", "Materials", "Price", "Stock", "CategoryID", "SizeIDs",
}

func parseIDList(s string) []uint {
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

// ImportProductsFromExcel upserts one product per row. Rows with an existing ID
// update that product, all others are created.
func ImportProductsFromExcel(db *gorm.DB, pc cache.ProductCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse Excel file"})
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or missing header row"})
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0
		var touched []uint

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < 6 {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			name := get(1)
			price, errPrice := decimal.NewFromString(get(4))
			stock, errStock := strconv.Atoi(get(5))
			if name == "" || errPrice != nil || price.IsNegative() || errStock != nil || stock < 0 {
				skippedCount++
				continue
			}

			var categoryID *uint
			if ids := parseIDList(get(6)); len(ids) > 0 {
				if checkCategory(db, &ids[0]) == nil {
					categoryID = &ids[0]
				}
			}
			sizes, err := loadSizes(db, parseIDList(get(7)))
			if err != nil {
				skippedCount++
				continue
			}

			fields := models.Product{
				Name:        name,
				Description: get(2),
				Materials:   get(3),
				Price:       price,
				Stock:       stock,
				CategoryID:  categoryID,
			}

			var existing models.Product
			if id, err := strconv.ParseUint(get(0), 10, 64); err == nil && db.First(&existing, id).Error == nil {
				err := db.Transaction(func(tx *gorm.DB) error {
					if err := tx.Model(&existing).Select("name", "description", "materials", "price", "stock", "category_id").
						Updates(&fields).Error; err != nil {
						return err
					}
					return tx.Model(&existing).Association("Sizes").Replace(sizes)
				})
				if err != nil {
					skippedCount++
					continue
				}
				updatedCount++
				touched = append(touched, existing.ID)
				continue
			}

			// Insert new product
			fields.Sizes = sizes
			if err := db.Create(&fields).Error; err == nil {
				createdCount++
			} else {
				skippedCount++
			}
		}

		if len(touched) > 0 {
			invalidateProducts(c.Request.Context(), pc, touched...)
		}
		log.Info().Int("created", createdCount).Int("updated", updatedCount).Int("skipped", skippedCount).
			Msg("📥 Product import finished")

		c.JSON(http.StatusOK, gin.H{
			"message":       "Import completed",
			"created_count": createdCount,
			"updated_count": updatedCount,
			"skipped_count": skippedCount,
		})
	}
}
