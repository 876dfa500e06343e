package sellerControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

// GET /seller/listings/export
//
// Downloads the seller's own listings as a spreadsheet.
func ExportListings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var listings []models.Listing
		if err := db.Where("seller_id = ?", identity.ID).
			Order("created_at DESC").
			Find(&listings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Listings")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Name", "Condition", "City", "Price", "OriginalPrice",
			"Quantity", "Status", "Featured", "Views", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, l := range listings {
			row := sheet.AddRow()
			row.AddCell().SetValue(l.ID)
			row.AddCell().SetValue(l.Name)
			row.AddCell().SetValue(l.Condition)
			row.AddCell().SetValue(l.City)
			row.AddCell().SetValue(l.Price.String())
			if l.OriginalPrice.Valid {
				row.AddCell().SetValue(l.OriginalPrice.Decimal.String())
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(l.Quantity)
			row.AddCell().SetValue(string(l.Status))
			row.AddCell().SetValue(l.IsFeatured)
			row.AddCell().SetValue(l.Views)
			row.AddCell().SetValue(l.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=listings.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
