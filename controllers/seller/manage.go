package sellerControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

// Every mutation below re-verifies ownership with a seller_id guard in the
// WHERE clause; nothing is updated when that check fails.

type ListingInput struct {
	Name          string  `json:"name" binding:"required"`
	Description   string  `json:"description"`
	Condition     string  `json:"condition"`
	City          string  `json:"city"`
	Image         string  `json:"image"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	OriginalPrice float64 `json:"original_price"`
	Quantity      int     `json:"quantity" binding:"min=0"`
	CategoryID    uint    `json:"category_id"`
}

// POST /seller/listings
func CreateListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var input ListingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		listing := models.Listing{
			SellerID:    identity.ID,
			CategoryID:  input.CategoryID,
			Name:        input.Name,
			Description: input.Description,
			Condition:   input.Condition,
			City:        input.City,
			Image:       input.Image,
			Price:       decimal.NewFromFloat(input.Price),
			Quantity:    input.Quantity,
			IsActive:    true,
			Status:      models.ListingStatusActive,
		}
		if input.OriginalPrice > 0 {
			listing.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromFloat(input.OriginalPrice))
		}

		if err := db.Create(&listing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
			return
		}
		c.JSON(http.StatusCreated, listing)
	}
}

// PUT /seller/listings/:id
func UpdateListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		listing, ok := ownedListing(c, db, identity.ID)
		if !ok {
			return
		}

		var input ListingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		listing.Name = input.Name
		listing.Description = input.Description
		listing.Condition = input.Condition
		listing.City = input.City
		listing.Image = input.Image
		listing.Price = decimal.NewFromFloat(input.Price)
		listing.Quantity = input.Quantity
		listing.CategoryID = input.CategoryID
		if input.OriginalPrice > 0 {
			listing.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromFloat(input.OriginalPrice))
		} else {
			listing.OriginalPrice = decimal.NullDecimal{}
		}

		if err := db.Save(listing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

// DELETE /seller/listings/:id
//
// Soft delete: the listing drops out of the catalog but stays referenced by
// past orders.
func DeleteListing(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		listing, ok := ownedListing(c, db, identity.ID)
		if !ok {
			return
		}

		result := db.Model(&models.Listing{}).
			Where("id = ? AND seller_id = ?", listing.ID, identity.ID).
			Updates(map[string]interface{}{
				"is_active": false,
				"status":    models.ListingStatusInactive,
			})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Listing removed"})
	}
}

// POST /seller/listings/:id/toggle-status
func ToggleListingStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		listing, ok := ownedListing(c, db, identity.ID)
		if !ok {
			return
		}

		newStatus := models.ListingStatusActive
		if listing.Status == models.ListingStatusActive {
			newStatus = models.ListingStatusInactive
		}

		result := db.Model(&models.Listing{}).
			Where("id = ? AND seller_id = ?", listing.ID, identity.ID).
			Updates(map[string]interface{}{
				"status":    newStatus,
				"is_active": newStatus == models.ListingStatusActive,
			})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": newStatus})
	}
}

// POST /seller/listings/:id/toggle-featured
func ToggleListingFeatured(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)
		listing, ok := ownedListing(c, db, identity.ID)
		if !ok {
			return
		}

		result := db.Model(&models.Listing{}).
			Where("id = ? AND seller_id = ?", listing.ID, identity.ID).
			Update("is_featured", !listing.IsFeatured)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Featured flag updated", "is_featured": !listing.IsFeatured})
	}
}

// DashboardStats is the seller overview block.
type DashboardStats struct {
	TotalListings    int64 `json:"total_listings"`
	ActiveListings   int64 `json:"active_listings"`
	FeaturedListings int64 `json:"featured_listings"`
	TotalViews       int64 `json:"total_views"`
}

// GET /seller/dashboard
func Dashboard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var stats DashboardStats
		base := db.Model(&models.Listing{}).Where("seller_id = ?", identity.ID)

		if err := base.Session(&gorm.Session{}).Count(&stats.TotalListings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}
		if err := base.Session(&gorm.Session{}).
			Where("is_active = ? AND status = ?", true, models.ListingStatusActive).
			Count(&stats.ActiveListings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}
		if err := base.Session(&gorm.Session{}).
			Where("is_featured = ?", true).
			Count(&stats.FeaturedListings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}

		if err := db.Model(&models.Listing{}).
			Where("seller_id = ?", identity.ID).
			Select("COALESCE(SUM(views), 0)").
			Scan(&stats.TotalViews).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
			return
		}

		c.JSON(http.StatusOK, stats)
	}
}

// GET /seller/listings
func GetOwnListings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, _ := middleware.GetIdentity(c)

		var listings []models.Listing
		if err := db.Where("seller_id = ?", identity.ID).
			Order("created_at DESC").
			Find(&listings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listings"})
			return
		}
		c.JSON(http.StatusOK, listings)
	}
}

// ownedListing loads the path listing and enforces the seller_id guard.
// It writes the error response itself when the check fails.
func ownedListing(c *gin.Context, db *gorm.DB, sellerID string) (*models.Listing, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing ID"})
		return nil, false
	}

	var listing models.Listing
	if err := db.Where("id = ? AND seller_id = ?", id, sellerID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Not your listing"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch listing"})
		}
		return nil, false
	}
	return &listing, true
}
