package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/config"
	sellerControllers "github.com/Omphii/peercart-api/controllers/seller"
	"github.com/Omphii/peercart-api/middleware"
)

// SetupSellerRoutes registers the seller tools behind the seller guard.
func SetupSellerRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	seller := r.Group("/seller")
	seller.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireSeller(db))
	{
		seller.GET("/dashboard", sellerControllers.Dashboard(db))
		seller.GET("/listings", sellerControllers.GetOwnListings(db))
		seller.GET("/listings/export", sellerControllers.ExportListings(db))
		seller.POST("/listings", sellerControllers.CreateListing(db))
		seller.PUT("/listings/:id", sellerControllers.UpdateListing(db))
		seller.DELETE("/listings/:id", sellerControllers.DeleteListing(db))
		seller.POST("/listings/:id/toggle-status", sellerControllers.ToggleListingStatus(db))
		seller.POST("/listings/:id/toggle-featured", sellerControllers.ToggleListingFeatured(db))
	}
}
