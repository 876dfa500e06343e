package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/config"
	listingControllers "github.com/Omphii/peercart-api/controllers/listing"
	testimonialControllers "github.com/Omphii/peercart-api/controllers/testimonial"
	"github.com/Omphii/peercart-api/middleware"
)

// SetupShopRoutes registers the storefront endpoints: catalog browsing is
// public, testimonial submission requires a signed-in user.
func SetupShopRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	r.GET("/listings", listingControllers.GetListings(db))
	r.GET("/listings/:id", listingControllers.GetListingByID(db))
	r.GET("/categories", listingControllers.GetCategories(db))

	r.GET("/testimonials", testimonialControllers.ListHandler(db))
	r.POST("/testimonials",
		middleware.ValidateToken(cfg.JWTSecret),
		middleware.RequireUser,
		testimonialControllers.SubmitHandler(db))
}
