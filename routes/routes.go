package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/cache"
	"github.com/Omphii/peercart-api/config"
)

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, counts *cache.CartCountCache) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, cfg)

	// Storefront: catalog, listing detail, testimonials
	SetupShopRoutes(r, db, cfg)

	// Cart (token-protected; users and guests)
	SetupCartRoutes(r, db, cfg, counts)

	// Orders and checkout (users only)
	SetupOrderRoutes(r, db, cfg)

	// Seller tools (seller accounts only)
	SetupSellerRoutes(r, db, cfg)
}
