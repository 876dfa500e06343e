package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/cache"
	"github.com/Omphii/peercart-api/config"
	cartControllers "github.com/Omphii/peercart-api/controllers/cart"
	"github.com/Omphii/peercart-api/middleware"
)

// SetupCartRoutes registers the cart endpoints. Both authenticated users and
// guests carry a token, so the whole group sits behind the token middleware.
func SetupCartRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, counts *cache.CartCountCache) {
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		cartGroup.GET("/", cartControllers.Get(db))
		cartGroup.GET("/count", cartControllers.GetCount(db, counts))
		cartGroup.POST("/", cartControllers.Mutate(db, counts))
	}
}
