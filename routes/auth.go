package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/auth"
	"github.com/Omphii/peercart-api/config"
	userControllers "github.com/Omphii/peercart-api/controllers/user"
	"github.com/Omphii/peercart-api/middleware"
)

// SetupAuthRoutes registers registration, login, guest identity, and the
// authenticated profile endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db, cfg.JWTSecret))
		authGroup.POST("/guest", auth.CreateGuestUser(db, cfg.JWTSecret))
	}

	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(cfg.JWTSecret))
	{
		userGroup.GET("/", userControllers.GetUser(db))
		userGroup.PUT("/", userControllers.UpdateUser(db))
	}
}
