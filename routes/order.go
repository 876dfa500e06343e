package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/config"
	orderControllers "github.com/Omphii/peercart-api/controllers/order"
	"github.com/Omphii/peercart-api/middleware"
)

// SetupOrderRoutes registers checkout and the buyer's order pages.
func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	orders := r.Group("/orders")

	// websocket endpoint for real-time order updates
	orders.GET("/ws", orderControllers.OrderFeedHandler)

	orders.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireUser)
	{
		orders.POST("/checkout", orderControllers.CheckoutHandler(db, orderControllers.Pricing{
			VATRate:     cfg.VATRate,
			ShippingFee: cfg.ShippingFee,
		}))
		orders.GET("/", orderControllers.GetMyOrdersHandler(db))
		orders.GET("/:id", orderControllers.GetOrderByIDHandler(db))
	}
}
