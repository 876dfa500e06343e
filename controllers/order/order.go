package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrNotOrderOwner = errors.New("you do not have permission to view this order")
)

// GetOrder fetches one order for a buyer. An order that exists but belongs to
// another buyer is a permission error, deliberately distinct from not-found.
func GetOrder(db *gorm.DB, userID string, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return &order, nil
}

// GET /orders/:id
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok || identity.IsGuest {
			c.JSON(http.StatusForbidden, gin.H{"error": "Sign in required"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		order, err := GetOrder(db, identity.ID, uint(id))
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrNotOrderOwner):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			}
			return
		}

		// Address blobs are parsed defensively; a bad blob just renders
		// without the structured view.
		c.JSON(http.StatusOK, gin.H{
			"order":            order,
			"shipping_address": models.ParseAddress(order.ShippingAddress),
			"billing_address":  models.ParseAddress(order.BillingAddress),
		})
	}
}

// GET /orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok || identity.IsGuest {
			c.JSON(http.StatusForbidden, gin.H{"error": "Sign in required"})
			return
		}

		var orders []models.Order
		if err := db.Where("user_id = ?", identity.ID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}
