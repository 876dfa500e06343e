package orderControllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

var (
	ErrEmptyCart = errors.New("cart is empty")
)

// Pricing carries the checkout cost knobs from config.
type Pricing struct {
	VATRate     decimal.Decimal
	ShippingFee decimal.Decimal
}

type CheckoutRequest struct {
	ShippingAddress models.Address  `json:"shipping_address" binding:"required"`
	BillingAddress  *models.Address `json:"billing_address"`
}

// Checkout turns the user's cart into an order. Stock is taken with an atomic
// conditional decrement per line, all inside one transaction, so two
// concurrent checkouts can never oversell a listing. The cart is cleared on
// success.
func Checkout(db *gorm.DB, pricing Pricing, userID string, req CheckoutRequest) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Lines").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	shippingJSON, err := json.Marshal(req.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billingJSON := shippingJSON
	if req.BillingAddress != nil {
		if billingJSON, err = json.Marshal(req.BillingAddress); err != nil {
			return nil, err
		}
	}

	var order *models.Order
	txErr := db.Transaction(func(tx *gorm.DB) error {
		subtotal := decimal.Zero
		discount := decimal.Zero
		var items []models.OrderItem

		for _, line := range cart.Lines {
			var listing models.Listing
			if err := tx.First(&listing, "id = ?", line.ListingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("listing no longer exists: %s", line.ListingName)
				}
				return err
			}

			// Conditional decrement; zero rows affected means the stock
			// check lost against a concurrent buyer.
			result := tx.Model(&models.Listing{}).
				Where("id = ? AND quantity >= ? AND is_active = ? AND status = ?",
					line.ListingID, line.Quantity, true, models.ListingStatusActive).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("not enough stock for listing: %s", line.ListingName)
			}

			// Exhausted listings flip to sold.
			if err := tx.Model(&models.Listing{}).
				Where("id = ? AND quantity = 0", line.ListingID).
				Update("status", models.ListingStatusSold).Error; err != nil {
				return err
			}

			qty := decimal.NewFromInt(int64(line.Quantity))
			lineTotal := line.ListingPrice.Mul(qty)
			subtotal = subtotal.Add(lineTotal)
			if line.ListingOriginalPrice.Valid && line.ListingOriginalPrice.Decimal.GreaterThan(line.ListingPrice) {
				discount = discount.Add(line.ListingOriginalPrice.Decimal.Sub(line.ListingPrice).Mul(qty))
			}

			items = append(items, models.OrderItem{
				ListingID:    line.ListingID,
				SellerID:     listing.SellerID,
				ListingName:  line.ListingName,
				ListingImage: line.ListingImage,
				UnitPrice:    line.ListingPrice,
				Quantity:     line.Quantity,
				TotalPrice:   lineTotal,
			})
		}

		vat := subtotal.Mul(pricing.VATRate).Round(2)
		total := subtotal.Add(pricing.ShippingFee).Add(vat)

		newOrder := models.Order{
			OrderNumber:     generateOrderNumber(),
			UserID:          userID,
			Items:           items,
			Status:          models.OrderStatusPending,
			Subtotal:        subtotal,
			ShippingFee:     pricing.ShippingFee,
			VATAmount:       vat,
			DiscountAmount:  discount,
			TotalAmount:     total,
			ShippingAddress: shippingJSON,
			BillingAddress:  billingJSON,
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartLine{}).Error; err != nil {
			return err
		}

		order = &newOrder
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return order, nil
}

// generateOrderNumber builds the display order number, e.g. 20250908130500-<uuid>.
func generateOrderNumber() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB, pricing Pricing) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok || identity.IsGuest {
			c.JSON(http.StatusForbidden, gin.H{"error": "Sign in required"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		order, err := Checkout(db, pricing, identity.ID, req)
		if err != nil {
			if errors.Is(err, ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Error().Err(err).Str("user_id", identity.ID).Msg("checkout failed")
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		broadcastNewOrder(*order)
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Order placed successfully",
			"order_number": order.OrderNumber,
			"order":        order,
		})
	}
}
