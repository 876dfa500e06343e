package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	// Linear progression; cancelled is terminal from any pre-shipping state.
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      string      `gorm:"index;not null" json:"user_id"`
	User        User        `gorm:"foreignKey:UserID" json:"-"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status      OrderStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(12,2)" json:"shipping_fee"`
	VATAmount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"vat_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"discount_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_amount"`

	// Stored as opaque JSON; parse with ParseAddress when rendering.
	ShippingAddress json.RawMessage `gorm:"type:json" json:"shipping_address,omitempty"`
	BillingAddress  json.RawMessage `gorm:"type:json" json:"billing_address,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type OrderItem struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	OrderID      uint   `gorm:"index" json:"order_id"`
	ListingID    uint   `json:"listing_id"`
	SellerID     string `json:"seller_id"`
	ListingName  string `json:"listing_name"`
	ListingImage string `json:"listing_image"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
	Quantity     int             `json:"quantity"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_price"`
}

// ParseAddress decodes a stored address blob. Malformed or empty JSON yields
// nil rather than an error so a bad blob never breaks order rendering.
func ParseAddress(raw json.RawMessage) *Address {
	if len(raw) == 0 {
		return nil
	}
	var addr Address
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil
	}
	return &addr
}
