package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"   // Visible and purchasable
	ListingStatusInactive ListingStatus = "inactive" // Hidden by the seller
	ListingStatusSold     ListingStatus = "sold"     // Stock exhausted
)

type Listing struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID      string `gorm:"index;not null" json:"seller_id"`
	Seller        User   `gorm:"foreignKey:SellerID" json:"-"`
	CategoryID    uint   `gorm:"index" json:"category_id"`
	Name          string `gorm:"not null" json:"name"`
	Description   string `json:"description"`
	Condition     string `json:"condition"` // e.g. "new", "like_new", "used"
	City          string `gorm:"index" json:"city"`
	Image         string `json:"image"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"original_price"`
	Quantity      int                 `gorm:"not null;default:0" json:"quantity"`
	IsActive      bool                `gorm:"default:true" json:"is_active"`
	Status        ListingStatus       `gorm:"type:VARCHAR(20);default:'active'" json:"status"`
	IsFeatured    bool                `gorm:"default:false" json:"is_featured"`
	Views         int                 `gorm:"default:0" json:"views"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"-"`
}

// Purchasable reports whether the listing can be added to a cart.
func (l *Listing) Purchasable() bool {
	return l.IsActive && l.Status == ListingStatusActive && l.Quantity > 0
}
