package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GuestCart is the session-scoped cart for unauthenticated visitors. It lives
// in its own table pair so guest mutations never touch the user cart table.
type GuestCart struct {
	CartID    uint            `gorm:"primaryKey" json:"cart_id"`
	GuestID   string          `gorm:"uniqueIndex" json:"guest_id"` // Enforces ONE cart per guest
	Lines     []GuestCartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type GuestCartLine struct {
	ID                   uint `gorm:"primaryKey" json:"id"`
	CartID               uint `gorm:"index" json:"cart_id"`
	ListingID            uint `gorm:"index" json:"listing_id"`
	ListingName          string              `json:"listing_name"`
	ListingImage         string              `json:"listing_image"`
	ListingPrice         decimal.Decimal     `gorm:"type:decimal(12,2)" json:"listing_price"`
	ListingOriginalPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"listing_original_price"`
	Quantity             int                 `json:"quantity"`
	AddedAt              time.Time           `json:"added_at"`
}
