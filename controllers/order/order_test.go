package orderControllers

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Omphii/peercart-api/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Listing{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func testPricing() Pricing {
	return Pricing{
		VATRate:     decimal.RequireFromString("0.15"),
		ShippingFee: decimal.NewFromInt(30),
	}
}

func seedCart(t *testing.T, db *gorm.DB, userID string, listing *models.Listing, qty int) {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error)
	require.NoError(t, db.Create(&models.CartLine{
		CartID:               cart.CartID,
		ListingID:            listing.ID,
		ListingName:          listing.Name,
		ListingPrice:         listing.Price,
		ListingOriginalPrice: listing.OriginalPrice,
		Quantity:             qty,
		AddedAt:              time.Now(),
	}).Error)
}

func seedListing(t *testing.T, db *gorm.DB, name string, priceInt int64, qty int) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		SellerID: "seller-1",
		Name:     name,
		Price:    decimal.NewFromInt(priceInt),
		Quantity: qty,
		IsActive: true,
		Status:   models.ListingStatusActive,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func shipTo() CheckoutRequest {
	return CheckoutRequest{
		ShippingAddress: models.Address{
			Country: "NL", City: "Utrecht", Street: "Oudegracht 1", PostalCode: "3511",
		},
	}
}

func TestCheckoutTotalsAndStock(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, "Desk", 100, 5)
	seedCart(t, db, "buyer-1", listing, 2)

	order, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.NoError(t, err)
	require.NotEmpty(t, order.OrderNumber)
	require.Equal(t, models.OrderStatusPending, order.Status)

	// subtotal 200, VAT 30, shipping 30, total 260
	require.True(t, order.Subtotal.Equal(decimal.NewFromInt(200)), order.Subtotal.String())
	require.True(t, order.VATAmount.Equal(decimal.NewFromInt(30)), order.VATAmount.String())
	require.True(t, order.ShippingFee.Equal(decimal.NewFromInt(30)))
	require.True(t, order.TotalAmount.Equal(decimal.NewFromInt(260)), order.TotalAmount.String())

	// stock decremented, snapshot kept
	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	require.Equal(t, 3, reloaded.Quantity)

	require.Len(t, order.Items, 1)
	require.Equal(t, "seller-1", order.Items[0].SellerID)
	require.Equal(t, 2, order.Items[0].Quantity)
	require.True(t, order.Items[0].TotalPrice.Equal(decimal.NewFromInt(200)))

	// cart cleared
	var lineRows int64
	require.NoError(t, db.Model(&models.CartLine{}).Count(&lineRows).Error)
	require.EqualValues(t, 0, lineRows)
}

func TestCheckoutDiscountFromOriginalPrice(t *testing.T) {
	db := setupTestDB(t)
	listing := &models.Listing{
		SellerID:      "seller-1",
		Name:          "Marked Down Chair",
		Price:         decimal.NewFromInt(60),
		OriginalPrice: decimal.NewNullDecimal(decimal.NewFromInt(90)),
		Quantity:      2,
		IsActive:      true,
		Status:        models.ListingStatusActive,
	}
	require.NoError(t, db.Create(listing).Error)
	seedCart(t, db, "buyer-1", listing, 2)

	order, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.NoError(t, err)
	require.True(t, order.DiscountAmount.Equal(decimal.NewFromInt(60)), order.DiscountAmount.String())
}

func TestCheckoutInsufficientStockAborts(t *testing.T) {
	db := setupTestDB(t)
	cheap := seedListing(t, db, "Cheap", 10, 5)
	scarce := seedListing(t, db, "Scarce", 10, 1)
	seedCart(t, db, "buyer-1", cheap, 2)
	seedCart(t, db, "buyer-1", scarce, 3)

	_, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Scarce")

	// The whole transaction rolled back: no order, stock untouched, cart intact.
	var orderRows int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderRows).Error)
	require.EqualValues(t, 0, orderRows)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, cheap.ID).Error)
	require.Equal(t, 5, reloaded.Quantity)

	var lineRows int64
	require.NoError(t, db.Model(&models.CartLine{}).Count(&lineRows).Error)
	require.EqualValues(t, 2, lineRows)
}

func TestCheckoutExhaustedListingFlipsToSold(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, "Last One", 25, 2)
	seedCart(t, db, "buyer-1", listing, 2)

	_, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.NoError(t, err)

	var reloaded models.Listing
	require.NoError(t, db.First(&reloaded, listing.ID).Error)
	require.Equal(t, 0, reloaded.Quantity)
	require.Equal(t, models.ListingStatusSold, reloaded.Status)
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)

	_, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, "Desk", 100, 5)
	seedCart(t, db, "buyer-1", listing, 1)

	placed, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.NoError(t, err)

	// owner sees the order
	got, err := GetOrder(db, "buyer-1", placed.ID)
	require.NoError(t, err)
	require.Equal(t, placed.OrderNumber, got.OrderNumber)

	// another authenticated user gets a permission error, not "not found"
	_, err = GetOrder(db, "buyer-2", placed.ID)
	require.ErrorIs(t, err, ErrNotOrderOwner)

	// a missing order is "not found"
	_, err = GetOrder(db, "buyer-1", placed.ID+999)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestAddressBlobsParseDefensively(t *testing.T) {
	db := setupTestDB(t)
	listing := seedListing(t, db, "Desk", 100, 5)
	seedCart(t, db, "buyer-1", listing, 1)

	placed, err := Checkout(db, testPricing(), "buyer-1", shipTo())
	require.NoError(t, err)

	got, err := GetOrder(db, "buyer-1", placed.ID)
	require.NoError(t, err)

	addr := models.ParseAddress(got.ShippingAddress)
	require.NotNil(t, addr)
	require.Equal(t, "Utrecht", addr.City)

	// a corrupted blob renders as no address, never as an error
	require.Nil(t, models.ParseAddress(json.RawMessage(`{"city": `)))
	require.Nil(t, models.ParseAddress(nil))
}
