package cartControllers

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/models"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrListingNotFound    = errors.New("listing does not exist")
	ErrListingUnavailable = errors.New("listing is not available")
	ErrInsufficientStock  = errors.New("not enough stock available")
	ErrLineNotFound       = errors.New("cart line not found")
)

// AddLine puts a listing into the owner's cart, accumulating quantity when the
// line already exists. The combined quantity may never exceed the listing's
// current stock; a failed check leaves the cart untouched.
func AddLine(db *gorm.DB, owner models.Identity, listingID uint, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	return db.Transaction(func(tx *gorm.DB) error {
		listing, err := purchasableListing(tx, listingID)
		if err != nil {
			return err
		}
		if owner.IsGuest {
			return addGuestLine(tx, owner.ID, listing, quantity)
		}
		return addUserLine(tx, owner.ID, listing, quantity)
	})
}

// UpdateLine overwrites the quantity of an existing line. A quantity of zero
// or less deletes the line; otherwise the new quantity is re-validated
// against current stock. A missing line is an error.
func UpdateLine(db *gorm.DB, owner models.Identity, listingID uint, quantity int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if owner.IsGuest {
			return updateGuestLine(tx, owner.ID, listingID, quantity)
		}
		return updateUserLine(tx, owner.ID, listingID, quantity)
	})
}

// RemoveLine deletes a line. Removing a line that is not there is a no-op, the
// same as Clear on an empty cart.
func RemoveLine(db *gorm.DB, owner models.Identity, listingID uint) error {
	if owner.IsGuest {
		var cart models.GuestCart
		if err := db.Where("guest_id = ?", owner.ID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return db.Where("cart_id = ? AND listing_id = ?", cart.CartID, listingID).
			Delete(&models.GuestCartLine{}).Error
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", owner.ID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ? AND listing_id = ?", cart.CartID, listingID).
		Delete(&models.CartLine{}).Error
}

// Clear removes every line belonging to the owner.
func Clear(db *gorm.DB, owner models.Identity) error {
	if owner.IsGuest {
		var cart models.GuestCart
		if err := db.Where("guest_id = ?", owner.ID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		return db.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartLine{}).Error
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", owner.ID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return db.Where("cart_id = ?", cart.CartID).Delete(&models.CartLine{}).Error
}

// Count returns the number of distinct lines in the owner's cart.
func Count(db *gorm.DB, owner models.Identity) (int, error) {
	var count int64
	if owner.IsGuest {
		err := db.Model(&models.GuestCartLine{}).
			Joins("JOIN guest_carts ON guest_carts.cart_id = guest_cart_lines.cart_id").
			Where("guest_carts.guest_id = ?", owner.ID).
			Count(&count).Error
		return int(count), err
	}
	err := db.Model(&models.CartLine{}).
		Joins("JOIN carts ON carts.cart_id = cart_lines.cart_id").
		Where("carts.user_id = ?", owner.ID).
		Count(&count).Error
	return int(count), err
}

// UserLines returns an authenticated user's cart lines.
func UserLines(db *gorm.DB, userID string) ([]models.CartLine, error) {
	var cart models.Cart
	if err := db.Preload("Lines").Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.CartLine{}, nil
		}
		return nil, err
	}
	return cart.Lines, nil
}

// GuestLines returns a guest's cart lines.
func GuestLines(db *gorm.DB, guestID string) ([]models.GuestCartLine, error) {
	var cart models.GuestCart
	if err := db.Preload("Lines").Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.GuestCartLine{}, nil
		}
		return nil, err
	}
	return cart.Lines, nil
}

// purchasableListing loads a listing and rejects ones that cannot be bought.
func purchasableListing(tx *gorm.DB, listingID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := tx.First(&listing, "id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if !listing.Purchasable() {
		return nil, ErrListingUnavailable
	}
	return &listing, nil
}

func addUserLine(tx *gorm.DB, userID string, listing *models.Listing, quantity int) error {
	var cart models.Cart
	if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return err
	}

	var line models.CartLine
	err := tx.Where("cart_id = ? AND listing_id = ?", cart.CartID, listing.ID).First(&line).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if quantity > listing.Quantity {
			return ErrInsufficientStock
		}
		return tx.Create(&models.CartLine{
			CartID:               cart.CartID,
			ListingID:            listing.ID,
			ListingName:          listing.Name,
			ListingImage:         listing.Image,
			ListingPrice:         listing.Price,
			ListingOriginalPrice: listing.OriginalPrice,
			Quantity:             quantity,
			AddedAt:              time.Now(),
		}).Error
	}

	if line.Quantity+quantity > listing.Quantity {
		return ErrInsufficientStock
	}
	line.Quantity += quantity
	line.AddedAt = time.Now()
	return tx.Save(&line).Error
}

func addGuestLine(tx *gorm.DB, guestID string, listing *models.Listing, quantity int) error {
	var cart models.GuestCart
	if err := tx.Where(models.GuestCart{GuestID: guestID}).FirstOrCreate(&cart).Error; err != nil {
		return err
	}

	var line models.GuestCartLine
	err := tx.Where("cart_id = ? AND listing_id = ?", cart.CartID, listing.ID).First(&line).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if quantity > listing.Quantity {
			return ErrInsufficientStock
		}
		return tx.Create(&models.GuestCartLine{
			CartID:               cart.CartID,
			ListingID:            listing.ID,
			ListingName:          listing.Name,
			ListingImage:         listing.Image,
			ListingPrice:         listing.Price,
			ListingOriginalPrice: listing.OriginalPrice,
			Quantity:             quantity,
			AddedAt:              time.Now(),
		}).Error
	}

	if line.Quantity+quantity > listing.Quantity {
		return ErrInsufficientStock
	}
	line.Quantity += quantity
	line.AddedAt = time.Now()
	return tx.Save(&line).Error
}

func updateUserLine(tx *gorm.DB, userID string, listingID uint, quantity int) error {
	var cart models.Cart
	if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		return err
	}

	var line models.CartLine
	if err := tx.Where("cart_id = ? AND listing_id = ?", cart.CartID, listingID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		return err
	}

	if quantity <= 0 {
		return tx.Delete(&line).Error
	}

	listing, err := purchasableListing(tx, listingID)
	if err != nil {
		return err
	}
	if quantity > listing.Quantity {
		return ErrInsufficientStock
	}

	line.Quantity = quantity
	line.AddedAt = time.Now()
	return tx.Save(&line).Error
}

func updateGuestLine(tx *gorm.DB, guestID string, listingID uint, quantity int) error {
	var cart models.GuestCart
	if err := tx.Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		return err
	}

	var line models.GuestCartLine
	if err := tx.Where("cart_id = ? AND listing_id = ?", cart.CartID, listingID).First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		return err
	}

	if quantity <= 0 {
		return tx.Delete(&line).Error
	}

	listing, err := purchasableListing(tx, listingID)
	if err != nil {
		return err
	}
	if quantity > listing.Quantity {
		return ErrInsufficientStock
	}

	line.Quantity = quantity
	line.AddedAt = time.Now()
	return tx.Save(&line).Error
}
