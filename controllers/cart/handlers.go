package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/cache"
	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

type MutationRequest struct {
	Action    string `form:"action" json:"action" binding:"required"`
	ListingID uint   `form:"listing_id" json:"listing_id"`
	// Pointer so an explicit quantity=0 (delete on update) is
	// distinguishable from an absent field (defaults to 1).
	Quantity *int `form:"quantity" json:"quantity"`
}

// MutationResponse is the contract the storefront cart script consumes.
type MutationResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	CartCount  int    `json:"cart_count"`
	IsLoggedIn bool   `json:"is_logged_in"`
}

// POST /cart
//
// One endpoint for all cart mutations: add, update, remove, clear.
func Mutate(db *gorm.DB, counts *cache.CartCountCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req MutationRequest
		if err := c.ShouldBind(&req); err != nil {
			respond(c, db, counts, identity, http.StatusBadRequest, false, "Invalid input: "+err.Error())
			return
		}
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}

		var err error
		var success string
		switch req.Action {
		case "add":
			err = AddLine(db, identity, req.ListingID, quantity)
			success = "Added to cart"
		case "update":
			err = UpdateLine(db, identity, req.ListingID, quantity)
			success = "Cart updated"
		case "remove":
			err = RemoveLine(db, identity, req.ListingID)
			success = "Removed from cart"
		case "clear":
			err = Clear(db, identity)
			success = "Cart cleared"
		default:
			respond(c, db, counts, identity, http.StatusBadRequest, false, "Unknown action")
			return
		}

		counts.Invalidate(c.Request.Context(), identity.ID)

		if err != nil {
			status, msg := mutationError(err)
			respond(c, db, counts, identity, status, false, msg)
			return
		}
		respond(c, db, counts, identity, http.StatusOK, true, success)
	}
}

// GET /cart
func Get(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if identity.IsGuest {
			lines, err := GuestLines(db, identity.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"lines": lines, "is_logged_in": false})
			return
		}

		lines, err := UserLines(db, identity.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"lines": lines, "is_logged_in": true})
	}
}

// GET /cart/count
//
// Served from Redis when available so storefront badges stay cheap.
func GetCount(db *gorm.DB, counts *cache.CartCountCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		if n, hit := counts.Get(c.Request.Context(), identity.ID); hit {
			c.JSON(http.StatusOK, gin.H{"cart_count": n, "is_logged_in": !identity.IsGuest})
			return
		}

		n, err := Count(db, identity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart count"})
			return
		}
		counts.Set(c.Request.Context(), identity.ID, n)
		c.JSON(http.StatusOK, gin.H{"cart_count": n, "is_logged_in": !identity.IsGuest})
	}
}

func mutationError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrListingNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, ErrListingUnavailable),
		errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrLineNotFound),
		errors.Is(err, ErrInvalidQuantity):
		return http.StatusBadRequest, err.Error()
	default:
		log.Error().Err(err).Msg("cart mutation failed")
		return http.StatusInternalServerError, "Something went wrong, please try again later"
	}
}

func respond(c *gin.Context, db *gorm.DB, counts *cache.CartCountCache, identity models.Identity, status int, success bool, message string) {
	count, err := Count(db, identity)
	if err != nil {
		log.Error().Err(err).Msg("cart count failed")
	} else {
		counts.Set(c.Request.Context(), identity.ID, count)
	}
	c.JSON(status, MutationResponse{
		Success:    success,
		Message:    message,
		CartCount:  count,
		IsLoggedIn: !identity.IsGuest,
	})
}
