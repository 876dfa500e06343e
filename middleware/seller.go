package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/models"
)

// RequireSeller allows only authenticated users with the seller flag set.
// Must run after ValidateToken.
func RequireSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || identity.IsGuest {
			c.JSON(http.StatusForbidden, gin.H{"error": "Sign in required"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Select("id", "is_seller").First(&user, "id = ?", identity.ID).Error; err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Seller account required"})
			c.Abort()
			return
		}
		if !user.IsSeller {
			c.JSON(http.StatusForbidden, gin.H{"error": "Seller account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
