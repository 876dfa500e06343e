package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Omphii/peercart-api/models"
)

const identityKey = "identity"

// ValidateToken parses the Authorization bearer token and stores the caller's
// identity (user or guest, depending on the role claim) in the request
// context. Requests without a valid token are rejected.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityFromHeader(c, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireUser rejects guests. Must run after ValidateToken.
func RequireUser(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok || identity.IsGuest {
		c.JSON(http.StatusForbidden, gin.H{"error": "Sign in required"})
		c.Abort()
		return
	}
	c.Next()
}

// GetIdentity returns the identity stored by the token middleware.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := v.(models.Identity)
	return identity, ok
}

func identityFromHeader(c *gin.Context, secret string) (models.Identity, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return models.Identity{}, errors.New("Authorization header is missing")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Identity{}, errors.New("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.Identity{}, errors.New("Invalid token claims")
	}
	id, _ := claims["user_id"].(string)
	if id == "" {
		return models.Identity{}, errors.New("Invalid token claims")
	}
	role, _ := claims["role"].(string)
	if role == "guest" {
		return models.GuestIdentity(id), nil
	}
	return models.UserIdentity(id), nil
}
