package testimonialControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Omphii/peercart-api/middleware"
	"github.com/Omphii/peercart-api/models"
)

var (
	ErrAlreadySubmitted = errors.New("you have already submitted a testimonial")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrEmptyContent     = errors.New("testimonial content is required")
)

type TestimonialInput struct {
	Rating  int    `json:"rating" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// Submit creates a pending testimonial. One testimonial per user, checked at
// submission time.
func Submit(db *gorm.DB, userID string, rating int, content string) (*models.Testimonial, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	var count int64
	if err := db.Model(&models.Testimonial{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadySubmitted
	}

	testimonial := models.Testimonial{
		UserID:  userID,
		Rating:  rating,
		Content: strings.TrimSpace(content),
		Status:  models.TestimonialStatusPending,
	}
	if err := db.Create(&testimonial).Error; err != nil {
		return nil, err
	}
	return &testimonial, nil
}

// POST /testimonials
func SubmitHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		if !ok || identity.IsGuest {
			c.JSON(http.StatusForbidden, gin.H{"error": "Sign in required"})
			return
		}

		var input TestimonialInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		testimonial, err := Submit(db, identity.ID, input.Rating, input.Content)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidRating), errors.Is(err, ErrEmptyContent):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, ErrAlreadySubmitted):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit testimonial"})
			}
			return
		}
		c.JSON(http.StatusCreated, testimonial)
	}
}

// GET /testimonials
//
// Public list: approved only, featured first, newest within each group.
func ListHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var testimonials []models.Testimonial
		if err := db.Where("status = ?", models.TestimonialStatusApproved).
			Order("is_featured DESC").
			Order("created_at DESC").
			Find(&testimonials).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch testimonials"})
			return
		}
		c.JSON(http.StatusOK, testimonials)
	}
}
