package testimonialControllers

import (
	"fmt"
	"testing"

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Testimonial{}))
	return db
}

func TestSubmitCreatesPending(t *testing.T) {
	db := setupTestDB(t)

	testimonial, err := Submit(db, "user-1", 5, "  Great marketplace.  ")
	require.NoError(t, err)
	require.Equal(t, models.TestimonialStatusPending, testimonial.Status)
	require.Equal(t, "Great marketplace.", testimonial.Content)
	require.False(t, testimonial.IsFeatured)
}

func TestSubmitValidation(t *testing.T) {
	db := setupTestDB(t)

	_, err := Submit(db, "user-1", 0, "too low")
	require.ErrorIs(t, err, ErrInvalidRating)

	_, err = Submit(db, "user-1", 6, "too high")
	require.ErrorIs(t, err, ErrInvalidRating)

	_, err = Submit(db, "user-1", 3, "   ")
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestOneTestimonialPerUser(t *testing.T) {
	db := setupTestDB(t)

	_, err := Submit(db, "user-1", 4, "First impression")
	require.NoError(t, err)

	_, err = Submit(db, "user-1", 5, "Second thoughts")
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	// other users are unaffected
	_, err = Submit(db, "user-2", 5, "Loving it")
	require.NoError(t, err)
}
