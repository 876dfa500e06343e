package models

import "time"

type TestimonialStatus string

const (
	TestimonialStatusPending  TestimonialStatus = "pending"
	TestimonialStatusApproved TestimonialStatus = "approved"
	TestimonialStatusRejected TestimonialStatus = "rejected"
)

type Testimonial struct {
	ID         uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string            `gorm:"index;not null" json:"user_id"`
	User       User              `gorm:"foreignKey:UserID" json:"-"`
	Rating     int               `gorm:"not null" json:"rating"` // 1..5
	Content    string            `gorm:"not null" json:"content"`
	Status     TestimonialStatus `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	IsFeatured bool              `gorm:"default:false" json:"is_featured"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}
