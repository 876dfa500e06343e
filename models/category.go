package models

type Category struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string    `gorm:"unique;not null" json:"name"`
	Slug     string    `gorm:"unique;not null" json:"slug"`
	Listings []Listing `gorm:"foreignKey:CategoryID" json:"-"`
}
