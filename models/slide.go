package models

import (
	"time"
)

// Slide is a storefront carousel entry. Title may embed simple markup.
type Slide struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Subtitle  string    `json:"subtitle"`
	ImageURL  string    `json:"image_url"`
	CTAText   string    `json:"cta_text"`
	CTALink   string    `json:"cta_link"`
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Slide model
func (Slide) TableName() string {
	return "slides"
}
