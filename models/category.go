package models

import (
	"time"
)

// Category controls shopper-facing navigation. Inactive categories are hidden
// from the storefront menu but remain in the catalog for reporting.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"` // derived from name, diacritics stripped
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
