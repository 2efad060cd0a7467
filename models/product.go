package models

import (
	"time"
)

// Gender tags accepted on a product.
const (
	GenderMasculine = "masculino"
	GenderFeminine  = "feminino"
	GenderUnisex    = "unissexo"
)

// ValidGender reports whether g is one of the accepted gender tags.
func ValidGender(g string) bool {
	return g == GenderMasculine || g == GenderFeminine || g == GenderUnisex
}

// Product represents a catalog item. Orders keep a denormalized snapshot of
// name/price/image at purchase time, so products may be hard-deleted without
// losing order history.
type Product struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Name          string   `gorm:"not null" json:"name"`
	Description   string   `gorm:"type:text" json:"description"`
	Price         float64  `gorm:"not null" json:"price"`
	SalePrice     *float64 `json:"sale_price"` // only counts as a discount when lower than Price
	CostPrice     float64  `json:"cost_price"`
	Stock         int      `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID    uint     `gorm:"not null;index" json:"category_id"`
	Category      Category `gorm:"foreignKey:CategoryID" json:"category"`
	SubcategoryID *uint    `gorm:"index" json:"subcategory_id,omitempty"`
	Gender        string   `gorm:"not null;default:'unissexo'" json:"gender"`
	BestSeller    bool     `gorm:"default:false" json:"best_seller"`
	TopNotes      string   `json:"top_notes"`
	HeartNotes    string   `json:"heart_notes"`
	BaseNotes     string   `json:"base_notes"`
	ImageURL      string   `json:"image_url"`
	// Percentage of an item subtotal paid to the courier on delivery.
	DeliveryCommissionPct float64   `gorm:"default:0" json:"delivery_commission_pct"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// HasDiscount reports whether the product carries a valid sale price,
// i.e. one strictly lower than the regular price.
func (p *Product) HasDiscount() bool {
	return p.SalePrice != nil && *p.SalePrice < p.Price
}

// EffectivePrice returns the price a shopper pays right now.
func (p *Product) EffectivePrice() float64 {
	if p.HasDiscount() {
		return *p.SalePrice
	}
	return p.Price
}
