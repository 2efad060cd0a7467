package models

import (
	"time"
)

// DeliveryDriver is an independent courier. Registration is self-service and
// leaves the driver unverified; only an explicit staff action flips Verified.
// Deactivation blocks new assignments without deleting history.
type DeliveryDriver struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Whatsapp      string     `gorm:"not null" json:"whatsapp"` // 9-digit local number
	TransportType string     `json:"transport_type"`
	Address       string     `json:"address"`
	IDFrontURL    string     `json:"id_front_url"`
	IDBackURL     string     `json:"id_back_url"`
	SelfieURL     string     `json:"selfie_url"`
	Verified      bool       `gorm:"default:false" json:"verified"`
	Active        bool       `gorm:"default:true" json:"active"`
	VerifiedBy    string     `json:"verified_by"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	// Optional login account for the driver dashboard.
	Email        *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the DeliveryDriver model
func (DeliveryDriver) TableName() string {
	return "delivery_drivers"
}

// Assignable reports whether the driver may receive new orders.
func (d *DeliveryDriver) Assignable() bool {
	return d.Active && d.Verified
}
