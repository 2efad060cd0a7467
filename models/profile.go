package models

import (
	"time"
)

// Staff roles. Admin implicitly grants every capability regardless of the
// stored permission map; employee is constrained strictly to granted ones.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// UserProfile is the staff profile row backing an Auth0 identity.
type UserProfile struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Auth0ID      string        `gorm:"uniqueIndex;not null" json:"auth0_id"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	FullName     string        `json:"full_name"`
	Role         string        `gorm:"not null;default:'employee'" json:"role"`
	Permissions  PermissionMap `gorm:"type:text" json:"permissions"`
	IsFirstLogin bool          `gorm:"default:true" json:"is_first_login"`
	IsActive     bool          `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// TableName specifies the table name for the UserProfile model
func (UserProfile) TableName() string {
	return "user_profiles"
}

// HasCapability is the single permission check primitive: true for admins
// unconditionally, otherwise a fail-closed lookup in the capability map.
func (u *UserProfile) HasCapability(area, capability string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Permissions.Granted(area, capability)
}

// CanViewArea reports whether an area is visible at all to this profile:
// admins always, employees when any capability in the area is granted.
func (u *UserProfile) CanViewArea(area string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return u.Permissions.AnyGranted(area)
}
