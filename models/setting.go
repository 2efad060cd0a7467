package models

import (
	"time"
)

// AppSetting is a generic key-value row backing the settings cache.
// The database is the source of truth; the in-process cache is refreshed on
// load and written through on save.
type AppSetting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the AppSetting model
func (AppSetting) TableName() string {
	return "app_settings"
}
