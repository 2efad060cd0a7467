package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Functional areas grouping capabilities.
const (
	AreaOrders   = "orders"
	AreaProducts = "products"
	AreaFinance  = "finance"
	AreaSettings = "settings"
	AreaTeam     = "team"
	AreaSales    = "sales"
	AreaDrivers  = "drivers"
)

// Capability names within an area.
const (
	CapView   = "view"
	CapCreate = "create"
	CapEdit   = "edit"
	CapDelete = "delete"
	CapStock  = "stock"
	CapManage = "manage"
)

// PermissionMap is a nested boolean capability map keyed by area, stored as a
// JSON text column. A missing area or capability key always reads as false.
type PermissionMap map[string]map[string]bool

// Value implements driver.Valuer so GORM can persist the map as JSON.
func (p PermissionMap) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal permissions: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner for reading the JSON column back.
func (p *PermissionMap) Scan(value interface{}) error {
	if value == nil {
		*p = PermissionMap{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported permissions column type %T", value)
	}
	if len(raw) == 0 {
		*p = PermissionMap{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

// Granted reports whether the map itself grants a capability. Missing keys
// are false (fail-closed); role checks live on UserProfile.
func (p PermissionMap) Granted(area, capability string) bool {
	caps, ok := p[area]
	if !ok {
		return false
	}
	return caps[capability]
}

// AnyGranted reports whether any capability in the area is true.
func (p PermissionMap) AnyGranted(area string) bool {
	for _, granted := range p[area] {
		if granted {
			return true
		}
	}
	return false
}

// DefaultEmployeePermissions is the low-privilege map given to self-repaired
// profiles: read-only access to orders and products, nothing else.
func DefaultEmployeePermissions() PermissionMap {
	return PermissionMap{
		AreaOrders:   {CapView: true},
		AreaProducts: {CapView: true},
	}
}
