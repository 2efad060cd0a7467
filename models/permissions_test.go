package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionMap_FailClosed(t *testing.T) {
	perms := PermissionMap{
		AreaOrders: {CapView: true, CapEdit: false},
	}

	assert.True(t, perms.Granted(AreaOrders, CapView))
	assert.False(t, perms.Granted(AreaOrders, CapEdit), "explicit false stays false")
	assert.False(t, perms.Granted(AreaOrders, CapDelete), "missing capability reads false")
	assert.False(t, perms.Granted(AreaFinance, CapView), "missing area reads false")

	var nilMap PermissionMap
	assert.False(t, nilMap.Granted(AreaOrders, CapView), "nil map grants nothing")
	assert.False(t, nilMap.AnyGranted(AreaOrders))
}

func TestPermissionMap_AnyGranted(t *testing.T) {
	perms := PermissionMap{
		AreaProducts: {CapView: false, CapStock: true},
		AreaTeam:     {CapManage: false},
	}

	assert.True(t, perms.AnyGranted(AreaProducts))
	assert.False(t, perms.AnyGranted(AreaTeam), "all-false area is not visible")
	assert.False(t, perms.AnyGranted(AreaFinance))
}

func TestPermissionMap_ValueScanRoundTrip(t *testing.T) {
	perms := PermissionMap{
		AreaOrders:  {CapView: true, CapManage: true},
		AreaDrivers: {CapManage: true},
	}

	value, err := perms.Value()
	assert.NoError(t, err)

	var restored PermissionMap
	err = restored.Scan(value)
	assert.NoError(t, err)
	assert.True(t, restored.Granted(AreaOrders, CapManage))
	assert.True(t, restored.Granted(AreaDrivers, CapManage))
	assert.False(t, restored.Granted(AreaOrders, CapDelete))
}

func TestPermissionMap_ScanNilAndEmpty(t *testing.T) {
	var perms PermissionMap
	assert.NoError(t, perms.Scan(nil))
	assert.False(t, perms.Granted(AreaOrders, CapView))

	assert.NoError(t, perms.Scan([]byte{}))
	assert.NoError(t, perms.Scan("{}"))
}

func TestUserProfile_HasCapability(t *testing.T) {
	admin := UserProfile{Role: RoleAdmin}
	assert.True(t, admin.HasCapability(AreaFinance, CapManage), "admin passes with an empty map")
	assert.True(t, admin.CanViewArea(AreaSettings))

	employee := UserProfile{
		Role:        RoleEmployee,
		Permissions: PermissionMap{AreaOrders: {CapView: true}},
	}
	assert.True(t, employee.HasCapability(AreaOrders, CapView))
	assert.False(t, employee.HasCapability(AreaOrders, CapDelete))
	assert.True(t, employee.CanViewArea(AreaOrders))
	assert.False(t, employee.CanViewArea(AreaFinance))
}

func TestDefaultEmployeePermissions(t *testing.T) {
	perms := DefaultEmployeePermissions()
	assert.True(t, perms.Granted(AreaOrders, CapView))
	assert.True(t, perms.Granted(AreaProducts, CapView))
	assert.False(t, perms.Granted(AreaProducts, CapEdit))
	assert.False(t, perms.AnyGranted(AreaTeam))
}
