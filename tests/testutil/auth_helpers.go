package testutil

import (
	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

// StaffAuthMiddleware simulates EnsureValidToken + LoadProfile for a given
// profile, bypassing Auth0 entirely.
func StaffAuthMiddleware(profile *models.UserProfile) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", profile.Auth0ID)
		c.Set("profile", profile)
		c.Next()
	}
}

// AdminProfile returns an in-memory admin profile for handler tests.
func AdminProfile() *models.UserProfile {
	return &models.UserProfile{
		ID:       1,
		Auth0ID:  "auth0|admin",
		Email:    "admin@test.com",
		FullName: "Admin Tester",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
}

// EmployeeProfile returns an employee profile with the given permission map.
func EmployeeProfile(permissions models.PermissionMap) *models.UserProfile {
	return &models.UserProfile{
		ID:          2,
		Auth0ID:     "auth0|employee",
		Email:       "employee@test.com",
		FullName:    "Employee Tester",
		Role:        models.RoleEmployee,
		Permissions: permissions,
		IsActive:    true,
	}
}

// DriverAuthMiddleware simulates EnsureValidDriverToken for a signed-in courier.
func DriverAuthMiddleware(driverID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("driver_id", driverID)
		c.Next()
	}
}
