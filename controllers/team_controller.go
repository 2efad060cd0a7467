package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/middleware"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

// GetMyProfile handles GET /api/v1/admin/me - the authenticated staff
// member's own profile, used by the back office to decide which areas to
// render. Any authenticated staff member can call it.
func GetMyProfile(c *gin.Context) {
	profile, err := middleware.GetProfile(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "No staff profile in session",
			},
		})
		return
	}

	if profile.IsFirstLogin {
		config.GetDB().Model(profile).Update("is_first_login", false)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

// ListProfiles handles GET /api/v1/admin/team (requires team.view)
func ListProfiles(c *gin.Context) {
	var profiles []models.UserProfile
	if err := config.GetDB().Order("created_at asc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list team members",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profiles,
	})
}

// CreateProfileRequest represents the request body for inviting a staff member
type CreateProfileRequest struct {
	Auth0ID     string               `json:"auth0_id" binding:"required"`
	Email       string               `json:"email" binding:"required,email"`
	FullName    string               `json:"full_name"`
	Role        string               `json:"role"`
	Permissions models.PermissionMap `json:"permissions"`
}

// CreateProfile handles POST /api/v1/admin/team (requires team.manage)
func CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleEmployee
	}
	if role != models.RoleAdmin && role != models.RoleEmployee {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ROLE",
				"message": "Role must be admin or employee",
			},
		})
		return
	}

	permissions := req.Permissions
	if permissions == nil {
		permissions = models.DefaultEmployeePermissions()
	}

	profile := models.UserProfile{
		Auth0ID:      req.Auth0ID,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		FullName:     req.FullName,
		Role:         role,
		Permissions:  permissions,
		IsFirstLogin: true,
		IsActive:     true,
	}

	if err := config.GetDB().Create(&profile).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PROFILE_EXISTS",
					"message": "A profile with this identity or email already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create profile",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    profile,
	})
}

// UpdateProfileRequest represents the request body for editing a staff member.
// Pointer fields distinguish "leave unchanged" from explicit values.
type UpdateProfileRequest struct {
	FullName    *string              `json:"full_name"`
	Role        *string              `json:"role"`
	Permissions models.PermissionMap `json:"permissions"`
	IsActive    *bool                `json:"is_active"`
}

// UpdateProfile handles PUT /api/v1/admin/team/:id (requires team.manage)
func UpdateProfile(c *gin.Context) {
	var profile models.UserProfile
	err := config.GetDB().First(&profile, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load profile",
			},
		})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if req.Role != nil {
		if *req.Role != models.RoleAdmin && *req.Role != models.RoleEmployee {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_ROLE",
					"message": "Role must be admin or employee",
				},
			})
			return
		}
		profile.Role = *req.Role
	}
	if req.FullName != nil {
		profile.FullName = *req.FullName
	}
	if req.Permissions != nil {
		profile.Permissions = req.Permissions
	}
	if req.IsActive != nil {
		profile.IsActive = *req.IsActive
	}

	if err := config.GetDB().Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}
