package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

// LoadProfile resolves the authenticated Auth0 identity to a UserProfile row
// and stores it in the context. Runs after EnsureValidToken.
//
// A missing profile row for a valid identity is self-repaired into a default
// low-privilege employee profile, and a deactivated profile is rejected so
// that deactivation forces a sign-out on the next session check rather than
// merely hiding UI.
func LoadProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth0ID, err := GetUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Could not extract user information",
				},
			})
			c.Abort()
			return
		}

		db := config.GetDB()
		var profile models.UserProfile
		err = db.Where("auth0_id = ?", auth0ID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			repaired, repairErr := selfRepairProfile(c, auth0ID)
			if repairErr != nil {
				log.Printf("Profile self-repair failed for %s: %v", auth0ID, repairErr)
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "PROFILE_NOT_FOUND",
						"message": "No profile exists for this account and it could not be recreated",
					},
				})
				c.Abort()
				return
			}
			profile = *repaired
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load user profile",
				},
			})
			c.Abort()
			return
		}

		if !profile.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ACCOUNT_DISABLED",
					"message": "This account has been deactivated",
				},
			})
			c.Abort()
			return
		}

		c.Set("profile", &profile)
		c.Next()
	}
}

// selfRepairProfile reconstructs a default low-privilege profile for an Auth0
// identity whose row is missing, using /userinfo for the email and name.
func selfRepairProfile(c *gin.Context, auth0ID string) (*models.UserProfile, error) {
	accessToken, err := GetAccessToken(c)
	if err != nil {
		return nil, err
	}

	auth0Service := services.NewAuth0Service(config.GetConfig())
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		return nil, err
	}
	if userInfo.Email == "" {
		return nil, errors.New("userinfo response has no email")
	}

	profile := models.UserProfile{
		Auth0ID:      auth0ID,
		Email:        userInfo.Email,
		FullName:     userInfo.Name,
		Role:         models.RoleEmployee,
		Permissions:  models.DefaultEmployeePermissions(),
		IsFirstLogin: true,
		IsActive:     true,
	}
	if err := config.GetDB().Create(&profile).Error; err != nil {
		return nil, err
	}

	log.Printf("Self-repaired missing profile for %s (%s)", auth0ID, userInfo.Email)
	return &profile, nil
}

// GetProfile extracts the loaded UserProfile from the Gin context
func GetProfile(c *gin.Context) (*models.UserProfile, error) {
	value, exists := c.Get("profile")
	if !exists {
		return nil, &AuthError{Code: "MISSING_PROFILE", Message: "Profile not found in context"}
	}

	profile, ok := value.(*models.UserProfile)
	if !ok {
		return nil, &AuthError{Code: "INVALID_PROFILE", Message: "Profile is not in the expected format"}
	}

	return profile, nil
}
