package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCapability gates a route on a single capability in a functional
// area. This is the server-side enforcement boundary; client-side checks are
// UI convenience only. Runs after LoadProfile.
func RequireCapability(area, capability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := GetProfile(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_PROFILE",
					"message": "Could not retrieve user profile",
				},
			})
			c.Abort()
			return
		}

		if !profile.HasCapability(area, capability) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAnyCapability passes when the profile holds at least one of the
// listed capabilities in the area. Used where two capability tiers may both
// perform an action, e.g. sales edit and sales manage.
func RequireAnyCapability(area string, capabilities ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := GetProfile(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_PROFILE",
					"message": "Could not retrieve user profile",
				},
			})
			c.Abort()
			return
		}

		for _, capability := range capabilities {
			if profile.HasCapability(area, capability) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Insufficient permissions to access this resource",
			},
		})
		c.Abort()
	}
}

// RequireAreaView gates a route on area visibility: admins always pass,
// employees pass when any capability in the area is granted.
func RequireAreaView(area string) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := GetProfile(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_PROFILE",
					"message": "Could not retrieve user profile",
				},
			})
			c.Abort()
			return
		}

		if !profile.CanViewArea(area) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient permissions to access this resource",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
