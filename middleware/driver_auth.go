package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
)

// DriverTokenTTL bounds how long a courier session stays valid.
const DriverTokenTTL = 24 * time.Hour

// GenerateDriverToken issues an HS256 session token for a courier account.
// Driver auth is local email/password, entirely separate from staff Auth0.
func GenerateDriverToken(driverID uint, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(driverID), 10),
		"aud": "driver",
		"iat": now.Unix(),
		"exp": now.Add(DriverTokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign driver token: %w", err)
	}
	return signed, nil
}

// ParseDriverToken validates a courier session token and returns the driver ID.
func ParseDriverToken(tokenString, secret string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithAudience("driver"))
	if err != nil {
		return 0, fmt.Errorf("invalid driver token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("driver token has no subject: %w", err)
	}
	id, err := strconv.ParseUint(subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("driver token subject is not an id: %w", err)
	}
	return uint(id), nil
}

// EnsureValidDriverToken guards courier-only routes.
func EnsureValidDriverToken(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := GetAccessToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "MISSING_TOKEN",
					"message": "Authorization bearer token is required",
				},
			})
			c.Abort()
			return
		}

		driverID, err := ParseDriverToken(tokenString, cfg.DriverJWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate driver session",
				},
			})
			c.Abort()
			return
		}

		c.Set("driver_id", driverID)
		c.Next()
	}
}

// GetDriverID extracts the authenticated courier's ID from the Gin context
func GetDriverID(c *gin.Context) (uint, error) {
	value, exists := c.Get("driver_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_DRIVER_ID", Message: "Driver ID not found in context"}
	}

	id, ok := value.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_DRIVER_ID", Message: "Driver ID is not in the expected format"}
	}

	return id, nil
}
