package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
)

const testSecret = "test-secret-for-driver-tokens"

func TestDriverTokenRoundTrip(t *testing.T) {
	token, err := GenerateDriverToken(42, testSecret)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	id, err := ParseDriverToken(token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestParseDriverToken_WrongSecret(t *testing.T) {
	token, err := GenerateDriverToken(42, testSecret)
	assert.NoError(t, err)

	_, err = ParseDriverToken(token, "a-different-secret")
	assert.Error(t, err)
}

func TestParseDriverToken_Garbage(t *testing.T) {
	_, err := ParseDriverToken("not.a.jwt", testSecret)
	assert.Error(t, err)
}

func driverRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", EnsureValidDriverToken(cfg), func(c *gin.Context) {
		id, err := GetDriverID(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"driver_id": id}})
	})
	return router
}

func TestEnsureValidDriverToken(t *testing.T) {
	cfg := &config.Config{DriverJWTSecret: testSecret}
	router := driverRouter(cfg)

	token, err := GenerateDriverToken(7, testSecret)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(7), body["data"].(map[string]interface{})["driver_id"])
}

func TestEnsureValidDriverToken_Rejections(t *testing.T) {
	cfg := &config.Config{DriverJWTSecret: testSecret}
	router := driverRouter(cfg)

	tests := []struct {
		name     string
		header   string
		wantCode string
	}{
		{"missing header", "", "MISSING_TOKEN"},
		{"not a bearer", "Basic abc123", "MISSING_TOKEN"},
		{"invalid token", "Bearer nonsense", "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body map[string]interface{}
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["error"].(map[string]interface{})["code"])
		})
	}
}
