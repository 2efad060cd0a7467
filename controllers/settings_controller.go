package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

// PublicSettings handles GET /api/v1/settings - the storefront subset. The
// full map stays behind the admin gate; the storefront only needs branding
// and which payment methods to offer at checkout.
func PublicSettings(c *gin.Context) {
	cache := services.GetSettingsCache()
	public := gin.H{
		"store_name":        cache.GetOrDefault(services.SettingStoreName, "Brilho Essenza"),
		"business_whatsapp": cache.GetOrDefault(services.SettingBusinessWhatsapp, ""),
		"currency":          cache.GetOrDefault(services.SettingCurrency, "Kz"),
		"delivery_fee":      cache.GetOrDefault(services.SettingDeliveryFee, "0"),
		"return_policy":     cache.GetOrDefault(services.SettingReturnPolicy, ""),
		"payments": gin.H{
			"multicaixa": cache.GetOrDefault(services.SettingPayMulticaixa, "false") == "true",
			"cash":       cache.GetOrDefault(services.SettingPayCash, "false") == "true",
			"transfer":   cache.GetOrDefault(services.SettingPayTransfer, "false") == "true",
			"express":    cache.GetOrDefault(services.SettingPayExpress, "false") == "true",
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    public,
	})
}

// GetSettings handles GET /api/v1/admin/settings (requires settings.view)
func GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.GetSettingsCache().GetAll(),
	})
}

// UpdateSettings handles PUT /api/v1/admin/settings (requires settings.edit).
// Accepts a flat key/value map and writes each pair through the cache.
func UpdateSettings(c *gin.Context) {
	var req map[string]string
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
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "No settings provided",
			},
		})
		return
	}

	cache := services.GetSettingsCache()
	for key, value := range req {
		if err := cache.Set(key, value); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to save setting " + key,
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cache.GetAll(),
	})
}
