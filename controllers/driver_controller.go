package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/middleware"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

// RegisterDriver handles POST /api/v1/drivers/register - public multipart
// self-service registration. The three images are required and uploaded
// sequentially so a failure names the exact image that failed.
func RegisterDriver(c *gin.Context) {
	idFront, _ := c.FormFile("id_front")
	idBack, _ := c.FormFile("id_back")
	selfie, _ := c.FormFile("selfie")

	reg := services.DriverRegistration{
		Name:          c.PostForm("name"),
		Whatsapp:      c.PostForm("whatsapp"),
		TransportType: c.PostForm("transport_type"),
		Address:       c.PostForm("address"),
		Email:         c.PostForm("email"),
		Password:      c.PostForm("password"),
		IDFront:       idFront,
		IDBack:        idBack,
		Selfie:        selfie,
	}

	result, err := services.RegisterDriver(reg)
	if err != nil {
		var regErr *services.RegistrationError
		if errors.As(err, &regErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    regErr.Code,
					"message": regErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to register driver",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}

// DriverLoginRequest represents the request body for a courier sign-in
type DriverLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// DriverLogin handles POST /api/v1/drivers/login
func DriverLogin(c *gin.Context) {
	var req DriverLoginRequest
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

	driver, err := services.DriverLogin(req.Email, req.Password)
	if err != nil {
		code := "INVALID_CREDENTIALS"
		if errors.Is(err, services.ErrDriverInactive) {
			code = "ACCOUNT_DISABLED"
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": "Could not sign in with these credentials",
			},
		})
		return
	}

	token, err := middleware.GenerateDriverToken(driver.ID, config.GetConfig().DriverJWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to create session",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":  token,
			"driver": driver,
		},
	})
}

// DriverPublicProfile handles GET /api/v1/drivers/:id/profile - public page
// shown to customers; exposes only non-sensitive fields.
func DriverPublicProfile(c *gin.Context) {
	var driver models.DeliveryDriver
	err := config.GetDB().First(&driver, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRIVER_NOT_FOUND",
				"message": "Driver not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load driver",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":             driver.ID,
			"name":           driver.Name,
			"transport_type": driver.TransportType,
			"verified":       driver.Verified,
		},
	})
}

// DriverOrders handles GET /api/v1/driver/orders - the courier dashboard list
// of orders currently assigned to the authenticated driver.
func DriverOrders(c *gin.Context) {
	driverID, err := middleware.GetDriverID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not identify the driver session",
			},
		})
		return
	}

	var orders []models.Order
	if err := config.GetDB().Preload("Items").
		Where("driver_id = ?", driverID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// DriverOrderQR handles GET /api/v1/driver/orders/:id/qr - renders the
// delivery confirmation deep link as a PNG QR code the courier shows to the
// recipient. Only the assigned driver can fetch it.
func DriverOrderQR(c *gin.Context) {
	driverID, err := middleware.GetDriverID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not identify the driver session",
			},
		})
		return
	}

	var order models.Order
	err = config.GetDB().First(&order, "id = ? AND driver_id = ?", c.Param("id"), driverID).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "No such order is assigned to this driver",
			},
		})
		return
	}

	link := fmt.Sprintf("%s/confirm/%s", config.GetConfig().PublicOrigin, order.DeliveryToken)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QR_ERROR",
				"message": "Failed to render the confirmation QR code",
			},
		})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// ListDrivers handles GET /api/v1/admin/drivers (requires drivers.view)
func ListDrivers(c *gin.Context) {
	db := config.GetDB()
	query := db.Order("created_at desc")
	if c.Query("assignable") == "true" {
		query = query.Where("active = ? AND verified = ?", true, true)
	}

	var drivers []models.DeliveryDriver
	if err := query.Find(&drivers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list drivers",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    drivers,
	})
}

// VerifyDriverRequest represents the request body for the manual trust gate
type VerifyDriverRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// VerifyDriver handles PATCH /api/v1/admin/drivers/:id/verify
// (requires drivers.manage). This is a deliberate staff action with an audit
// trail; the advisory OCR check can never flip this flag.
func VerifyDriver(c *gin.Context) {
	var req VerifyDriverRequest
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

	driver, err := services.SetDriverVerified(driverIDParam(c), *req.Verified, staffName(c))
	if err != nil {
		respondDriverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    driver,
	})
}

// SetDriverActiveRequest represents the request body for (de)activation
type SetDriverActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetDriverActive handles PATCH /api/v1/admin/drivers/:id/active
// (requires drivers.manage)
func SetDriverActive(c *gin.Context) {
	var req SetDriverActiveRequest
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

	driver, err := services.SetDriverActive(driverIDParam(c), *req.Active)
	if err != nil {
		respondDriverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    driver,
	})
}

// DeleteDriver handles DELETE /api/v1/admin/drivers/:id (requires drivers.manage)
func DeleteDriver(c *gin.Context) {
	if err := services.DeleteDriver(driverIDParam(c)); err != nil {
		respondDriverError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

func driverIDParam(c *gin.Context) uint {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func respondDriverError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrDriverNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRIVER_NOT_FOUND",
				"message": "Driver not found",
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "The operation could not be completed",
		},
	})
}
