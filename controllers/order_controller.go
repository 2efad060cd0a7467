package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/middleware"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found",
			},
		})
	case errors.Is(err, services.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRIVER_NOT_FOUND",
				"message": "Driver not found",
			},
		})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TRANSITION",
				"message": err.Error(),
			},
		})
	case errors.Is(err, services.ErrDriverNotAssignable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DRIVER_NOT_ASSIGNABLE",
				"message": "Driver must be active and verified",
			},
		})
	case errors.Is(err, services.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REASON_REQUIRED",
				"message": "An audit reason is required for a manual delivery override",
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "The operation could not be completed",
			},
		})
	}
}

// staffName returns the display name used for order audit annotations.
func staffName(c *gin.Context) string {
	profile, err := middleware.GetProfile(c)
	if err != nil {
		return ""
	}
	if profile.FullName != "" {
		return profile.FullName
	}
	return profile.Email
}

// ListOrders handles GET /api/v1/admin/orders (requires orders.view)
func ListOrders(c *gin.Context) {
	db := config.GetDB()
	query := db.Preload("Items").Preload("Driver").Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
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

// GetOrder handles GET /api/v1/admin/orders/:id (requires orders.view)
func GetOrder(c *gin.Context) {
	var order models.Order
	err := config.GetDB().Preload("Items").Preload("Driver").First(&order, "id = ?", c.Param("id")).Error
	if err != nil {
		respondOrderError(c, services.ErrOrderNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ConvertToSale handles POST /api/v1/admin/orders/:id/convert (requires orders.edit)
func ConvertToSale(c *gin.Context) {
	order, err := services.ConvertToSale(c.Param("id"), staffName(c))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ConfirmPayment handles POST /api/v1/admin/orders/:id/confirm-payment
// (requires sales.edit)
func ConfirmPayment(c *gin.Context) {
	order, err := services.ConfirmPayment(c.Param("id"), staffName(c))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// AssignDriverRequest represents the request body for a courier assignment
type AssignDriverRequest struct {
	DriverID uint `json:"driver_id" binding:"required"`
}

// AssignDriver handles POST /api/v1/admin/orders/:id/assign-driver
// (requires orders.edit)
func AssignDriver(c *gin.Context) {
	var req AssignDriverRequest
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

	order, notifyLink, err := services.AssignDriver(c.Param("id"), req.DriverID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"order":       order,
			"notify_link": notifyLink,
		},
	})
}

// CancelOrder handles POST /api/v1/admin/orders/:id/cancel (requires orders.edit)
func CancelOrder(c *gin.Context) {
	order, err := services.CancelOrder(c.Param("id"))
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// ForceDeliveredRequest carries the mandatory audit reason for an override
type ForceDeliveredRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ForceDelivered handles POST /api/v1/admin/orders/:id/force-delivered
// (requires orders.edit). This bypasses the token protocol, so it demands an
// audit reason and records the acting staff member.
func ForceDelivered(c *gin.Context) {
	var req ForceDeliveredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "REASON_REQUIRED",
				"message": "An audit reason is required for a manual delivery override",
			},
		})
		return
	}

	order, err := services.ForceDelivered(c.Param("id"), staffName(c), req.Reason)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/admin/orders/:id (requires orders.delete)
func DeleteOrder(c *gin.Context) {
	if err := services.DeleteOrder(c.Param("id")); err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
