package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

func respondConfirmError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTokenNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_NOT_FOUND",
				"message": "No delivery matches this confirmation link",
			},
		})
	case errors.Is(err, services.ErrNoDriverAssigned):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_DRIVER_ASSIGNED",
				"message": "This order has not been dispatched yet",
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

// ResolveConfirmation handles GET /confirm/:token - public, unauthenticated.
// Lookup goes through the narrow token query only; order ids are never
// accepted here. Repeated scans of a delivered order resolve to the
// "already confirmed" view.
func ResolveConfirmation(c *gin.Context) {
	view, err := services.ResolveDeliveryToken(c.Param("token"))
	if err != nil {
		respondConfirmError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// ConfirmReceipt handles POST /confirm/:token - public, unauthenticated.
// The recipient, not the courier, asserts receipt. Calling it twice is safe:
// the second call returns the already-delivered view with the original
// timestamp.
func ConfirmReceipt(c *gin.Context) {
	view, err := services.ConfirmDelivery(c.Param("token"))
	if err != nil {
		respondConfirmError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}
