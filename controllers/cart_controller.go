package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

// cartErrorStatus maps cart/checkout error codes to HTTP statuses.
func cartErrorStatus(code string) int {
	switch code {
	case "CART_NOT_FOUND", "PRODUCT_NOT_FOUND":
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

func respondCartError(c *gin.Context, err error) {
	var cartErr *services.CartError
	if errors.As(err, &cartErr) {
		c.JSON(cartErrorStatus(cartErr.Code), gin.H{
			"success": false,
			"error": gin.H{
				"code":    cartErr.Code,
				"message": cartErr.Message,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "The operation could not be completed, please try again",
		},
	})
}

// CreateCart handles POST /api/v1/carts - opens a new cart session
func CreateCart(c *gin.Context) {
	cart := services.CreateCart()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    cart,
	})
}

// GetCart handles GET /api/v1/carts/:id
func GetCart(c *gin.Context) {
	cart, err := services.GetCart(c.Param("id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// AddCartItemRequest represents the request body for adding a product to a cart
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddCartItem handles POST /api/v1/carts/:id/items
func AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
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

	if err := services.AddToCart(c.Param("id"), req.ProductID); err != nil {
		respondCartError(c, err)
		return
	}

	cart, err := services.GetCart(c.Param("id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// UpdateCartItemRequest represents the request body for a quantity adjustment
type UpdateCartItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// UpdateCartItem handles PATCH /api/v1/carts/:id/items/:productId
// Out-of-range adjustments are silently ignored, matching the storefront's
// stepper behavior.
func UpdateCartItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid product id",
			},
		})
		return
	}

	var req UpdateCartItemRequest
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

	if err := services.UpdateQuantity(c.Param("id"), uint(productID), req.Delta); err != nil {
		respondCartError(c, err)
		return
	}

	cart, err := services.GetCart(c.Param("id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// RemoveCartItem handles DELETE /api/v1/carts/:id/items/:productId
func RemoveCartItem(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid product id",
			},
		})
		return
	}

	if err := services.RemoveFromCart(c.Param("id"), uint(productID)); err != nil {
		respondCartError(c, err)
		return
	}

	cart, err := services.GetCart(c.Param("id"))
	if err != nil {
		respondCartError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cart,
	})
}

// CheckoutCart handles POST /api/v1/carts/:id/checkout
// On success the response carries the created order and a pre-filled wa.me
// link; on failure the cart is untouched so the shopper can retry.
func CheckoutCart(c *gin.Context) {
	var req services.CheckoutRequest
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

	result, err := services.Checkout(c.Param("id"), req)
	if err != nil {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result,
	})
}
