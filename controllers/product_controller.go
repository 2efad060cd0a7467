package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	Name                  string   `json:"name" binding:"required"`
	Description           string   `json:"description"`
	Price                 float64  `json:"price" binding:"required,gt=0"`
	SalePrice             *float64 `json:"sale_price"`
	CostPrice             float64  `json:"cost_price"`
	Stock                 int      `json:"stock" binding:"gte=0"`
	CategoryID            uint     `json:"category_id" binding:"required"`
	SubcategoryID         *uint    `json:"subcategory_id"`
	Gender                string   `json:"gender"`
	BestSeller            bool     `json:"best_seller"`
	TopNotes              string   `json:"top_notes"`
	HeartNotes            string   `json:"heart_notes"`
	BaseNotes             string   `json:"base_notes"`
	ImageURL              string   `json:"image_url"`
	DeliveryCommissionPct float64  `json:"delivery_commission_pct"`
}

// ListProducts handles GET /api/v1/products - public catalog listing
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	query := db.Preload("Category").Order("created_at desc")

	if categoryID := c.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if gender := c.Query("gender"); gender != "" {
		query = query.Where("gender = ?", gender)
	}
	if c.Query("best_seller") == "true" {
		query = query.Where("best_seller = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id
func GetProduct(c *gin.Context) {
	var product models.Product
	err := config.GetDB().Preload("Category").First(&product, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct handles POST /api/v1/admin/products (requires products.create)
func CreateProduct(c *gin.Context) {
	var req ProductRequest
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

	if req.Gender == "" {
		req.Gender = models.GenderUnisex
	}
	if !models.ValidGender(req.Gender) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Gender must be masculino, feminino or unissexo",
			},
		})
		return
	}

	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, req.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category does not exist",
			},
		})
		return
	}

	product := models.Product{
		Name:                  req.Name,
		Description:           req.Description,
		Price:                 req.Price,
		SalePrice:             req.SalePrice,
		CostPrice:             req.CostPrice,
		Stock:                 req.Stock,
		CategoryID:            req.CategoryID,
		SubcategoryID:         req.SubcategoryID,
		Gender:                req.Gender,
		BestSeller:            req.BestSeller,
		TopNotes:              req.TopNotes,
		HeartNotes:            req.HeartNotes,
		BaseNotes:             req.BaseNotes,
		ImageURL:              req.ImageURL,
		DeliveryCommissionPct: req.DeliveryCommissionPct,
	}

	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/admin/products/:id (requires products.edit)
func UpdateProduct(c *gin.Context) {
	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	var req ProductRequest
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

	if req.Gender != "" && !models.ValidGender(req.Gender) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Gender must be masculino, feminino or unissexo",
			},
		})
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.SalePrice = req.SalePrice
	product.CostPrice = req.CostPrice
	product.Stock = req.Stock
	product.CategoryID = req.CategoryID
	product.SubcategoryID = req.SubcategoryID
	if req.Gender != "" {
		product.Gender = req.Gender
	}
	product.BestSeller = req.BestSeller
	product.TopNotes = req.TopNotes
	product.HeartNotes = req.HeartNotes
	product.BaseNotes = req.BaseNotes
	product.ImageURL = req.ImageURL
	product.DeliveryCommissionPct = req.DeliveryCommissionPct

	if err := db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id (requires products.delete)
// Historical orders keep their denormalized snapshots, so this only removes
// the catalog row.
func DeleteProduct(c *gin.Context) {
	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if err := db.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}

// AdjustStockRequest represents the request body for a stock adjustment
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AdjustStock handles PATCH /api/v1/admin/products/:id/stock (requires products.stock)
// The adjustment is a single conditional update so stock can never go negative.
func AdjustStock(c *gin.Context) {
	var req AdjustStockRequest
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

	db := config.GetDB()
	result := db.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", c.Param("id"), req.Delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", req.Delta))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to adjust stock",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Adjustment would make stock negative or the product does not exist",
			},
		})
		return
	}

	var product models.Product
	if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to reload product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CopyAdviceRequest represents the request body for AI copy advice
type CopyAdviceRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ProductCopyAdvice handles POST /api/v1/admin/products/copy-advice
// (requires products.edit). The advice is advisory text only and never
// touches stored product data.
func ProductCopyAdvice(c *gin.Context) {
	copywriter := services.GetCopywriterService()
	if copywriter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COPYWRITER_DISABLED",
				"message": "Copy advice is not configured",
			},
		})
		return
	}

	var req CopyAdviceRequest
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

	text, err := copywriter.Advise(strings.TrimSpace(req.Prompt))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COPYWRITER_ERROR",
				"message": "The copywriting service is unavailable",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"advice": text},
	})
}
