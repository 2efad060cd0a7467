package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/utils"
)

// CategoryRequest represents the request body for creating or updating a category
type CategoryRequest struct {
	Name   string `json:"name" binding:"required"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	Active *bool  `json:"active"`
}

// ListActiveCategories handles GET /api/v1/categories - storefront navigation.
// Inactive categories are hidden here but remain available to the admin list.
func ListActiveCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.GetDB().Where("active = ?", true).Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// ListCategories handles GET /api/v1/admin/categories (requires products.view)
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.GetDB().Order("name asc").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list categories",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    categories,
	})
}

// CreateCategory handles POST /api/v1/admin/categories (requires products.create)
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
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

	category := models.Category{
		Name:   req.Name,
		Slug:   utils.Slugify(req.Name),
		Icon:   req.Icon,
		Color:  req.Color,
		Active: true,
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := config.GetDB().Create(&category).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CATEGORY_EXISTS",
					"message": "A category with this name already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create category",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// UpdateCategory handles PUT /api/v1/admin/categories/:id (requires products.edit)
func UpdateCategory(c *gin.Context) {
	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	var req CategoryRequest
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

	category.Name = req.Name
	category.Slug = utils.Slugify(req.Name)
	category.Icon = req.Icon
	category.Color = req.Color
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// DeleteCategory handles DELETE /api/v1/admin/categories/:id (requires products.delete)
func DeleteCategory(c *gin.Context) {
	db := config.GetDB()
	var category models.Category
	if err := db.First(&category, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_NOT_FOUND",
				"message": "Category not found",
			},
		})
		return
	}

	var productCount int64
	if err := db.Model(&models.Product{}).Where("category_id = ?", category.ID).Count(&productCount).Error; err == nil && productCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CATEGORY_IN_USE",
				"message": "Category still has products; move or delete them first",
			},
		})
		return
	}

	if err := db.Delete(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete category",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
