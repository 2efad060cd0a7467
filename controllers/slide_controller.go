package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

// ListSlides handles GET /api/v1/slides - public storefront carousel
func ListSlides(c *gin.Context) {
	var slides []models.Slide
	if err := config.GetDB().Order("sort_order asc, id asc").Find(&slides).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to list slides",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    slides,
	})
}

// SlideRequest represents the request body for creating or updating a slide
type SlideRequest struct {
	Title     string `json:"title" binding:"required"`
	Subtitle  string `json:"subtitle"`
	CTAText   string `json:"cta_text"`
	CTALink   string `json:"cta_link"`
	SortOrder int    `json:"sort_order"`
}

// CreateSlide handles POST /api/v1/admin/slides (requires settings.edit).
// The image arrives as multipart alongside a JSON "payload" field.
func CreateSlide(c *gin.Context) {
	var req SlideRequest
	if err := c.ShouldBind(&req); err != nil {
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

	slide := models.Slide{
		Title:     req.Title,
		Subtitle:  req.Subtitle,
		CTAText:   req.CTAText,
		CTALink:   req.CTALink,
		SortOrder: req.SortOrder,
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, upErr := services.GetImageService().UploadImage(file, "slides")
		if upErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "IMAGE_UPLOAD_FAILED",
					"message": upErr.Error(),
				},
			})
			return
		}
		slide.ImageURL = url
	}

	if err := config.GetDB().Create(&slide).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create slide",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    slide,
	})
}

// UpdateSlide handles PUT /api/v1/admin/slides/:id (requires settings.edit)
func UpdateSlide(c *gin.Context) {
	var slide models.Slide
	err := config.GetDB().First(&slide, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SLIDE_NOT_FOUND",
				"message": "Slide not found",
			},
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load slide",
			},
		})
		return
	}

	var req SlideRequest
	if err := c.ShouldBind(&req); err != nil {
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

	slide.Title = req.Title
	slide.Subtitle = req.Subtitle
	slide.CTAText = req.CTAText
	slide.CTALink = req.CTALink
	slide.SortOrder = req.SortOrder

	if file, err := c.FormFile("image"); err == nil && file != nil {
		url, upErr := services.GetImageService().UploadImage(file, "slides")
		if upErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "IMAGE_UPLOAD_FAILED",
					"message": upErr.Error(),
				},
			})
			return
		}
		slide.ImageURL = url
	}

	if err := config.GetDB().Save(&slide).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update slide",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    slide,
	})
}

// DeleteSlide handles DELETE /api/v1/admin/slides/:id (requires settings.edit)
func DeleteSlide(c *gin.Context) {
	result := config.GetDB().Delete(&models.Slide{}, "id = ?", c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete slide",
			},
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SLIDE_NOT_FOUND",
				"message": "Slide not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"deleted": true},
	})
}
