package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
	"github.com/brijaao-ops/brilhoessenza-sub000/services"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type driverCommissionSummary struct {
	DriverID   uint    `json:"driver_id"`
	DriverName string  `json:"driver_name"`
	Deliveries int64   `json:"deliveries"`
	Commission float64 `json:"commission"`
}

// GetDashboard handles GET /api/v1/admin/dashboard (requires finance.view).
// A single aggregate payload: order counts per status, recognized revenue,
// and commission owed per driver for delivered orders.
func GetDashboard(c *gin.Context) {
	db := config.GetDB()

	var counts []statusCount
	if err := db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to aggregate orders",
			},
		})
		return
	}

	// Revenue counts paid money only: orders that were paid and possibly
	// already delivered. Unpaid requests and cancellations never count.
	var revenue float64
	if err := db.Model(&models.Order{}).
		Select("coalesce(sum(amount), 0)").
		Where("status IN ?", []string{string(models.StatusPaid), string(models.StatusShipped), string(models.StatusDelivered)}).
		Scan(&revenue).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to compute revenue",
			},
		})
		return
	}

	var delivered []models.Order
	if err := db.Preload("Items").
		Where("status = ? AND driver_id IS NOT NULL", models.StatusDelivered).
		Find(&delivered).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load delivered orders",
			},
		})
		return
	}

	byDriver := make(map[uint]*driverCommissionSummary)
	for i := range delivered {
		order := &delivered[i]
		summary, ok := byDriver[*order.DriverID]
		if !ok {
			summary = &driverCommissionSummary{DriverID: *order.DriverID}
			byDriver[*order.DriverID] = summary
		}
		summary.Deliveries++
		summary.Commission += services.DriverCommission(order)
	}

	commissions := make([]driverCommissionSummary, 0, len(byDriver))
	if len(byDriver) > 0 {
		ids := make([]uint, 0, len(byDriver))
		for id := range byDriver {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		var drivers []models.DeliveryDriver
		if err := db.Where("id IN ?", ids).Find(&drivers).Error; err == nil {
			for _, driver := range drivers {
				if summary, ok := byDriver[driver.ID]; ok {
					summary.DriverName = driver.Name
				}
			}
		}
		for _, id := range ids {
			commissions = append(commissions, *byDriver[id])
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"orders_by_status":   counts,
			"revenue":            revenue,
			"driver_commissions": commissions,
		},
	})
}
