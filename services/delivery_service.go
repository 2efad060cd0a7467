package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

// Delivery confirmation errors.
var (
	ErrTokenNotFound    = errors.New("delivery token not found")
	ErrNoDriverAssigned = errors.New("order has no assigned driver")
)

// ConfirmationView is the narrow slice of an order exposed on the public,
// unauthenticated confirmation endpoints. Lookup is by token only, never by
// order id, and nothing beyond these fields ever crosses this boundary.
type ConfirmationView struct {
	OrderID          string             `json:"order_id"`
	CustomerName     string             `json:"customer_name"`
	Status           models.OrderStatus `json:"status"`
	Amount           float64            `json:"amount"`
	DeliveredAt      *time.Time         `json:"delivered_at,omitempty"`
	AlreadyDelivered bool               `json:"already_delivered"`
}

// confirmationRow also carries the driver reference for the protocol check;
// it is never serialized.
type confirmationRow struct {
	ID           string
	CustomerName string
	Status       models.OrderStatus
	Amount       float64
	DeliveredAt  *time.Time
	DriverID     *uint
}

func lookupByToken(db *gorm.DB, token string) (*confirmationRow, error) {
	var row confirmationRow
	err := db.Model(&models.Order{}).
		Select("id", "customer_name", "status", "amount", "delivered_at", "driver_id").
		Where("delivery_token = ?", token).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to resolve delivery token: %w", err)
	}
	return &row, nil
}

func (r *confirmationRow) view() *ConfirmationView {
	return &ConfirmationView{
		OrderID:          r.ID,
		CustomerName:     r.CustomerName,
		Status:           r.Status,
		Amount:           r.Amount,
		DeliveredAt:      r.DeliveredAt,
		AlreadyDelivered: r.Status == models.StatusDelivered,
	}
}

// ResolveDeliveryToken resolves a scanned token to its confirmation view.
// Repeated scans of an already-confirmed order resolve to the "already
// confirmed" view rather than an error, so resolution is idempotent.
func ResolveDeliveryToken(token string) (*ConfirmationView, error) {
	row, err := lookupByToken(config.GetDB(), token)
	if err != nil {
		return nil, err
	}
	return row.view(), nil
}

// ConfirmDelivery is the only sanctioned path to the DELIVERED state outside
// the audited staff override. It is token-gated so the recipient, not the
// courier, asserts receipt; it requires an assigned driver; and a second call
// is a no-op that returns the already-delivered view with the first call's
// timestamp intact.
func ConfirmDelivery(token string) (*ConfirmationView, error) {
	db := config.GetDB()
	row, err := lookupByToken(db, token)
	if err != nil {
		return nil, err
	}

	if row.Status == models.StatusDelivered {
		return row.view(), nil
	}
	if row.DriverID == nil {
		return nil, ErrNoDriverAssigned
	}
	if !models.CanTransition(row.Status, models.StatusDelivered) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, row.Status, models.StatusDelivered)
	}

	now := time.Now()
	// Guard on status in the update itself so two concurrent confirmations
	// cannot both stamp a timestamp.
	result := db.Model(&models.Order{}).
		Where("delivery_token = ? AND status <> ?", token, models.StatusDelivered).
		Updates(map[string]interface{}{
			"status":       models.StatusDelivered,
			"delivered_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to confirm delivery: %w", result.Error)
	}

	row, err = lookupByToken(db, token)
	if err != nil {
		return nil, err
	}
	return row.view(), nil
}
