package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/brijaao-ops/brilhoessenza-sub000/config"
	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

// Lifecycle errors callers branch on.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrDriverNotFound      = errors.New("driver not found")
	ErrDriverNotAssignable = errors.New("driver is not active and verified")
	ErrReasonRequired      = errors.New("an audit reason is required")
)

func loadOrder(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// transition moves an order to a new status, applying extra column updates in
// the same write. Re-applying the current status is a no-op success.
func transition(order *models.Order, to models.OrderStatus, updates map[string]interface{}) error {
	if order.Status == to {
		return nil
	}
	if !models.CanTransition(order.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
	}

	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to
	if err := config.GetDB().Model(order).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = to
	return nil
}

// ConvertToSale turns a raw customer request into a recognized sale
// (PEDIDO -> PENDENTE), recording the acting staff name and resetting the
// order's display date to the conversion time.
func ConvertToSale(orderID, staffName string) (*models.Order, error) {
	order, err := loadOrder(config.GetDB(), orderID)
	if err != nil {
		return nil, err
	}
	if err := transition(order, models.StatusPending, map[string]interface{}{
		"sold_by":    staffName,
		"created_at": time.Now(),
	}); err != nil {
		return nil, err
	}
	order.SoldBy = staffName
	return order, nil
}

// ConfirmPayment marks the sale as paid (PENDENTE -> PAGO), recording the
// validator's name.
func ConfirmPayment(orderID, validatorName string) (*models.Order, error) {
	order, err := loadOrder(config.GetDB(), orderID)
	if err != nil {
		return nil, err
	}
	if err := transition(order, models.StatusPaid, map[string]interface{}{
		"validated_by": validatorName,
	}); err != nil {
		return nil, err
	}
	order.ValidatedBy = validatorName
	return order, nil
}

// AssignDriver sets the courier on an order and, when the order is still in
// PEDIDO or PENDENTE, advances it to ENVIADO (courier assignment and payment
// confirmation are independent axes). Only active, verified drivers are
// assignable, enforced here at the data layer, not just in the UI.
//
// Returns the order and a pre-filled WhatsApp link notifying the courier.
func AssignDriver(orderID string, driverID uint) (*models.Order, string, error) {
	db := config.GetDB()

	var driver models.DeliveryDriver
	if err := db.First(&driver, driverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrDriverNotFound
		}
		return nil, "", fmt.Errorf("failed to load driver: %w", err)
	}
	if !driver.Assignable() {
		return nil, "", ErrDriverNotAssignable
	}

	order, err := loadOrder(db, orderID)
	if err != nil {
		return nil, "", err
	}
	if order.Status == models.StatusDelivered || order.Status == models.StatusCancelled {
		return nil, "", fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, models.StatusShipped)
	}

	updates := map[string]interface{}{"driver_id": driverID}
	if order.Status == models.StatusRequest || order.Status == models.StatusPending {
		updates["status"] = models.StatusShipped
		order.Status = models.StatusShipped
	}
	if err := db.Model(order).Updates(updates).Error; err != nil {
		return nil, "", fmt.Errorf("failed to assign driver: %w", err)
	}
	order.DriverID = &driver.ID
	order.Driver = &driver

	link := WhatsAppLink(driver.Whatsapp, DriverAssignmentMessage(order))
	return order, link, nil
}

// CancelOrder moves any non-delivered order to the CANCELLED terminal state.
func CancelOrder(orderID string) (*models.Order, error) {
	order, err := loadOrder(config.GetDB(), orderID)
	if err != nil {
		return nil, err
	}
	if err := transition(order, models.StatusCancelled, nil); err != nil {
		return nil, err
	}
	return order, nil
}

// ForceDelivered is the staff escape hatch around the token confirmation
// protocol. It demands a non-empty audit reason and records who forced the
// state; the token path stays the only reason-free route to DELIVERED.
func ForceDelivered(orderID, staffName, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	order, err := loadOrder(config.GetDB(), orderID)
	if err != nil {
		return nil, err
	}
	if order.DriverID == nil {
		return nil, ErrDriverNotAssignable
	}

	now := time.Now()
	if err := transition(order, models.StatusDelivered, map[string]interface{}{
		"delivered_by":  staffName,
		"delivery_note": reason,
		"delivered_at":  now,
	}); err != nil {
		return nil, err
	}
	order.DeliveredBy = staffName
	order.DeliveryNote = reason
	order.DeliveredAt = &now
	return order, nil
}

// DeleteOrder hard-deletes an order and its items in one transaction.
// Products and drivers referenced by the order are untouched.
func DeleteOrder(orderID string) error {
	return config.GetDB().Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order: %w", err)
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}
		return nil
	})
}

// DriverCommission computes the courier payout for an order: the sum of each
// item subtotal weighted by the commission percentage snapshotted at checkout.
func DriverCommission(order *models.Order) float64 {
	var commission float64
	for _, item := range order.Items {
		commission += item.Subtotal() * item.CommissionPct / 100
	}
	return commission
}
