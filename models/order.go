package models

import (
	"time"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusRequest   OrderStatus = "PEDIDO"   // raw customer request, unconfirmed
	StatusPending   OrderStatus = "PENDENTE" // recognized sale, awaiting payment confirmation
	StatusPaid      OrderStatus = "PAGO"     // payment validated by staff
	StatusShipped   OrderStatus = "ENVIADO"  // courier assigned / dispatched
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Payment method tags recorded on an order. Settlement happens out-of-band.
const (
	PaymentMulticaixa = "multicaixa"
	PaymentCash       = "cash"
	PaymentTransfer   = "transfer"
	PaymentExpress    = "express"
)

// ValidPaymentMethod reports whether m is one of the accepted payment tags.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMulticaixa, PaymentCash, PaymentTransfer, PaymentExpress:
		return true
	}
	return false
}

// validTransitions defines the allowed status state machine. Progression is
// one-directional; CANCELLED is reachable from any non-delivered state.
var validTransitions = map[OrderStatus][]OrderStatus{
	StatusRequest:   {StatusPending, StatusShipped, StatusCancelled},
	StatusPending:   {StatusPaid, StatusShipped, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
// Re-applying the current status is allowed so that lifecycle operations stay
// idempotent-safe.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order represents a customer's reservation request and its lifecycle through
// payment validation, courier assignment and delivery confirmation.
// The ID is a human-readable prefixed random code, never used for the public
// confirmation flow; that goes through DeliveryToken exclusively.
type Order struct {
	ID             string      `gorm:"primaryKey;size:16" json:"id"`
	CustomerName   string      `gorm:"not null" json:"customer_name"`
	CustomerPhone  string      `gorm:"not null" json:"customer_phone"`
	Neighborhood   string      `json:"neighborhood"`
	Municipality   string      `json:"municipality"`
	Province       string      `json:"province"`
	AddressDetails string      `json:"address_details"`
	Items          []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	// Amount always equals the sum of item subtotals at the prices recorded
	// on the order, independent of later catalog price changes.
	Amount        float64         `gorm:"not null" json:"amount"`
	PaymentMethod string          `gorm:"not null" json:"payment_method"`
	Status        OrderStatus     `gorm:"not null;default:'PEDIDO'" json:"status"`
	DeliveryToken string          `gorm:"uniqueIndex;not null" json:"-"`
	DriverID      *uint           `gorm:"index" json:"driver_id,omitempty"`
	Driver        *DeliveryDriver `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	SoldBy        string          `json:"sold_by"`       // staff who converted the request to a sale
	ValidatedBy   string          `json:"validated_by"`  // staff who confirmed payment
	DeliveredBy   string          `json:"delivered_by"`  // set only on staff override
	DeliveryNote  string          `json:"delivery_note"` // mandatory reason on staff override
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is a line item with the product snapshot captured at order time.
// ProductID is nullable so that deleting a catalog row never touches history.
type OrderItem struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	OrderID       string  `gorm:"not null;index;size:16" json:"order_id"`
	ProductID     *uint   `gorm:"index" json:"product_id,omitempty"`
	ProductName   string  `gorm:"not null" json:"product_name"`
	ProductImage  string  `json:"product_image"`
	UnitPrice     float64 `gorm:"not null" json:"unit_price"`
	Quantity      int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	CommissionPct float64 `gorm:"default:0" json:"commission_pct"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns the line total at the recorded unit price.
func (i *OrderItem) Subtotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
