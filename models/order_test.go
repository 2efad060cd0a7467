package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"request to pending", StatusRequest, StatusPending, true},
		{"request straight to shipped", StatusRequest, StatusShipped, true},
		{"request to cancelled", StatusRequest, StatusCancelled, true},
		{"request cannot skip to paid", StatusRequest, StatusPaid, false},
		{"request cannot skip to delivered", StatusRequest, StatusDelivered, false},
		{"pending to paid", StatusPending, StatusPaid, true},
		{"pending to shipped", StatusPending, StatusShipped, true},
		{"pending cannot jump to delivered", StatusPending, StatusDelivered, false},
		{"paid to shipped", StatusPaid, StatusShipped, true},
		{"paid to delivered", StatusPaid, StatusDelivered, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"no backward move", StatusPaid, StatusPending, false},
		{"no shipped back to request", StatusShipped, StatusRequest, false},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"same status is idempotent", StatusPaid, StatusPaid, true},
		{"same terminal status is idempotent", StatusDelivered, StatusDelivered, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{PaymentMulticaixa, PaymentCash, PaymentTransfer, PaymentExpress} {
		assert.True(t, ValidPaymentMethod(m), m)
	}
	assert.False(t, ValidPaymentMethod(""))
	assert.False(t, ValidPaymentMethod("bitcoin"))
	assert.False(t, ValidPaymentMethod("Multicaixa"))
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{UnitPrice: 12500, Quantity: 3}
	assert.Equal(t, 37500.0, item.Subtotal())
}
