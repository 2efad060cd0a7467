package services

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/brijaao-ops/brilhoessenza-sub000/models"
)

// WhatsAppLink builds a wa.me deep link pre-filled with the given message.
// The system only ever hands this link to a client to open; it never calls a
// send API, so there is no delivery guarantee or read receipt.
func WhatsAppLink(phoneDigits, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phoneDigits, url.QueryEscape(message))
}

// OrderSummaryMessage composes the human-readable order summary sent to the
// business contact when a shopper finishes checkout.
func OrderSummaryMessage(order *models.Order, storeName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s — Novo Pedido %s*\n", storeName, order.ID)
	fmt.Fprintf(&b, "Cliente: %s (%s)\n", order.CustomerName, order.CustomerPhone)
	fmt.Fprintf(&b, "Local: %s\n", orderLocation(order))
	b.WriteString("\nArtigos:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "• %dx %s — %.2f Kz\n", item.Quantity, item.ProductName, item.Subtotal())
	}
	fmt.Fprintf(&b, "\nTotal: %.2f Kz\n", order.Amount)
	fmt.Fprintf(&b, "Pagamento: %s", order.PaymentMethod)
	return b.String()
}

// DriverAssignmentMessage composes the notification sent to a courier's
// WhatsApp contact when an order is assigned.
func DriverAssignmentMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Entrega atribuída — %s*\n", order.ID)
	fmt.Fprintf(&b, "Cliente: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Telefone: %s\n", order.CustomerPhone)
	fmt.Fprintf(&b, "Local: %s\n", orderLocation(order))
	fmt.Fprintf(&b, "Valor: %.2f Kz", order.Amount)
	return b.String()
}

func orderLocation(order *models.Order) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{order.Neighborhood, order.Municipality, order.Province, order.AddressDetails} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}
