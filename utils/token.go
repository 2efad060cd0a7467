package utils

import (
	"fmt"

	"github.com/jaevor/go-nanoid"
)

// OrderIDPrefix is the fixed prefix on human-readable order codes.
const OrderIDPrefix = "PED-"

var (
	orderDigits   = mustGenerator(nanoid.CustomASCII("0123456789", 5))
	deliveryToken = mustGenerator(nanoid.Standard(21))
	cartID        = mustGenerator(nanoid.Standard(16))
)

func mustGenerator(gen func() string, err error) func() string {
	if err != nil {
		panic(err)
	}
	return gen
}

// NewOrderID returns a human-readable order code: fixed prefix + 5 random digits.
func NewOrderID() string {
	return fmt.Sprintf("%s%s", OrderIDPrefix, orderDigits())
}

// NewDeliveryToken returns an unguessable single-use delivery token.
// Uniqueness is enforced by the database index, not assumed from entropy.
func NewDeliveryToken() string {
	return deliveryToken()
}

// NewCartID returns an opaque identifier for an in-memory cart session.
func NewCartID() string {
	return cartID()
}
