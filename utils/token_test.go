package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderID(t *testing.T) {
	id := NewOrderID()
	assert.True(t, strings.HasPrefix(id, OrderIDPrefix))
	digits := strings.TrimPrefix(id, OrderIDPrefix)
	assert.Len(t, digits, 5)
	for _, r := range digits {
		assert.True(t, r >= '0' && r <= '9', "order id suffix must be digits, got %q", id)
	}
}

func TestNewDeliveryToken(t *testing.T) {
	token := NewDeliveryToken()
	assert.Len(t, token, 21)

	// Distinct across calls; real uniqueness is the database index's job.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[NewDeliveryToken()] = true
	}
	assert.Equal(t, 100, len(seen))
}

func TestNewCartID(t *testing.T) {
	assert.Len(t, NewCartID(), 16)
	assert.NotEqual(t, NewCartID(), NewCartID())
}
