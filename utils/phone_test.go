package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain local number", "923456789", "923456789"},
		{"spaces and dashes", "923 456-789", "923456789"},
		{"international prefix", "+244923456789", "923456789"},
		{"prefix without plus", "244923456789", "923456789"},
		{"prefix with spaces", "+244 923 456 789", "923456789"},
		{"short number untouched", "1234", "1234"},
		{"letters dropped", "tel: 923456789", "923456789"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.input))
		})
	}
}

func TestIsValidPhone(t *testing.T) {
	assert.True(t, IsValidPhone("923456789"))
	assert.True(t, IsValidPhone("+244 923 456 789"))
	assert.False(t, IsValidPhone("92345678"), "8 digits")
	assert.False(t, IsValidPhone("9234567890"), "10 digits")
	assert.False(t, IsValidPhone(""))
	assert.False(t, IsValidPhone("abc"))
}
