package utils

import (
	"strings"
)

// NormalizePhone strips spaces, dashes and a leading +244 country prefix,
// leaving only the local digits.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "244") {
		digits = digits[3:]
	}
	return digits
}

// IsValidPhone reports whether phone normalizes to a 9-digit local number.
func IsValidPhone(phone string) bool {
	digits := NormalizePhone(phone)
	return len(digits) == 9
}
