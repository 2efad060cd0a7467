package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripDiacritics(t *testing.T) {
	assert.Equal(t, "Perfumaria Citrica", StripDiacritics("Perfumaria Cítrica"))
	assert.Equal(t, "Joao", StripDiacritics("João"))
	assert.Equal(t, "ambar e almiscar", StripDiacritics("âmbar e almíscar"))
	assert.Equal(t, "plain", StripDiacritics("plain"))
	assert.Equal(t, "", StripDiacritics(""))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Perfumes", "perfumes"},
		{"diacritics", "Fragrâncias Íntimas", "fragrancias-intimas"},
		{"punctuation collapsed", "Eau de Parfum — 100ml!", "eau-de-parfum-100ml"},
		{"leading and trailing junk", "  --Novidades--  ", "novidades"},
		{"multiple spaces", "kits   de   oferta", "kits-de-oferta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}
