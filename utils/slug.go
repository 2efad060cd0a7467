package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// StripDiacritics removes combining marks: "Perfumaria Cítrica" -> "Perfumaria Citrica".
func StripDiacritics(s string) string {
	out, _, err := transform.String(diacriticsRemover, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify derives a URL slug from a display name: diacritics stripped,
// lowercased, runs of non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	s := strings.ToLower(StripDiacritics(name))
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
