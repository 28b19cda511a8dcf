package graph

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slug turns a free-text node name into a stable id fragment: lowercase
// ASCII with underscores, accents stripped. "Crédit export" becomes
// "credit_export".
func Slug(name string) string {
	clean, _, err := transform.String(deaccent, name)
	if err != nil {
		clean = name
	}

	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(clean) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
