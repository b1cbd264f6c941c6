// Package strcase converts Go identifiers into the snake_case keys exposed to clients.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts a string to snake_case (initialism-safe).
//
//	Email      -> email
//	FullName   -> full_name
//	TaxID      -> tax_id
//	HTTPServer -> http_server
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if r == '-' || r == ' ' {
			r = '_'
		}

		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			// lower/digit -> upper, or the last capital of an acronym followed by a word
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// ToLowerSnakePath converts every segment of a dotted path, e.g.
// "Address.StreetName" -> "address.street_name".
func ToLowerSnakePath(path string) string {
	segments := strings.Split(path, ".")
	for i, seg := range segments {
		segments[i] = ToLowerSnake(seg)
	}
	return strings.Join(segments, ".")
}
