package search

import (
	"strings"
	"unicode"
)

// NormalizeQuery lowercases the query, strips punctuation, and
// collapses surrounding whitespace before the containment scan.
func NormalizeQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		switch {
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			// dropped
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return strings.TrimSpace(b.String())
}
