// Package resolve matches discovery candidates against existing records:
// name normalization, string similarity, and the exact/fuzzy/no-match
// resolution cascade.
package resolve

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics decomposes characters and strips combining marks, so
// "Sixél" and "Sixel" normalize identically.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName standardizes a person name for matching:
//  1. Trim whitespace, lowercase
//  2. Fold diacritics (é -> e)
//  3. Replace non-alphanumerics with spaces
//  4. Collapse runs of spaces
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	name = strings.ToLower(name)

	if folded, _, err := transform.String(foldDiacritics, name); err == nil {
		name = folded
	}

	var b strings.Builder
	b.Grow(len(name))
	lastSpace := true
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}
