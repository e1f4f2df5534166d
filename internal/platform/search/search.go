// Package search provides accent and case folding for list filters, so
// a query like "Martínez" also matches rows stored as "Martinez".
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and removes combining marks. Stored text is not
// folded; the schema pins an accent-insensitive collation
// (utf8mb4_0900_ai_ci) so a folded query still matches accented rows.
func Fold(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}
