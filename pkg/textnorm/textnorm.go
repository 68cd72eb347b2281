/*
Package textnorm canonicalizes inbound text for comparison.

Messaging clients are creative about what they actually send: curly quotes,
non-breaking spaces, stray accents and casing. Normalize folds all of that
away so trigger phrases and keywords can be compared with plain ==.
*/
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// quotes maps directional/curly quote variants to plain ASCII quotes and
// the non-breaking space to a regular space.
var quotes = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
	" ", " ",
)

// stripMarks removes accent/diacritic marks after full decomposition.
var stripMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Normalize returns the canonical form of s: ASCII quotes, accents stripped,
// whitespace collapsed to single spaces, trimmed, lower-cased.
// It is pure and total: on a malformed input it degrades gracefully instead
// of failing.
func Normalize(s string) string {
	s = quotes.Replace(s)
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
