// Package textutil provides the text normalization used by lexical retrieval.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining diacritical marks, so
// "chiến thắng" and "chien thang" normalize to the same token stream.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases text, strips diacritics, replaces anything that is
// not a letter, digit, or whitespace with a space, and collapses whitespace.
// Total and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	text = strings.ToLower(text)
	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits normalized text on whitespace. Duplicates are retained,
// order is preserved, and a blank or symbol-only input yields no tokens.
func Tokenize(text string) []string {
	return strings.Fields(Normalize(text))
}
