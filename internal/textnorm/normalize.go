// Package textnorm provides text normalization for entity matching.
// Course and instructor names arrive from users with inconsistent casing,
// spacing and accents ("Sistemas Distribuídos", "sistemas distribuidos",
// " SISTEMAS  distribuidos "); all comparisons run on the normalized form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, drops combining marks and recomposes to NFC.
// "distribuídos" -> "distribuidos".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical comparison form of s: trimmed, internal
// whitespace runs collapsed to a single space, lowercased, diacritics removed.
// Total function: empty input yields empty output, invalid UTF-8 passes
// through untouched by the mark stripper.
func Normalize(s string) string {
	s = CollapseSpace(s)
	s = strings.ToLower(s)
	if stripped, _, err := transform.String(stripMarks, s); err == nil {
		s = stripped
	}
	return s
}

// CollapseSpace trims s and collapses internal whitespace runs to one space.
// Accents and case are preserved. This is the cache-key form: resolution
// cache keys keep accents so provider lookups that are accent-sensitive
// stay distinguishable.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokens splits s into normalized tokens longer than min runes.
// Used by the keyword-overlap matching tier.
func Tokens(s string, min int) []string {
	fields := strings.Fields(Normalize(s))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) > min {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
