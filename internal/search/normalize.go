// Package search implements the term-based matching engine behind
// listing discovery: term normalization, facet synonym expansion,
// term-group merging, and conjunctive matching against listing
// metadata.
package search

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any character that is not a lowercase letter, digit,
	// whitespace, or hyphen.
	disallowedChars = regexp.MustCompile(`[^a-z0-9\s-]+`)
	// Matches runs of whitespace.
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes a raw term for comparison.
// "Mid-Century Modern!!" -> "mid-century modern".
// "  Cozy   Vibes " -> "cozy vibes".
//
// Hyphens are preserved; all other punctuation becomes whitespace.
// Normalize is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	// Decompose accented characters, then drop anything non-ASCII.
	s := norm.NFKD.String(raw)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)

	// Punctuation other than hyphens becomes a space.
	s = disallowedChars.ReplaceAllString(s, " ")

	// Collapse whitespace runs.
	s = whitespaceRuns.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
