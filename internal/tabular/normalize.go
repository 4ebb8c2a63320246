package tabular

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// nonWordRun matches maximal runs of characters outside [a-z0-9_].
var nonWordRun = regexp.MustCompile(`[^a-z0-9_]+`)

// accentStripper decomposes to NFKD and drops combining marks, so "é" -> "e".
var accentStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// NormalizeName converts an arbitrary header string into a canonical column
// identifier: accents stripped, lower-cased, every run of non-word characters
// collapsed into a single underscore, leading/trailing underscores removed.
// The function is total and idempotent.
func NormalizeName(name string) string {
	stripped, _, err := transform.String(accentStripper, name)
	if err != nil {
		// transform only fails on malformed UTF-8; fall back to the raw input
		// so normalization stays total.
		stripped = name
	}
	s := strings.ToLower(strings.TrimSpace(stripped))
	s = nonWordRun.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
