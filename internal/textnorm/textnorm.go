// Package textnorm provides the text normalization primitives shared by
// the analyzer, classifier, and deduplication passes. Comparison keys
// produced here must be stable: two scrapes of the same headline that
// differ only in casing, punctuation, or whitespace normalize to the
// same string.
package textnorm

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and collapses all runs of whitespace to single
// spaces, trimming the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeTitle builds a title comparison key: lowercase, with every
// character that is not a letter, digit, or space removed, and
// whitespace collapsed.
func NormalizeTitle(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Words splits s on whitespace. Empty input yields a nil slice.
func Words(s string) []string {
	return strings.Fields(s)
}

// Sentences splits text on sentence terminators (. ! ?) and returns the
// non-empty trimmed segments.
func Sentences(text string) []string {
	segments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if s := strings.TrimSpace(seg); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Paragraphs splits content on newlines and returns non-empty trimmed lines.
func Paragraphs(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if l := strings.TrimSpace(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// AlphanumericRatio returns the share of characters in s that are
// letters or digits. Returns 0 for an empty string.
func AlphanumericRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	count := 0
	total := 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			count++
		}
	}
	return float64(count) / float64(total)
}
