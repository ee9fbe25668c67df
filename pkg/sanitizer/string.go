// Package sanitizer normalizes free-text input before validation and
// storage. All functions are idempotent and never return errors; invalid
// input normalizes to the empty string.
package sanitizer

import (
	"strings"
	"unicode"
)

// TrimAndNormalize trims leading and trailing whitespace and collapses
// internal whitespace runs to a single space.
func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName cleans display names. Case is preserved.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeLabel cleans grouping labels. Labels are matched
// case-insensitively, so they are stored lowercase.
func NormalizeLabel(label string) string {
	return strings.ToLower(TrimAndNormalize(label))
}
