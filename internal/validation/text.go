// Package validation provides input sanitization and format checks.
package validation

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	idRegex      = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// PlainText strips all markup from s and trims surrounding whitespace.
// Entities are decoded so stored text reads the way it was typed.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// IsBlank reports whether s is empty after trimming whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ValidID reports whether id is an acceptable entry or user identifier.
func ValidID(id string) bool {
	return idRegex.MatchString(id)
}

// WithinLength reports whether s has at most max characters, counted as code points.
func WithinLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}
