// Package sanitize provides text sanitization utilities to prevent XSS attacks.
package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// strictPolicy removes every element; script and style content goes with them
	strictPolicy = bluemonday.StrictPolicy()
	// spaceRunRegex matches runs of whitespace, including newlines and tabs
	spaceRunRegex = regexp.MustCompile(`\s+`)
)

// StripHTML removes all HTML tags from a string, making it safe for text-only display.
// Entities are decoded in the result.
func StripHTML(s string) string {
	result := html.UnescapeString(strictPolicy.Sanitize(s))
	// Re-strip after entity decode to catch encoded tags
	result = html.UnescapeString(strictPolicy.Sanitize(result))
	return strings.TrimSpace(result)
}

// Text strips HTML and collapses whitespace runs into single spaces.
// Used for upstream messages and free-text form input.
func Text(s string) string {
	return strings.TrimSpace(spaceRunRegex.ReplaceAllString(StripHTML(s), " "))
}

// TextPtr is a helper for optional string pointers
func TextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Text(*s)
	return &result
}
