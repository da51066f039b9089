// Package shared provides common utility functions used across multiple
// packages in the hotel-erp codebase.
package shared

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// NormalizeKey lowercases a name and collapses spaces, underscores and
// hyphens into single hyphens, so "Hotel Room" and "hotel_room" compare equal.
func NormalizeKey(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", " ", "-", " ")
	return strings.Join(strings.Fields(replacer.Replace(lower)), "-")
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	if strings.TrimSpace(body) == "" {
		return HTTPStatusError(status, url)
	}
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}

// TruncateBody shortens a response body for logs and error messages without
// splitting a multi-byte character.
func TruncateBody(body []byte, limit int) string {
	text := strings.TrimSpace(string(body))
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
