package security

import (
	"errors"
	"regexp"
	"strings"
)

// MaxSearchQueryLength defines the maximum allowed length for search queries
const MaxSearchQueryLength = 100

// ErrSearchTooLong is returned when a search query exceeds MaxSearchQueryLength.
var ErrSearchTooLong = errors.New("search query too long")

// ValidateSearchQuery trims a search query and enforces the length cap.
// An empty query is valid and means "no filter".
func ValidateSearchQuery(query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	if len(query) > MaxSearchQueryLength {
		return "", ErrSearchTooLong
	}

	return query, nil
}

// EscapeSearchPattern prepares a search query for use inside a regular
// expression filter. Every metacharacter is escaped so the query matches as
// a literal substring, never as a user-supplied pattern.
func EscapeSearchPattern(query string) string {
	return regexp.QuoteMeta(query)
}
