package postgres

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"
)

const maxQueryInError = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// compactQuery collapses whitespace and truncates so a failing statement
// can ride along in an error without multi-line noise.
func compactQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryWhitespaceRegex.ReplaceAllString(query, " ")
	if len(normalized) <= maxQueryInError {
		return normalized
	}

	return normalized[:maxQueryInError] + "..."
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time
	return &t
}
