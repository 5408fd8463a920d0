package http

import (
	"net/http"
	"strconv"
	"time"

	apperrors "innkeep/pkg/errors"
)

// dateLayouts accepted for date query parameters, tried in order. Date-only
// values parse to midnight UTC.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDateParam reads a required ISO-8601 date query parameter. Malformed
// input is reported as invalid input, distinct from business-rule failures.
func ParseDateParam(r *http.Request, name string) (time.Time, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return time.Time{}, apperrors.InvalidInput("Query parameter '" + name + "' is required")
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, apperrors.InvalidInput("Invalid date format for '" + name + "'. Use ISO format.")
}

// ParseIntParam reads an optional integer query parameter, falling back to
// def when absent.
func ParseIntParam(r *http.Request, name string, def int) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + name + " parameter: " + value)
	}
	return parsed, nil
}
