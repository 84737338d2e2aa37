package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// timeLayout stores times in SQLite with millisecond resolution.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// parseTime parses a stored time string. RFC3339 without fractional seconds
// is accepted too, for rows written by older builds.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// formatTime formats a time for storage.
func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// nullTime converts an optional time to a driver value.
func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

// scanNullTime converts a nullable column back to an optional time.
func scanNullTime(ns sql.NullString, field string) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTime(ns.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return &t, nil
}

// parseDecimal parses a stored monetary value.
func parseDecimal(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return d, nil
}
