package util

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the calendar-date form accepted for date filters
const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD or RFC 3339")

// ParseDateBound parses a date filter bound. An empty value yields nil.
// A calendar date resolves to the start of that day, or to its last instant
// when endOfDay is set, so a date-only upper bound covers the whole day.
// RFC 3339 values are used as given, converted to UTC.
func ParseDateBound(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(DateLayout, value); err == nil {
		if endOfDay {
			t = EndOfDay(t)
		}
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, ErrInvalidDate
	}
	t = t.UTC()
	return &t, nil
}

// EndOfDay returns the last representable instant of t's calendar day
func EndOfDay(t time.Time) time.Time {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start.AddDate(0, 0, 1).Add(-time.Microsecond)
}
