// Package dateutil provides date parsing, range validation, and
// timezone-aware "today" resolution for the command-line surface (§6).
package dateutil

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
)

// DateRange represents a validated date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange creates a new DateRange with validation.
// startDate can be empty (defaults to today) or in YYYY-MM-DD format.
// endDate can be empty (defaults to startDate) or in YYYY-MM-DD format.
// Returns an error if endDate is before startDate.
func NewDateRange(startDate, endDate string) (*DateRange, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return nil, err
	}

	var end time.Time
	if endDate == "" {
		end = start
	} else {
		end, err = ParseDate(endDate)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// MonthRange returns the first and last day of t's calendar month.
func MonthRange(t time.Time) (first, last time.Time) {
	t = TruncateToDay(t)
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// TruncateToDay returns t with time set to midnight, in UTC.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResolveToday computes the reference "today" (§6): currentDate, if set,
// overrides it outright; otherwise it is today's date in tzName. An
// unrecognized tzName falls back to UTC rather than failing the
// invocation (§7 treats this as tolerated, not fatal).
func ResolveToday(tzName, currentDate string, now time.Time) (time.Time, error) {
	if currentDate != "" {
		return ParseDate(currentDate)
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC), nil
}
