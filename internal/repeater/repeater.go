// Package repeater advances a timestamp that carries a repeater rule to
// its next occurrence relative to a reference date (§4.D).
package repeater

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/agenda/internal/holiday"
	"github.com/javiermolinar/agenda/internal/timestamp"
)

// ErrNoRepeater is returned by Advance when the timestamp carries no
// repeater rule.
var ErrNoRepeater = errors.New("timestamp has no repeater")

// maxIterations bounds the cumulative/catch-up search loops so a
// pathological repeater (e.g. a zero-length period) cannot hang.
const maxIterations = 100_000

// Advance computes ts's next occurrence relative to today, selecting the
// base date by the repeater's strategy (§4.D's table). The returned
// Timestamp is a copy of ts with StartDate/StartTime updated and
// DayOfWeek cleared (it is derived, not carried forward).
func Advance(ts *timestamp.Timestamp, today time.Time, cal holiday.Calendar) (*timestamp.Timestamp, error) {
	if ts.Repeater == nil {
		return nil, ErrNoRepeater
	}

	today = truncate(today)
	rep := ts.Repeater

	var date time.Time
	var clock string

	switch rep.Strategy {
	case timestamp.StrategyRestart:
		date, clock = addPeriod(today, ts.StartTime, rep.Unit, rep.Count, cal)

	case timestamp.StrategyCumulative:
		date, clock = ts.StartDate, ts.StartTime
		for i := 0; !date.After(today); i++ {
			if i >= maxIterations {
				return nil, fmt.Errorf("repeater: cumulative advance did not converge after %d steps", maxIterations)
			}
			date, clock = addPeriod(date, clock, rep.Unit, rep.Count, cal)
		}

	case timestamp.StrategyCatchUp:
		date, clock = ts.StartDate, ts.StartTime
		for i := 0; ; i++ {
			if i >= maxIterations {
				return nil, fmt.Errorf("repeater: catch-up advance did not converge after %d steps", maxIterations)
			}
			date, clock = addPeriod(date, clock, rep.Unit, rep.Count, cal)
			if !date.Before(today) {
				break
			}
		}

	default:
		return nil, fmt.Errorf("repeater: unknown strategy %q", rep.Strategy)
	}

	next := *ts
	next.StartDate = date
	next.StartTime = clock
	next.DayOfWeek = ""
	return &next, nil
}

// addPeriod advances date (and, for the hour unit, timeOfDay) by one
// period of n units, per §4.D's per-unit definitions.
func addPeriod(date time.Time, timeOfDay string, unit timestamp.Unit, n int, cal holiday.Calendar) (time.Time, string) {
	switch unit {
	case timestamp.UnitHour:
		return addHours(date, timeOfDay, n)
	case timestamp.UnitDay:
		return date.AddDate(0, 0, n), timeOfDay
	case timestamp.UnitWeek:
		return date.AddDate(0, 0, 7*n), timeOfDay
	case timestamp.UnitMonth:
		return addMonthsClamped(date, n), timeOfDay
	case timestamp.UnitYear:
		return addYearsClamped(date, n), timeOfDay
	case timestamp.UnitWorkday:
		d := date
		for i := 0; i < n; i++ {
			d = cal.NextWorkday(d)
		}
		return d, timeOfDay
	default:
		return date, timeOfDay
	}
}

func addHours(date time.Time, timeOfDay string, n int) (time.Time, string) {
	h, m := parseHourMinute(timeOfDay)
	dt := time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, time.UTC)
	dt = dt.Add(time.Duration(n) * time.Hour)
	newDate := truncate(dt)
	newTime := fmt.Sprintf("%02d:%02d", dt.Hour(), dt.Minute())
	if timeOfDay == "" {
		newTime = ""
	}
	return newDate, newTime
}

func parseHourMinute(s string) (int, int) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h, m
}

// addMonthsClamped adds n months to t's calendar fields, clamping the
// day to the target month's last day when it would otherwise overflow
// (e.g. Jan 31 + 1 month -> Feb 28/29, never Mar 3).
func addMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + n
	year += total / 12
	m := total % 12
	if m < 0 {
		m += 12
		year--
	}
	newMonth := time.Month(m + 1)
	if last := daysInMonth(year, newMonth); day > last {
		day = last
	}
	return time.Date(year, newMonth, day, 0, 0, 0, 0, time.UTC)
}

// addYearsClamped adds n years, clamping Feb 29 to Feb 28 when the
// target year is not a leap year.
func addYearsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	newYear := year + n
	if month == time.February && day == 29 && !isLeap(newYear) {
		day = 28
	}
	return time.Date(newYear, month, day, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
