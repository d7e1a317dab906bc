package holiday

import "time"

// fixedHolidays lists the month/day pairs that are non-working every year
// within the authoritative range, following the Russian public holiday
// calendar: the New Year block, Defender of the Fatherland Day,
// International Women's Day, Spring and Labour Day, Victory Day, Russia
// Day, and Unity Day.
var fixedHolidays = []struct {
	month time.Month
	day   int
}{
	{time.January, 1},
	{time.January, 2},
	{time.January, 3},
	{time.January, 4},
	{time.January, 5},
	{time.January, 6},
	{time.January, 7},
	{time.January, 8},
	{time.February, 23},
	{time.March, 8},
	{time.May, 1},
	{time.May, 9},
	{time.June, 12},
	{time.November, 4},
}

// transferOverrides holds government-declared bridge days for the
// specific recent years this binary ships data for: a Saturday or Sunday
// that is promoted to a working day to compensate for a holiday moved
// elsewhere. Years outside this map have no transfers (but still observe
// fixedHolidays within the authoritative range).
var transferOverrides = map[int][]struct {
	month time.Month
	day   int
}{
	2024: {{time.April, 27}, {time.December, 28}},
	2025: {{time.November, 1}},
	2026: {{time.February, 21}},
}

// holidaysForYear returns the non-working holiday dates for year,
// computed once per call from the compiled fixedHolidays table. Years
// outside [MinYear, MaxYear] return nil: the engine falls back to
// weekends-only per §4.B.
func holidaysForYear(year int) []time.Time {
	if year < MinYear || year > MaxYear {
		return nil
	}
	out := make([]time.Time, 0, len(fixedHolidays))
	for _, h := range fixedHolidays {
		out = append(out, time.Date(year, h.month, h.day, 0, 0, 0, 0, time.UTC))
	}
	return out
}

func transfersForYear(year int) []time.Time {
	entries, ok := transferOverrides[year]
	if !ok {
		return nil
	}
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, time.Date(year, e.month, e.day, 0, 0, 0, 0, time.UTC))
	}
	return out
}
