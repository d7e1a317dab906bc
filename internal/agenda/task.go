// Package agenda holds the task record data model (§3) and the agenda
// planner (§4.G): given tasks, a reference date, and a range, it
// classifies each task's occurrences into per-day buckets.
package agenda

import (
	"github.com/javiermolinar/agenda/internal/clock"
	"github.com/javiermolinar/agenda/internal/timestamp"
)

// State is a task's TODO/DONE marker, or None if the heading carries
// neither.
type State string

const (
	StateTodo State = "todo"
	StateDone State = "done"
	StateNone State = "none"
)

// Task is one heading's worth of extracted metadata (§3). Exactly one
// Task is emitted per qualifying heading.
type Task struct {
	FilePath string
	Line     int // 1-based, of the heading line
	Heading  string
	State    State
	Priority string // single uppercase letter, "" if none
	Content  string // paragraph text immediately following the heading

	CreatedRaw string // full "CREATED: <...>" literal, "" if absent

	// PrimaryRaw is the literal backtick-span text of the task's
	// primary timestamp, "" if none was found. PrimaryParsed is the
	// structured form of the same timestamp, used internally by the
	// planner and repeater engine; Type/Date/StartTime/EndTime below
	// are always derived from it, never set independently, which is
	// how the §3 invariant ("derived fields agree with it") holds by
	// construction.
	PrimaryRaw    string
	PrimaryParsed *timestamp.Timestamp

	Type      string // "scheduled"/"deadline"/"closed"/"plain", "" if no primary
	Date      string // ISO YYYY-MM-DD, "" if no primary
	StartTime string // "HH:MM", "" if absent
	EndTime   string // "HH:MM", "" if absent

	Clocks         []clock.Entry
	TotalClockTime string // "H:MM", "" if no closed clock entries
}

// SetPrimary stores ts as the task's primary timestamp and derives
// Type/Date/StartTime/EndTime from it in one place, so they can never
// drift out of agreement with PrimaryParsed.
func (t *Task) SetPrimary(raw string, ts *timestamp.Timestamp) {
	t.PrimaryRaw = raw
	t.PrimaryParsed = ts
	t.Type = string(ts.Kind)
	t.Date = ts.StartDate.Format("2006-01-02")
	t.StartTime = ts.StartTime
	t.EndTime = ts.EndTime
}

// HasPrimary reports whether the task carries a primary timestamp.
func (t *Task) HasPrimary() bool {
	return t.PrimaryParsed != nil
}

// SetClocks stores clocks and recomputes TotalClockTime from their
// closed entries (§3's invariant on total_clock_time).
func (t *Task) SetClocks(clocks []clock.Entry) {
	t.Clocks = clocks
	if total := clock.TotalMinutes(clocks); hasClosedEntry(clocks) {
		t.TotalClockTime = clock.FormatTotal(total)
	} else {
		t.TotalClockTime = ""
	}
}

func hasClosedEntry(entries []clock.Entry) bool {
	for _, e := range entries {
		if e.Closed() {
			return true
		}
	}
	return false
}
