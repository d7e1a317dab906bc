// Package record serializes task and agenda records to their JSON shape
// (§6's "record-form output"), using goccy/go-json for marshaling.
package record

import (
	goccyjson "github.com/goccy/go-json"

	"github.com/javiermolinar/agenda/internal/agenda"
)

type clockRecord struct {
	Start    string  `json:"start"`
	End      *string `json:"end,omitempty"`
	Duration *string `json:"duration,omitempty"`
}

type taskRecord struct {
	FilePath       string        `json:"file_path"`
	Line           int           `json:"line"`
	Heading        string        `json:"heading"`
	State          string        `json:"state"`
	Priority       string        `json:"priority,omitempty"`
	Content        string        `json:"content,omitempty"`
	Created        string        `json:"created,omitempty"`
	Type           string        `json:"type,omitempty"`
	Date           string        `json:"date,omitempty"`
	StartTime      string        `json:"start_time,omitempty"`
	EndTime        string        `json:"end_time,omitempty"`
	Clocks         []clockRecord `json:"clocks,omitempty"`
	TotalClockTime string        `json:"total_clock_time,omitempty"`
}

type entryRecord struct {
	taskRecord
	DaysOffset *int `json:"days_offset,omitempty"`
}

type dayRecord struct {
	Date            string        `json:"date"`
	Overdue         []entryRecord `json:"overdue"`
	ScheduledTimed  []entryRecord `json:"scheduled_timed"`
	ScheduledNoTime []entryRecord `json:"scheduled_no_time"`
	Upcoming        []entryRecord `json:"upcoming"`
}

func toTaskRecord(t *agenda.Task) taskRecord {
	r := taskRecord{
		FilePath:       t.FilePath,
		Line:           t.Line,
		Heading:        t.Heading,
		State:          string(t.State),
		Priority:       t.Priority,
		Content:        t.Content,
		Created:        t.CreatedRaw,
		Type:           t.Type,
		Date:           t.Date,
		StartTime:      t.StartTime,
		EndTime:        t.EndTime,
		TotalClockTime: t.TotalClockTime,
	}
	for _, c := range t.Clocks {
		r.Clocks = append(r.Clocks, clockRecord{Start: c.Start, End: c.End, Duration: c.Duration})
	}
	return r
}

func toEntryRecord(e agenda.Entry, withOffset bool) entryRecord {
	r := entryRecord{taskRecord: toTaskRecord(e.Task)}
	if withOffset {
		offset := e.DaysOffset
		r.DaysOffset = &offset
	}
	return r
}

func toEntryRecords(entries []agenda.Entry, withOffset bool) []entryRecord {
	out := make([]entryRecord, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryRecord(e, withOffset))
	}
	return out
}

// Tasks renders a flat task list (§4.G's Tasks mode) to JSON.
func Tasks(tasks []*agenda.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, toTaskRecord(t))
	}
	return goccyjson.MarshalIndent(records, "", "  ")
}

// Days renders a sequence of agenda days (§4.G's Day/Range mode) to JSON.
func Days(days []*agenda.Day) ([]byte, error) {
	records := make([]dayRecord, 0, len(days))
	for _, d := range days {
		records = append(records, dayRecord{
			Date:            d.Date.Format("2006-01-02"),
			Overdue:         toEntryRecords(d.Overdue, true),
			ScheduledTimed:  toEntryRecords(d.ScheduledTimed, false),
			ScheduledNoTime: toEntryRecords(d.ScheduledNoTime, false),
			Upcoming:        toEntryRecords(d.Upcoming, true),
		})
	}
	return goccyjson.MarshalIndent(records, "", "  ")
}
