// Package markdown renders task and agenda records as a heading-nested
// Markdown report (§6's "Markdown output").
package markdown

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/agenda/internal/agenda"
)

// Tasks renders a flat task list under a top-level "# Tasks" heading.
func Tasks(tasks []*agenda.Task) string {
	var b strings.Builder
	b.WriteString("# Tasks\n\n")
	for _, t := range tasks {
		b.WriteString("## ")
		b.WriteString(t.Heading)
		b.WriteString("\n\n")
		writeFields(&b, t)
	}
	return b.String()
}

// Days renders a sequence of agenda days under a top-level "# Agenda"
// heading, one second-level heading per day and third-level headings per
// bucket (§6).
func Days(days []*agenda.Day) string {
	var b strings.Builder
	b.WriteString("# Agenda\n\n")
	for _, d := range days {
		fmt.Fprintf(&b, "## %s\n\n", d.Date.Format("2006-01-02"))

		writeBucket(&b, "Overdue", d.Overdue, true)

		var scheduled []agenda.Entry
		scheduled = append(scheduled, d.ScheduledTimed...)
		scheduled = append(scheduled, d.ScheduledNoTime...)
		writeBucket(&b, "Scheduled", scheduled, false)

		writeBucket(&b, "Upcoming", d.Upcoming, true)
	}
	return b.String()
}

func writeBucket(b *strings.Builder, title string, entries []agenda.Entry, withOffset bool) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, e := range entries {
		b.WriteString("#### ")
		b.WriteString(e.Task.Heading)
		if withOffset {
			b.WriteString(offsetSuffix(e.DaysOffset))
		}
		b.WriteString("\n\n")
		writeFields(b, e.Task)
	}
}

func offsetSuffix(offset int) string {
	if offset < 0 {
		return fmt.Sprintf(" (%d days ago)", -offset)
	}
	return fmt.Sprintf(" (in %d days)", offset)
}

func writeFields(b *strings.Builder, t *agenda.Task) {
	fmt.Fprintf(b, "**File:** %s\n", t.FilePath)
	if t.Type != "" {
		fmt.Fprintf(b, "**Type:** %s\n", t.Type)
	}
	if t.Priority != "" {
		fmt.Fprintf(b, "**Priority:** %s\n", t.Priority)
	}
	if t.StartTime != "" {
		timeStr := t.StartTime
		if t.EndTime != "" {
			timeStr += "-" + t.EndTime
		}
		fmt.Fprintf(b, "**Time:** %s\n", timeStr)
	}
	if t.CreatedRaw != "" {
		fmt.Fprintf(b, "**Created:** %s\n", t.CreatedRaw)
	}
	if t.TotalClockTime != "" {
		fmt.Fprintf(b, "**Total Time:** %s\n", t.TotalClockTime)
	}
	for _, c := range t.Clocks {
		if c.End != nil {
			fmt.Fprintf(b, "**Clock:** %s--%s\n", c.Start, *c.End)
		} else {
			fmt.Fprintf(b, "**Clock:** %s (open)\n", c.Start)
		}
	}
	b.WriteString("\n")
}
