// Package html renders task and agenda records as an HTML report
// equivalent in structure to internal/render/markdown (§6's "HTML
// output"). It uses only the standard library's html.EscapeString for
// text-node escaping: none of the corpus's third-party dependencies
// (goldmark, go-toml, cobra, regexp2, go-json, yaml.v3) cover HTML
// document construction, so there is no library from the examined stack
// to wire in here.
package html

import (
	"fmt"
	"html"
	"strings"

	"github.com/javiermolinar/agenda/internal/agenda"
)

// Tasks renders a flat task list as an HTML fragment.
func Tasks(tasks []*agenda.Task) string {
	var b strings.Builder
	b.WriteString("<h1>Tasks</h1>\n")
	for _, t := range tasks {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", html.EscapeString(t.Heading))
		writeFields(&b, t)
	}
	return b.String()
}

// Days renders a sequence of agenda days as an HTML fragment.
func Days(days []*agenda.Day) string {
	var b strings.Builder
	b.WriteString("<h1>Agenda</h1>\n")
	for _, d := range days {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", d.Date.Format("2006-01-02"))

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
	fmt.Fprintf(b, "<h3>%s</h3>\n", title)
	for _, e := range entries {
		heading := html.EscapeString(e.Task.Heading)
		if withOffset {
			heading += offsetSuffix(e.DaysOffset)
		}
		fmt.Fprintf(b, "<h4>%s</h4>\n", heading)
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
	b.WriteString("<ul>\n")
	fmt.Fprintf(b, "<li><strong>File:</strong> %s</li>\n", html.EscapeString(t.FilePath))
	if t.Type != "" {
		fmt.Fprintf(b, "<li><strong>Type:</strong> %s</li>\n", html.EscapeString(t.Type))
	}
	if t.Priority != "" {
		fmt.Fprintf(b, "<li><strong>Priority:</strong> %s</li>\n", html.EscapeString(t.Priority))
	}
	if t.StartTime != "" {
		timeStr := t.StartTime
		if t.EndTime != "" {
			timeStr += "-" + t.EndTime
		}
		fmt.Fprintf(b, "<li><strong>Time:</strong> %s</li>\n", html.EscapeString(timeStr))
	}
	if t.CreatedRaw != "" {
		fmt.Fprintf(b, "<li><strong>Created:</strong> %s</li>\n", html.EscapeString(t.CreatedRaw))
	}
	if t.TotalClockTime != "" {
		fmt.Fprintf(b, "<li><strong>Total Time:</strong> %s</li>\n", html.EscapeString(t.TotalClockTime))
	}
	for _, c := range t.Clocks {
		if c.End != nil {
			fmt.Fprintf(b, "<li><strong>Clock:</strong> %s--%s</li>\n", html.EscapeString(c.Start), html.EscapeString(*c.End))
		} else {
			fmt.Fprintf(b, "<li><strong>Clock:</strong> %s (open)</li>\n", html.EscapeString(c.Start))
		}
	}
	b.WriteString("</ul>\n")
}
