// Package clock extracts CLOCK time-tracking records from prose or
// fenced code blocks and computes their durations and totals (§4.E).
package clock

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
)

// Entry is a single time-clock record. Start and End are stored as the
// raw inner text between brackets (including any day-of-week token), per
// §4.E: "The start value is stored as the raw inner text". A nil End
// means the clock is still open.
type Entry struct {
	Start    string
	End      *string
	Duration *string // "H:MM", present only for closed entries
}

// Closed reports whether the entry has both endpoints.
func (e Entry) Closed() bool {
	return e.End != nil
}

var (
	compileOnce sync.Once
	linePattern *regexp2.Regexp
)

// linePatternSource matches a CLOCK line. The opening bracket can be '<'
// or '[' (§1's one exception to "no inactive timestamps": CLOCK records
// accept square brackets as equivalent to angle brackets) and both
// alternatives reuse the same capture group names "s"/"e" — a duplicate
// named group across alternation branches that Go's stdlib regexp
// (RE2) rejects outright but regexp2's .NET-compatible engine allows,
// which is why this package uses regexp2 rather than stdlib regexp.
const linePatternSource = `CLOCK:\s*(?:<(?<s>[^>]+)>|\[(?<s>[^\]]+)\])(?:--(?:<(?<e>[^>]+)>|\[(?<e>[^\]]+)\]))?(?:\s*=>\s*(?<dur>\d+\s*:\s*\d+))?`

func patterns() {
	compileOnce.Do(func() {
		linePattern = regexp2.MustCompile(linePatternSource, regexp2.None)
	})
}

// ParseLine extracts a clock entry from a single line (or an entire
// backtick-span's content) beginning with "CLOCK:". Returns ok=false if
// the line does not contain a recognizable clock record.
func ParseLine(line string) (Entry, bool) {
	patterns()

	m, _ := linePattern.FindStringMatch(line)
	if m == nil {
		return Entry{}, false
	}

	start := groupValue(m, "s")
	if start == "" {
		return Entry{}, false
	}

	entry := Entry{Start: strings.TrimSpace(start)}

	if end := groupValue(m, "e"); end != "" {
		trimmed := strings.TrimSpace(end)
		entry.End = &trimmed
	}

	if dur := groupValue(m, "dur"); dur != "" {
		normalized := normalizeDuration(dur)
		entry.Duration = &normalized
	} else if entry.End != nil {
		if computed, ok := computeDuration(entry.Start, *entry.End); ok {
			entry.Duration = &computed
		}
	}

	return entry, true
}

// groupValue returns the capture for a (possibly duplicated across
// alternation branches) named group, or "" if it did not participate in
// the match.
func groupValue(m *regexp2.Match, name string) string {
	g := m.GroupByName(name)
	if g == nil {
		return ""
	}
	return g.String()
}

// normalizeDuration reformats "H: MM" style spacing and zero-pads
// minutes into the canonical "H:MM" form used throughout this package.
func normalizeDuration(s string) string {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return strings.TrimSpace(s)
	}
	h := strings.TrimSpace(parts[0])
	m := strings.TrimSpace(parts[1])
	mi, err := strconv.Atoi(m)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return fmt.Sprintf("%s:%02d", h, mi)
}

// computeDuration derives "H:MM" from two raw timestamp bodies by
// locating the trailing "HH:MM" time-of-day in each and taking the
// whole-minute difference. Returns ok=false if either side lacks a
// parseable time.
func computeDuration(start, end string) (string, bool) {
	startMin, ok := trailingMinutes(start)
	if !ok {
		return "", false
	}
	endMin, ok := trailingMinutes(end)
	if !ok {
		return "", false
	}
	diff := endMin - startMin
	if diff < 0 {
		diff += 24 * 60
	}
	return fmt.Sprintf("%d:%02d", diff/60, diff%60), true
}

// trailingMinutes extracts the last "HH:MM" token in s and converts it
// to minutes since midnight.
func trailingMinutes(s string) (int, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, false
	}
	tok := fields[len(fields)-1]
	if len(tok) != 5 || tok[2] != ':' {
		return 0, false
	}
	h, err1 := strconv.Atoi(tok[0:2])
	m, err2 := strconv.Atoi(tok[3:5])
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return h*60 + m, true
}

// TotalMinutes sums the minute durations of every closed entry in
// entries. Open entries do not contribute (§4.E).
func TotalMinutes(entries []Entry) int {
	total := 0
	for _, e := range entries {
		if !e.Closed() || e.Duration == nil {
			continue
		}
		if m, ok := parseDurationMinutes(*e.Duration); ok {
			total += m
		}
	}
	return total
}

func parseDurationMinutes(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	m, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, false
	}
	return h*60 + m, true
}

// FormatTotal renders a total minute count as "H:MM": zero-padded
// minutes, no leading zero on hours (§3's invariant on total_clock_time).
func FormatTotal(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}
