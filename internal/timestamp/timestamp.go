// Package timestamp implements the org-mode-like timestamp grammar
// embedded in backtick spans: dates, optional day-of-week tokens, time
// and time-range specs, date ranges, warning offsets, and repeater
// rules.
package timestamp

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/javiermolinar/agenda/internal/locale"
)

// Kind identifies which metadata prefix (if any) introduced the
// timestamp.
type Kind string

const (
	KindScheduled Kind = "scheduled"
	KindDeadline  Kind = "deadline"
	KindClosed    Kind = "closed"
	KindCreated   Kind = "created"
	KindPlain     Kind = "plain"
)

// Strategy identifies a repeater's recurrence rule.
type Strategy string

const (
	StrategyCumulative Strategy = "+"
	StrategyCatchUp    Strategy = "++"
	StrategyRestart    Strategy = ".+"
)

// Unit identifies the period a repeater or warning offset is expressed
// in.
type Unit string

const (
	UnitHour    Unit = "h"
	UnitDay     Unit = "d"
	UnitWeek    Unit = "w"
	UnitMonth   Unit = "m"
	UnitYear    Unit = "y"
	UnitWorkday Unit = "wd"
)

// Repeater describes a recurrence rule attached to a timestamp, e.g.
// "+1w" or ".+3d".
type Repeater struct {
	Strategy Strategy
	Count    int
	Unit     Unit
}

// Warning describes a deadline's lead-time offset, e.g. "-3d".
type Warning struct {
	Count int
	Unit  Unit
}

// Timestamp is a fully parsed timestamp literal.
type Timestamp struct {
	Kind      Kind
	StartDate time.Time // date-only, UTC midnight
	DayOfWeek string    // canonical "Mon".."Sun", empty if absent/unrecognized
	StartTime string    // "HH:MM", empty if absent
	EndTime   string    // "HH:MM", empty if absent (same-day range only)
	RangeEnd  *time.Time
	Warning   *Warning
	Repeater  *Repeater
}

const dateLayout = "2006-01-02"

// compiled regexp2 patterns, built once and cached for the process
// lifetime (§5). regexp2 is used (rather than stdlib regexp) because the
// sibling clock grammar (internal/clock) reuses one named group across
// alternation branches, which stdlib regexp rejects, and both packages
// share this lazily-initialized engine for consistency.
var (
	compileOnce      sync.Once
	prefixPattern    *regexp2.Regexp
	datePattern      *regexp2.Regexp
	timeSpecPattern  *regexp2.Regexp
	repeaterPattern  *regexp2.Regexp
	warningPattern   *regexp2.Regexp
)

func compilePatterns() {
	prefixPattern = regexp2.MustCompile(`^(SCHEDULED|DEADLINE|CLOSED|CREATED):\s*`, regexp2.None)
	datePattern = regexp2.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`, regexp2.None)
	timeSpecPattern = regexp2.MustCompile(`^(\d{2}):(\d{2})(?:-(\d{2}):(\d{2}))?$`, regexp2.None)
	repeaterPattern = regexp2.MustCompile(`^(\+\+|\.\+|\+)(\d+)(h|d|w|m|y|wd)$`, regexp2.None)
	warningPattern = regexp2.MustCompile(`^-(\d+)(h|d|w|m|y)$`, regexp2.None)
}

func patterns() {
	compileOnce.Do(compilePatterns)
}

// ParseSpan parses an entire backtick-span's content, e.g.
// `SCHEDULED: <2024-12-10 Tue 10:00>` or a bare `<2024-12-10>--<2024-12-12>`.
// It returns ok=false for anything that is not an active (angle-bracket)
// timestamp, or whose inner grammar does not resolve — per §4.C such
// spans are ignored silently, not treated as an error.
func ParseSpan(raw string, enabled []locale.Locale) (ts *Timestamp, ok bool) {
	patterns()

	s := strings.TrimSpace(raw)

	kind := KindPlain
	if m, _ := prefixPattern.FindStringMatch(s); m != nil {
		switch m.GroupByNumber(1).String() {
		case "SCHEDULED":
			kind = KindScheduled
		case "DEADLINE":
			kind = KindDeadline
		case "CLOSED":
			kind = KindClosed
		case "CREATED":
			kind = KindCreated
		}
		s = s[m.Length:]
	}

	if !strings.HasPrefix(s, "<") {
		return nil, false
	}

	body, rest, ok := cutBracket(s, '<', '>')
	if !ok {
		return nil, false
	}

	ts, ok = parseBody(body, enabled)
	if !ok {
		return nil, false
	}
	ts.Kind = kind

	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "--<") {
		rangeBody, _, ok := cutBracket(rest[2:], '<', '>')
		if !ok {
			return nil, false
		}
		rangeTS, ok := parseBody(rangeBody, enabled)
		if !ok {
			return nil, false
		}
		end := rangeTS.StartDate
		ts.RangeEnd = &end
		// Invariant: when range-end is present, start/end time are
		// dropped from the derived fields even if the source carried
		// them on either side.
		ts.StartTime = ""
		ts.EndTime = ""
	}

	return ts, true
}

// cutBracket extracts the content between an opening delimiter at the
// start of s and its matching closing delimiter, returning the inner
// text and whatever follows the closer.
func cutBracket(s string, open, close byte) (inner, rest string, ok bool) {
	if len(s) == 0 || s[0] != open {
		return "", "", false
	}
	idx := strings.IndexByte(s[1:], close)
	if idx < 0 {
		return "", "", false
	}
	idx++ // account for the slice offset
	return s[1:idx], s[idx+1:], true
}

// parseBody parses the text inside the angle brackets: a required date,
// followed by an optional day-of-week token, time-spec, repeater, and
// warning, in any relative order (the grammar fixes their source order;
// classification here is driven by shape, not position, so malformed
// source order is tolerated the same way a human reader would parse it).
func parseBody(body string, enabled []locale.Locale) (*Timestamp, bool) {
	fields := strings.Fields(strings.TrimSpace(body))
	if len(fields) == 0 {
		return nil, false
	}

	date, ok := parseDate(fields[0])
	if !ok {
		return nil, false
	}

	ts := &Timestamp{StartDate: date}

	for _, tok := range fields[1:] {
		if m, _ := timeSpecPattern.FindStringMatch(tok); m != nil {
			groups := m.Groups()
			ts.StartTime = groups[1].String() + ":" + groups[2].String()
			if groups[3].String() != "" {
				ts.EndTime = groups[3].String() + ":" + groups[4].String()
			}
			continue
		}
		if m, _ := repeaterPattern.FindStringMatch(tok); m != nil {
			groups := m.Groups()
			count, err := strconv.Atoi(groups[2].String())
			if err != nil {
				return nil, false
			}
			ts.Repeater = &Repeater{
				Strategy: Strategy(groups[1].String()),
				Count:    count,
				Unit:     Unit(groups[3].String()),
			}
			continue
		}
		if m, _ := warningPattern.FindStringMatch(tok); m != nil {
			groups := m.Groups()
			count, err := strconv.Atoi(groups[1].String())
			if err != nil {
				return nil, false
			}
			ts.Warning = &Warning{Count: count, Unit: Unit(groups[2].String())}
			continue
		}
		if canon, ok := locale.Canonicalize(tok, enabled); ok {
			ts.DayOfWeek = canon
			continue
		}
		// Unknown token: per §9, day-of-week is not required for
		// correctness, so an unrecognized trailing token is simply
		// dropped rather than failing the whole timestamp.
	}

	return ts, true
}

func parseDate(tok string) (time.Time, bool) {
	m, _ := datePattern.FindStringMatch(tok)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, tok)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Render renders ts back to its canonical backtick-span form. For every
// valid Timestamp, ParseSpan(Render(ts)) reproduces an equal structure
// (§8's round-trip invariant).
func Render(ts *Timestamp) string {
	var b strings.Builder

	switch ts.Kind {
	case KindScheduled:
		b.WriteString("SCHEDULED: ")
	case KindDeadline:
		b.WriteString("DEADLINE: ")
	case KindClosed:
		b.WriteString("CLOSED: ")
	case KindCreated:
		b.WriteString("CREATED: ")
	}

	b.WriteString(renderBody(ts))

	if ts.RangeEnd != nil {
		b.WriteString("--<")
		b.WriteString(ts.RangeEnd.Format(dateLayout))
		b.WriteString(">")
	}

	return b.String()
}

func renderBody(ts *Timestamp) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(ts.StartDate.Format(dateLayout))
	if ts.DayOfWeek != "" {
		b.WriteString(" ")
		b.WriteString(ts.DayOfWeek)
	}
	if ts.StartTime != "" {
		b.WriteString(" ")
		b.WriteString(ts.StartTime)
		if ts.EndTime != "" {
			b.WriteString("-")
			b.WriteString(ts.EndTime)
		}
	}
	if ts.Repeater != nil {
		fmt.Fprintf(&b, " %s%d%s", ts.Repeater.Strategy, ts.Repeater.Count, ts.Repeater.Unit)
	}
	if ts.Warning != nil {
		fmt.Fprintf(&b, " -%d%s", ts.Warning.Count, ts.Warning.Unit)
	}
	b.WriteString(">")
	return b.String()
}
