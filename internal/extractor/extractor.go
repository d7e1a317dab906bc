// Package extractor drives the stateful accumulator (§4.F) that turns a
// stream of block events into task records: one per qualifying heading.
package extractor

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/blocks"
	"github.com/javiermolinar/agenda/internal/clock"
	"github.com/javiermolinar/agenda/internal/locale"
	"github.com/javiermolinar/agenda/internal/timestamp"
)

// pending is the accumulator for the heading currently being walked. It
// exists only between a heading event and the next heading event (or
// end of document), at which point it is finalized into an *agenda.Task
// or discarded.
type pending struct {
	file     string
	line     int
	title    string
	state    agenda.State
	priority string
	content  strings.Builder

	createdRaw string
	createdTS  *timestamp.Timestamp

	primaryRaw string
	primaryTS  *timestamp.Timestamp

	clocks []clock.Entry
}

func (p *pending) shouldEmit() bool {
	return p.state == agenda.StateTodo || p.state == agenda.StateDone ||
		p.primaryTS != nil || len(p.clocks) > 0
}

func (p *pending) task() *agenda.Task {
	t := &agenda.Task{
		FilePath: p.file,
		Line:     p.line,
		Heading:  p.title,
		State:    p.state,
		Priority: p.priority,
		Content:  p.content.String(),
	}
	t.CreatedRaw = p.createdRaw
	if p.primaryTS != nil {
		t.SetPrimary(p.primaryRaw, p.primaryTS)
	}
	t.SetClocks(p.clocks)
	return t
}

// Extract walks source's block events (via internal/blocks) and returns
// one task per qualifying heading, in document order.
func Extract(filePath string, source []byte, enabled []locale.Locale) []*agenda.Task {
	return ExtractTrace(filePath, source, enabled, io.Discard)
}

// ExtractTrace behaves like Extract but additionally writes a plain-text
// line to trace for every Idle/UnderHeading state transition and
// finalize decision (§6's --debug diagnostics). Pass io.Discard to
// silence tracing entirely; Extract does exactly that.
func ExtractTrace(filePath string, source []byte, enabled []locale.Locale, trace io.Writer) []*agenda.Task {
	events := blocks.Parse(source)

	var tasks []*agenda.Task
	var cur *pending

	finalize := func() {
		if cur == nil {
			return
		}
		if cur.shouldEmit() {
			fmt.Fprintf(trace, "%s:%d finalize emit heading=%q state=%s\n", filePath, cur.line, cur.title, cur.state)
			tasks = append(tasks, cur.task())
		} else {
			fmt.Fprintf(trace, "%s:%d finalize drop heading=%q\n", filePath, cur.line, cur.title)
		}
		cur = nil
	}

	for _, e := range events {
		switch e.Kind {
		case blocks.KindHeading:
			finalize()
			state, priority, title := stripMarkers(e.Text)
			cur = &pending{file: filePath, line: e.Line, title: title, state: state, priority: priority}
			fmt.Fprintf(trace, "%s:%d Idle->UnderHeading heading=%q state=%s\n", filePath, e.Line, title, state)

		case blocks.KindParagraph:
			if cur == nil {
				continue
			}
			accumulateParagraph(cur, e.Text, enabled)

		case blocks.KindCodeBlock:
			if cur == nil {
				continue
			}
			accumulateCodeBlock(cur, e.Text)
		}
	}
	finalize()

	return tasks
}

// stripMarkers removes a heading's leading TODO/DONE state marker and
// [#X] priority marker in a single left-to-right pass, per §4.F: state
// first, then optional whitespace, then priority, then rest-as-title.
func stripMarkers(text string) (state agenda.State, priority string, title string) {
	rest := text
	state = agenda.StateNone

	switch {
	case rest == "TODO" || strings.HasPrefix(rest, "TODO "):
		state = agenda.StateTodo
		rest = strings.TrimPrefix(rest, "TODO")
	case rest == "DONE" || strings.HasPrefix(rest, "DONE "):
		state = agenda.StateDone
		rest = strings.TrimPrefix(rest, "DONE")
	}
	rest = strings.TrimLeft(rest, " ")

	if len(rest) >= 4 && rest[0] == '[' && rest[1] == '#' && rest[3] == ']' {
		priority = rest[2:3]
		rest = strings.TrimLeft(rest[4:], " ")
	}

	return state, priority, rest
}

// accumulateParagraph scans a paragraph's backtick spans for a CLOCK
// record, a CREATED: timestamp, or the task's primary timestamp (§4.F's
// paragraph-event handling), then appends the paragraph's plain-text
// rendering to the pending content.
func accumulateParagraph(p *pending, text string, enabled []locale.Locale) {
	for _, span := range backtickSpans(text) {
		trimmed := strings.TrimSpace(span)

		if strings.HasPrefix(trimmed, "CLOCK:") {
			if entry, ok := clock.ParseLine(trimmed); ok {
				p.clocks = append(p.clocks, entry)
			}
			continue
		}

		ts, ok := timestamp.ParseSpan(trimmed, enabled)
		if !ok {
			continue
		}
		if ts.Kind == timestamp.KindCreated {
			if p.createdTS == nil {
				p.createdRaw = trimmed
				p.createdTS = ts
			}
			continue
		}
		if p.primaryTS == nil {
			p.primaryRaw = trimmed
			p.primaryTS = ts
		}
	}

	if p.content.Len() > 0 {
		p.content.WriteString("\n")
	}
	p.content.WriteString(plainText(text))
}

// accumulateCodeBlock scans a fenced or indented code block's lines for
// CLOCK records (§4.E's code-block input form).
func accumulateCodeBlock(p *pending, text string) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "CLOCK:") {
			continue
		}
		if entry, ok := clock.ParseLine(trimmed); ok {
			p.clocks = append(p.clocks, entry)
		}
	}
}

// backtickSpans returns the content of every `...` span in text, in
// order.
func backtickSpans(text string) []string {
	var spans []string
	i := 0
	for {
		start := strings.IndexByte(text[i:], '`')
		if start < 0 {
			return spans
		}
		start += i
		end := strings.IndexByte(text[start+1:], '`')
		if end < 0 {
			return spans
		}
		end += start + 1
		spans = append(spans, text[start+1:end])
		i = end + 1
	}
}

// plainText strips the backtick delimiters from text, the only inline
// markup this grammar recognizes, leaving a human-readable rendering.
func plainText(text string) string {
	return strings.ReplaceAll(text, "`", "")
}
