package extractor

import (
	"strings"
	"testing"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/locale"
)

func TestExtract_InlineClockWithComputedTotal(t *testing.T) {
	src := "### TODO Foo\n\n" +
		"`SCHEDULED: <2024-12-10 Tue>`\n\n" +
		"`CLOCK: <2024-12-09 Mon 10:00>--<2024-12-09 Mon 12:30> => 2:30`\n\n" +
		"`CLOCK: <2024-12-09 Mon 14:00>--<2024-12-09 Mon 16:15> => 2:15`\n"

	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Heading != "Foo" || task.State != agenda.StateTodo {
		t.Fatalf("task = %+v, want Heading=Foo State=todo", task)
	}
	if len(task.Clocks) != 2 {
		t.Fatalf("len(Clocks) = %d, want 2", len(task.Clocks))
	}
	if task.TotalClockTime != "4:45" {
		t.Errorf("TotalClockTime = %q, want 4:45", task.TotalClockTime)
	}
	if task.Date != "2024-12-10" || task.Type != "scheduled" {
		t.Errorf("Date/Type = %q/%q, want 2024-12-10/scheduled", task.Date, task.Type)
	}
}

func TestExtract_CodeBlockClockWithSquareBrackets(t *testing.T) {
	src := "### TODO Foo\n\n" +
		"```\nCLOCK: [2024-12-09 Mon 10:00]--[2024-12-09 Mon 12:30] =>  2:30\n```\n"

	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	clocks := tasks[0].Clocks
	if len(clocks) != 1 {
		t.Fatalf("len(Clocks) = %d, want 1", len(clocks))
	}
	if clocks[0].Start != "2024-12-09 Mon 10:00" {
		t.Errorf("Start = %q, want raw bracket contents preserved", clocks[0].Start)
	}
	if clocks[0].End == nil || *clocks[0].End != "2024-12-09 Mon 12:30" {
		t.Errorf("End = %v, want 2024-12-09 Mon 12:30", clocks[0].End)
	}
}

func TestExtract_RussianDayOfWeekNormalization(t *testing.T) {
	src := "### TODO Встреча\n\n`<2024-12-10 Пн 10:00>`\n"

	tasks := Extract("notes.md", []byte(src), locale.Enabled("ru"))
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.Date != "2024-12-10" {
		t.Errorf("Date = %q, want 2024-12-10", task.Date)
	}
	if task.StartTime != "10:00" {
		t.Errorf("StartTime = %q, want 10:00", task.StartTime)
	}
	if task.PrimaryParsed.DayOfWeek != "Mon" {
		t.Errorf("DayOfWeek = %q, want Mon", task.PrimaryParsed.DayOfWeek)
	}
}

func TestExtract_HeadingWithOnlyContentIsDropped(t *testing.T) {
	src := "### Just a note\n\nSome prose with no markers.\n"
	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 0 {
		t.Fatalf("len(tasks) = %d, want 0", len(tasks))
	}
}

func TestExtract_BareTimestampWithNoneStateStillEmitted(t *testing.T) {
	src := "### An event\n\n`<2025-01-01>`\n"
	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].State != agenda.StateNone || tasks[0].Type != "plain" {
		t.Errorf("task = %+v, want State=none Type=plain", tasks[0])
	}
}

func TestExtract_PriorityAndTitleStripping(t *testing.T) {
	src := "### DONE [#A] Ship the release\n"
	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.State != agenda.StateDone || task.Priority != "A" || task.Heading != "Ship the release" {
		t.Errorf("task = %+v, want State=done Priority=A Heading='Ship the release'", task)
	}
}

func TestExtract_CreatedNeverBecomesPrimary(t *testing.T) {
	src := "### TODO Foo\n\n`CREATED: <2024-01-01 Mon>`\n\n`SCHEDULED: <2024-12-10 Tue>`\n"
	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	task := tasks[0]
	if task.CreatedRaw == "" {
		t.Error("CreatedRaw is empty, want CREATED literal")
	}
	if task.Type != "scheduled" || task.Date != "2024-12-10" {
		t.Errorf("primary = %q/%q, want scheduled/2024-12-10", task.Type, task.Date)
	}
}

func TestExtract_MultipleHeadingsFinalizeIndependently(t *testing.T) {
	src := "### TODO First\n\n`<2025-01-01>`\n\n### DONE Second\n\n`<2025-01-02>`\n"
	tasks := Extract("notes.md", []byte(src), locale.All)
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].Heading != "First" || tasks[1].Heading != "Second" {
		t.Errorf("headings = %q, %q, want First, Second", tasks[0].Heading, tasks[1].Heading)
	}
}

func TestExtractTrace_RecordsStateTransitionsAndFinalizeOutcomes(t *testing.T) {
	src := "### TODO Kept\n\n`<2025-01-01>`\n\n### Just prose\n\nno markers here\n"
	var trace strings.Builder
	tasks := ExtractTrace("notes.md", []byte(src), locale.All, &trace)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}

	out := trace.String()
	if !strings.Contains(out, "Idle->UnderHeading") {
		t.Errorf("trace missing state transition: %q", out)
	}
	if !strings.Contains(out, "finalize emit heading=\"Kept\"") {
		t.Errorf("trace missing emit decision: %q", out)
	}
	if !strings.Contains(out, "finalize drop heading=\"Just prose\"") {
		t.Errorf("trace missing drop decision: %q", out)
	}
}
