// Package integration exercises the full pipeline end to end: file
// discovery and front-matter stripping, extraction, planning, and
// rendering, wired together the same way cmd/agenda's runRoot does but
// calling the internal packages directly since main packages cannot be
// imported.
package integration

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/extractor"
	"github.com/javiermolinar/agenda/internal/frontmatter"
	"github.com/javiermolinar/agenda/internal/holiday"
	"github.com/javiermolinar/agenda/internal/locale"
	"github.com/javiermolinar/agenda/internal/render/markdown"
	"github.com/javiermolinar/agenda/internal/render/record"
)

// writeFile creates dir/name with contents, creating parent directories
// as needed.
func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// collectTasks mirrors cmd/agenda's collectTasks: walk dir for files
// matching glob, strip front matter, and extract tasks from each.
func collectTasks(t *testing.T, dir, glob string, enabled []locale.Locale) []*agenda.Task {
	t.Helper()
	var tasks []*agenda.Task
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matched, err := filepath.Match(glob, filepath.Base(path))
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		body, skipped := frontmatter.Strip(data)
		for _, task := range extractor.Extract(path, body, enabled) {
			task.Line += skipped
			tasks = append(tasks, task)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return tasks
}

func TestPipeline_ExtractPlanRenderJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "### TODO Ship report\n\n"+
		"`SCHEDULED: <2025-06-10 Tue 09:00-10:00>`\n")

	tasks := collectTasks(t, dir, "*.md", locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}

	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	days := agenda.Plan(tasks, today, today, today, holiday.Default)
	if len(days) != 1 {
		t.Fatalf("len(days) = %d, want 1", len(days))
	}
	if len(days[0].ScheduledTimed) != 1 {
		t.Fatalf("ScheduledTimed = %d entries, want 1", len(days[0].ScheduledTimed))
	}

	out, err := record.Days(days)
	if err != nil {
		t.Fatalf("record.Days: %v", err)
	}
	got := string(out)
	for _, want := range []string{`"heading": "Ship report"`, `"start_time": "09:00"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %s", want, got)
		}
	}
}

func TestPipeline_FrontMatterSkippedBeforeExtraction(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "---\ntitle: Notes\n---\n### TODO Buy milk\n")

	tasks := collectTasks(t, dir, "*.md", locale.All)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].Line != 4 {
		t.Errorf("Line = %d, want 4 (front matter occupies lines 1-3)", tasks[0].Line)
	}
}

func TestPipeline_GlobRestrictsDiscoveredFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "### TODO In scope\n")
	writeFile(t, dir, "notes.txt", "### TODO Out of scope\n")
	writeFile(t, dir, "sub/more.md", "### TODO Also in scope\n")

	tasks := collectTasks(t, dir, "*.md", locale.All)
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2 (glob matches the base name in every visited subdirectory)", len(tasks))
	}
	headings := map[string]bool{tasks[0].Heading: true, tasks[1].Heading: true}
	if !headings["In scope"] || !headings["Also in scope"] {
		t.Errorf("headings = %v, want {In scope, Also in scope}", headings)
	}
}

func TestPipeline_TasksModeSortsByPriorityAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "### TODO [#B] Second\n")
	writeFile(t, dir, "b.md", "### TODO [#A] First\n")

	tasks := collectTasks(t, dir, "*.md", locale.All)
	sorted := agenda.Tasks(tasks)
	if len(sorted) != 2 {
		t.Fatalf("len(sorted) = %d, want 2", len(sorted))
	}
	if sorted[0].Heading != "First" || sorted[1].Heading != "Second" {
		t.Fatalf("order = [%s, %s], want [First, Second]", sorted[0].Heading, sorted[1].Heading)
	}

	out := markdown.Tasks(sorted)
	if !strings.Contains(out, "# Tasks") {
		t.Errorf("missing top-level heading: %q", out)
	}
}

func TestPipeline_OverdueTaskAppearsOnlyOnReferenceToday(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "### TODO Stale review\n\n`DEADLINE: <2025-06-01>`\n")

	tasks := collectTasks(t, dir, "*.md", locale.All)
	today := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	days := agenda.Plan(tasks, today, today, today, holiday.Default)
	if len(days[0].Overdue) != 1 {
		t.Fatalf("Overdue = %d entries on reference today, want 1", len(days[0].Overdue))
	}

	earlier := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	daysEarlier := agenda.Plan(tasks, today, earlier, earlier, holiday.Default)
	if len(daysEarlier[0].Overdue) != 0 {
		t.Fatalf("Overdue = %d entries on a non-today day, want 0", len(daysEarlier[0].Overdue))
	}
}
