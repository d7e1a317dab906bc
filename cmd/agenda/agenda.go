package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/agenda/internal/agenda"
	"github.com/javiermolinar/agenda/internal/config"
	"github.com/javiermolinar/agenda/internal/dateutil"
	"github.com/javiermolinar/agenda/internal/extractor"
	"github.com/javiermolinar/agenda/internal/frontmatter"
	"github.com/javiermolinar/agenda/internal/holiday"
	"github.com/javiermolinar/agenda/internal/locale"
	htmlrender "github.com/javiermolinar/agenda/internal/render/html"
	"github.com/javiermolinar/agenda/internal/render/markdown"
	"github.com/javiermolinar/agenda/internal/render/record"
)

// runRoot implements the single-command pipeline described by §6: load
// config, resolve the effective flags, discover files, extract tasks,
// build the requested view, and render it.
func (a *app) runRoot(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dir := flagOrConfig(cmd, "dir", a.flags.dir, cfg.Dir)
	glob := flagOrConfig(cmd, "glob", a.flags.glob, cfg.Glob)
	format := flagOrConfig(cmd, "format", a.flags.format, cfg.Format)
	localeCSV := flagOrConfig(cmd, "locale", a.flags.locale, cfg.Locale)
	agendaMode := flagOrConfig(cmd, "agenda", a.flags.agendaMode, cfg.Agenda)
	tz := flagOrConfig(cmd, "tz", a.flags.tz, cfg.TZ)

	if a.flags.holidays != 0 {
		return a.runHolidays(a.flags.holidays)
	}

	today, err := dateutil.ResolveToday(tz, a.flags.currentDate, time.Now())
	if err != nil {
		return fmt.Errorf("resolving current date: %w", err)
	}

	enabled := locale.Enabled(localeCSV)

	trace, closeTrace, err := openTrace(a.flags.debug)
	if err != nil {
		return fmt.Errorf("opening debug log: %w", err)
	}
	defer closeTrace()

	tasks, err := collectTasks(dir, glob, enabled, trace)
	if err != nil {
		return fmt.Errorf("scanning %s: %w", dir, err)
	}

	var out string
	if a.flags.tasksMode {
		out, err = renderTasks(format, agenda.Tasks(tasks))
	} else {
		var start, end time.Time
		start, end, err = resolveRange(agendaMode, today, a.flags.date, a.flags.from, a.flags.to)
		if err == nil {
			days := agenda.Plan(tasks, today, start, end, holiday.Default)
			out, err = renderDays(format, days)
		}
	}
	if err != nil {
		return err
	}

	return writeOutput(a.flags.output, out)
}

// flagOrConfig returns the flag's value if the user set it explicitly on
// the command line, otherwise the config value if non-empty, otherwise
// the flag's default.
func flagOrConfig(cmd *cobra.Command, name, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(name) {
		return flagVal
	}
	if cfgVal != "" {
		return cfgVal
	}
	return flagVal
}

// collectTasks walks dir for files matching glob and extracts tasks from
// each, in the order filepath.WalkDir visits them. trace receives a
// plain-text record of the extractor's state transitions for every file
// (see openTrace); pass io.Discard to collect nothing.
func collectTasks(dir, glob string, enabled []locale.Locale, trace io.Writer) ([]*agenda.Task, error) {
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
		for _, t := range extractor.ExtractTrace(path, body, enabled, trace) {
			t.Line += skipped
			tasks = append(tasks, t)
		}
		return nil
	})
	return tasks, err
}

// openTrace implements --debug: when enabled, it creates a temp file to
// receive the extractor's plain-text state-transition trace, prints its
// path to stderr so the user can find it, and returns a writer plus a
// close function. When disabled it returns io.Discard and a no-op close.
func openTrace(enabled bool) (io.Writer, func(), error) {
	if !enabled {
		return io.Discard, func() {}, nil
	}
	f, err := os.CreateTemp("", "agenda-debug-*.log")
	if err != nil {
		return nil, nil, err
	}
	fmt.Fprintf(os.Stderr, "debug trace: %s\n", f.Name())
	return f, func() { _ = f.Close() }, nil
}

// resolveRange computes the [start, end] window for mode, honoring an
// explicit --date (day mode) or --from/--to (week/month mode) override.
func resolveRange(mode string, today time.Time, date, from, to string) (time.Time, time.Time, error) {
	switch mode {
	case "day":
		d := today
		if date != "" {
			parsed, err := dateutil.ParseDate(date)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			d = parsed
		}
		return d, d, nil

	case "week":
		if from != "" || to != "" {
			dr, err := dateutil.NewDateRange(from, to)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			return dr.Start, dr.End, nil
		}
		monday, sunday := dateutil.WeekRange(today)
		return monday, sunday, nil

	case "month":
		if from != "" || to != "" {
			dr, err := dateutil.NewDateRange(from, to)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			return dr.Start, dr.End, nil
		}
		first, last := dateutil.MonthRange(today)
		return first, last, nil

	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown agenda mode %q", mode)
	}
}

func renderTasks(format string, tasks []*agenda.Task) (string, error) {
	switch format {
	case "json":
		b, err := record.Tasks(tasks)
		return string(b), err
	case "md":
		return markdown.Tasks(tasks), nil
	case "html":
		return htmlrender.Tasks(tasks), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

func renderDays(format string, days []*agenda.Day) (string, error) {
	switch format {
	case "json":
		b, err := record.Days(days)
		return string(b), err
	case "md":
		return markdown.Days(days), nil
	case "html":
		return htmlrender.Days(days), nil
	default:
		return "", fmt.Errorf("unknown format %q", format)
	}
}

// runHolidays implements --holidays: print the calendar for year and
// exit, per §6.
func (a *app) runHolidays(year int) error {
	if year < holiday.MinYear || year > holiday.MaxYear {
		return fmt.Errorf("year %d out of range [%d, %d]", year, holiday.MinYear, holiday.MaxYear)
	}
	var out string
	for _, d := range holiday.Default.List(year) {
		out += d.Format("2006-01-02") + "\n"
	}
	return writeOutput(a.flags.output, out)
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Print(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
