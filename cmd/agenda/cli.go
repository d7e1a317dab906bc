package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"
	// Commit is set at build time.
	Commit = "none"
)

// flags holds every invocation flag from §6, bound directly to cobra.
type flags struct {
	dir         string
	glob        string
	format      string
	output      string
	locale      string
	agendaMode  string
	tasksMode   bool
	date        string
	from        string
	to          string
	tz          string
	currentDate string
	holidays    int
	debug       bool
}

// app holds the CLI application state.
type app struct {
	flags flags
	root  *cobra.Command
}

func newApp() *app {
	a := &app{}

	a.root = &cobra.Command{
		Use:   "agenda",
		Short: "Extract tasks and build an agenda from Markdown notes",
		Long: `agenda scans a directory of Markdown files for org-mode-style task
headings, timestamps, and time-clock records, then renders either a flat
task list or a day/week/month agenda in JSON, Markdown, or HTML.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runRoot(cmd)
		},
	}

	f := a.root.Flags()
	f.StringVar(&a.flags.dir, "dir", ".", "root directory to search")
	f.StringVar(&a.flags.glob, "glob", "*.md", "filename pattern")
	f.StringVar(&a.flags.format, "format", "", "output format: json/md/html")
	f.StringVar(&a.flags.output, "output", "", "output path (defaults to stdout)")
	f.StringVar(&a.flags.locale, "locale", "", "comma-list subset of ru,en")
	f.StringVar(&a.flags.agendaMode, "agenda", "", "agenda mode: day/week/month")
	f.BoolVar(&a.flags.tasksMode, "tasks", false, "render a flat TODO list instead of an agenda")
	f.StringVar(&a.flags.date, "date", "", "reference date for day mode (YYYY-MM-DD)")
	f.StringVar(&a.flags.from, "from", "", "range start for week/month mode")
	f.StringVar(&a.flags.to, "to", "", "range end for week/month mode")
	f.StringVar(&a.flags.tz, "tz", "", "IANA timezone for \"today\"")
	f.StringVar(&a.flags.currentDate, "current-date", "", "override \"today\" explicitly")
	f.IntVar(&a.flags.holidays, "holidays", 0, "year to print the holiday calendar for, then exit")
	f.BoolVar(&a.flags.debug, "debug", false, "write an extractor trace to a temp file (its path is printed to stderr)")

	a.root.AddCommand(a.versionCmd())

	return a
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("agenda %s (commit: %s)\n", Version, Commit)
		},
	}
}
