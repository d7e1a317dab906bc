package agenda

import (
	"sort"
	"time"

	"github.com/javiermolinar/agenda/internal/holiday"
	"github.com/javiermolinar/agenda/internal/repeater"
)

// Entry pairs a task with its days_offset within a bucket that needs one
// (overdue, upcoming). Buckets where every member is same-day leave
// DaysOffset at zero.
type Entry struct {
	Task       *Task
	DaysOffset int
}

// Day is one calendar day's agenda view (§3's AgendaDay, §4.G's bucket
// definitions).
type Day struct {
	Date            time.Time
	Overdue         []Entry
	ScheduledTimed  []Entry
	ScheduledNoTime []Entry
	Upcoming        []Entry
}

// priorityRank orders 'A' before 'B' before ... before 'Z', with no
// priority sorting last.
func priorityRank(p string) int {
	if len(p) != 1 || p[0] < 'A' || p[0] > 'Z' {
		return 27
	}
	return int(p[0]-'A') + 1
}

func byFileLine(a, b *Task) bool {
	if a.FilePath != b.FilePath {
		return a.FilePath < b.FilePath
	}
	return a.Line < b.Line
}

// Tasks implements the Tasks-mode listing (§4.G): every TODO task
// regardless of schedule, sorted by priority then file path then line.
// Tasks in any other state are left out.
func Tasks(tasks []*Task) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.State == StateTodo {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := priorityRank(out[i].Priority), priorityRank(out[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return byFileLine(out[i], out[j])
	})
	return out
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Plan classifies tasks into one Day per date in [start, end] (inclusive),
// per §4.G. today identifies which day (if any) in the range receives the
// overdue bucket.
func Plan(tasks []*Task, today, start, end time.Time, cal holiday.Calendar) []*Day {
	today = truncate(today)
	start = truncate(start)
	end = truncate(end)

	var days []*Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, planDay(tasks, d, today, cal))
	}
	return days
}

func planDay(tasks []*Task, d, today time.Time, cal holiday.Calendar) *Day {
	day := &Day{Date: d}

	for _, t := range tasks {
		if !t.HasPrimary() {
			continue
		}
		date := truncate(t.PrimaryParsed.StartDate)

		if date.Equal(d) {
			if t.StartTime != "" {
				day.ScheduledTimed = append(day.ScheduledTimed, Entry{Task: t})
			} else {
				day.ScheduledNoTime = append(day.ScheduledNoTime, Entry{Task: t})
			}
			continue
		}

		effDate := date
		if t.PrimaryParsed.Repeater != nil {
			if adv, err := repeater.Advance(t.PrimaryParsed, d, cal); err == nil {
				effDate = truncate(adv.StartDate)
			}
		}

		if effDate.After(d) {
			eligible := t.State == StateTodo || t.Type == "deadline"
			if eligible {
				offset := int(effDate.Sub(d).Hours() / 24)
				day.Upcoming = append(day.Upcoming, Entry{Task: t, DaysOffset: offset})
			}
		}

		if d.Equal(today) && (t.Type == "deadline" || t.Type == "scheduled") &&
			date.Before(today) && t.State != StateDone {
			offset := int(date.Sub(today).Hours() / 24)
			day.Overdue = append(day.Overdue, Entry{Task: t, DaysOffset: offset})
		}
	}

	sort.SliceStable(day.Overdue, func(i, j int) bool {
		a, b := day.Overdue[i], day.Overdue[j]
		if a.DaysOffset != b.DaysOffset {
			return a.DaysOffset < b.DaysOffset
		}
		return byFileLine(a.Task, b.Task)
	})
	sort.SliceStable(day.ScheduledTimed, func(i, j int) bool {
		a, b := day.ScheduledTimed[i], day.ScheduledTimed[j]
		if a.Task.StartTime != b.Task.StartTime {
			return a.Task.StartTime < b.Task.StartTime
		}
		return byFileLine(a.Task, b.Task)
	})
	sort.SliceStable(day.ScheduledNoTime, func(i, j int) bool {
		return byFileLine(day.ScheduledNoTime[i].Task, day.ScheduledNoTime[j].Task)
	})
	sort.SliceStable(day.Upcoming, func(i, j int) bool {
		a, b := day.Upcoming[i], day.Upcoming[j]
		if a.DaysOffset != b.DaysOffset {
			return a.DaysOffset < b.DaysOffset
		}
		return byFileLine(a.Task, b.Task)
	})

	return day
}
