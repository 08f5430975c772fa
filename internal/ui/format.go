package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/shopboard/internal/conflict"
	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
)

// FormatDuration formats a duration as "1h30m", "45m" or "2h".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes <= 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

const statusWidth = 11

func clockRange(start, end *time.Time) string {
	return task.FormatClock(start) + "-" + task.FormatClock(end)
}

func taskTitle(t task.Task) string {
	if t.DocNum != "" {
		return t.DocNum + " " + t.Name
	}
	return t.Name
}

// PrintDay writes the tasks and breaks of one day, one line each, with
// names truncated to width.
func PrintDay(w io.Writer, snap *task.Snapshot, day, now time.Time, width int) {
	fmt.Fprintln(w, formatHeader(fmt.Sprintf("=== %s ===", day.Format("Mon 2006-01-02"))))

	tasks := task.SortByStart(snap.TasksForDate(day))
	breaks := snap.BreaksForDate(day)
	if len(tasks) == 0 && len(breaks) == 0 {
		fmt.Fprintln(w, formatMuted("  Nothing planned."))
		return
	}

	// "  HH:MM-HH:MM  In progress  " and the detail suffix
	nameWidth := max(width-38, 16)
	for _, t := range tasks {
		status := render.StatusFor(track.FromTask(t), now)
		name := ansi.Truncate(taskTitle(t), nameWidth, "…")
		fmt.Fprintf(w, "  %s  %s  %-*s  %s\n",
			clockRange(t.PlanStart, t.PlanEnd),
			formatStatus(status, statusWidth),
			nameWidth, name,
			formatMuted(fmt.Sprintf("%s · %s · %s",
				FormatDuration(t.TotalDuration()), snap.DeviceName(t.DeviceID), snap.OperatorName(t.OperatorID))),
		)
	}

	if len(breaks) > 0 {
		fmt.Fprintln(w)
		for _, b := range breaks {
			status := render.StatusFor(track.FromBreak(b), now)
			fmt.Fprintf(w, "  %s  %s  %s\n",
				clockRange(b.Start, b.End),
				formatStatus(status, statusWidth),
				ansi.Truncate(b.Name+" · "+snap.OperatorName(b.OperatorID), nameWidth, "…"),
			)
		}
	}
}

// PrintReport writes a conflict report. It returns the number of problems.
func PrintReport(w io.Writer, snap *task.Snapshot, r conflict.Report) int {
	if r.Empty() {
		fmt.Fprintln(w, formatOK("No conflicts."))
		return 0
	}

	if len(r.Devices) > 0 {
		fmt.Fprintln(w, formatHeader("Device overlaps"))
		for _, p := range r.Devices {
			fmt.Fprintf(w, "  %s  %s %s overlaps %s %s\n",
				formatError(snap.DeviceName(p.DeviceID)),
				taskTitle(p.First), clockRange(p.First.PlanStart, p.First.PlanEnd),
				taskTitle(p.Second), clockRange(p.Second.PlanStart, p.Second.PlanEnd),
			)
		}
	}
	if len(r.Breaks) > 0 {
		if len(r.Devices) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, formatHeader("Break overlaps"))
		for _, o := range r.Breaks {
			fmt.Fprintf(w, "  %s  %s\n", formatWarning(o.OperatorName), o.Message())
		}
	}

	total := len(r.Devices) + len(r.Breaks)
	fmt.Fprintf(w, "\n%d conflicts\n", total)
	return total
}
