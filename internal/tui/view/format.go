// Package view provides rendering helpers for the board TUI.
package view

import (
	"fmt"
	"time"
)

// FormatDuration formats d as "Xh Ym".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Round(time.Minute) / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatRange formats an interval as "15:04-16:30". Missing bounds print
// as "--:--".
func FormatRange(start, end *time.Time) string {
	return clock(start) + "-" + clock(end)
}

// FormatDay formats a day for the header, e.g. "Mon 10 Mar 2025".
func FormatDay(day time.Time) string {
	return day.Format("Mon 02 Jan 2006")
}

func clock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04")
}
