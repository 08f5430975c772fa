package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Tab is one entry of the tab bar.
type Tab struct {
	Title  string
	Active bool
}

// TabStyles groups the tab bar styles.
type TabStyles struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Bar       lipgloss.Style
}

// RenderTabs renders the tab bar, numbering each tab from 1.
func RenderTabs(tabs []Tab, width int, styles TabStyles) string {
	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		style := styles.Tab
		if tab.Active {
			style = styles.ActiveTab
		}
		parts = append(parts, style.Render(strconv.Itoa(i+1)+" "+tab.Title))
	}
	line := ansi.Truncate(strings.Join(parts, " "), width, "")
	return styles.Bar.Width(width).Render(line)
}

// DayLabel describes day relative to today: "Today", "Tomorrow" and
// "Yesterday" are spelled out, other days show the date.
func DayLabel(day, today time.Time) string {
	d := dayNumber(day) - dayNumber(today)
	label := FormatDay(day)
	switch d {
	case 0:
		return "Today · " + label
	case 1:
		return "Tomorrow · " + label
	case -1:
		return "Yesterday · " + label
	default:
		return label
	}
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
