package task

import (
	"fmt"
	"time"
)

// TimeToMinutes converts "HH:MM" to minutes since midnight.
// Returns 0 for invalid input.
func TimeToMinutes(t string) int {
	if len(t) < 5 {
		return 0
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	return hours*60 + mins
}

// MinutesToTime converts minutes since midnight to "HH:MM" format.
func MinutesToTime(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Overlaps reports whether [start1, end1) and [start2, end2) intersect.
// Intervals that only touch do not overlap.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// OverlapDuration returns how long two intervals share, or 0.
func OverlapDuration(start1, end1, start2, end2 time.Time) time.Duration {
	s := start1
	if start2.After(s) {
		s = start2
	}
	e := end1
	if end2.Before(e) {
		e = end2
	}
	if !e.After(s) {
		return 0
	}
	return e.Sub(s)
}

// FormatClock formats t as "HH:MM", or "--:--" when nil.
func FormatClock(t *time.Time) string {
	if t == nil {
		return "--:--"
	}
	return t.Format("15:04")
}
