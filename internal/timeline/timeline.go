// Package timeline maps wall-clock times onto the board's daily window.
//
// Offsets are minutes from the window start. Percentages are relative to the
// window length and drive bar placement in every renderer.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Default window bounds.
const (
	DefaultStartHour  = 9
	DefaultEndHour    = 22
	DefaultMinPercent = 4.0
)

// ErrInvalidWindow is returned for a window that does not span at least an hour.
var ErrInvalidWindow = errors.New("window start hour must be before end hour, within 0-24")

// Window is the visible span of a day, in whole hours.
type Window struct {
	StartHour int
	EndHour   int
}

// Default returns the 09:00-22:00 window.
func Default() Window {
	return Window{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// NewWindow validates and returns a window.
func NewWindow(startHour, endHour int) (Window, error) {
	w := Window{StartHour: startHour, EndHour: endHour}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate checks 0 <= start < end <= 24.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidWindow, w.StartHour, w.EndHour)
	}
	return nil
}

// TotalMinutes returns the window length.
func (w Window) TotalMinutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// Hours returns the hour labels shown in the header, one per whole hour.
func (w Window) Hours() []int {
	hours := make([]int, 0, w.EndHour-w.StartHour)
	for h := w.StartHour; h < w.EndHour; h++ {
		hours = append(hours, h)
	}
	return hours
}

// MinutesFromWindowStart returns the offset of t's wall-clock time from the
// window start. The date part of t is ignored. ok is false when t is nil.
func (w Window) MinutesFromWindowStart(t *time.Time) (minutes int, ok bool) {
	if t == nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute() - w.StartHour*60, true
}

// OffsetToTimestamp returns ref's calendar day at the window start plus minutes,
// in ref's location.
func (w Window) OffsetToTimestamp(ref time.Time, minutes int) time.Time {
	base := time.Date(ref.Year(), ref.Month(), ref.Day(), w.StartHour, 0, 0, 0, ref.Location())
	return base.Add(time.Duration(minutes) * time.Minute)
}

// ToPercent converts an offset to a percentage of the window.
func (w Window) ToPercent(minutes float64) float64 {
	return minutes / float64(w.TotalMinutes()) * 100
}

// FromPercent converts a percentage of the window back to an offset.
func (w Window) FromPercent(pct float64) float64 {
	return pct / 100 * float64(w.TotalMinutes())
}

// WidthPercent converts a span to a percentage, floored at minPercent so short
// items stay visible.
func (w Window) WidthPercent(minutes float64, minPercent float64) float64 {
	return math.Max(minPercent, w.ToPercent(minutes))
}

// FitLeft limits a left offset so a bar of width percent ends at or before
// the right edge of the track.
func FitLeft(left, width float64) float64 {
	return math.Max(0, math.Min(left, 100-width))
}

// Clamp clips both offsets to [0, total]. ok is false when the item lies
// entirely outside the window and should not be drawn. An item that only
// touches a window edge from outside counts as outside.
func (w Window) Clamp(startOff, endOff int) (start, end int, ok bool) {
	total := w.TotalMinutes()
	switch {
	case endOff < 0, startOff > total:
		return 0, 0, false
	case endOff == 0 && startOff < 0:
		return 0, 0, false
	case startOff == total && endOff > total:
		return 0, 0, false
	}
	start = max(0, startOff)
	end = min(total, endOff)
	if end < start {
		return 0, 0, false
	}
	return start, end, true
}

// Placement is the horizontal position of a bar within the track.
type Placement struct {
	StartOffset int // unclamped
	EndOffset   int // unclamped
	LeftPct     float64
	WidthPct    float64
}

// Place computes the bar geometry for [start, end). The end offset is measured
// from the window start of start's day, so an item running past midnight
// extends beyond the window. A bar widened to the minimum near the window end
// is shifted left so it stays inside the track. ok is false when either bound
// is missing or the item lies outside the window.
func (w Window) Place(start, end *time.Time, minPercent float64) (Placement, bool) {
	s, ok := w.MinutesFromWindowStart(start)
	if !ok || end == nil {
		return Placement{}, false
	}
	base := w.OffsetToTimestamp(*start, 0)
	e := int(math.Floor(end.Sub(base).Minutes()))
	cs, ce, ok := w.Clamp(s, e)
	if !ok {
		return Placement{}, false
	}
	width := w.WidthPercent(float64(ce-cs), minPercent)
	return Placement{
		StartOffset: s,
		EndOffset:   e,
		LeftPct:     FitLeft(w.ToPercent(float64(cs)), width),
		WidthPct:    width,
	}, true
}
