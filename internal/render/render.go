// Package render turns track rows into a board view model.
//
// Render writes into a Container, which holds the header ruler, the rows and
// their bars. Backends (the terminal board, SVG export, the JSON API) only
// read the container. The drag controller moves bars through SetBarLeft.
package render

import (
	"fmt"
	"time"

	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/timeline"
	"github.com/javiermolinar/shopboard/internal/track"
)

// EmptyText is shown when there are no rows.
const EmptyText = "No data to display"

// Status is the visual state of a bar.
type Status string

const (
	StatusDone     Status = "done"
	StatusProgress Status = "progress"
	StatusPending  Status = "pending"
	StatusLunch    Status = "lunch"
	StatusOffDuty  Status = "off_duty"
)

// Label returns the human readable status name.
func (s Status) Label() string {
	switch s {
	case StatusDone:
		return "Done"
	case StatusProgress:
		return "In progress"
	case StatusPending:
		return "Pending"
	case StatusLunch:
		return "Lunch"
	case StatusOffDuty:
		return "Off duty"
	default:
		return "No status"
	}
}

// StatusFor derives the status of an item at now.
// Breaks always carry their kind's status.
func StatusFor(it track.Item, now time.Time) Status {
	if it.IsBreak() {
		if it.BreakKind == task.BreakLunch {
			return StatusLunch
		}
		return StatusOffDuty
	}
	if it.End != nil && it.End.Before(now) {
		return StatusDone
	}
	if it.Start != nil && it.End != nil && !it.Start.After(now) && !now.After(*it.End) {
		return StatusProgress
	}
	return StatusPending
}

// Bar is one placed item.
type Bar struct {
	Ref         track.Ref  `json:"ref"`
	Item        track.Item `json:"-"`
	Lane        int        `json:"lane"`
	Top         int        `json:"top"`
	LeftPct     float64    `json:"left_pct"`
	WidthPct    float64    `json:"width_pct"`
	StartOffset int        `json:"start_offset"`
	EndOffset   int        `json:"end_offset"`
	Status      Status     `json:"status"`
	Text        string     `json:"text"`
	Title       string     `json:"title"`
	Draggable   bool       `json:"draggable"`
}

// RowView is one rendered row.
type RowView struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Height  int    `json:"height"`
	Stacked bool   `json:"stacked"`
	Lanes   int    `json:"lanes"`
	Bars    []Bar  `json:"bars"`
}

// Board is the full rendered view.
type Board struct {
	Hours     []string  `json:"hours"`
	Rows      []RowView `json:"rows"`
	Empty     bool      `json:"empty"`
	EmptyText string    `json:"empty_text,omitempty"`
}

// LabelFunc produces the label shown left of a row.
type LabelFunc func(track.Row) string

type barPos struct {
	row, bar int
}

// Container holds the rendered board of one view.
type Container struct {
	window     timeline.Window
	minPercent float64
	board      Board
	index      map[track.Ref]barPos
}

// NewContainer creates an empty container for the given window.
func NewContainer(w timeline.Window, minPercent float64) *Container {
	return &Container{
		window:     w,
		minPercent: minPercent,
		board:      Board{Empty: true, EmptyText: EmptyText},
		index:      map[track.Ref]barPos{},
	}
}

// Window returns the time window the container renders.
func (c *Container) Window() timeline.Window {
	return c.window
}

// Render replaces the container contents with rows. Rendering the same rows
// twice produces the same board.
func Render(c *Container, rows []track.Row, label LabelFunc, now time.Time) {
	c.index = map[track.Ref]barPos{}
	if len(rows) == 0 {
		c.board = Board{Empty: true, EmptyText: EmptyText}
		return
	}

	hours := c.window.Hours()
	board := Board{
		Hours: make([]string, len(hours)),
		Rows:  make([]RowView, 0, len(rows)),
	}
	for i, h := range hours {
		board.Hours[i] = task.MinutesToTime(h * 60)
	}

	for ri, r := range rows {
		rv := RowView{
			Key:     r.Key,
			Height:  r.Height,
			Stacked: r.Stacked,
			Lanes:   max(1, len(r.Lanes)),
		}
		if label != nil {
			rv.Label = label(r)
		}
		if !r.Stacked {
			rv.Lanes = 1
		}
		for li, lane := range r.Lanes {
			bar, ok := c.place(lane.Item, now)
			if !ok {
				continue
			}
			if r.Stacked {
				bar.Lane = li
			}
			bar.Top = lane.Top
			if bar.Draggable {
				c.index[bar.Ref] = barPos{row: ri, bar: len(rv.Bars)}
			}
			rv.Bars = append(rv.Bars, bar)
		}
		board.Rows = append(board.Rows, rv)
	}
	c.board = board
}

func (c *Container) place(it track.Item, now time.Time) (Bar, bool) {
	p, ok := c.window.Place(it.Start, it.End, c.minPercent)
	if !ok {
		return Bar{}, false
	}
	status := StatusFor(it, now)
	text := fmt.Sprintf("%s-%s", task.FormatClock(it.Start), task.FormatClock(it.End))
	return Bar{
		Ref:         it.Ref,
		Item:        it,
		LeftPct:     p.LeftPct,
		WidthPct:    p.WidthPct,
		StartOffset: p.StartOffset,
		EndOffset:   p.EndOffset,
		Status:      status,
		Text:        text,
		Title:       text + " · " + status.Label(),
		Draggable:   it.Ref.Valid(),
	}, true
}

// Board returns a copy of the rendered board.
func (c *Container) Board() Board {
	b := c.board
	b.Hours = append([]string(nil), c.board.Hours...)
	b.Rows = make([]RowView, len(c.board.Rows))
	for i, r := range c.board.Rows {
		r.Bars = append([]Bar(nil), r.Bars...)
		b.Rows[i] = r
	}
	return b
}

// Bar returns the draggable bar for ref.
func (c *Container) Bar(ref track.Ref) (Bar, bool) {
	pos, ok := c.index[ref]
	if !ok {
		return Bar{}, false
	}
	return c.board.Rows[pos.row].Bars[pos.bar], true
}

// SetBarLeft moves a bar horizontally without re-rendering. The bar never
// moves past the right edge of the track.
// Returns false if the bar is not on the board.
func (c *Container) SetBarLeft(ref track.Ref, pct float64) bool {
	pos, ok := c.index[ref]
	if !ok {
		return false
	}
	bar := &c.board.Rows[pos.row].Bars[pos.bar]
	bar.LeftPct = timeline.FitLeft(pct, bar.WidthPct)
	return true
}

// Locate returns the row index and the bar of ref.
func (c *Container) Locate(ref track.Ref) (row int, bar Bar, ok bool) {
	pos, ok := c.index[ref]
	if !ok {
		return 0, Bar{}, false
	}
	return pos.row, c.board.Rows[pos.row].Bars[pos.bar], true
}
