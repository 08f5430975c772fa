// Package drag implements the pointer drag session for moving bars along
// the board timeline.
//
// A session goes idle -> dragging -> idle. Down starts it, Move updates the
// tentative position and Up ends it with either a click or a drop proposal.
// At most one session exists at a time.
package drag

import (
	"errors"
	"math"
	"time"

	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/timeline"
	"github.com/javiermolinar/shopboard/internal/track"
)

// Controller errors.
var (
	ErrSessionActive = errors.New("a drag is already in progress")
	ErrNoSession     = errors.New("no drag in progress")
	ErrNotDraggable  = errors.New("bar cannot be dragged")
	ErrUndated       = errors.New("item has no start or end")
	ErrNoTrack       = errors.New("track width must be positive")
)

// DefaultClickThreshold is how far the pointer may travel, in the same unit
// as x, before a press counts as a drag.
const DefaultClickThreshold = 3.0

// Outcome is how a session ended.
type Outcome int

const (
	OutcomeClick Outcome = iota + 1
	OutcomeDrop
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClick:
		return "click"
	case OutcomeDrop:
		return "drop"
	default:
		return "none"
	}
}

// Session is the state of the drag in progress.
type Session struct {
	Ref          track.Ref
	Item         track.Item
	OriginX      float64
	TrackWidth   float64
	StartOffset  int     // original start, minutes from window start
	Duration     int     // minutes, fixed for the whole session
	Offset       float64 // tentative start, minutes from window start
	OriginalLeft float64 // bar position before the drag, percent
	Moved        bool

	container *render.Container
}

// Proposal is a reschedule produced by a drop.
type Proposal struct {
	Ref           track.Ref
	Item          track.Item
	Start         time.Time
	End           time.Time
	OriginalStart time.Time
	OriginalEnd   time.Time
	OriginalLeft  float64
}

// Result is returned by Up.
type Result struct {
	Outcome  Outcome
	Ref      track.Ref
	Proposal *Proposal // set for drops
}

// Option configures a Controller.
type Option func(*Controller)

// WithClickThreshold overrides the click threshold.
func WithClickThreshold(th float64) Option {
	return func(c *Controller) {
		c.threshold = th
	}
}

// Controller owns the single drag session of a board.
type Controller struct {
	window        timeline.Window
	threshold     float64
	current       *Session
	suppressClick bool
}

// New creates a controller for the given window.
func New(w timeline.Window, opts ...Option) *Controller {
	c := &Controller{
		window:    w,
		threshold: DefaultClickThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Active returns true while a session is in progress.
func (c *Controller) Active() bool {
	return c.current != nil
}

// Current returns a copy of the session in progress.
func (c *Controller) Current() (Session, bool) {
	if c.current == nil {
		return Session{}, false
	}
	return *c.current, true
}

// Down starts a session on the bar identified by ref in container.
// x is the pointer position and trackWidth the width of the track, in the
// same unit.
func (c *Controller) Down(container *render.Container, ref track.Ref, x, trackWidth float64) error {
	if c.current != nil {
		return ErrSessionActive
	}
	if !ref.Valid() {
		return ErrNotDraggable
	}
	bar, ok := container.Bar(ref)
	if !ok || !bar.Draggable {
		return ErrNotDraggable
	}
	if !bar.Item.HasStoredWindow() {
		return ErrUndated
	}
	if trackWidth <= 0 {
		return ErrNoTrack
	}

	c.suppressClick = false
	c.current = &Session{
		Ref:          ref,
		Item:         bar.Item,
		OriginX:      x,
		TrackWidth:   trackWidth,
		StartOffset:  bar.StartOffset,
		Duration:     bar.EndOffset - bar.StartOffset,
		Offset:       float64(bar.StartOffset),
		OriginalLeft: bar.LeftPct,
		container:    container,
	}
	return nil
}

// Move updates the tentative start for pointer position x and moves the bar.
// Returns the tentative start offset in minutes.
func (c *Controller) Move(x float64) (float64, error) {
	s := c.current
	if s == nil {
		return 0, ErrNoSession
	}
	dx := x - s.OriginX
	if math.Abs(dx) > c.threshold {
		s.Moved = true
	}
	total := float64(c.window.TotalMinutes())
	offset := float64(s.StartOffset) + dx/s.TrackWidth*total
	offset = math.Max(0, math.Min(total-float64(s.Duration), offset))
	s.Offset = offset
	s.container.SetBarLeft(s.Ref, c.window.ToPercent(offset))
	return offset, nil
}

// Up ends the session. A session that never passed the click threshold ends
// as a click. Otherwise the start is rounded to the minute and a proposal on
// the item's original day is returned, keeping its duration.
func (c *Controller) Up() (Result, error) {
	s := c.current
	if s == nil {
		return Result{}, ErrNoSession
	}
	c.current = nil

	if !s.Moved {
		return Result{Outcome: OutcomeClick, Ref: s.Ref}, nil
	}

	c.suppressClick = true
	start := c.window.OffsetToTimestamp(*s.Item.Start, int(math.Round(s.Offset)))
	end := start.Add(s.Item.End.Sub(*s.Item.Start))
	return Result{
		Outcome: OutcomeDrop,
		Ref:     s.Ref,
		Proposal: &Proposal{
			Ref:           s.Ref,
			Item:          s.Item,
			Start:         start,
			End:           end,
			OriginalStart: *s.Item.Start,
			OriginalEnd:   *s.Item.End,
			OriginalLeft:  s.OriginalLeft,
		},
	}, nil
}

// Cancel aborts the session and puts the bar back.
func (c *Controller) Cancel() {
	s := c.current
	if s == nil {
		return
	}
	s.container.SetBarLeft(s.Ref, s.OriginalLeft)
	c.current = nil
}

// ConsumeClick reports whether a click following a drop must be ignored,
// and clears the flag.
func (c *Controller) ConsumeClick() bool {
	v := c.suppressClick
	c.suppressClick = false
	return v
}
