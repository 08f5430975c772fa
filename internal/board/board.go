// Package board drives the views of the scheduling board: it renders
// each view into a container, runs drags against it and sends drops through
// the commit pipeline.
//
// A Board is not safe for concurrent use. Rendering and drag state belong to
// the event loop that owns the board. Commit may run elsewhere; its result is
// applied back with Apply.
package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/dateutil"
	"github.com/javiermolinar/shopboard/internal/drag"
	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/timeline"
	"github.com/javiermolinar/shopboard/internal/track"
)

// Board errors.
var (
	ErrUnknownView = errors.New("unknown view")
	ErrBusy        = commit.ErrBusy
	ErrNoMove      = errors.New("item would not move")
)

// Board holds one container per view over a shared snapshot.
type Board struct {
	pipeline   *commit.Pipeline
	window     timeline.Window
	minPercent float64
	drag       *drag.Controller
	containers map[View]*render.Container
	dragView   View
	saving     bool
	day        time.Time
	sort       task.SortMode
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Board.
type Option func(*Board)

// WithClock overrides time.Now. It sets the status of every bar and the
// meaning of "today".
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// WithDragOptions passes options to the drag controller.
func WithDragOptions(opts ...drag.Option) Option {
	return func(b *Board) { b.drag = drag.New(b.window, opts...) }
}

// New creates a board showing today and renders every view from the
// pipeline's current snapshot.
func New(p *commit.Pipeline, w timeline.Window, minPercent float64, opts ...Option) *Board {
	b := &Board{
		pipeline:   p,
		window:     w,
		minPercent: minPercent,
		containers: map[View]*render.Container{},
		sort:       task.SortByTask,
		now:        time.Now,
		logger:     slog.New(slog.DiscardHandler),
	}
	b.drag = drag.New(w)
	for _, opt := range opts {
		opt(b)
	}
	for _, v := range Views() {
		b.containers[v] = render.NewContainer(w, minPercent)
	}
	b.day = dateutil.TruncateToDay(b.now())
	b.Refresh()
	return b
}

// Pipeline returns the commit pipeline.
func (b *Board) Pipeline() *commit.Pipeline {
	return b.pipeline
}

// Snapshot returns the snapshot currently shown.
func (b *Board) Snapshot() *task.Snapshot {
	return b.pipeline.Store().Snapshot()
}

// Window returns the visible time window.
func (b *Board) Window() timeline.Window {
	return b.window
}

// Day returns the day shown by the dated views.
func (b *Board) Day() time.Time {
	return b.day
}

// SetDay changes the day shown by the dated views and re-renders.
func (b *Board) SetDay(day time.Time) {
	b.day = dateutil.TruncateToDay(day)
	b.Refresh()
}

// ShiftDay moves the shown day by n days without re-rendering. Callers that
// debounce navigation re-render once the user settles.
func (b *Board) ShiftDay(n int) time.Time {
	b.day = b.day.AddDate(0, 0, n)
	return b.day
}

// SortMode returns the ordering of the tasks view.
func (b *Board) SortMode() task.SortMode {
	return b.sort
}

// ToggleSort switches the tasks view between name and device order.
func (b *Board) ToggleSort() task.SortMode {
	if b.sort == task.SortByTask {
		b.sort = task.SortByDevice
	} else {
		b.sort = task.SortByTask
	}
	b.render(ViewTasks, b.Snapshot(), b.now())
	return b.sort
}

// Container returns the rendered container of v.
func (b *Board) Container(v View) *render.Container {
	return b.containers[v]
}

// Refresh re-renders every view from the current snapshot. A drag in
// progress is cancelled because its bar is rebuilt.
func (b *Board) Refresh() {
	if b.drag.Active() {
		b.drag.Cancel()
	}
	snap := b.Snapshot()
	now := b.now()
	for _, v := range Views() {
		b.render(v, snap, now)
	}
}

func (b *Board) render(v View, snap *task.Snapshot, now time.Time) {
	rows := Rows(snap, v, b.day, dateutil.TruncateToDay(now), b.sort)
	render.Render(b.containers[v], rows, Label(snap), now)
}

// Stats summarises today's tasks.
func (b *Board) Stats() task.DayStats {
	snap := b.Snapshot()
	now := b.now()
	return task.StatsFor(snap.TasksForDate(dateutil.TruncateToDay(now)), len(snap.Devices), now)
}

// Dragging returns the session in progress and its view.
func (b *Board) Dragging() (drag.Session, View, bool) {
	s, ok := b.drag.Current()
	return s, b.dragView, ok
}

// Begin starts dragging the bar ref of view v. x is the pointer position
// and trackWidth the width of the track, in the same unit. Returns ErrBusy
// from the moment a drop leaves End until its result is applied.
func (b *Board) Begin(v View, ref track.Ref, x, trackWidth float64) error {
	c, ok := b.containers[v]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	if b.Saving() {
		return ErrBusy
	}
	if err := b.drag.Down(c, ref, x, trackWidth); err != nil {
		return err
	}
	b.dragView = v
	return nil
}

// Drag moves the bar being dragged to pointer position x. It returns the
// tentative start in minutes from the window start.
func (b *Board) Drag(x float64) (float64, error) {
	return b.drag.Move(x)
}

// End finishes the drag. A click is forwarded to the pipeline's click hook.
// A drop is returned for the caller to Commit, and the board refuses new
// drags until the commit result is passed to Apply.
func (b *Board) End() (drag.Result, error) {
	res, err := b.drag.Up()
	if err != nil {
		return drag.Result{}, err
	}
	switch {
	case res.Outcome == drag.OutcomeClick:
		b.pipeline.Click(res.Ref)
	case res.Proposal != nil:
		b.saving = true
	}
	b.logger.Debug("drag ended", "ref", res.Ref.String(), "outcome", res.Outcome.String())
	return res, nil
}

// Saving reports whether a dropped move has not been applied yet.
func (b *Board) Saving() bool {
	return b.saving || b.pipeline.Busy()
}

// Cancel abandons the drag and restores the bar.
func (b *Board) Cancel() {
	b.drag.Cancel()
}

// ConsumeClick reports whether the click that follows a drop should be
// ignored, and clears the flag.
func (b *Board) ConsumeClick() bool {
	return b.drag.ConsumeClick()
}

// Commit sends a dropped proposal through the pipeline. It does not touch the
// rendered views and may run off the event loop; pass the result to Apply.
func (b *Board) Commit(ctx context.Context, prop drag.Proposal) commit.Result {
	return b.pipeline.Reschedule(ctx, prop, nil)
}

// Apply folds a commit result back into the views: a committed drop
// re-renders from the new snapshot, anything else returns the bar to where
// it started.
func (b *Board) Apply(prop drag.Proposal, res commit.Result) {
	b.saving = false
	if res.Status == commit.StatusCommitted {
		b.Refresh()
		return
	}
	for _, c := range b.containers {
		c.SetBarLeft(prop.Ref, prop.OriginalLeft)
	}
}

// Drop commits a proposal and applies the result in one step.
func (b *Board) Drop(ctx context.Context, prop drag.Proposal) commit.Result {
	res := b.Commit(ctx, prop)
	b.Apply(prop, res)
	return res
}

// Reload fetches a fresh snapshot and re-renders.
func (b *Board) Reload(ctx context.Context) error {
	if _, err := b.pipeline.Reload(ctx); err != nil {
		return err
	}
	b.Refresh()
	return nil
}

// Propose builds the proposal of moving ref in view v so it starts at
// minutes from the window start, as if it had been dragged there. Used by
// headless clients that address bars by time rather than pointer position.
func (b *Board) Propose(v View, ref track.Ref, minutes int) (drag.Proposal, error) {
	c, ok := b.containers[v]
	if !ok {
		return drag.Proposal{}, fmt.Errorf("%w: %q", ErrUnknownView, v)
	}
	bar, ok := c.Bar(ref)
	if !ok {
		return drag.Proposal{}, fmt.Errorf("%w: %s", drag.ErrNoTrack, ref)
	}
	// Replay it as a drag across a track ten units per minute wide, so any
	// whole-minute move clears the click threshold.
	const unitsPerMinute = 10
	width := float64(b.window.TotalMinutes() * unitsPerMinute)
	if err := b.drag.Down(c, ref, 0, width); err != nil {
		return drag.Proposal{}, err
	}
	b.dragView = v
	if _, err := b.drag.Move(float64((minutes - bar.StartOffset) * unitsPerMinute)); err != nil {
		b.drag.Cancel()
		return drag.Proposal{}, err
	}
	res, err := b.drag.Up()
	if err != nil {
		return drag.Proposal{}, err
	}
	b.drag.ConsumeClick()
	if res.Proposal == nil {
		// Within the click threshold: the bar stays where it is.
		return drag.Proposal{}, fmt.Errorf("%w: %s", ErrNoMove, ref)
	}
	return *res.Proposal, nil
}
