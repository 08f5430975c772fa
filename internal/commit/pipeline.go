// Package commit runs a dropped reschedule through validation, persistence
// and reload.
//
// A device overlap rejects the drop before anything is sent. A successful save
// is followed by a full reload of the workspace snapshot, then an advisory
// check against the operator's breaks. Transport failures revert the bar and
// leave the snapshot untouched. Commits run one at a time.
package commit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/javiermolinar/shopboard/internal/conflict"
	"github.com/javiermolinar/shopboard/internal/drag"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
)

// Pipeline errors.
var (
	ErrTransport   = errors.New("saving schedule failed")
	ErrBusy        = errors.New("a reschedule is already being saved")
	ErrUnknownItem = errors.New("item is not in the current snapshot")
)

// Persistence is the collaborator that stores schedules and serves snapshots.
type Persistence interface {
	task.Loader
	task.ScheduleSaver
}

// BarMover moves a rendered bar. Implemented by render.Container.
type BarMover interface {
	SetBarLeft(ref track.Ref, pct float64) bool
}

// Hooks are notified about pipeline events. Any hook may be nil.
type Hooks struct {
	OnBarClicked         func(ref track.Ref)
	OnRescheduleRejected func(reason string)
	OnRescheduleWarning  func(message string)
	OnRescheduleFailed   func(err error)
	OnRefreshed          func(snap *task.Snapshot)
}

// Status is the final state of one reschedule attempt.
type Status int

const (
	StatusCommitted Status = iota + 1
	StatusRejected
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCommitted:
		return "committed"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports how a reschedule ended.
type Result struct {
	Status   Status
	Err      error                  // rejection or transport error
	Warning  *conflict.BreakOverlap // advisory, committed results only
	Snapshot *task.Snapshot         // the snapshot after the attempt
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithHooks sets the event hooks.
func WithHooks(h Hooks) Option {
	return func(p *Pipeline) {
		p.hooks = h
	}
}

// Pipeline commits reschedules for one workspace.
type Pipeline struct {
	persist     Persistence
	store       *Store
	workspaceID int64
	hooks       Hooks
	logger      *slog.Logger

	mu   sync.Mutex
	busy atomic.Bool
}

// New creates a pipeline.
func New(persist Persistence, store *Store, workspaceID int64, opts ...Option) *Pipeline {
	p := &Pipeline{
		persist:     persist,
		store:       store,
		workspaceID: workspaceID,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the snapshot store.
func (p *Pipeline) Store() *Store {
	return p.store
}

// WorkspaceID returns the workspace the pipeline commits to.
func (p *Pipeline) WorkspaceID() int64 {
	return p.workspaceID
}

// SetWorkspace switches the workspace. The caller reloads afterwards.
func (p *Pipeline) SetWorkspace(id int64) {
	p.mu.Lock()
	p.workspaceID = id
	p.mu.Unlock()
}

// Busy returns true while a commit is in flight.
func (p *Pipeline) Busy() bool {
	return p.busy.Load()
}

// Click forwards a bar click to the hooks.
func (p *Pipeline) Click(ref track.Ref) {
	if p.hooks.OnBarClicked != nil {
		p.hooks.OnBarClicked(ref)
	}
}

// Reschedule validates, saves and reloads a dropped proposal. bars may be nil
// when nothing is drawn.
func (p *Pipeline) Reschedule(ctx context.Context, prop drag.Proposal, bars BarMover) Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy.Store(true)
	defer p.busy.Store(false)

	log := p.logger.With("ref", prop.Ref.String(), "start", prop.Start, "end", prop.End)
	snap := p.store.Snapshot()

	switch prop.Ref.Kind {
	case track.KindTask:
		t, ok := snap.TaskByID(prop.Ref.ID)
		if !ok {
			return p.reject(snap, prop, bars, fmt.Errorf("%w: %s", ErrUnknownItem, prop.Ref))
		}
		if err := conflict.CheckDevice(snap, t, prop.Start, prop.End); err != nil {
			log.Info("reschedule rejected", "reason", err)
			return p.reject(snap, prop, bars, err)
		}
		if err := p.persist.SaveTaskSchedule(ctx, t.WithSchedule(prop.Start, prop.End)); err != nil {
			return p.fail(snap, prop, bars, fmt.Errorf("%w: saving task %d: %w", ErrTransport, t.ID, err))
		}
		fresh, err := p.reloadLocked(ctx)
		if err != nil {
			return p.fail(snap, prop, bars, err)
		}
		res := Result{Status: StatusCommitted, Snapshot: fresh}
		moved, ok := fresh.TaskByID(t.ID)
		if !ok {
			moved = t.WithSchedule(prop.Start, prop.End)
		}
		if o, ok := conflict.CheckBreaks(fresh, moved, prop.Start, prop.End); ok {
			log.Warn("task overlaps operator break", "operator", o.OperatorName)
			res.Warning = &o
			if p.hooks.OnRescheduleWarning != nil {
				p.hooks.OnRescheduleWarning(o.Message())
			}
		}
		log.Info("task rescheduled")
		return res

	case track.KindBreak:
		b, ok := snap.BreakByID(prop.Ref.ID)
		if !ok {
			return p.reject(snap, prop, bars, fmt.Errorf("%w: %s", ErrUnknownItem, prop.Ref))
		}
		if err := p.persist.SaveBreakSchedule(ctx, b.WithSchedule(prop.Start, prop.End)); err != nil {
			return p.fail(snap, prop, bars, fmt.Errorf("%w: saving break %d: %w", ErrTransport, b.ID, err))
		}
		fresh, err := p.reloadLocked(ctx)
		if err != nil {
			return p.fail(snap, prop, bars, err)
		}
		log.Info("break rescheduled")
		return Result{Status: StatusCommitted, Snapshot: fresh}

	default:
		return p.reject(snap, prop, bars, fmt.Errorf("%w: %s", drag.ErrNotDraggable, prop.Ref))
	}
}

// Reload fetches a fresh snapshot and replaces the current one. On failure
// the current snapshot is kept.
func (p *Pipeline) Reload(ctx context.Context) (*task.Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reloadLocked(ctx)
}

// ReloadAndSweep reloads and then warns about every task overlapping a break
// of its operator. Used after a plan recompute.
func (p *Pipeline) ReloadAndSweep(ctx context.Context) (*task.Snapshot, []conflict.BreakOverlap, error) {
	snap, err := p.Reload(ctx)
	if err != nil {
		return nil, nil, err
	}
	overlaps := conflict.SweepBreakOverlaps(snap)
	if p.hooks.OnRescheduleWarning != nil {
		for _, o := range overlaps {
			p.hooks.OnRescheduleWarning(o.Message())
		}
	}
	return snap, overlaps, nil
}

func (p *Pipeline) reloadLocked(ctx context.Context) (*task.Snapshot, error) {
	snap, err := p.persist.LoadEntities(ctx, p.workspaceID)
	if err != nil {
		return nil, fmt.Errorf("%w: reloading workspace %d: %w", ErrTransport, p.workspaceID, err)
	}
	p.store.Replace(snap)
	if p.hooks.OnRefreshed != nil {
		p.hooks.OnRefreshed(snap)
	}
	return snap, nil
}

func (p *Pipeline) reject(snap *task.Snapshot, prop drag.Proposal, bars BarMover, err error) Result {
	revert(bars, prop)
	if p.hooks.OnRescheduleRejected != nil {
		p.hooks.OnRescheduleRejected(err.Error())
	}
	return Result{Status: StatusRejected, Err: err, Snapshot: snap}
}

func (p *Pipeline) fail(snap *task.Snapshot, prop drag.Proposal, bars BarMover, err error) Result {
	p.logger.Error("reschedule failed", "ref", prop.Ref.String(), "error", err)
	revert(bars, prop)
	if p.hooks.OnRescheduleFailed != nil {
		p.hooks.OnRescheduleFailed(err)
	}
	return Result{Status: StatusFailed, Err: err, Snapshot: snap}
}

func revert(bars BarMover, prop drag.Proposal) {
	if bars != nil {
		bars.SetBarLeft(prop.Ref, prop.OriginalLeft)
	}
}
