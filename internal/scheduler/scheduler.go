// Package scheduler recomputes plan windows for the tasks the recommender owns.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/javiermolinar/shopboard/internal/task"
)

// Store is what a recompute reads and writes.
type Store interface {
	task.Loader
	BatchSaveTaskSchedules(ctx context.Context, tasks []task.Task) error
}

// Result summarises one recompute.
type Result struct {
	Updated        int     `json:"updated"`
	UnscheduledIDs []int64 `json:"unscheduled_ids"`
}

// Plan is the outcome of Compute before it is persisted.
type Plan struct {
	Scheduled   []task.Task
	Unscheduled []int64
}

// Scheduler places recommender tasks one after another.
type Scheduler struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// New creates a Scheduler.
func New(store Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:  store,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recompute loads the workspace, computes a plan and saves every placed task
// in one batch.
func (s *Scheduler) Recompute(ctx context.Context, workspaceID int64) (Result, error) {
	snap, err := s.store.LoadEntities(ctx, workspaceID)
	if err != nil {
		return Result{}, fmt.Errorf("loading workspace: %w", err)
	}

	plan := Compute(snap, s.now())
	if err := s.store.BatchSaveTaskSchedules(ctx, plan.Scheduled); err != nil {
		return Result{}, fmt.Errorf("saving plan: %w", err)
	}

	s.logger.Info("plan recomputed",
		"workspace", workspaceID,
		"updated", len(plan.Scheduled),
		"unscheduled", len(plan.Unscheduled),
	)
	return Result{Updated: len(plan.Scheduled), UnscheduledIDs: plan.Unscheduled}, nil
}

type interval struct {
	start, end time.Time
}

// Compute places every recommender task of snap, earliest deadline first and
// then by priority. Each device fills sequentially from now rounded up to the
// next quarter hour. A block (setup, run, unload) never intersects its
// operator's breaks or another block of the same operator. Tasks that would
// finish after their deadline are left unscheduled.
func Compute(snap *task.Snapshot, now time.Time) Plan {
	var candidates []task.Task
	for _, t := range snap.Tasks {
		if t.InRecommender {
			candidates = append(candidates, t)
		}
	}

	far := now.Add(365 * 24 * time.Hour)
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := deadlineOr(candidates[i], far), deadlineOr(candidates[j], far)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return candidates[i].PriorityID < candidates[j].PriorityID
	})

	busy := map[int64][]interval{}
	for _, b := range snap.Breaks {
		if b.Dated() {
			busy[b.OperatorID] = append(busy[b.OperatorID], interval{*b.Start, *b.End})
		}
	}

	origin := roundUpTo15Min(now)
	cursor := map[int64]time.Time{}
	var plan Plan

	for _, t := range candidates {
		total := t.SetupTime + t.Duration + t.UnloadTime
		if total <= 0 {
			total = t.TotalDuration()
		}

		from, ok := cursor[t.DeviceID]
		if !ok {
			from = origin
		}

		var blocked []interval
		if t.OperatorID != 0 {
			blocked = busy[t.OperatorID]
		}
		start := findNextFreeStart(from, total, blocked)
		end := start.Add(total)

		if t.Deadline != nil && end.After(*t.Deadline) {
			plan.Unscheduled = append(plan.Unscheduled, t.ID)
			continue
		}

		plan.Scheduled = append(plan.Scheduled, t.WithSchedule(start, end))
		cursor[t.DeviceID] = end
		if t.OperatorID != 0 {
			busy[t.OperatorID] = append(busy[t.OperatorID], interval{start, end})
		}
	}

	return plan
}

func deadlineOr(t task.Task, fallback time.Time) time.Time {
	if t.Deadline == nil {
		return fallback
	}
	return *t.Deadline
}

// findNextFreeStart returns the earliest start at or after from where
// [start, start+dur) intersects none of busy.
func findNextFreeStart(from time.Time, dur time.Duration, busy []interval) time.Time {
	cur := from
	for {
		moved := false
		end := cur.Add(dur)
		for _, iv := range busy {
			if task.Overlaps(cur, end, iv.start, iv.end) {
				cur = iv.end
				moved = true
				break
			}
		}
		if !moved {
			return cur
		}
	}
}

// roundUpTo15Min rounds a time up to the next 15-minute boundary.
func roundUpTo15Min(t time.Time) time.Time {
	minute := t.Minute()
	remainder := minute % 15
	if remainder == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t
	}
	return t.Add(time.Duration(15-remainder) * time.Minute).Truncate(time.Minute)
}
