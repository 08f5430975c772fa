// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/conflict"
	"github.com/javiermolinar/shopboard/internal/drag"
	"github.com/javiermolinar/shopboard/internal/scheduler"
	"github.com/javiermolinar/shopboard/internal/task"
)

// Committer saves a dropped proposal. Implemented by board.Board.
type Committer interface {
	Commit(ctx context.Context, prop drag.Proposal) commit.Result
}

// Reloader fetches a fresh snapshot. Implemented by commit.Pipeline.
type Reloader interface {
	Reload(ctx context.Context) (*task.Snapshot, error)
	ReloadAndSweep(ctx context.Context) (*task.Snapshot, []conflict.BreakOverlap, error)
}

// Planner recomputes a workspace plan. Implemented by scheduler.Scheduler
// and api.Client.
type Planner interface {
	Recompute(ctx context.Context, workspaceID int64) (scheduler.Result, error)
}

// CommitDoneMsg is sent when a drop has been saved, rejected or has failed.
type CommitDoneMsg struct {
	Proposal drag.Proposal
	Result   commit.Result
}

// ReloadedMsg is sent when a fresh snapshot is in the store.
type ReloadedMsg struct{}

// DayLoadedMsg is sent when the reload that follows day navigation is done.
// Seq identifies the navigation it belongs to. Err is set when the reload
// failed and the previous snapshot is still shown.
type DayLoadedMsg struct {
	Seq int
	Err error
}

// RecomputedMsg is sent when the plan was recomputed and reloaded.
type RecomputedMsg struct {
	Result   scheduler.Result
	Warnings []conflict.BreakOverlap
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// DaySettledMsg is sent once day navigation has been idle for the debounce
// delay. Seq identifies the navigation it belongs to.
type DaySettledMsg struct {
	Seq int
}

// Commit runs the commit pipeline for prop off the event loop.
func Commit(c Committer, prop drag.Proposal) tea.Cmd {
	return func() tea.Msg {
		return CommitDoneMsg{Proposal: prop, Result: c.Commit(context.Background(), prop)}
	}
}

// Reload fetches a fresh snapshot.
func Reload(r Reloader) tea.Cmd {
	return func() tea.Msg {
		if _, err := r.Reload(context.Background()); err != nil {
			return ErrMsg{Err: fmt.Errorf("reloading: %w", err)}
		}
		return ReloadedMsg{}
	}
}

// ReloadDay fetches a fresh snapshot for the day navigation seq settled on.
func ReloadDay(r Reloader, seq int) tea.Cmd {
	return func() tea.Msg {
		if _, err := r.Reload(context.Background()); err != nil {
			return DayLoadedMsg{Seq: seq, Err: fmt.Errorf("reloading: %w", err)}
		}
		return DayLoadedMsg{Seq: seq}
	}
}

// Recompute asks the planner for a new plan, then reloads and checks every
// planned task against its operator's breaks.
func Recompute(p Planner, r Reloader, workspaceID int64) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		res, err := p.Recompute(ctx, workspaceID)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("recomputing plan: %w", err)}
		}
		_, warnings, err := r.ReloadAndSweep(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("reloading: %w", err)}
		}
		return RecomputedMsg{Result: res, Warnings: warnings}
	}
}

// Copy writes text to the system clipboard.
func Copy(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}

// SettleDay fires DaySettledMsg after delay.
func SettleDay(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return DaySettledMsg{Seq: seq}
	})
}

// ClearStatusAfter fires ClearStatusMsg after delay.
func ClearStatusAfter(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
