package ui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/logging"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
	"github.com/javiermolinar/shopboard/internal/tui"
)

// runBoard opens the interactive board. Logs go to a file because the
// terminal belongs to the board.
func (a *App) runBoard() error {
	logger, closer, err := logging.NewFile(a.config.Log.File, a.logLevel())
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	persist, planner, err := a.collaborators(logger)
	if err != nil {
		return err
	}

	b, err := a.newBoard(context.Background(), persist, logger)
	if err != nil {
		return err
	}

	view, err := board.ParseView(a.config.Board.DefaultView)
	if err != nil {
		return err
	}

	logger.Info("board started", "workspace_id", a.workspaceID(), "view", view, "remote", a.remote())
	return tui.Run(b,
		tui.WithPlanner(planner),
		tui.WithView(view),
		tui.WithTheme(a.config.UI.Theme),
		tui.WithLogger(logger),
		tui.WithClock(a.now),
	)
}

// newBoard loads the workspace and wires the commit pipeline to persist.
func (a *App) newBoard(ctx context.Context, persist commit.Persistence, logger *slog.Logger) (*board.Board, error) {
	ws := a.workspaceID()
	snap, err := persist.LoadEntities(ctx, ws)
	if err != nil {
		return nil, fmt.Errorf("loading workspace %d: %w", ws, err)
	}

	p := commit.New(persist, commit.NewStore(snap), ws,
		commit.WithLogger(logger),
		commit.WithHooks(pipelineHooks(logger)),
	)
	return board.New(p, a.config.Window(), a.config.Board.MinBarPercent,
		board.WithLogger(logger),
		board.WithClock(a.now),
	), nil
}

func pipelineHooks(logger *slog.Logger) commit.Hooks {
	return commit.Hooks{
		OnBarClicked: func(ref track.Ref) {
			logger.Debug("bar clicked", "ref", ref.String())
		},
		OnRescheduleRejected: func(reason string) {
			logger.Info("reschedule rejected", "reason", reason)
		},
		OnRescheduleWarning: func(message string) {
			logger.Warn("reschedule warning", "message", message)
		},
		OnRescheduleFailed: func(err error) {
			logger.Error("reschedule failed", "error", err)
		},
		OnRefreshed: func(snap *task.Snapshot) {
			logger.Debug("snapshot refreshed", "tasks", len(snap.Tasks), "breaks", len(snap.Breaks))
		},
	}
}
