package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/javiermolinar/shopboard/internal/api"
	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/db"
	"github.com/javiermolinar/shopboard/internal/scheduler"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/tui/commands"
)

// ensureRepo opens the local database on first use.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

// Close releases the database if it was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

func (a *App) remote() bool {
	return a.config.Server.RemoteURL != ""
}

func (a *App) client() *api.Client {
	var opts []api.ClientOption
	if token := a.config.Server.AuthToken; token != "" {
		opts = append(opts, api.WithToken(token))
	}
	return api.NewClient(a.config.Server.RemoteURL, opts...)
}

// collaborators returns what the board saves through and what recomputes
// plans: the remote API when server.remote_url is set, else the local
// database.
func (a *App) collaborators(logger *slog.Logger) (commit.Persistence, commands.Planner, error) {
	if a.remote() {
		c := a.client()
		return c, c, nil
	}
	if err := a.ensureRepo(); err != nil {
		return nil, nil, err
	}
	return a.repo, scheduler.New(a.repo, scheduler.WithLogger(logger), scheduler.WithClock(a.now)), nil
}

func (a *App) loadSnapshot(ctx context.Context) (*task.Snapshot, error) {
	persist, _, err := a.collaborators(a.stderrLogger())
	if err != nil {
		return nil, err
	}
	snap, err := persist.LoadEntities(ctx, a.workspaceID())
	if err != nil {
		return nil, fmt.Errorf("loading workspace %d: %w", a.workspaceID(), err)
	}
	return snap, nil
}
