package ui

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/api"
	"github.com/javiermolinar/shopboard/internal/config"
	"github.com/javiermolinar/shopboard/internal/scheduler"
)

const shutdownGrace = 10 * time.Second

func (a *App) serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the board over HTTP",
		Long: `Serve the local database over the HTTP API so that remote boards can
read workspaces and save moves.

When planner.recompute_cron is set, every workspace's plan is recomputed
on that schedule.`,
		Example: `  shopboard serve
  shopboard serve --addr 0.0.0.0:7080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if a.remote() {
				return errors.New("serve needs a local database, unset server.remote_url")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}
			return a.serve(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to server.addr)")
	return cmd
}

func (a *App) serve(addr string) error {
	logger := a.stderrLogger()
	planner := scheduler.New(a.repo, scheduler.WithLogger(logger), scheduler.WithClock(a.now))

	server := api.NewServer(a.repo, planner, api.Options{
		Addr:       addr,
		AuthToken:  a.config.Server.AuthToken,
		Window:     a.config.Window(),
		MinPercent: a.config.Board.MinBarPercent,
		Logger:     logger,
		Now:        a.now,
	})

	var recompute *cron.Cron
	if expr := a.config.Planner.RecomputeCron; expr != "" {
		schedule, err := config.ParseCron(expr)
		if err != nil {
			return err
		}
		recompute = cron.New()
		recompute.Schedule(schedule, cron.FuncJob(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			workspaces, err := a.repo.ListWorkspaces(ctx)
			if err != nil {
				logger.Error("listing workspaces", "err", err)
				return
			}
			for _, ws := range workspaces {
				res, err := planner.Recompute(ctx, ws.ID)
				if err != nil {
					logger.Error("scheduled recompute", "workspace_id", ws.ID, "err", err)
					continue
				}
				logger.Info("scheduled recompute", "workspace_id", ws.ID, "updated", res.Updated, "unscheduled", len(res.UnscheduledIDs))
			}
		}))
		recompute.Start()
		logger.Info("recompute scheduled", "cron", expr)
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	var runErr error
	select {
	case sig := <-sigs:
		logger.Info("received signal", "signal", sig.String())
	case runErr = <-serverErr:
		logger.Error("server error", "err", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}

	if recompute != nil {
		select {
		case <-recompute.Stop().Done():
		case <-time.After(shutdownGrace):
			logger.Warn("recompute stop timed out")
		}
	}
	return runErr
}
