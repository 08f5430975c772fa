// Package ui holds the shopboard command line.
package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/config"
	"github.com/javiermolinar/shopboard/internal/db"
	"github.com/javiermolinar/shopboard/internal/logging"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config    *config.Config
	root      *cobra.Command
	repo      *db.SQLite
	now       func() time.Time
	debug     bool  // Log at debug level
	workspace int64 // Overrides board.workspace_id when set
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg, now: time.Now}

	a.root = &cobra.Command{
		Use:   "shopboard",
		Short: "A timeline board for workshop scheduling",
		Long: `Shopboard shows the day plan of a workshop as a timeline.

Tasks are bars on device and operator tracks. Drag a bar with the mouse
to move it; the move is checked against the device's other tasks and the
operator's breaks before it is saved.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runBoard()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().Int64Var(&a.workspace, "workspace", 0, "Workspace ID (defaults to board.workspace_id)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.seedCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.checkCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shopboard %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// SetArgs overrides the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) workspaceID() int64 {
	if a.workspace > 0 {
		return a.workspace
	}
	return a.config.Board.WorkspaceID
}

func (a *App) logLevel() string {
	if a.debug {
		return "debug"
	}
	return a.config.Log.Level
}

// stderrLogger is used by commands that do not own the terminal.
func (a *App) stderrLogger() *slog.Logger {
	return logging.NewWriter(a.root.ErrOrStderr(), a.logLevel())
}
