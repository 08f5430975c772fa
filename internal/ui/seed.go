package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/dateutil"
	"github.com/javiermolinar/shopboard/internal/db"
)

func (a *App) seedCmd() *cobra.Command {
	var (
		name string
		date string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo workspace",
		Long: `Create a workspace with devices, operators, tasks and breaks planned
around one day, so the board has something to show.`,
		Example: `  shopboard seed
  shopboard seed --name "Line B" --date tomorrow`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.remote() {
				return errors.New("seed writes to the local database, unset server.remote_url")
			}
			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			id, err := db.Seed(context.Background(), a.repo, name, day)
			if err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created workspace %d (%s) planned around %s\n", id, name, day.Format("2006-01-02"))
			if id != a.workspaceID() {
				fmt.Fprintln(cmd.OutOrStdout(), formatMuted(fmt.Sprintf("Open it with: shopboard --workspace %d", id)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Demo workshop", "Workspace name")
	cmd.Flags().StringVar(&date, "date", "today", "Day to plan around (today, tomorrow, monday, YYYY-MM-DD)")
	return cmd
}
