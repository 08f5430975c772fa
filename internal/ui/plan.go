package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/conflict"
)

func (a *App) planCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Recompute the plan of the workspace",
		Long: `Recompute the plan windows of every task the recommender owns.

Tasks are ordered by deadline and priority and placed one after another on
their device, around their operator's breaks. Tasks that cannot finish
before their deadline are left unscheduled. Afterwards every planned task
is checked against its operator's breaks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			_, planner, err := a.collaborators(a.stderrLogger())
			if err != nil {
				return err
			}

			res, err := planner.Recompute(ctx, a.workspaceID())
			if err != nil {
				return fmt.Errorf("recomputing plan: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d scheduled, %d unscheduled\n",
				formatOK("Plan recomputed:"), res.Updated, len(res.UnscheduledIDs))
			for _, id := range res.UnscheduledIDs {
				fmt.Fprintf(out, "  %s task #%d cannot finish before its deadline\n", formatWarning("!"), id)
			}

			snap, err := a.loadSnapshot(ctx)
			if err != nil {
				return err
			}
			for _, o := range conflict.SweepBreakOverlaps(snap) {
				fmt.Fprintf(out, "  %s %s\n", formatWarning("!"), o.Message())
			}
			return nil
		},
	}
}
