package ui

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/conflict"
)

// ErrConflicts is returned by check when the workspace has conflicts.
var ErrConflicts = errors.New("conflicts found")

func (a *App) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report device and break overlaps",
		Long: `Scan every planned task of the workspace for two kinds of conflict:
tasks sharing a device at the same time, and tasks planned over a break of
their operator. Exits non-zero when anything is found.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := a.loadSnapshot(context.Background())
			if err != nil {
				return err
			}
			if PrintReport(cmd.OutOrStdout(), snap, conflict.Scan(snap)) > 0 {
				return ErrConflicts
			}
			return nil
		},
	}
}
