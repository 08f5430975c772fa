package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks and breaks by day",
		Long: `List the tasks and breaks of a workspace grouped by day.

If no dates are specified, lists today.
If only --date is specified, lists that single day.
If --end is also specified, lists every day in the range (inclusive).`,
		Example: `  shopboard list
  shopboard list --date=2025-03-10
  shopboard list --date=2025-03-10 --end=2025-03-14`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if startDate == "" {
				startDate = a.now().Format("2006-01-02")
			}
			dateRange, err := dateutil.NewDateRange(startDate, endDate)
			if err != nil {
				return err
			}

			snap, err := a.loadSnapshot(context.Background())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			width := termWidth()
			for i, day := range dateRange.Days() {
				if i > 0 {
					fmt.Fprintln(out)
				}
				PrintDay(out, snap, day, a.now(), width)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "date", "", "Day to list (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "Last day to list (YYYY-MM-DD, defaults to --date)")

	return cmd
}
