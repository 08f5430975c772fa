package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/dateutil"
	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/tui/theme"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		viewName string
		date     string
		out      string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a board view as SVG",
		Long: `Render one view of the board for one day as a standalone SVG timeline.
Colors follow ui.theme.`,
		Example: `  shopboard export --view operators --date tomorrow --out plan.svg
  shopboard export --view devices > devices.svg`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := board.ParseView(viewName)
			if err != nil {
				return err
			}
			day, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", date, err)
			}

			snap, err := a.loadSnapshot(context.Background())
			if err != nil {
				return err
			}

			opts, err := a.svgOptions(v, day, width)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := render.SVG(w, a.renderView(snap, v, day), opts); err != nil {
				return fmt.Errorf("writing svg: %w", err)
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", "operators", "View to export (home, tasks, devices, operators)")
	cmd.Flags().StringVar(&date, "date", "today", "Day to export")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to stdout)")
	cmd.Flags().IntVar(&width, "width", 0, "Image width in pixels")
	return cmd
}

// renderView renders one view of snap the way the board does.
func (a *App) renderView(snap *task.Snapshot, v board.View, day time.Time) render.Board {
	c := render.NewContainer(a.config.Window(), a.config.Board.MinBarPercent)
	now := a.now()
	rows := board.Rows(snap, v, dateutil.TruncateToDay(day), dateutil.TruncateToDay(now), task.SortByTask)
	render.Render(c, rows, board.Label(snap), now)
	return c.Board()
}

func (a *App) svgOptions(v board.View, day time.Time, width int) (render.SVGOptions, error) {
	opts := render.DefaultSVGOptions()
	if width > 0 {
		opts.Width = width
	}
	opts.Title = fmt.Sprintf("%s · %s", v.Title(), day.Format("Mon 2 Jan 2006"))

	t, err := theme.Load(a.config.UI.Theme)
	if err != nil {
		return opts, fmt.Errorf("loading theme: %w", err)
	}
	opts.Background = t.Bg
	opts.Foreground = t.Fg
	opts.GridColor = t.FgMuted
	opts.Colors = map[render.Status]string{
		render.StatusDone:     t.Done,
		render.StatusProgress: t.Progress,
		render.StatusPending:  t.Pending,
		render.StatusLunch:    t.Lunch,
		render.StatusOffDuty:  t.OffDuty,
	}
	return opts, nil
}
