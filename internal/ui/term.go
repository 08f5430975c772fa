package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/shopboard/internal/render"
)

// Color definitions for consistent styling across the CLI.
var (
	colorDone     = color.New(color.FgWhite, color.Faint)
	colorProgress = color.New(color.FgGreen, color.Bold)
	colorPending  = color.New(color.FgBlue)
	colorLunch    = color.New(color.FgYellow)
	colorOffDuty  = color.New(color.FgRed)

	colorHeader  = color.New(color.Bold)
	colorWarning = color.New(color.FgYellow, color.Bold)
	colorError   = color.New(color.FgRed, color.Bold)
	colorOK      = color.New(color.FgGreen)
	colorMuted   = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatStatus pads the status label to width before coloring it.
func formatStatus(s render.Status, width int) string {
	label := fmt.Sprintf("%-*s", width, s.Label())
	switch s {
	case render.StatusDone:
		return colorDone.Sprint(label)
	case render.StatusProgress:
		return colorProgress.Sprint(label)
	case render.StatusPending:
		return colorPending.Sprint(label)
	case render.StatusLunch:
		return colorLunch.Sprint(label)
	case render.StatusOffDuty:
		return colorOffDuty.Sprint(label)
	default:
		return label
	}
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatWarning(s string) string {
	return colorWarning.Sprint(s)
}

func formatError(s string) string {
	return colorError.Sprint(s)
}

func formatOK(s string) string {
	return colorOK.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
