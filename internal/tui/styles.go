// Package tui provides the terminal board for shopboard.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/tui/theme"
	"github.com/javiermolinar/shopboard/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	ModalBg lipgloss.Color

	TitleStyle    lipgloss.Style
	DayStyle      lipgloss.Style
	SortStyle     lipgloss.Style
	StatsStyle    lipgloss.Style
	StatusStyle   lipgloss.Style
	WarningStyle  lipgloss.Style
	ErrorStyle    lipgloss.Style
	HelpStyle     lipgloss.Style
	PromptStyle   lipgloss.Style
	SuggestStyle  lipgloss.Style
	Tabs          view.TabStyles
	Board         render.TerminalStyles
	Modal         view.ModalStyles
	Detail        view.DetailStyles
	ModalBodyText lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{ModalBg: p.Modal.Bg}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		Padding(0, 1)

	s.Tabs = view.TabStyles{
		Tab:       lipgloss.NewStyle().Foreground(p.FgMuted).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Foreground(p.TextOnAccent).Background(p.Accent).Bold(true).Padding(0, 1),
		Bar:       lipgloss.NewStyle().Background(p.BgHighlight),
	}

	s.DayStyle = lipgloss.NewStyle().Bold(true).Foreground(p.Fg).Padding(0, 1)
	s.SortStyle = lipgloss.NewStyle().Foreground(p.FgMuted)
	s.StatsStyle = lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgHighlight).Padding(0, 1)
	s.StatusStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Padding(0, 1)
	s.WarningStyle = lipgloss.NewStyle().Foreground(p.Warning).Bold(true).Padding(0, 1)
	s.ErrorStyle = lipgloss.NewStyle().Foreground(p.Error).Bold(true).Padding(0, 1)
	s.HelpStyle = lipgloss.NewStyle().Foreground(p.FgMuted).Padding(0, 1)
	s.PromptStyle = lipgloss.NewStyle().Foreground(p.Fg).Padding(0, 1)
	s.SuggestStyle = lipgloss.NewStyle().Foreground(p.FgMuted)

	bar := func(bg, fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(fg)
	}
	s.Board = render.TerminalStyles{
		Header:   lipgloss.NewStyle().Foreground(p.FgMuted).Bold(true),
		Label:    lipgloss.NewStyle().Foreground(p.Fg),
		Track:    lipgloss.NewStyle(),
		Empty:    lipgloss.NewStyle().Foreground(p.FgMuted).Italic(true).Padding(1, 2),
		Selected: lipgloss.NewStyle().Reverse(true),
		Dragging: lipgloss.NewStyle().Background(p.DraggingBg).Bold(true),
		Bars: map[render.Status]lipgloss.Style{
			render.StatusDone:     bar(p.DoneBg, p.TextOnDone),
			render.StatusProgress: bar(p.ProgressBg, p.TextOnProgress),
			render.StatusPending:  bar(p.PendingBg, p.TextOnPending),
			render.StatusLunch:    bar(p.LunchBg, p.TextOnLunch),
			render.StatusOffDuty:  bar(p.OffDutyBg, p.TextOnOffDuty),
		},
	}

	body := lipgloss.NewStyle().Foreground(p.Modal.Text).Background(p.Modal.Bg)
	s.ModalBodyText = body
	s.Modal = view.ModalStyles{
		ModalTitleStyle:        body.Bold(true).Foreground(p.Accent),
		ModalFooterStyle:       body,
		ModalStyle:             body.Border(lipgloss.RoundedBorder()).BorderForeground(p.Modal.Border).BorderBackground(p.Modal.Bg).Padding(1, 2),
		ModalButtonStyle:       body.Foreground(p.Modal.Muted),
		ModalButtonActiveStyle: body.Foreground(p.Modal.Highlight).Bold(true),
		ModalBodyStyle:         body,
	}
	s.Detail = view.DetailStyles{
		LabelStyle:  body.Foreground(p.Modal.Muted),
		ValueStyle:  body,
		BorderStyle: body,
	}

	return s
}
