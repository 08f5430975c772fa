package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/dateutil"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/tui/input"
	"github.com/javiermolinar/shopboard/internal/tui/view"
)

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	header := view.PadLines(m.renderHeader(), m.width, headerHeight)
	footer := view.RenderFooter(m.footerModel())
	boardH := max(m.height-headerHeight-view.FooterHeight(m.footerModel()), 1)
	body := view.PadLines(m.visibleBoard(), m.width, boardH)

	base := view.PadLines(header+"\n"+body+"\n"+footer, m.width, m.height)
	if m.mode == ModeDetail {
		if modal, ok := m.renderDetail(); ok {
			return view.RenderModalOverlay(base, modal, m.width, m.height, m.styles.ModalBg)
		}
	}
	return base
}

func (m Model) renderHeader() string {
	views := board.Views()
	tabs := make([]view.Tab, 0, len(views))
	for _, v := range views {
		tabs = append(tabs, view.Tab{Title: v.Title(), Active: v == m.view})
	}
	title := m.styles.TitleStyle.Render("shopboard")
	tabLine := title + view.RenderTabs(tabs, max(m.width-lipgloss.Width(title), 0), m.styles.Tabs)

	today := dateutil.TruncateToDay(m.now())
	day := m.board.Day()
	if m.view == board.ViewHome {
		day = today
	}
	dayLine := m.styles.DayStyle.Render(view.DayLabel(day, today))
	if m.view == board.ViewTasks {
		dayLine += m.styles.SortStyle.Render(" · sorted by " + string(m.board.SortMode()))
	}
	return tabLine + "\n" + dayLine
}

// visibleBoard returns the ruler followed by the lanes that fit, starting at
// the scroll offset.
func (m Model) visibleBoard() string {
	lines := strings.Split(m.boardText, "\n")
	if len(lines) <= 1 || m.layout.HeaderHeight == 0 {
		return m.boardText
	}
	from := min(1+m.scroll, len(lines))
	to := min(from+m.visibleLanes(), len(lines))
	return strings.Join(append([]string{lines[0]}, lines[from:to]...), "\n")
}

func (m Model) footerModel() view.FooterModel {
	fm := view.FooterModel{
		Width:       m.width,
		StatsText:   m.statsLine(),
		StatusText:  m.statusMsg,
		HelpText:    m.help.View(m.keys),
		StatsStyle:  m.styles.StatsStyle,
		StatusStyle: m.styles.StatusStyle,
		HelpStyle:   m.styles.HelpStyle,
	}
	switch m.statusKind {
	case statusWarning:
		fm.StatusStyle = m.styles.WarningStyle
	case statusError:
		fm.StatusStyle = m.styles.ErrorStyle
	}

	switch m.mode {
	case ModePrompt:
		fm.StatusText = m.prompt.View()
		if matches := input.MatchingDateWords(m.prompt.Value(), input.DateWords()); len(matches) > 0 {
			names := make([]string, 0, len(matches))
			for _, w := range matches {
				names = append(names, w.Name)
			}
			fm.StatusText += "  " + m.styles.SuggestStyle.Render(strings.Join(names, " "))
		}
		fm.StatusStyle = m.styles.PromptStyle
	case ModeDragging:
		if s, _, ok := m.board.Dragging(); ok {
			fm.StatusText = fmt.Sprintf("Moving %s → %s  (release to drop, esc to cancel)", s.Item.Name, m.tentativeRange(s))
			fm.StatusStyle = m.styles.WarningStyle
		}
	}
	return fm
}

func (m Model) footerHeight() int {
	return view.FooterHeight(m.footerModel())
}

func (m Model) statsLine() string {
	if m.view != board.ViewHome {
		return ""
	}
	st := m.board.Stats()
	parts := []string{
		fmt.Sprintf("Running %d", st.InProgress),
		fmt.Sprintf("Pending %d", st.Pending),
		fmt.Sprintf("Done %d", st.Done),
	}
	if st.ClosestEnd != nil {
		parts = append(parts, "Next end "+task.FormatClock(st.ClosestEnd))
	}
	if st.NextStart != nil {
		parts = append(parts, "Next start "+task.FormatClock(st.NextStart))
	}
	parts = append(parts, fmt.Sprintf("Device load %d%%", st.DeviceLoadPct))
	return strings.Join(parts, " · ")
}
