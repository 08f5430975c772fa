package tui

import (
	"errors"
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/drag"
	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.refreshBoard()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case commands.CommitDoneMsg:
		return m.handleCommitDone(msg)

	case commands.ReloadedMsg:
		m.board.Refresh()
		m.refreshBoard()
		return m.setStatus(statusInfo, "Reloaded")

	case commands.DayLoadedMsg:
		if msg.Seq != m.navSeq {
			return m, nil
		}
		m.board.Refresh()
		m.scroll = 0
		m.refreshBoard()
		if msg.Err != nil {
			m.logger.Error("reloading after navigation", "error", msg.Err)
			return m.setStatus(statusError, "Error: "+msg.Err.Error())
		}
		return m, nil

	case commands.RecomputedMsg:
		m.board.Refresh()
		m.refreshBoard()
		text := fmt.Sprintf("Plan recomputed: %d scheduled, %d unscheduled", msg.Result.Updated, len(msg.Result.UnscheduledIDs))
		if n := len(msg.Warnings); n > 0 {
			for _, w := range msg.Warnings {
				m.logger.Warn("break overlap after recompute", "task_id", w.Task.ID, "message", w.Message())
			}
			return m.setStatus(statusWarning, fmt.Sprintf("%s · %d break overlaps: %s", text, n, msg.Warnings[0].Message()))
		}
		return m.setStatus(statusInfo, text)

	case commands.DaySettledMsg:
		if msg.Seq != m.navSeq {
			return m, nil
		}
		return m, commands.ReloadDay(m.board.Pipeline(), msg.Seq)

	case commands.ErrMsg:
		m.logger.Error("board command failed", "error", msg.Err)
		return m.setStatus(statusError, "Error: "+msg.Err.Error())

	case commands.StatusMsgCmd:
		return m.setStatus(statusInfo, msg.Msg)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil

	case clockTickMsg:
		if m.mode != ModeDragging {
			m.board.Refresh()
			m.refreshBoard()
		}
		return m, clockTick()
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModePrompt || m.mode == ModeDetail {
		return m, nil
	}

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scrollBy(-1)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.scrollBy(1)
		return m, nil
	}

	x := float64(msg.X - m.layout.LabelWidth)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || m.mode == ModeDragging {
			return m, nil
		}
		ref, ok := m.layout.HitTest(msg.X, m.boardY(msg.Y))
		if !ok {
			return m, nil
		}
		if m.committing {
			return m.setStatus(statusWarning, "Still saving the previous move")
		}
		if err := m.board.Begin(m.view, ref, x, float64(m.layout.TrackWidth)); err != nil {
			if errors.Is(err, board.ErrBusy) {
				return m.setStatus(statusWarning, "Still saving the previous move")
			}
			return m.setStatus(statusError, err.Error())
		}
		m.mode = ModeDragging
		m.refreshBoard()
		return m, nil

	case tea.MouseActionMotion:
		if m.mode != ModeDragging {
			return m, nil
		}
		if _, err := m.board.Drag(x); err != nil {
			return m.setStatus(statusError, err.Error())
		}
		m.refreshBoard()
		return m, nil

	case tea.MouseActionRelease:
		if m.mode != ModeDragging {
			return m, nil
		}
		return m.finishDrag()
	}
	return m, nil
}

// boardY converts a screen line to a line of the rendered board, accounting
// for scrolled rows.
func (m Model) boardY(y int) int {
	y -= headerHeight
	if y >= m.layout.HeaderHeight {
		y += m.scroll
	}
	return y
}

func (m Model) finishDrag() (tea.Model, tea.Cmd) {
	m.mode = ModeNormal
	res, err := m.board.End()
	if err != nil {
		m.refreshBoard()
		return m.setStatus(statusError, err.Error())
	}

	if res.Outcome == drag.OutcomeClick {
		m.selected = res.Ref
		m.mode = ModeDetail
		m.refreshBoard()
		return m, nil
	}

	// Terminals send no trailing click after a release.
	m.board.ConsumeClick()
	m.committing = true
	m.refreshBoard()
	prop := *res.Proposal
	m.logger.Info("drop", "ref", prop.Ref.String(), "start", prop.Start, "end", prop.End)
	m.showStatus(statusInfo, fmt.Sprintf("Saving %s %s…", prop.Item.Name, clockRange(prop.Start, prop.End)))
	return m, commands.Commit(m.board, prop)
}

func (m Model) handleCommitDone(msg commands.CommitDoneMsg) (tea.Model, tea.Cmd) {
	m.committing = false
	m.board.Apply(msg.Proposal, msg.Result)
	m.refreshBoard()

	prop, res := msg.Proposal, msg.Result
	switch res.Status {
	case commit.StatusCommitted:
		text := fmt.Sprintf("Moved %s to %s", prop.Item.Name, clockRange(prop.Start, prop.End))
		if res.Warning != nil {
			return m.setStatus(statusWarning, text+" · "+res.Warning.Message())
		}
		return m.setStatus(statusInfo, text)
	case commit.StatusRejected:
		return m.setStatus(statusError, "Move rejected: "+errText(res.Err))
	default:
		m.logger.Error("reschedule failed", "ref", prop.Ref.String(), "error", res.Err)
		return m.setStatus(statusError, "Save failed: "+errText(res.Err))
	}
}

// setStatus shows text and schedules its removal.
func (m Model) setStatus(kind statusKind, text string) (tea.Model, tea.Cmd) {
	m.showStatus(kind, text)
	return m, commands.ClearStatusAfter(statusDuration)
}

// showStatus shows text until the next status replaces it.
func (m *Model) showStatus(kind statusKind, text string) {
	m.statusMsg = text
	m.statusKind = kind
	m.statusTime = m.now().Add(statusDuration)
}

func (m *Model) scrollBy(n int) {
	m.scroll = min(max(m.scroll+n, 0), m.maxScroll())
}

func (m Model) maxScroll() int {
	return max(len(m.layout.Lines)-m.visibleLanes(), 0)
}

// visibleLanes is the number of board lines that fit below the ruler.
func (m Model) visibleLanes() int {
	return max(m.height-headerHeight-m.footerHeight()-1, 1)
}

// refreshBoard paints the current view into text and keeps the layout used
// for hit testing in sync with it.
func (m *Model) refreshBoard() {
	if _, _, ok := m.board.Dragging(); !ok && m.mode == ModeDragging {
		m.mode = ModeNormal
	}
	if m.width <= 0 {
		return
	}
	opts := render.TerminalOptions{
		Width:       m.width,
		LabelWidth:  labelWidth(m.width),
		LabelHeader: m.view.Title(),
		Styles:      m.styles.Board,
		Selected:    m.selected,
	}
	if s, v, ok := m.board.Dragging(); ok && v == m.view {
		opts.Dragging = s.Ref
	}
	m.boardText, m.layout = render.Terminal(m.board.Container(m.view).Board(), opts)
	m.scroll = min(m.scroll, m.maxScroll())
}

func labelWidth(width int) int {
	return min(28, max(12, width/5))
}

// tentativeRange formats where the dragged bar would land.
func (m Model) tentativeRange(s drag.Session) string {
	day := m.board.Day()
	if s.Item.Start != nil {
		day = *s.Item.Start
	}
	w := m.board.Window()
	start := w.OffsetToTimestamp(day, int(math.Round(s.Offset)))
	return clockRange(start, start.Add(time.Duration(s.Duration)*time.Minute))
}

func clockRange(start, end time.Time) string {
	return task.FormatClock(&start) + "-" + task.FormatClock(&end)
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
