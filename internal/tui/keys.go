package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/dateutil"
	"github.com/javiermolinar/shopboard/internal/track"
	"github.com/javiermolinar/shopboard/internal/tui/commands"
	"github.com/javiermolinar/shopboard/internal/tui/input"
	"github.com/javiermolinar/shopboard/internal/tui/view"
)

// keyMap is the key bindings of the board.
type keyMap struct {
	NextView key.Binding
	PrevView key.Binding
	JumpView key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	Today    key.Binding
	GoTo     key.Binding
	Sort     key.Binding
	Up       key.Binding
	Down     key.Binding
	Reload   key.Binding
	Plan     key.Binding
	Copy     key.Binding
	Cancel   key.Binding
	Confirm  key.Binding
	Complete key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextView: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		PrevView: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev view")),
		JumpView: key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "view")),
		PrevDay:  key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "next day")),
		Today:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		GoTo:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to date")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort tasks")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "scroll up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "scroll down")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Plan:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "recompute plan")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy details")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.PrevDay, k.NextDay, k.GoTo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextView, k.PrevView, k.JumpView},
		{k.PrevDay, k.NextDay, k.Today, k.GoTo},
		{k.Sort, k.Up, k.Down},
		{k.Reload, k.Plan, k.Copy},
		{k.Cancel, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("key", "key", msg.String(), "mode", int(m.mode))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeDragging:
		return m.handleDraggingKeys(msg)
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeDetail:
		return m.handleDetailKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextView):
		return m.switchView(1), nil
	case key.Matches(msg, m.keys.PrevView):
		return m.switchView(-1), nil
	case key.Matches(msg, m.keys.JumpView):
		views := board.Views()
		i := int(msg.String()[0] - '1')
		if i >= 0 && i < len(views) {
			m.view = views[i]
			m.scroll = 0
			m.refreshBoard()
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDay):
		return m.shiftDay(-1)
	case key.Matches(msg, m.keys.NextDay):
		return m.shiftDay(1)
	case key.Matches(msg, m.keys.Today):
		m.navSeq++
		m.board.SetDay(m.now())
		m.refreshBoard()
		return m, nil
	case key.Matches(msg, m.keys.GoTo):
		m.mode = ModePrompt
		m.prompt.SetValue("")
		return m, m.prompt.Focus()

	case key.Matches(msg, m.keys.Sort):
		mode := m.board.ToggleSort()
		m.refreshBoard()
		return m.setStatus(statusInfo, "Tasks sorted by "+string(mode))

	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, commands.Reload(m.board.Pipeline())
	case key.Matches(msg, m.keys.Plan):
		if m.planner == nil {
			return m.setStatus(statusWarning, "No planner configured")
		}
		if m.committing {
			return m.setStatus(statusWarning, "Still saving the previous move")
		}
		m.showStatus(statusInfo, "Recomputing plan…")
		p := m.board.Pipeline()
		return m, commands.Recompute(m.planner, p, p.WorkspaceID())

	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()

	case key.Matches(msg, m.keys.Cancel):
		m.selected = track.Ref{}
		m.refreshBoard()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refreshBoard()
		return m, nil
	}
	return m, nil
}

func (m Model) handleDraggingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.board.Cancel()
		m.mode = ModeNormal
		m.refreshBoard()
		return m.setStatus(statusInfo, "Move cancelled")
	}
	return m, nil
}

func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Complete):
		if word, ok := input.Autocomplete(m.prompt.Value(), input.DateWords()); ok {
			m.prompt.SetValue(word)
			m.prompt.CursorEnd()
		}
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.prompt.Value())
		day, err := dateutil.ParseRelativeDate(value, m.now())
		if err != nil {
			return m.setStatus(statusError, "Unknown date "+strings.TrimSpace(value))
		}
		m.mode = ModeNormal
		m.prompt.Blur()
		m.navSeq++
		m.board.SetDay(day)
		m.scroll = 0
		m.refreshBoard()
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Quit):
		m.mode = ModeNormal
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m.copySelected()
	}
	return m, nil
}

func (m Model) switchView(step int) Model {
	views := board.Views()
	i := 0
	for j, v := range views {
		if v == m.view {
			i = j
		}
	}
	m.view = views[(i+step+len(views))%len(views)]
	m.scroll = 0
	m.refreshBoard()
	return m
}

// shiftDay moves the dated views by n days. The re-render waits until
// navigation has been idle for daySettleDelay, so holding a key does not
// rebuild every view on each repeat.
func (m Model) shiftDay(n int) (tea.Model, tea.Cmd) {
	m.board.ShiftDay(n)
	m.navSeq++
	return m, commands.SettleDay(m.navSeq, daySettleDelay)
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	title, fields, ok := m.detailFields(m.selected)
	if !ok {
		return m.setStatus(statusWarning, "Click a bar to select it first")
	}
	return m, commands.Copy(view.PlainText(title, fields), title)
}
