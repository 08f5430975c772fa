package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/track"
	"github.com/javiermolinar/shopboard/internal/tui/commands"
	"github.com/javiermolinar/shopboard/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal   Mode = iota
	ModeDragging      // A bar follows the pointer
	ModePrompt        // Go-to-date prompt
	ModeDetail        // Detail modal of a clicked bar
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

// Timing of day navigation and status messages.
const (
	daySettleDelay = 200 * time.Millisecond
	statusDuration = 4 * time.Second
	clockInterval  = time.Minute
)

// Lines above the board: tab bar and day line.
const headerHeight = 2

// Model is the board TUI.
type Model struct {
	board   *board.Board
	planner commands.Planner
	logger  *slog.Logger
	now     func() time.Time

	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	view     board.View
	mode     Mode
	selected track.Ref // last clicked bar

	// Rendered board and the map from screen cells back to bars.
	boardText string
	layout    render.TerminalLayout
	scroll    int

	width  int
	height int

	navSeq     int
	committing bool

	statusMsg  string
	statusKind statusKind
	statusTime time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithPlanner enables plan recomputation from the board.
func WithPlanner(p commands.Planner) ModelOption {
	return func(m *Model) { m.planner = p }
}

// WithView sets the view shown first.
func WithView(v board.View) ModelOption {
	return func(m *Model) { m.view = v }
}

// WithTheme sets the color theme by name.
func WithTheme(name string) ModelOption {
	return func(m *Model) {
		t, err := theme.Load(name)
		if err != nil {
			return
		}
		m.theme = t
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ModelOption {
	return func(m *Model) { m.logger = l }
}

// WithClock overrides time.Now for status timeouts and date parsing.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// New creates a TUI model over b.
func New(b *board.Board, opts ...ModelOption) Model {
	prompt := textinput.New()
	prompt.Placeholder = "today, friday, last-monday, 2025-03-10"
	prompt.Prompt = "Go to: "
	prompt.CharLimit = 32

	m := Model{
		board:  b,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
		keys:   defaultKeyMap(),
		help:   help.New(),
		prompt: prompt,
		view:   board.ViewHome,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.theme == nil {
		m.theme, _ = theme.Load("mocha")
	}
	m.styles = NewStyles(m.theme)
	m.prompt.PromptStyle = m.styles.PromptStyle
	m.prompt.TextStyle = m.styles.PromptStyle.UnsetPadding()
	m.help.Styles.ShortKey = m.styles.HelpStyle.UnsetPadding().Bold(true)
	m.help.Styles.ShortDesc = m.styles.HelpStyle.UnsetPadding()
	m.help.Styles.FullKey = m.help.Styles.ShortKey
	m.help.Styles.FullDesc = m.help.Styles.ShortDesc
	return m
}

// Init starts the clock that keeps bar statuses current.
func (m Model) Init() tea.Cmd {
	return clockTick()
}

type clockTickMsg struct{}

func clockTick() tea.Cmd {
	return tea.Tick(clockInterval, func(time.Time) tea.Msg { return clockTickMsg{} })
}

// CurrentView returns the view being shown.
func (m Model) CurrentView() board.View {
	return m.view
}

// Mode returns the interaction mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Run starts the board in the alternate screen with mouse motion reporting.
func Run(b *board.Board, opts ...ModelOption) error {
	p := tea.NewProgram(New(b, opts...), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
