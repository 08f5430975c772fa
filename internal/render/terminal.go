package render

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/shopboard/internal/track"
)

// TerminalStyles holds the lipgloss styles of the terminal board.
type TerminalStyles struct {
	Header   lipgloss.Style
	Label    lipgloss.Style
	Track    lipgloss.Style
	Empty    lipgloss.Style
	Selected lipgloss.Style
	Dragging lipgloss.Style
	Bars     map[Status]lipgloss.Style
}

// DefaultTerminalStyles returns colour styles that work on any background.
func DefaultTerminalStyles() TerminalStyles {
	bar := func(bg, fg string) lipgloss.Style {
		return lipgloss.NewStyle().Background(lipgloss.Color(bg)).Foreground(lipgloss.Color(fg))
	}
	return TerminalStyles{
		Header:   lipgloss.NewStyle().Bold(true),
		Label:    lipgloss.NewStyle(),
		Track:    lipgloss.NewStyle(),
		Empty:    lipgloss.NewStyle().Faint(true),
		Selected: lipgloss.NewStyle().Reverse(true),
		Dragging: lipgloss.NewStyle().Underline(true).Bold(true),
		Bars: map[Status]lipgloss.Style{
			StatusDone:     bar("#585b70", "#cdd6f4"),
			StatusProgress: bar("#a6e3a1", "#11111b"),
			StatusPending:  bar("#89b4fa", "#11111b"),
			StatusLunch:    bar("#f9e2af", "#11111b"),
			StatusOffDuty:  bar("#f38ba8", "#11111b"),
		},
	}
}

// TerminalOptions controls terminal rendering.
type TerminalOptions struct {
	Width       int    // total width in cells
	LabelWidth  int    // width of the label column
	LabelHeader string // header text above the labels
	Styles      TerminalStyles
	Selected    track.Ref
	Dragging    track.Ref
}

// Span is the column range a bar occupies on a track line, relative to the
// track start.
type Span struct {
	Ref  track.Ref
	From int
	To   int // exclusive
}

// Line is one rendered track line.
type Line struct {
	Row   int
	Lane  int
	Spans []Span
}

// TerminalLayout maps screen cells back to bars.
type TerminalLayout struct {
	LabelWidth   int
	TrackWidth   int
	HeaderHeight int
	Lines        []Line
}

// HitTest returns the bar under the cell (x, y), relative to the board origin.
func (l TerminalLayout) HitTest(x, y int) (track.Ref, bool) {
	li := y - l.HeaderHeight
	if li < 0 || li >= len(l.Lines) {
		return track.Ref{}, false
	}
	col := x - l.LabelWidth
	if col < 0 || col >= l.TrackWidth {
		return track.Ref{}, false
	}
	spans := l.Lines[li].Spans
	for i := len(spans) - 1; i >= 0; i-- {
		if col >= spans[i].From && col < spans[i].To {
			return spans[i].Ref, true
		}
	}
	return track.Ref{}, false
}

// RowAt returns the board row under screen line y.
func (l TerminalLayout) RowAt(y int) (int, bool) {
	li := y - l.HeaderHeight
	if li < 0 || li >= len(l.Lines) {
		return 0, false
	}
	return l.Lines[li].Row, true
}

// Terminal draws the board as styled text, one line per lane.
func Terminal(b Board, opts TerminalOptions) (string, TerminalLayout) {
	lw := max(opts.LabelWidth, 4)
	tw := max(opts.Width-lw, 1)
	st := opts.Styles
	layout := TerminalLayout{LabelWidth: lw, TrackWidth: tw}

	if b.Empty {
		text := b.EmptyText
		if text == "" {
			text = EmptyText
		}
		return st.Empty.Render(ansi.Truncate(text, opts.Width, "…")), layout
	}

	var out strings.Builder
	out.WriteString(headerLine(b.Hours, lw, tw, opts.LabelHeader, st))
	layout.HeaderHeight = 1

	for ri, row := range b.Rows {
		lanes := row.Lanes
		if !row.Stacked {
			lanes = 1
		}
		lanes = max(lanes, 1)
		for lane := 0; lane < lanes; lane++ {
			label := ""
			if lane == 0 {
				label = row.Label
			}
			var bars []Bar
			for _, bar := range row.Bars {
				if !row.Stacked || bar.Lane == lane {
					bars = append(bars, bar)
				}
			}
			text, spans := trackLine(bars, tw, opts)
			out.WriteString("\n")
			out.WriteString(st.Label.Render(fit(label, lw)))
			out.WriteString(text)
			layout.Lines = append(layout.Lines, Line{Row: ri, Lane: lane, Spans: spans})
		}
	}
	return out.String(), layout
}

func headerLine(hours []string, lw, tw int, title string, st TerminalStyles) string {
	cells := []rune(strings.Repeat(" ", tw))
	for i, h := range hours {
		col := int(math.Round(float64(i) * float64(tw) / float64(len(hours))))
		for j, r := range h {
			if col+j < tw {
				cells[col+j] = r
			}
		}
	}
	return st.Header.Render(fit(title, lw) + string(cells))
}

// ColumnSpan converts bar percentages to track columns.
func ColumnSpan(leftPct, widthPct float64, tw int) (from, to int) {
	from = int(math.Round(leftPct / 100 * float64(tw)))
	width := max(1, int(math.Round(widthPct/100*float64(tw))))
	from = min(max(from, 0), tw-1)
	to = min(from+width, tw)
	return from, to
}

func trackLine(bars []Bar, tw int, opts TerminalOptions) (string, []Span) {
	st := opts.Styles
	type placed struct {
		bar      Bar
		from, to int
	}
	ps := make([]placed, 0, len(bars))
	for _, bar := range bars {
		from, to := ColumnSpan(bar.LeftPct, bar.WidthPct, tw)
		ps = append(ps, placed{bar: bar, from: from, to: to})
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].from < ps[j].from })

	var b strings.Builder
	spans := make([]Span, 0, len(ps))
	cursor := 0
	for _, p := range ps {
		from := max(p.from, cursor)
		if from >= p.to {
			continue
		}
		if from > cursor {
			b.WriteString(st.Track.Render(strings.Repeat(" ", from-cursor)))
		}
		width := p.to - from
		style, ok := st.Bars[p.bar.Status]
		if !ok {
			style = lipgloss.NewStyle().Reverse(true)
		}
		switch {
		case opts.Dragging.Valid() && p.bar.Ref == opts.Dragging:
			style = style.Inherit(st.Dragging)
		case opts.Selected.Valid() && p.bar.Ref == opts.Selected:
			style = style.Inherit(st.Selected)
		}
		b.WriteString(style.Render(fit(barContent(p.bar, width), width)))
		spans = append(spans, Span{Ref: p.bar.Ref, From: from, To: p.to})
		cursor = p.to
	}
	if cursor < tw {
		b.WriteString(st.Track.Render(strings.Repeat(" ", tw-cursor)))
	}
	return b.String(), spans
}

func barContent(bar Bar, width int) string {
	withName := bar.Text + " " + bar.Item.Name
	if bar.Item.Name != "" && ansi.StringWidth(withName) < width {
		return withName
	}
	return bar.Text
}

// fit truncates or pads s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = ansi.Truncate(s, width, "")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}
