package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	Width       int
	StatsText   string
	StatusText  string
	HelpText    string
	StatsStyle  lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
}

// RenderFooter renders the stats, status and help lines. Empty lines are
// skipped.
func RenderFooter(model FooterModel) string {
	lines := make([]string, 0, 3)
	if model.StatsText != "" {
		lines = append(lines, footerLine(model.Width, model.StatsStyle, model.StatsText))
	}
	lines = append(lines, footerLine(model.Width, model.StatusStyle, model.StatusText))
	if model.HelpText != "" {
		lines = append(lines, footerLine(model.Width, model.HelpStyle, model.HelpText))
	}
	return strings.Join(lines, "\n")
}

// FooterHeight returns the number of lines RenderFooter produces.
func FooterHeight(model FooterModel) int {
	h := 1
	if model.StatsText != "" {
		h++
	}
	if model.HelpText != "" {
		h += strings.Count(model.HelpText, "\n") + 1
	}
	return h
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(width-frameW, 0)
	style = style.Width(contentWidth)
	if contentWidth > 0 && !strings.Contains(content, "\n") {
		content = ansi.Truncate(content, contentWidth, "…")
	}
	return style.Render(content)
}
