package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func plainModalStyles() ModalStyles {
	return ModalStyles{
		ModalTitleStyle:        lipgloss.NewStyle(),
		ModalFooterStyle:       lipgloss.NewStyle(),
		ModalStyle:             lipgloss.NewStyle().Border(lipgloss.NormalBorder()),
		ModalButtonStyle:       lipgloss.NewStyle(),
		ModalButtonActiveStyle: lipgloss.NewStyle(),
		ModalBodyStyle:         lipgloss.NewStyle(),
	}
}

func TestRenderModalButtons_DetailActions(t *testing.T) {
	styles := plainModalStyles()
	styles.ModalBodyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	out := RenderModalButtons(styles, "[Esc] Close", "[y] Copy")
	if !strings.HasPrefix(out, "[Esc] Close") {
		t.Errorf("close should be the first button, got %q", out)
	}
	if !strings.Contains(out, "[y] Copy") {
		t.Errorf("copy button missing from %q", out)
	}
	if sep := styles.ModalBodyStyle.Render(" "); !strings.Contains(out, sep) {
		t.Errorf("buttons should be separated by the body style")
	}
}

func TestRenderModalFrame_Detail(t *testing.T) {
	styles := plainModalStyles()
	body := RenderDetailBody([]Field{
		{Label: "Device", Value: "Lathe"},
		{Label: "Operator", Value: "Ivan Petrov"},
	}, DetailStyles{})
	footer := RenderModalButtons(styles, "[Esc] Close", "[y] Copy")

	out := RenderModalFrame("WO-1 Gear", body, footer, styles)
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[1], "WO-1 Gear") {
		t.Errorf("title should open the frame, got %q", lines[1])
	}
	for _, want := range []string{"Lathe", "Ivan Petrov", "[Esc] Close"} {
		if !strings.Contains(out, want) {
			t.Errorf("modal missing %q", want)
		}
	}
	if strings.Index(out, "Ivan Petrov") > strings.Index(out, "[Esc] Close") {
		t.Error("buttons should come after the fields")
	}
}

func TestRenderModalFrame_EmptyBody(t *testing.T) {
	styles := ModalStyles{}
	out := RenderModalFrame("Break 7", "", "[Esc] Close", styles)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("modal = %q, want title, blank line, buttons", out)
	}
	if strings.TrimSpace(lines[0]) != "Break 7" || strings.TrimSpace(lines[2]) != "[Esc] Close" {
		t.Errorf("modal = %q", out)
	}
}
