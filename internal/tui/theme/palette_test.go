package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Done:        "#555555",
		Progress:    "#00ff00",
		Pending:     "#0000ff",
		Lunch:       "#ffff00",
		OffDuty:     "#ff00ff",
		Warning:     "#ff8800",
		Error:       "#ff0000",
	}
}

func TestNewPalette_BarShades(t *testing.T) {
	base := darkTheme()
	palette := NewPalette(base)

	if palette.PendingBg != lipgloss.Color(darkenColor(base.Pending)) {
		t.Fatalf("PendingBg = %q, want %q", palette.PendingBg, darkenColor(base.Pending))
	}
	if palette.LunchBg != lipgloss.Color(darkenColor(base.Lunch)) {
		t.Fatalf("LunchBg = %q, want %q", palette.LunchBg, darkenColor(base.Lunch))
	}
	if palette.ProgressBg != lipgloss.Color(base.Progress) {
		t.Fatalf("ProgressBg = %q, want the progress color itself", palette.ProgressBg)
	}
	if palette.DraggingBg == palette.PendingBg {
		t.Fatalf("DraggingBg should differ from PendingBg")
	}
}

func TestNewPalette_TextContrast(t *testing.T) {
	base := darkTheme()
	palette := NewPalette(base)

	// The bright progress bar reads better with the dark background color.
	if palette.TextOnProgress != lipgloss.Color(base.Bg) {
		t.Errorf("TextOnProgress = %q, want %q", palette.TextOnProgress, base.Bg)
	}
	if palette.TextOnDone != lipgloss.Color(base.Fg) {
		t.Errorf("TextOnDone = %q, want %q", palette.TextOnDone, base.Fg)
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	base := darkTheme()
	palette := NewPalette(base)
	if palette.Modal.Bg != lipgloss.Color(base.BgHighlight) {
		t.Fatalf("Modal.Bg = %q, want %q", palette.Modal.Bg, base.BgHighlight)
	}
	if palette.Modal.Border.Dark != base.Accent {
		t.Fatalf("Modal.Border.Dark = %q, want %q", palette.Modal.Border.Dark, base.Accent)
	}
}

func TestNewPalette_LightThemeBlendsTowardsBackground(t *testing.T) {
	th, err := Load("latte")
	if err != nil {
		t.Fatalf("Load(latte): %v", err)
	}
	palette := NewPalette(th)
	if relativeLuminance(string(palette.PendingBg)) <= relativeLuminance(th.Pending) {
		t.Fatalf("expected PendingBg to be lighter than the pending color on a light theme")
	}
}

func TestNewPalette_NilUsesMocha(t *testing.T) {
	palette := NewPalette(nil)
	if palette.Bg != lipgloss.Color("#1e1e2e") {
		t.Fatalf("Bg = %q, want mocha background", palette.Bg)
	}
}

func TestBlendColors(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"#000000", "#ffffff", 2, "#ffffff"},
		{"#ff0000", "#0000ff", 0.5, "#7f007f"},
		{"bad", "#ffffff", 0.5, "bad"},
	}
	for _, tt := range tests {
		if got := blendColors(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("blendColors(%q, %q, %v) = %q, want %q", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
}
