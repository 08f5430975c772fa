package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
)

func plainProfile(t *testing.T) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(prev)
	})
}

func TestColumnSpan(t *testing.T) {
	tests := []struct {
		name        string
		left, width float64
		tw          int
		from, to    int
	}{
		{name: "start", left: 0, width: 10, tw: 100, from: 0, to: 10},
		{name: "middle", left: 50, width: 4, tw: 50, from: 25, to: 27},
		{name: "at least one cell", left: 10, width: 0.1, tw: 20, from: 2, to: 3},
		{name: "clipped", left: 95, width: 10, tw: 100, from: 95, to: 100},
		{name: "past end", left: 100, width: 4, tw: 100, from: 99, to: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := ColumnSpan(tt.left, tt.width, tt.tw)
			if from != tt.from || to != tt.to {
				t.Errorf("got [%d,%d), want [%d,%d)", from, to, tt.from, tt.to)
			}
		})
	}
}

func TestTerminalEmpty(t *testing.T) {
	plainProfile(t)
	c := newTestContainer()
	Render(c, nil, nameLabel, *at(12, 0))

	out, layout := Terminal(c.Board(), TerminalOptions{Width: 80, LabelWidth: 20, Styles: DefaultTerminalStyles()})
	if !strings.Contains(out, EmptyText) {
		t.Errorf("output %q should contain the empty marker", out)
	}
	if len(layout.Lines) != 0 {
		t.Errorf("empty layout has %d lines", len(layout.Lines))
	}
}

func TestTerminalLayoutAndHitTest(t *testing.T) {
	plainProfile(t)
	c := newTestContainer()
	rows := track.ForOperators(
		[]task.Operator{{ID: 1, FullName: "Ivan Petrov"}},
		[]task.Task{{ID: 10, Name: "Gear", OperatorID: 1, PlanStart: at(9, 0), PlanEnd: at(12, 15)}},
		[]task.Break{{ID: 20, OperatorID: 1, Kind: task.BreakLunch, Start: at(15, 30), End: at(17, 0)}},
	)
	Render(c, rows, nameLabel, *at(8, 0))

	out, layout := Terminal(c.Board(), TerminalOptions{
		Width:       120,
		LabelWidth:  16,
		LabelHeader: "Operator",
		Styles:      DefaultTerminalStyles(),
	})

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 lanes:\n%s", len(lines), out)
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 120 {
			t.Errorf("line %d width = %d, want 120", i, w)
		}
	}
	if !strings.HasPrefix(lines[0], "Operator") || !strings.Contains(lines[0], "09:00") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Ivan Petrov") {
		t.Errorf("first lane should carry the label: %q", lines[1])
	}
	if !strings.Contains(lines[1], "09:00-12:15 Gear") {
		t.Errorf("task bar text missing: %q", lines[1])
	}
	if !strings.Contains(lines[2], "15:30-17:00") {
		t.Errorf("break bar text missing: %q", lines[2])
	}

	// Track is 104 columns wide; the task covers [0, 26).
	if ref, ok := layout.HitTest(16, 1); !ok || ref.ID != 10 {
		t.Errorf("HitTest on task start = %v, %v", ref, ok)
	}
	if ref, ok := layout.HitTest(16+60, 2); !ok || ref.ID != 20 || ref.Kind != track.KindBreak {
		t.Errorf("HitTest on break = %v, %v", ref, ok)
	}
	if _, ok := layout.HitTest(16+60, 1); ok {
		t.Error("empty track cell should not hit a bar")
	}
	if _, ok := layout.HitTest(3, 1); ok {
		t.Error("label column should not hit a bar")
	}
	if _, ok := layout.HitTest(20, 0); ok {
		t.Error("header should not hit a bar")
	}
	if row, ok := layout.RowAt(2); !ok || row != 0 {
		t.Errorf("RowAt(2) = %d, %v", row, ok)
	}
}

func TestSVG(t *testing.T) {
	c := newTestContainer()
	Render(c, track.ForTasks([]task.Task{{ID: 1, Name: "Gear <A>", PlanStart: at(10, 0), PlanEnd: at(11, 0)}}), nameLabel, *at(12, 0))

	var sb strings.Builder
	opts := DefaultSVGOptions()
	opts.Title = "Tasks 2025-03-10"
	if err := SVG(&sb, c.Board(), opts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"<svg", "Tasks 2025-03-10", "Gear &lt;A&gt;", "10:00-11:00", opts.Colors[StatusDone], "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("svg missing %q", want)
		}
	}

	opts.Width = 100
	if err := SVG(&sb, c.Board(), opts); err == nil {
		t.Error("expected an error when the label column fills the width")
	}
}
