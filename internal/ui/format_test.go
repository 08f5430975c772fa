package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/shopboard/internal/conflict"
	"github.com/javiermolinar/shopboard/internal/task"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{-time.Minute, "0m"},
		{45 * time.Minute, "45m"},
		{2 * time.Hour, "2h"},
		{90 * time.Minute, "1h30m"},
		{89*time.Minute + 40*time.Second, "1h30m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func at(h, m int) *time.Time {
	v := time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
	return &v
}

func reportSnapshot() *task.Snapshot {
	return task.NewSnapshot(1,
		[]task.Task{
			{ID: 1, Name: "Gear", DeviceID: 1, OperatorID: 1, PlanStart: at(9, 0), PlanEnd: at(11, 0)},
			{ID: 2, Name: "Bracket", DocNum: "WO-2", DeviceID: 1, OperatorID: 2, PlanStart: at(10, 0), PlanEnd: at(12, 0)},
		},
		[]task.Break{{ID: 1, OperatorID: 2, Name: "Lunch", Kind: task.BreakLunch, Start: at(11, 30), End: at(12, 30)}},
		[]task.Device{{ID: 1, Name: "Lathe"}},
		[]task.Operator{{ID: 1, FullName: "Ivan"}, {ID: 2, FullName: "Olga"}},
		*at(8, 0),
	)
}

func TestPrintReport(t *testing.T) {
	DisableColor()
	defer EnableColor()

	snap := reportSnapshot()
	var buf bytes.Buffer
	n := PrintReport(&buf, snap, conflict.Scan(snap))
	if n != 2 {
		t.Errorf("PrintReport = %d, want 2\n%s", n, buf.String())
	}
	out := buf.String()
	for _, want := range []string{
		"Lathe  Gear 09:00-11:00 overlaps WO-2 Bracket 10:00-12:00",
		"Olga",
		"2 conflicts",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}
}

func TestPrintReport_Empty(t *testing.T) {
	DisableColor()
	defer EnableColor()

	var buf bytes.Buffer
	snap := task.NewSnapshot(1, nil, nil, nil, nil, time.Time{})
	if n := PrintReport(&buf, snap, conflict.Scan(snap)); n != 0 {
		t.Errorf("PrintReport = %d, want 0", n)
	}
	if !strings.Contains(buf.String(), "No conflicts.") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestPrintDay_TruncatesNames(t *testing.T) {
	DisableColor()
	defer EnableColor()

	snap := task.NewSnapshot(1,
		[]task.Task{{ID: 1, Name: strings.Repeat("x", 80), DeviceID: 1, PlanStart: at(9, 0), PlanEnd: at(10, 0)}},
		nil, []task.Device{{ID: 1, Name: "Lathe"}}, nil, *at(8, 0))
	var buf bytes.Buffer
	PrintDay(&buf, snap, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *at(8, 0), 60)

	out := buf.String()
	if strings.Contains(out, strings.Repeat("x", 30)) {
		t.Errorf("name should be truncated to the terminal width:\n%s", out)
	}
	if !strings.Contains(out, "…") {
		t.Errorf("truncated name should end with an ellipsis:\n%s", out)
	}
}
