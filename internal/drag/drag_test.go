package drag

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/timeline"
	"github.com/javiermolinar/shopboard/internal/track"
)

var (
	gearRef  = track.Ref{Kind: track.KindTask, ID: 1}
	draftRef = track.Ref{Kind: track.KindTask, ID: 2}
	lunchRef = track.Ref{Kind: track.KindBreak, ID: 7}
)

func at(h, m int) *time.Time {
	t := time.Date(2025, 3, 10, h, m, 0, 0, time.UTC)
	return &t
}

// newBoard renders a task 10:00-11:00, a task with a derived end and a lunch
// break with the default 780 minute window.
func newBoard(t *testing.T) (*Controller, *render.Container) {
	t.Helper()
	w := timeline.Default()
	c := render.NewContainer(w, timeline.DefaultMinPercent)
	rows := track.ForOperators(
		[]task.Operator{{ID: 1, FullName: "Ivan"}},
		[]task.Task{
			{ID: 1, Name: "Gear", OperatorID: 1, PlanStart: at(10, 0), PlanEnd: at(11, 0)},
			{ID: 2, Name: "Draft", OperatorID: 1, PlanStart: at(12, 0), Duration: time.Hour},
		},
		[]task.Break{{ID: 7, OperatorID: 1, Kind: task.BreakLunch, Start: at(13, 0), End: at(14, 0)}},
	)
	render.Render(c, rows, nil, *at(8, 0))
	return New(w), c
}

func TestDownRejects(t *testing.T) {
	ctrl, c := newBoard(t)

	tests := []struct {
		name    string
		ref     track.Ref
		width   float64
		wantErr error
	}{
		{name: "no id", ref: track.Ref{Kind: track.KindTask}, width: 780, wantErr: ErrNotDraggable},
		{name: "not on board", ref: track.Ref{Kind: track.KindTask, ID: 99}, width: 780, wantErr: ErrNotDraggable},
		{name: "derived end", ref: draftRef, width: 780, wantErr: ErrUndated},
		{name: "zero track", ref: gearRef, width: 0, wantErr: ErrNoTrack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ctrl.Down(c, tt.ref, 100, tt.width)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Down() = %v, want %v", err, tt.wantErr)
			}
			if ctrl.Active() {
				t.Error("rejected Down must not start a session")
			}
		})
	}
}

func TestSingleSession(t *testing.T) {
	ctrl, c := newBoard(t)
	if err := ctrl.Down(c, gearRef, 100, 780); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctrl.Down(c, lunchRef, 100, 780); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Down = %v, want %v", err, ErrSessionActive)
	}
	s, ok := ctrl.Current()
	if !ok || s.Ref != gearRef {
		t.Errorf("current session = %+v, want gear", s)
	}
}

func TestClickBelowThreshold(t *testing.T) {
	ctrl, c := newBoard(t)
	if err := ctrl.Down(c, gearRef, 100, 780); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.Move(102); err != nil {
		t.Fatal(err)
	}
	if _, err := ctrl.Move(97); err != nil {
		t.Fatal(err)
	}

	res, err := ctrl.Up()
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeClick || res.Proposal != nil || res.Ref != gearRef {
		t.Errorf("result = %+v, want click", res)
	}
	if ctrl.Active() {
		t.Error("session should end on Up")
	}
	if ctrl.ConsumeClick() {
		t.Error("a click must not arm suppression")
	}
}

func TestDropProposal(t *testing.T) {
	ctrl, c := newBoard(t)
	// One pixel is one minute on a 780 pixel track.
	if err := ctrl.Down(c, gearRef, 100, 780); err != nil {
		t.Fatal(err)
	}
	offset, err := ctrl.Move(130.4)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(offset-90.4) > 1e-9 {
		t.Errorf("offset = %v, want 90.4", offset)
	}
	bar, _ := c.Bar(gearRef)
	if math.Abs(bar.LeftPct-90.4/780*100) > 1e-9 {
		t.Errorf("bar left = %v, want optimistic move", bar.LeftPct)
	}

	res, err := ctrl.Up()
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome != OutcomeDrop || res.Proposal == nil {
		t.Fatalf("result = %+v, want drop", res)
	}
	p := res.Proposal
	if !p.Start.Equal(*at(10, 30)) || !p.End.Equal(*at(11, 30)) {
		t.Errorf("proposal = %v-%v, want 10:30-11:30", p.Start, p.End)
	}
	if !p.OriginalStart.Equal(*at(10, 0)) {
		t.Errorf("original start = %v", p.OriginalStart)
	}
	if math.Abs(p.OriginalLeft-60.0/780*100) > 1e-9 {
		t.Errorf("original left = %v", p.OriginalLeft)
	}
	if !ctrl.ConsumeClick() {
		t.Error("drop should arm click suppression")
	}
	if ctrl.ConsumeClick() {
		t.Error("suppression should clear after one read")
	}
}

func TestMoveClampsToWindow(t *testing.T) {
	ctrl, c := newBoard(t)
	if err := ctrl.Down(c, gearRef, 100, 780); err != nil {
		t.Fatal(err)
	}

	offset, _ := ctrl.Move(-1000)
	if offset != 0 {
		t.Errorf("offset = %v, want 0", offset)
	}
	offset, _ = ctrl.Move(5000)
	if offset != 720 {
		t.Errorf("offset = %v, want total - duration = 720", offset)
	}

	res, _ := ctrl.Up()
	if !res.Proposal.Start.Equal(*at(21, 0)) || !res.Proposal.End.Equal(*at(22, 0)) {
		t.Errorf("proposal = %v-%v, want 21:00-22:00", res.Proposal.Start, res.Proposal.End)
	}
}

func TestDropKeepsCalendarDay(t *testing.T) {
	w := timeline.Default()
	c := render.NewContainer(w, timeline.DefaultMinPercent)
	loc := time.FixedZone("MSK", 3*3600)
	start := time.Date(2025, 3, 12, 9, 30, 0, 0, loc)
	end := start.Add(45 * time.Minute)
	render.Render(c, track.ForTasks([]task.Task{{ID: 1, Name: "Gear", PlanStart: &start, PlanEnd: &end}}), nil, start)

	ctrl := New(w)
	if err := ctrl.Down(c, gearRef, 0, 390); err != nil {
		t.Fatal(err)
	}
	ctrl.Move(10) // 20 minutes
	res, _ := ctrl.Up()

	want := time.Date(2025, 3, 12, 9, 50, 0, 0, loc)
	if !res.Proposal.Start.Equal(want) || res.Proposal.Start.Location() != loc {
		t.Errorf("start = %v, want %v", res.Proposal.Start, want)
	}
	if res.Proposal.End.Sub(res.Proposal.Start) != 45*time.Minute {
		t.Errorf("duration = %v, want 45m", res.Proposal.End.Sub(res.Proposal.Start))
	}
}

func TestCancelRestoresBar(t *testing.T) {
	ctrl, c := newBoard(t)
	before, _ := c.Bar(lunchRef)
	if err := ctrl.Down(c, lunchRef, 0, 780); err != nil {
		t.Fatal(err)
	}
	ctrl.Move(60)
	ctrl.Cancel()

	after, _ := c.Bar(lunchRef)
	if after.LeftPct != before.LeftPct {
		t.Errorf("left = %v, want %v", after.LeftPct, before.LeftPct)
	}
	if ctrl.Active() {
		t.Error("Cancel should end the session")
	}
}

func TestNoSession(t *testing.T) {
	ctrl := New(timeline.Default())
	if _, err := ctrl.Move(10); !errors.Is(err, ErrNoSession) {
		t.Errorf("Move() = %v, want %v", err, ErrNoSession)
	}
	if _, err := ctrl.Up(); !errors.Is(err, ErrNoSession) {
		t.Errorf("Up() = %v, want %v", err, ErrNoSession)
	}
	ctrl.Cancel()
}

func TestWithClickThreshold(t *testing.T) {
	w := timeline.Default()
	ctrl, c := newBoard(t)
	ctrl = New(w, WithClickThreshold(0.5))
	if err := ctrl.Down(c, gearRef, 10, 780); err != nil {
		t.Fatal(err)
	}
	ctrl.Move(11)
	res, _ := ctrl.Up()
	if res.Outcome != OutcomeDrop {
		t.Errorf("outcome = %v, want drop with a tighter threshold", res.Outcome)
	}
}
