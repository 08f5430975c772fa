package task

import (
	"testing"
	"time"
)

func sampleSnapshot() *Snapshot {
	deadline := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	return NewSnapshot(1,
		[]Task{
			{ID: 1, Name: "Gear", DeviceID: 2, PlanStart: at(11, 0), PlanEnd: at(12, 0)},
			{ID: 2, Name: "Bracket", DeviceID: 1, PlanStart: at(9, 0), PlanEnd: at(10, 0)},
			{ID: 3, Name: "Bracket", DeviceID: 1, Deadline: &deadline},
			{ID: 4, Name: "Undated"},
		},
		[]Break{{ID: 7, OperatorID: 1, Kind: BreakLunch, Start: at(12, 0), End: at(13, 0)}},
		[]Device{{ID: 1, Name: "Prusa"}, {ID: 2, Name: "Anycubic"}},
		[]Operator{{ID: 1, FullName: "Ivan Petrov"}},
		time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	)
}

func TestNewSnapshotCopiesSlices(t *testing.T) {
	tasks := []Task{{ID: 1, Name: "Gear"}}
	s := NewSnapshot(1, tasks, nil, nil, nil, time.Now())
	tasks[0].Name = "changed"
	if s.Tasks[0].Name != "Gear" {
		t.Errorf("snapshot shares the caller's slice")
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := sampleSnapshot()

	if tk, ok := s.TaskByID(2); !ok || tk.Name != "Bracket" {
		t.Errorf("TaskByID(2) = %v, %v", tk, ok)
	}
	if _, ok := s.TaskByID(99); ok {
		t.Error("TaskByID(99) should not be found")
	}
	if b, ok := s.BreakByID(7); !ok || b.Kind != BreakLunch {
		t.Errorf("BreakByID(7) = %v, %v", b, ok)
	}
	if got := s.OperatorName(1); got != "Ivan Petrov" {
		t.Errorf("OperatorName(1) = %q", got)
	}
	if got := s.OperatorName(5); got != "operator #5" {
		t.Errorf("OperatorName(5) = %q", got)
	}
	if got := s.OperatorName(0); got != "unassigned" {
		t.Errorf("OperatorName(0) = %q", got)
	}
	if got := s.DeviceName(2); got != "Anycubic" {
		t.Errorf("DeviceName(2) = %q", got)
	}
}

func TestTasksForDate(t *testing.T) {
	s := sampleSnapshot()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	got := s.TasksForDate(day)
	if len(got) != 3 {
		t.Fatalf("got %d tasks, want 3 (undated excluded)", len(got))
	}
	if other := s.TasksForDate(day.AddDate(0, 0, 1)); len(other) != 0 {
		t.Errorf("got %d tasks for next day, want 0", len(other))
	}
	if b := s.BreaksForDate(day); len(b) != 1 {
		t.Errorf("got %d breaks, want 1", len(b))
	}
}

func TestSortTasks(t *testing.T) {
	s := sampleSnapshot()
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tasks := s.TasksForDate(day)

	byName := s.SortTasks(tasks, SortByTask)
	wantIDs := []int64{2, 3, 1}
	for i, id := range wantIDs {
		if byName[i].ID != id {
			t.Errorf("by task [%d] = %d, want %d", i, byName[i].ID, id)
		}
	}

	byDevice := s.SortTasks(tasks, SortByDevice)
	if byDevice[0].ID != 1 {
		t.Errorf("by device first = %d, want 1 (Anycubic)", byDevice[0].ID)
	}

	byStart := SortByStart(tasks)
	if byStart[0].ID != 2 || byStart[2].ID != 3 {
		t.Errorf("by start = %d,%d,%d", byStart[0].ID, byStart[1].ID, byStart[2].ID)
	}
}

func TestStatsFor(t *testing.T) {
	s := sampleSnapshot()
	now := *at(11, 30)
	st := StatsFor(s.Tasks, len(s.Devices), now)

	if st.InProgress != 1 || st.Done != 1 || st.Pending != 0 {
		t.Errorf("stats = %+v", st)
	}
	if st.ClosestEnd == nil || st.ClosestEnd.Hour() != 12 {
		t.Errorf("closest end = %v, want 12:00", st.ClosestEnd)
	}
	if st.DeviceLoadPct != 50 {
		t.Errorf("device load = %d, want 50", st.DeviceLoadPct)
	}
}
