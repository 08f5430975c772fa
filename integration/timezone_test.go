package integration

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/shopboard/internal/db"
	"github.com/javiermolinar/shopboard/internal/task"
)

// Plan windows written in one zone must come back as the same instants.
func TestScheduleRoundTripAcrossZones(t *testing.T) {
	repo, err := db.New(filepath.Join(t.TempDir(), "tz.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	ctx := context.Background()

	ws := &task.Workspace{Name: "TZ"}
	if err := repo.CreateWorkspace(ctx, ws); err != nil {
		t.Fatal(err)
	}
	dev := &task.Device{WorkspaceID: ws.ID, Name: "Lathe"}
	if err := repo.CreateDevice(ctx, dev); err != nil {
		t.Fatal(err)
	}

	zones := []*time.Location{
		time.UTC,
		time.FixedZone("MSK", 3*60*60),
		time.FixedZone("PST", -8*60*60),
	}
	for _, loc := range zones {
		t.Run(loc.String(), func(t *testing.T) {
			start := time.Date(2025, 3, 10, 23, 30, 0, 0, loc)
			end := start.Add(90 * time.Minute)
			tsk := &task.Task{WorkspaceID: ws.ID, Name: "Night shift", DeviceID: dev.ID, PlanStart: &start, PlanEnd: &end}
			if err := repo.CreateTask(ctx, tsk); err != nil {
				t.Fatal(err)
			}

			snap, err := repo.LoadEntities(ctx, ws.ID)
			if err != nil {
				t.Fatal(err)
			}
			got, ok := snap.TaskByID(tsk.ID)
			if !ok {
				t.Fatal("task not loaded")
			}
			if !got.PlanStart.Equal(start) || !got.PlanEnd.Equal(end) {
				t.Errorf("got %v-%v, want %v-%v", got.PlanStart, got.PlanEnd, start, end)
			}
			if len(snap.TasksForDate(time.Date(2025, 3, 10, 0, 0, 0, 0, loc))) == 0 {
				t.Errorf("task should belong to 10 March in %s", loc)
			}
		})
	}
}
