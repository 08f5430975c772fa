package integration

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/shopboard/internal/api"
	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/conflict"
	"github.com/javiermolinar/shopboard/internal/db"
	"github.com/javiermolinar/shopboard/internal/scheduler"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/timeline"
	"github.com/javiermolinar/shopboard/internal/track"
)

var seedDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)

func now() time.Time { return seedDay.Add(8 * time.Hour) }

// openRepo creates a fresh seeded repository for each test with automatic cleanup.
func openRepo(t *testing.T) (*db.SQLite, int64) {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	wsID, err := db.Seed(context.Background(), repo, "Integration", seedDay)
	if err != nil {
		t.Fatalf("failed to seed: %v", err)
	}
	return repo, wsID
}

func newBoard(t *testing.T, persist commit.Persistence, wsID int64) *board.Board {
	t.Helper()
	snap, err := persist.LoadEntities(context.Background(), wsID)
	if err != nil {
		t.Fatalf("failed to load workspace: %v", err)
	}
	p := commit.New(persist, commit.NewStore(snap), wsID)
	b := board.New(p, timeline.Default(), timeline.DefaultMinPercent, board.WithClock(now))
	b.SetDay(seedDay)
	return b
}

// findTask looks a seeded task up by document number.
func findTask(t *testing.T, repo *db.SQLite, wsID int64, docNum string) task.Task {
	t.Helper()
	snap, err := repo.LoadEntities(context.Background(), wsID)
	if err != nil {
		t.Fatal(err)
	}
	for _, tsk := range snap.Tasks {
		if tsk.DocNum == docNum {
			return tsk
		}
	}
	t.Fatalf("task %s not found", docNum)
	return task.Task{}
}

func clock(h, m int) time.Time {
	return seedDay.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func drop(t *testing.T, b *board.Board, id int64, minutes int) commit.Result {
	t.Helper()
	prop, err := b.Propose(board.ViewDevices, track.Ref{Kind: track.KindTask, ID: id}, minutes)
	if err != nil {
		t.Fatalf("Propose: %v", err)
	}
	return b.Drop(context.Background(), prop)
}

func TestDropPersistsToSQLite(t *testing.T) {
	repo, wsID := openRepo(t)
	b := newBoard(t, repo, wsID)
	flange := findTask(t, repo, wsID, "WO-102")

	// 14:00 is 300 minutes into the 09:00 window.
	res := drop(t, b, flange.ID, 300)
	if res.Status != commit.StatusCommitted {
		t.Fatalf("status = %v (%v)", res.Status, res.Err)
	}
	if res.Warning != nil {
		t.Errorf("unexpected warning: %s", res.Warning.Message())
	}

	got := findTask(t, repo, wsID, "WO-102")
	if !got.PlanStart.Equal(clock(14, 0)) || !got.PlanEnd.Equal(clock(15, 15)) {
		t.Errorf("saved window = %v-%v, want 14:00-15:15", got.PlanStart, got.PlanEnd)
	}

	bar, ok := b.Container(board.ViewDevices).Bar(track.Ref{Kind: track.KindTask, ID: flange.ID})
	if !ok || bar.StartOffset != 300 {
		t.Errorf("bar should be re-rendered at 14:00, offset = %d", bar.StartOffset)
	}
}

func TestDropOverDeviceTaskIsRejected(t *testing.T) {
	repo, wsID := openRepo(t)
	b := newBoard(t, repo, wsID)
	flange := findTask(t, repo, wsID, "WO-102")

	res := drop(t, b, flange.ID, 60)
	if res.Status != commit.StatusRejected {
		t.Fatalf("status = %v, want rejected", res.Status)
	}
	if !errors.Is(res.Err, conflict.ErrDeviceOverlap) {
		t.Errorf("err = %v, want ErrDeviceOverlap", res.Err)
	}

	got := findTask(t, repo, wsID, "WO-102")
	if !got.PlanStart.Equal(*flange.PlanStart) {
		t.Errorf("rejected move was saved: %v", got.PlanStart)
	}
}

func TestDropOverLunchWarns(t *testing.T) {
	repo, wsID := openRepo(t)
	b := newBoard(t, repo, wsID)
	flange := findTask(t, repo, wsID, "WO-102")

	// 12:30-13:45 runs into Anna's 13:00 lunch.
	res := drop(t, b, flange.ID, 210)
	if res.Status != commit.StatusCommitted {
		t.Fatalf("status = %v (%v)", res.Status, res.Err)
	}
	if res.Warning == nil {
		t.Fatal("expected a break overlap warning")
	}
	if res.Warning.OperatorName != "Anna Sokolova" {
		t.Errorf("warning operator = %q", res.Warning.OperatorName)
	}
}

func TestRemoteBoardSavesThroughAPI(t *testing.T) {
	repo, wsID := openRepo(t)
	srv := httptest.NewServer(api.NewServer(repo, nil, api.Options{AuthToken: "secret", Now: now}).Handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithToken("secret"))
	b := newBoard(t, client, wsID)
	flange := findTask(t, repo, wsID, "WO-102")

	res := drop(t, b, flange.ID, 300)
	if res.Status != commit.StatusCommitted {
		t.Fatalf("status = %v (%v)", res.Status, res.Err)
	}
	if got := findTask(t, repo, wsID, "WO-102"); !got.PlanStart.Equal(clock(14, 0)) {
		t.Errorf("server database has %v, want 14:00", got.PlanStart)
	}
}

func TestRemoteBoardWrongTokenFails(t *testing.T) {
	repo, wsID := openRepo(t)
	srv := httptest.NewServer(api.NewServer(repo, nil, api.Options{AuthToken: "secret"}).Handler())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithToken("wrong"))
	if _, err := client.LoadEntities(context.Background(), wsID); err == nil {
		t.Fatal("expected an auth error")
	}
}

func TestRecomputeThenSweep(t *testing.T) {
	repo, wsID := openRepo(t)
	b := newBoard(t, repo, wsID)

	res, err := scheduler.New(repo, scheduler.WithClock(now)).Recompute(context.Background(), wsID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if res.Updated == 0 {
		t.Error("expected recommender tasks to be planned")
	}

	_, warnings, err := b.Pipeline().ReloadAndSweep(context.Background())
	if err != nil {
		t.Fatalf("ReloadAndSweep: %v", err)
	}
	var milling bool
	for _, w := range warnings {
		if w.Task.DocNum == "WO-103" {
			milling = true
		}
	}
	if !milling {
		t.Errorf("sweep should report the milling job over lunch, got %d warnings", len(warnings))
	}

	b.Refresh()
	bushing := findTask(t, repo, wsID, "WO-106")
	if !bushing.Dated() {
		t.Fatal("WO-106 should have a plan window")
	}
	if _, ok := b.Container(board.ViewDevices).Bar(track.Ref{Kind: track.KindTask, ID: bushing.ID}); !ok {
		t.Error("recomputed task should be on the devices view")
	}
}
