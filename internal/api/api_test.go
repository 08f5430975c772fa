package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/db"
	"github.com/javiermolinar/shopboard/internal/drag"
	"github.com/javiermolinar/shopboard/internal/scheduler"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
)

func at(h, m int) *time.Time {
	t := time.Date(2025, 3, 10, h, m, 0, 0, time.Local)
	return &t
}

func now() time.Time { return *at(8, 0) }

type fixture struct {
	repo   *db.SQLite
	srv    *httptest.Server
	client *Client
	wsID   int64
	gear   int64
	shaft  int64
	lunch  int64
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	ctx := context.Background()

	repo, err := db.New(filepath.Join(t.TempDir(), "api.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	ws := &task.Workspace{Name: "Shop"}
	must(t, repo.CreateWorkspace(ctx, ws))
	dev := &task.Device{WorkspaceID: ws.ID, Name: "Lathe"}
	must(t, repo.CreateDevice(ctx, dev))
	op := &task.Operator{WorkspaceID: ws.ID, FullName: "Ivan Petrov"}
	must(t, repo.CreateOperator(ctx, op))
	gear := &task.Task{WorkspaceID: ws.ID, Name: "Gear", DeviceID: dev.ID, OperatorID: op.ID, PlanStart: at(9, 0), PlanEnd: at(10, 0)}
	must(t, repo.CreateTask(ctx, gear))
	shaft := &task.Task{WorkspaceID: ws.ID, Name: "Shaft", DeviceID: dev.ID, OperatorID: op.ID, PlanStart: at(11, 0), PlanEnd: at(12, 0), InRecommender: true, Duration: time.Hour}
	must(t, repo.CreateTask(ctx, shaft))
	lunch := &task.Break{WorkspaceID: ws.ID, OperatorID: op.ID, Name: "Lunch", Start: at(13, 0), End: at(14, 0)}
	must(t, repo.CreateBreak(ctx, lunch))

	planner := scheduler.New(repo, scheduler.WithClock(now))
	s := NewServer(repo, planner, Options{AuthToken: token, Now: now})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &fixture{
		repo:   repo,
		srv:    srv,
		client: NewClient(srv.URL, WithToken(token)),
		wsID:   ws.ID,
		gear:   gear.ID,
		shaft:  shaft.ID,
		lunch:  lunch.ID,
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, "")

	resp, err := http.Get(f.srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	f := newFixture(t, "secret")

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"health is open", "/health", "", http.StatusOK},
		{"missing token", "/v1/workspaces", "", http.StatusUnauthorized},
		{"wrong token", "/v1/workspaces", "Bearer nope", http.StatusUnauthorized},
		{"bearer token", "/v1/workspaces", "Bearer secret", http.StatusOK},
		{"query token", "/v1/workspaces?token=secret", "", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, f.srv.URL+tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestClient_LoadEntities(t *testing.T) {
	f := newFixture(t, "secret")

	snap, err := f.client.LoadEntities(context.Background(), f.wsID)
	if err != nil {
		t.Fatalf("LoadEntities: %v", err)
	}
	if len(snap.Tasks) != 2 || len(snap.Breaks) != 1 || len(snap.Devices) != 1 || len(snap.Operators) != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	shaft, ok := snap.TaskByID(f.shaft)
	if !ok || !shaft.PlanStart.Equal(*at(11, 0)) || shaft.Duration != time.Hour || !shaft.InRecommender {
		t.Errorf("shaft = %+v", shaft)
	}
	if snap.Breaks[0].Kind != task.BreakLunch {
		t.Errorf("break kind = %q", snap.Breaks[0].Kind)
	}

	_, err = f.client.LoadEntities(context.Background(), 999)
	if !errors.Is(err, task.ErrWorkspaceNotFound) {
		t.Errorf("missing workspace: got %v, want ErrWorkspaceNotFound", err)
	}
}

func TestClient_SaveSchedules(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	snap, err := f.client.LoadEntities(ctx, f.wsID)
	must(t, err)
	shaft, _ := snap.TaskByID(f.shaft)

	must(t, f.client.SaveTaskSchedule(ctx, shaft.WithSchedule(*at(15, 0), *at(16, 0))))

	stored, err := f.repo.LoadEntities(ctx, f.wsID)
	must(t, err)
	got, _ := stored.TaskByID(f.shaft)
	if !got.PlanStart.Equal(*at(15, 0)) {
		t.Errorf("stored start = %v, want 15:00", got.PlanStart)
	}

	ghost := task.Task{ID: 404, WorkspaceID: f.wsID, Name: "ghost"}
	if err := f.client.SaveTaskSchedule(ctx, ghost); !errors.Is(err, task.ErrTaskNotFound) {
		t.Errorf("ghost task: got %v, want ErrTaskNotFound", err)
	}

	lunch, _ := snap.BreakByID(f.lunch)
	must(t, f.client.SaveBreakSchedule(ctx, lunch.WithSchedule(*at(12, 0), *at(13, 0))))

	bad := shaft.WithSchedule(*at(16, 0), *at(15, 0))
	var apiErr *Error
	if err := f.client.SaveTaskSchedule(ctx, bad); !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Errorf("inverted window: got %v, want 400", err)
	}
}

func TestReschedule(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	tests := []struct {
		name       string
		req        RescheduleRequest
		wantStatus string
		wantErr    bool
		warning    bool
	}{
		{"commits", RescheduleRequest{Kind: "task", ID: f.shaft, Start: *at(15, 0)}, "committed", false, false},
		{"same start", RescheduleRequest{Kind: "task", ID: f.shaft, Start: *at(15, 0)}, "unchanged", false, false},
		{"overlaps device", RescheduleRequest{Kind: "task", ID: f.shaft, Start: *at(9, 30)}, "rejected", false, false},
		{"warns on break", RescheduleRequest{Kind: "task", ID: f.shaft, Start: *at(13, 30)}, "committed", false, true},
		{"moves break", RescheduleRequest{Kind: "break", ID: f.lunch, Start: *at(12, 0)}, "committed", false, false},
		{"other day", RescheduleRequest{Kind: "task", ID: f.gear, Start: at(9, 0).AddDate(0, 0, 1)}, "", true, false},
		{"unknown task", RescheduleRequest{Kind: "task", ID: 404, Start: *at(9, 0)}, "", true, false},
		{"bad kind", RescheduleRequest{Kind: "machine", ID: 1, Start: *at(9, 0)}, "", true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := f.client.Reschedule(ctx, f.wsID, tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if resp.Status != tc.wantStatus {
				t.Errorf("status = %q (%s), want %q", resp.Status, resp.Error, tc.wantStatus)
			}
			if (resp.Warning != "") != tc.warning {
				t.Errorf("warning = %q, want present=%v", resp.Warning, tc.warning)
			}
		})
	}

	stored, err := f.repo.LoadEntities(ctx, f.wsID)
	must(t, err)
	shaft, _ := stored.TaskByID(f.shaft)
	if !shaft.PlanStart.Equal(*at(13, 30)) || !shaft.PlanEnd.Equal(*at(14, 30)) {
		t.Errorf("shaft = %v-%v, want 13:30-14:30", shaft.PlanStart, shaft.PlanEnd)
	}
}

func TestBoard(t *testing.T) {
	f := newFixture(t, "")

	b, err := f.client.Board(context.Background(), f.wsID, "operators", "2025-03-10")
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if b.Empty || len(b.Rows) != 1 {
		t.Fatalf("board = %+v, want one operator row", b)
	}
	if got := len(b.Rows[0].Bars); got != 3 {
		t.Errorf("bars = %d, want 3", got)
	}
	if len(b.Hours) != 13 || b.Hours[0] != "09:00" {
		t.Errorf("hours = %v", b.Hours)
	}

	if _, err := f.client.Board(context.Background(), f.wsID, "calendar", ""); err == nil {
		t.Error("expected error for unknown view")
	}
}

func TestRecompute(t *testing.T) {
	f := newFixture(t, "")

	res, err := f.client.Recompute(context.Background(), f.wsID)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if res.Updated != 1 {
		t.Errorf("updated = %d, want 1", res.Updated)
	}

	stored, err := f.repo.LoadEntities(context.Background(), f.wsID)
	must(t, err)
	shaft, _ := stored.TaskByID(f.shaft)
	if !shaft.PlanStart.Equal(*at(8, 0)) {
		t.Errorf("shaft start = %v, want 08:00", shaft.PlanStart)
	}
}

// A board pointed at a remote server commits through the client.
func TestClient_AsPersistence(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	snap, err := f.client.LoadEntities(ctx, f.wsID)
	must(t, err)
	p := commit.New(f.client, commit.NewStore(snap), f.wsID)

	shaft, _ := snap.TaskByID(f.shaft)
	prop := drag.Proposal{
		Ref:   track.Ref{Kind: track.KindTask, ID: f.shaft},
		Start: shaft.PlanStart.Add(4 * time.Hour),
		End:   shaft.PlanEnd.Add(4 * time.Hour),
	}
	res := p.Reschedule(ctx, prop, nil)
	if res.Status != commit.StatusCommitted {
		t.Fatalf("status = %v (%v)", res.Status, res.Err)
	}
	moved, _ := res.Snapshot.TaskByID(f.shaft)
	if !moved.PlanStart.Equal(*at(15, 0)) {
		t.Errorf("reloaded start = %v, want 15:00", moved.PlanStart)
	}
}
