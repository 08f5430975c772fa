package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/javiermolinar/shopboard/internal/board"
	"github.com/javiermolinar/shopboard/internal/commit"
	"github.com/javiermolinar/shopboard/internal/dateutil"
	"github.com/javiermolinar/shopboard/internal/drag"
	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.ListWorkspaces(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.ListWorkspaces(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	out := make([]WorkspaceDTO, 0, len(list))
	for _, ws := range list {
		out = append(out, WorkspaceDTO{ID: ws.ID, Name: ws.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}
	snap, err := s.repo.LoadEntities(r.Context(), wsID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NewSnapshotDTO(snap))
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	q := r.URL.Query()
	view := board.ViewDevices
	if v := q.Get("view"); v != "" {
		parsed, err := board.ParseView(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_view", err.Error())
			return
		}
		view = parsed
	}

	now := s.now()
	day := dateutil.TruncateToDay(now)
	if d := q.Get("date"); d != "" {
		parsed, err := dateutil.ParseRelativeDate(d, now)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
			return
		}
		day = parsed
	}

	mode := task.SortByTask
	if q.Get("sort") == string(task.SortByDevice) {
		mode = task.SortByDevice
	}

	snap, err := s.repo.LoadEntities(r.Context(), wsID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	c := render.NewContainer(s.window, s.minPercent)
	render.Render(c, board.Rows(snap, view, day, dateutil.TruncateToDay(now), mode), board.Label(snap), now)
	writeJSON(w, http.StatusOK, c.Board())
}

func (s *Server) handleSaveTask(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskID")
	if !ok {
		return
	}

	var dto TaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	dto.ID = taskID
	dto.WorkspaceID = wsID

	if err := s.repo.SaveTaskSchedule(r.Context(), dto.Task()); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveBreak(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}
	breakID, ok := pathID(w, r, "breakID")
	if !ok {
		return
	}

	var dto BreakDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	dto.ID = breakID
	dto.WorkspaceID = wsID

	if err := s.repo.SaveBreakSchedule(r.Context(), dto.Break()); err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReschedule runs a drop without a pointer: the item is moved along
// its own day to the requested start, through the same checks as a drag.
func (s *Server) handleReschedule(w http.ResponseWriter, r *http.Request) {
	wsID, ok := pathID(w, r, "workspaceID")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	ref := track.Ref{Kind: track.Kind(strings.ToLower(req.Kind)), ID: req.ID}
	if !ref.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_input", "kind must be task or break and id must be positive")
		return
	}
	if req.Start.IsZero() {
		writeError(w, http.StatusBadRequest, "invalid_input", "start is required")
		return
	}

	ws := s.workspace(wsID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	snap, err := ws.pipeline.Reload(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	var (
		current *time.Time
		view    board.View
	)
	switch ref.Kind {
	case track.KindTask:
		t, found := snap.TaskByID(ref.ID)
		if !found {
			writeError(w, http.StatusNotFound, "not_found", task.ErrTaskNotFound.Error())
			return
		}
		current, view = t.PlanStart, board.ViewTasks
	case track.KindBreak:
		b, found := snap.BreakByID(ref.ID)
		if !found {
			writeError(w, http.StatusNotFound, "not_found", task.ErrBreakNotFound.Error())
			return
		}
		current, view = b.Start, board.ViewOperators
	}
	if current == nil {
		writeError(w, http.StatusUnprocessableEntity, "undated", drag.ErrUndated.Error())
		return
	}

	target := req.Start.In(current.Location())
	if !dateutil.SameDay(target, *current) {
		writeError(w, http.StatusBadRequest, "different_day", "items can only be moved within their own day")
		return
	}

	b := board.New(ws.pipeline, s.window, s.minPercent, board.WithClock(s.now), board.WithLogger(s.logger))
	b.SetDay(*current)

	minutes, _ := s.window.MinutesFromWindowStart(&target)
	prop, err := b.Propose(view, ref, minutes)
	switch {
	case errors.Is(err, board.ErrNoMove):
		writeJSON(w, http.StatusOK, RescheduleResponse{Status: "unchanged"})
		return
	case errors.Is(err, drag.ErrNoTrack), errors.Is(err, drag.ErrNotDraggable), errors.Is(err, drag.ErrUndated):
		writeError(w, http.StatusUnprocessableEntity, "not_on_board", err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}

	res := b.Drop(r.Context(), prop)
	resp := RescheduleResponse{Status: res.Status.String(), Start: &prop.Start, End: &prop.End}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	if res.Warning != nil {
		resp.Warning = res.Warning.Message()
	}

	status := http.StatusOK
	switch res.Status {
	case commit.StatusRejected:
		status = http.StatusConflict
	case commit.StatusFailed:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	if s.planner == nil {
		writeError(w, http.StatusNotImplemented, "no_planner", "plan recompute is not configured")
		return
	}

	var req RecomputeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	if req.WorkspaceID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_input", "workspace_id must be positive")
		return
	}

	ws := s.workspace(req.WorkspaceID)
	ws.mu.Lock()
	defer ws.mu.Unlock()

	res, err := s.planner.Recompute(r.Context(), req.WorkspaceID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	resp := RecomputeResponse{Updated: res.Updated, UnscheduledIDs: res.UnscheduledIDs}
	if resp.UnscheduledIDs == nil {
		resp.UnscheduledIDs = []int64{}
	}
	if _, overlaps, err := ws.pipeline.ReloadAndSweep(r.Context()); err == nil {
		for _, o := range overlaps {
			resp.Warnings = append(resp.Warnings, o.Message())
		}
	} else {
		s.logger.Error("reload after recompute failed", "workspace", req.WorkspaceID, "error", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id", fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// writeStoreError maps domain errors to HTTP status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, task.ErrWorkspaceNotFound):
		writeError(w, http.StatusNotFound, "workspace_not_found", err.Error())
	case errors.Is(err, task.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, task.ErrBreakNotFound):
		writeError(w, http.StatusNotFound, "break_not_found", err.Error())
	case errors.Is(err, task.ErrEmptyName),
		errors.Is(err, task.ErrEndBeforeStart),
		errors.Is(err, task.ErrInvalidDuration),
		errors.Is(err, task.ErrInvalidBreakKind):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		s.logger.Error("storage error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	payload := map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}
	writeJSON(w, status, payload)
}
