package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/scheduler"
	"github.com/javiermolinar/shopboard/internal/task"
)

// Error is a non-2xx response from the server.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, e.Code, e.Message)
}

// Unwrap maps server error codes back to domain errors.
func (e *Error) Unwrap() error {
	switch e.Code {
	case "workspace_not_found":
		return task.ErrWorkspaceNotFound
	case "task_not_found":
		return task.ErrTaskNotFound
	case "break_not_found":
		return task.ErrBreakNotFound
	default:
		return nil
	}
}

// Client talks to a shopboard server. It implements commit.Persistence, so a
// board can run against a remote workspace.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithToken sets the bearer token.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadEntities fetches the workspace snapshot.
func (c *Client) LoadEntities(ctx context.Context, workspaceID int64) (*task.Snapshot, error) {
	var dto SnapshotDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/v1/workspaces/%d/snapshot", workspaceID), nil, &dto); err != nil {
		return nil, err
	}
	return dto.Snapshot(), nil
}

// SaveTaskSchedule stores the full task record.
func (c *Client) SaveTaskSchedule(ctx context.Context, t task.Task) error {
	path := fmt.Sprintf("/v1/workspaces/%d/tasks/%d/schedule", t.WorkspaceID, t.ID)
	return c.do(ctx, http.MethodPut, path, NewTaskDTO(t), nil)
}

// SaveBreakSchedule stores the full break record.
func (c *Client) SaveBreakSchedule(ctx context.Context, b task.Break) error {
	path := fmt.Sprintf("/v1/workspaces/%d/breaks/%d/schedule", b.WorkspaceID, b.ID)
	return c.do(ctx, http.MethodPut, path, NewBreakDTO(b), nil)
}

// ListWorkspaces returns the workspaces on the server.
func (c *Client) ListWorkspaces(ctx context.Context) ([]task.Workspace, error) {
	var dtos []WorkspaceDTO
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces", nil, &dtos); err != nil {
		return nil, err
	}
	out := make([]task.Workspace, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, task.Workspace{ID: d.ID, Name: d.Name})
	}
	return out, nil
}

// Recompute asks the server to re-plan a workspace.
func (c *Client) Recompute(ctx context.Context, workspaceID int64) (scheduler.Result, error) {
	var resp RecomputeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/plans/recompute", RecomputeRequest{WorkspaceID: workspaceID}, &resp); err != nil {
		return scheduler.Result{}, err
	}
	return scheduler.Result{Updated: resp.Updated, UnscheduledIDs: resp.UnscheduledIDs}, nil
}

// Reschedule moves one item on the server.
func (c *Client) Reschedule(ctx context.Context, workspaceID int64, req RescheduleRequest) (RescheduleResponse, error) {
	var resp RescheduleResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/v1/workspaces/%d/reschedule", workspaceID), req, &resp)
	var apiErr *Error
	if errors.As(err, &apiErr) && (apiErr.Status == http.StatusConflict || apiErr.Status == http.StatusBadGateway) {
		// Rejections and failures still carry a result body.
		return RescheduleResponse{Status: apiErr.Code, Error: apiErr.Message}, nil
	}
	return resp, err
}

// Board fetches a rendered view.
func (c *Client) Board(ctx context.Context, workspaceID int64, view, date string) (render.Board, error) {
	q := url.Values{}
	if view != "" {
		q.Set("view", view)
	}
	if date != "" {
		q.Set("date", date)
	}
	path := fmt.Sprintf("/v1/workspaces/%d/board", workspaceID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var b render.Board
	err := c.do(ctx, http.MethodGet, path, nil, &b)
	return b, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	// A reschedule result body is not an error envelope.
	var result RescheduleResponse
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Code != "" {
		return &Error{Status: status, Code: payload.Error.Code, Message: payload.Error.Message}
	}
	if err := json.Unmarshal(data, &result); err == nil && result.Status != "" {
		return &Error{Status: status, Code: result.Status, Message: result.Error}
	}
	return &Error{Status: status, Code: http.StatusText(status), Message: strings.TrimSpace(string(data))}
}
