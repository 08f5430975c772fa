// Package db provides SQLite storage implementation.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/shopboard/internal/task"
)

// SQLite implements task.Repository using SQLite.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new SQLite repository and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection keeps busy_timeout and WAL applied to every statement
	// and serialises writes from the API server.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	s := &SQLite{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreateWorkspace adds a workspace and sets its ID.
func (s *SQLite) CreateWorkspace(ctx context.Context, w *task.Workspace) error {
	if w.Name == "" {
		return task.ErrEmptyName
	}
	result, err := s.db.ExecContext(ctx, `INSERT INTO workspaces (name) VALUES (?)`, w.Name)
	if err != nil {
		return fmt.Errorf("inserting workspace: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	w.ID = id
	return nil
}

// ListWorkspaces returns all workspaces ordered by ID.
func (s *SQLite) ListWorkspaces(ctx context.Context) ([]task.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM workspaces ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying workspaces: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Workspace
	for rows.Next() {
		var w task.Workspace
		if err := rows.Scan(&w.ID, &w.Name); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workspaces: %w", err)
	}
	return out, nil
}

// CreateDevice adds a device and sets its ID.
func (s *SQLite) CreateDevice(ctx context.Context, d *task.Device) error {
	if d.Name == "" {
		return task.ErrEmptyName
	}
	query := `
		INSERT INTO devices (workspace_id, name, photo_url, device_type_id, device_state_id, add_in_rec_system)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		d.WorkspaceID, d.Name, d.PhotoURL, d.TypeID, d.StateID, d.InRecommender)
	if err != nil {
		return fmt.Errorf("inserting device: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	d.ID = id
	return nil
}

// CreateOperator adds an operator and sets its ID.
func (s *SQLite) CreateOperator(ctx context.Context, o *task.Operator) error {
	if o.FullName == "" {
		return task.ErrEmptyName
	}
	query := `
		INSERT INTO operators (workspace_id, full_name, phone, user_login)
		VALUES (?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query, o.WorkspaceID, o.FullName, o.Phone, o.UserLogin)
	if err != nil {
		return fmt.Errorf("inserting operator: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	o.ID = id
	return nil
}

const taskColumns = `
	id, workspace_id, name, doc_num, photo_url, device_id, operator_id,
	priority_id, device_task_type_id, need_operator, add_in_rec_system,
	deadline, plan_start, plan_end, duration_min, setup_time_min, unload_time_min
`

// CreateTask adds a task and sets its ID.
func (s *SQLite) CreateTask(ctx context.Context, t *task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO device_tasks (
			workspace_id, name, doc_num, photo_url, device_id, operator_id,
			priority_id, device_task_type_id, need_operator, add_in_rec_system,
			deadline, plan_start, plan_end, duration_min, setup_time_min, unload_time_min
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		t.WorkspaceID, t.Name, t.DocNum, t.PhotoURL, t.DeviceID, t.OperatorID,
		t.PriorityID, t.TypeID, t.NeedOperator, t.InRecommender,
		formatTime(t.Deadline), formatTime(t.PlanStart), formatTime(t.PlanEnd),
		minutes(t.Duration), minutes(t.SetupTime), minutes(t.UnloadTime),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = id
	return nil
}

// SaveTaskSchedule stores the full task record.
// Returns task.ErrTaskNotFound if the task's workspace has no task with
// that ID.
func (s *SQLite) SaveTaskSchedule(ctx context.Context, t task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := updateTask(ctx, s.db, t); err != nil {
		return err
	}
	return nil
}

// BatchSaveTaskSchedules stores several task records atomically.
func (s *SQLite) BatchSaveTaskSchedules(ctx context.Context, tasks []task.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("task %d: %w", t.ID, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, t := range tasks {
		if err := updateTask(ctx, tx, t); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func updateTask(ctx context.Context, db execer, t task.Task) error {
	query := `
		UPDATE device_tasks SET
			name = ?, doc_num = ?, photo_url = ?, device_id = ?, operator_id = ?,
			priority_id = ?, device_task_type_id = ?, need_operator = ?, add_in_rec_system = ?,
			deadline = ?, plan_start = ?, plan_end = ?,
			duration_min = ?, setup_time_min = ?, unload_time_min = ?
		WHERE id = ? AND workspace_id = ?
	`
	result, err := db.ExecContext(ctx, query,
		t.Name, t.DocNum, t.PhotoURL, t.DeviceID, t.OperatorID,
		t.PriorityID, t.TypeID, t.NeedOperator, t.InRecommender,
		formatTime(t.Deadline), formatTime(t.PlanStart), formatTime(t.PlanEnd),
		minutes(t.Duration), minutes(t.SetupTime), minutes(t.UnloadTime),
		t.ID, t.WorkspaceID,
	)
	if err != nil {
		return fmt.Errorf("updating task %d: %w", t.ID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", task.ErrTaskNotFound, t.ID)
	}
	return nil
}

// CreateBreak adds a break and sets its ID.
func (s *SQLite) CreateBreak(ctx context.Context, b *task.Break) error {
	if b.Kind == "" {
		b.Kind = task.KindFromName(b.Name)
	}
	if err := b.Validate(); err != nil {
		return err
	}
	query := `
		INSERT INTO breaks (workspace_id, operator_id, name, kind, priority, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.ExecContext(ctx, query,
		b.WorkspaceID, b.OperatorID, b.Name, b.Kind, b.Priority, formatTime(b.Start), formatTime(b.End))
	if err != nil {
		return fmt.Errorf("inserting break: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	b.ID = id
	return nil
}

// SaveBreakSchedule stores the full break record.
// Returns task.ErrBreakNotFound if the break's workspace has no break with
// that ID.
func (s *SQLite) SaveBreakSchedule(ctx context.Context, b task.Break) error {
	if err := b.Validate(); err != nil {
		return err
	}
	query := `
		UPDATE breaks SET operator_id = ?, name = ?, kind = ?, priority = ?, start_time = ?, end_time = ?
		WHERE id = ? AND workspace_id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		b.OperatorID, b.Name, b.Kind, b.Priority, formatTime(b.Start), formatTime(b.End), b.ID, b.WorkspaceID)
	if err != nil {
		return fmt.Errorf("updating break %d: %w", b.ID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %d", task.ErrBreakNotFound, b.ID)
	}
	return nil
}

// LoadEntities returns the full snapshot of a workspace.
// Returns task.ErrWorkspaceNotFound if the workspace does not exist.
func (s *SQLite) LoadEntities(ctx context.Context, workspaceID int64) (*task.Snapshot, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM workspaces WHERE id = ?`, workspaceID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", task.ErrWorkspaceNotFound, workspaceID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workspace: %w", err)
	}

	tasks, err := s.listTasks(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	breaks, err := s.listBreaks(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	devices, err := s.listDevices(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	operators, err := s.listOperators(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	return task.NewSnapshot(workspaceID, tasks, breaks, devices, operators, s.now()), nil
}

func (s *SQLite) listTasks(ctx context.Context, workspaceID int64) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM device_tasks WHERE workspace_id = ? ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Task
	for rows.Next() {
		var (
			t                       task.Task
			deadline, start, end    sql.NullString
			duration, setup, unload int64
		)
		if err := rows.Scan(
			&t.ID, &t.WorkspaceID, &t.Name, &t.DocNum, &t.PhotoURL, &t.DeviceID, &t.OperatorID,
			&t.PriorityID, &t.TypeID, &t.NeedOperator, &t.InRecommender,
			&deadline, &start, &end, &duration, &setup, &unload,
		); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		if t.Deadline, err = parseTime(deadline); err != nil {
			return nil, fmt.Errorf("task %d deadline: %w", t.ID, err)
		}
		if t.PlanStart, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("task %d plan start: %w", t.ID, err)
		}
		if t.PlanEnd, err = parseTime(end); err != nil {
			return nil, fmt.Errorf("task %d plan end: %w", t.ID, err)
		}
		t.Duration = time.Duration(duration) * time.Minute
		t.SetupTime = time.Duration(setup) * time.Minute
		t.UnloadTime = time.Duration(unload) * time.Minute
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

func (s *SQLite) listBreaks(ctx context.Context, workspaceID int64) ([]task.Break, error) {
	query := `
		SELECT id, workspace_id, operator_id, name, kind, priority, start_time, end_time
		FROM breaks WHERE workspace_id = ? ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying breaks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Break
	for rows.Next() {
		var (
			b          task.Break
			kind       sql.NullString
			start, end sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.WorkspaceID, &b.OperatorID, &b.Name, &kind, &b.Priority, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning break: %w", err)
		}
		// Rows imported without a kind fall back to the label.
		b.Kind = task.KindFromName(b.Name)
		if kind.Valid {
			if k, err := task.ParseBreakKind(kind.String); err == nil {
				b.Kind = k
			}
		}
		if b.Start, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("break %d start: %w", b.ID, err)
		}
		if b.End, err = parseTime(end); err != nil {
			return nil, fmt.Errorf("break %d end: %w", b.ID, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating breaks: %w", err)
	}
	return out, nil
}

func (s *SQLite) listDevices(ctx context.Context, workspaceID int64) ([]task.Device, error) {
	query := `
		SELECT id, workspace_id, name, photo_url, device_type_id, device_state_id, add_in_rec_system
		FROM devices WHERE workspace_id = ? ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Device
	for rows.Next() {
		var d task.Device
		if err := rows.Scan(&d.ID, &d.WorkspaceID, &d.Name, &d.PhotoURL, &d.TypeID, &d.StateID, &d.InRecommender); err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return out, nil
}

func (s *SQLite) listOperators(ctx context.Context, workspaceID int64) ([]task.Operator, error) {
	query := `
		SELECT id, workspace_id, full_name, phone, user_login
		FROM operators WHERE workspace_id = ? ORDER BY id
	`
	rows, err := s.db.QueryContext(ctx, query, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("querying operators: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []task.Operator
	for rows.Next() {
		var o task.Operator
		if err := rows.Scan(&o.ID, &o.WorkspaceID, &o.FullName, &o.Phone, &o.UserLogin); err != nil {
			return nil, fmt.Errorf("scanning operator: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operators: %w", err)
	}
	return out, nil
}

// formatTime stores times as RFC3339 with their offset, or NULL.
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

// parseTime parses a stored time. Times are returned in the local zone so
// wall-clock placement matches the machine running the board.
func parseTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	formats := []string{
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s.String, time.Local); err == nil {
			local := t.Local()
			return &local, nil
		}
	}
	return nil, fmt.Errorf("unrecognized time format: %s", s.String)
}

func minutes(d time.Duration) int64 {
	return int64(d / time.Minute)
}
