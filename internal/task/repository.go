package task

import "context"

// Loader fetches the entity snapshot of a workspace.
type Loader interface {
	// LoadEntities returns every task, break, device and operator of the workspace.
	LoadEntities(ctx context.Context, workspaceID int64) (*Snapshot, error)
}

// ScheduleSaver persists schedule changes proposed by the board.
type ScheduleSaver interface {
	// SaveTaskSchedule stores the full task record, including its new plan window.
	// Returns ErrTaskNotFound if the task does not exist.
	SaveTaskSchedule(ctx context.Context, t Task) error

	// SaveBreakSchedule stores the full break record, including its new window.
	// Returns ErrBreakNotFound if the break does not exist.
	SaveBreakSchedule(ctx context.Context, b Break) error
}

// Repository defines the storage interface for workspace entities.
type Repository interface {
	Loader
	ScheduleSaver

	// CreateWorkspace adds a workspace and sets its ID.
	CreateWorkspace(ctx context.Context, w *Workspace) error

	// ListWorkspaces returns all workspaces ordered by ID.
	ListWorkspaces(ctx context.Context) ([]Workspace, error)

	// CreateDevice adds a device and sets its ID.
	CreateDevice(ctx context.Context, d *Device) error

	// CreateOperator adds an operator and sets its ID.
	CreateOperator(ctx context.Context, o *Operator) error

	// CreateTask adds a task and sets its ID.
	CreateTask(ctx context.Context, t *Task) error

	// CreateBreak adds a break and sets its ID.
	CreateBreak(ctx context.Context, b *Break) error

	// BatchSaveTaskSchedules stores several plan windows atomically.
	// Used by the plan recompute.
	BatchSaveTaskSchedules(ctx context.Context, tasks []Task) error

	// Close releases any resources held by the repository.
	Close() error
}
