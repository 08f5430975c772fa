package api

import (
	"time"

	"github.com/javiermolinar/shopboard/internal/task"
)

// TaskDTO is the wire form of a task. Durations are whole minutes.
type TaskDTO struct {
	ID            int64      `json:"id"`
	WorkspaceID   int64      `json:"workspace_id"`
	Name          string     `json:"name"`
	DocNum        string     `json:"doc_num,omitempty"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	DeviceID      int64      `json:"device_id"`
	OperatorID    int64      `json:"operator_id"`
	PriorityID    int64      `json:"priority_id"`
	TypeID        int64      `json:"device_task_type_id"`
	NeedOperator  bool       `json:"need_operator"`
	InRecommender bool       `json:"add_in_rec_system"`
	Deadline      *time.Time `json:"deadline"`
	PlanStart     *time.Time `json:"plan_start"`
	PlanEnd       *time.Time `json:"plan_end"`
	DurationMin   int        `json:"duration_min"`
	SetupTimeMin  int        `json:"setup_time_min"`
	UnloadTimeMin int        `json:"unload_time_min"`
}

// BreakDTO is the wire form of a break.
type BreakDTO struct {
	ID          int64      `json:"id"`
	WorkspaceID int64      `json:"workspace_id"`
	OperatorID  int64      `json:"operator_id"`
	Name        string     `json:"name"`
	Kind        string     `json:"kind,omitempty"`
	Priority    int        `json:"priority"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
}

// DeviceDTO is the wire form of a device.
type DeviceDTO struct {
	ID            int64  `json:"id"`
	WorkspaceID   int64  `json:"workspace_id"`
	Name          string `json:"name"`
	PhotoURL      string `json:"photo_url,omitempty"`
	TypeID        int64  `json:"device_type_id"`
	StateID       int64  `json:"device_state_id"`
	InRecommender bool   `json:"add_in_rec_system"`
}

// OperatorDTO is the wire form of an operator.
type OperatorDTO struct {
	ID          int64  `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	FullName    string `json:"full_name"`
	Phone       string `json:"phone,omitempty"`
	UserLogin   string `json:"user_login,omitempty"`
}

// SnapshotDTO is the wire form of a workspace snapshot.
type SnapshotDTO struct {
	WorkspaceID int64         `json:"workspace_id"`
	Tasks       []TaskDTO     `json:"tasks"`
	Breaks      []BreakDTO    `json:"breaks"`
	Devices     []DeviceDTO   `json:"devices"`
	Operators   []OperatorDTO `json:"operators"`
	LoadedAt    time.Time     `json:"loaded_at"`
}

// WorkspaceDTO is the wire form of a workspace.
type WorkspaceDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func minutesOf(d time.Duration) int {
	return int(d / time.Minute)
}

func fromMinutes(m int) time.Duration {
	return time.Duration(m) * time.Minute
}

// NewTaskDTO converts a task.
func NewTaskDTO(t task.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID,
		WorkspaceID:   t.WorkspaceID,
		Name:          t.Name,
		DocNum:        t.DocNum,
		PhotoURL:      t.PhotoURL,
		DeviceID:      t.DeviceID,
		OperatorID:    t.OperatorID,
		PriorityID:    t.PriorityID,
		TypeID:        t.TypeID,
		NeedOperator:  t.NeedOperator,
		InRecommender: t.InRecommender,
		Deadline:      t.Deadline,
		PlanStart:     t.PlanStart,
		PlanEnd:       t.PlanEnd,
		DurationMin:   minutesOf(t.Duration),
		SetupTimeMin:  minutesOf(t.SetupTime),
		UnloadTimeMin: minutesOf(t.UnloadTime),
	}
}

// Task converts back to a task.
func (d TaskDTO) Task() task.Task {
	return task.Task{
		ID:            d.ID,
		WorkspaceID:   d.WorkspaceID,
		Name:          d.Name,
		DocNum:        d.DocNum,
		PhotoURL:      d.PhotoURL,
		DeviceID:      d.DeviceID,
		OperatorID:    d.OperatorID,
		PriorityID:    d.PriorityID,
		TypeID:        d.TypeID,
		NeedOperator:  d.NeedOperator,
		InRecommender: d.InRecommender,
		Deadline:      d.Deadline,
		PlanStart:     d.PlanStart,
		PlanEnd:       d.PlanEnd,
		Duration:      fromMinutes(d.DurationMin),
		SetupTime:     fromMinutes(d.SetupTimeMin),
		UnloadTime:    fromMinutes(d.UnloadTimeMin),
	}
}

// NewBreakDTO converts a break.
func NewBreakDTO(b task.Break) BreakDTO {
	return BreakDTO{
		ID:          b.ID,
		WorkspaceID: b.WorkspaceID,
		OperatorID:  b.OperatorID,
		Name:        b.Name,
		Kind:        string(b.Kind),
		Priority:    b.Priority,
		Start:       b.Start,
		End:         b.End,
	}
}

// Break converts back to a break. A missing or unknown kind resolves from
// the name.
func (d BreakDTO) Break() task.Break {
	kind, err := task.ParseBreakKind(d.Kind)
	if err != nil {
		kind = task.KindFromName(d.Name)
	}
	return task.Break{
		ID:          d.ID,
		WorkspaceID: d.WorkspaceID,
		OperatorID:  d.OperatorID,
		Name:        d.Name,
		Kind:        kind,
		Priority:    d.Priority,
		Start:       d.Start,
		End:         d.End,
	}
}

// NewSnapshotDTO converts a snapshot.
func NewSnapshotDTO(s *task.Snapshot) SnapshotDTO {
	out := SnapshotDTO{
		WorkspaceID: s.WorkspaceID,
		Tasks:       make([]TaskDTO, 0, len(s.Tasks)),
		Breaks:      make([]BreakDTO, 0, len(s.Breaks)),
		Devices:     make([]DeviceDTO, 0, len(s.Devices)),
		Operators:   make([]OperatorDTO, 0, len(s.Operators)),
		LoadedAt:    s.LoadedAt,
	}
	for _, t := range s.Tasks {
		out.Tasks = append(out.Tasks, NewTaskDTO(t))
	}
	for _, b := range s.Breaks {
		out.Breaks = append(out.Breaks, NewBreakDTO(b))
	}
	for _, d := range s.Devices {
		out.Devices = append(out.Devices, DeviceDTO{
			ID: d.ID, WorkspaceID: d.WorkspaceID, Name: d.Name, PhotoURL: d.PhotoURL,
			TypeID: d.TypeID, StateID: d.StateID, InRecommender: d.InRecommender,
		})
	}
	for _, o := range s.Operators {
		out.Operators = append(out.Operators, OperatorDTO{
			ID: o.ID, WorkspaceID: o.WorkspaceID, FullName: o.FullName, Phone: o.Phone, UserLogin: o.UserLogin,
		})
	}
	return out
}

// Snapshot converts back to a snapshot.
func (d SnapshotDTO) Snapshot() *task.Snapshot {
	tasks := make([]task.Task, 0, len(d.Tasks))
	for _, t := range d.Tasks {
		tasks = append(tasks, t.Task())
	}
	breaks := make([]task.Break, 0, len(d.Breaks))
	for _, b := range d.Breaks {
		breaks = append(breaks, b.Break())
	}
	devices := make([]task.Device, 0, len(d.Devices))
	for _, v := range d.Devices {
		devices = append(devices, task.Device{
			ID: v.ID, WorkspaceID: v.WorkspaceID, Name: v.Name, PhotoURL: v.PhotoURL,
			TypeID: v.TypeID, StateID: v.StateID, InRecommender: v.InRecommender,
		})
	}
	operators := make([]task.Operator, 0, len(d.Operators))
	for _, o := range d.Operators {
		operators = append(operators, task.Operator{
			ID: o.ID, WorkspaceID: o.WorkspaceID, FullName: o.FullName, Phone: o.Phone, UserLogin: o.UserLogin,
		})
	}
	return task.NewSnapshot(d.WorkspaceID, tasks, breaks, devices, operators, d.LoadedAt)
}

// RescheduleRequest asks the server to move one item, as if it had been
// dragged on the board.
type RescheduleRequest struct {
	Kind  string    `json:"kind"` // "task" or "break"
	ID    int64     `json:"id"`
	Start time.Time `json:"start"`
}

// RescheduleResponse reports a headless drop.
type RescheduleResponse struct {
	Status  string     `json:"status"` // committed, rejected, failed
	Error   string     `json:"error,omitempty"`
	Warning string     `json:"warning,omitempty"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

// RecomputeRequest selects the workspace to re-plan.
type RecomputeRequest struct {
	WorkspaceID int64 `json:"workspace_id"`
}

// RecomputeResponse reports a recompute and the break overlaps it left.
type RecomputeResponse struct {
	Updated        int      `json:"updated"`
	UnscheduledIDs []int64  `json:"unscheduled_ids"`
	Warnings       []string `json:"warnings,omitempty"`
}
