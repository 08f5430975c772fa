package task

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/shopboard/internal/dateutil"
)

// Snapshot is the full entity set of a workspace at one point in time.
// A snapshot is never modified after it is built; a reload produces a new one.
type Snapshot struct {
	WorkspaceID int64
	Tasks       []Task
	Breaks      []Break
	Devices     []Device
	Operators   []Operator
	LoadedAt    time.Time
}

// NewSnapshot builds a snapshot that owns copies of the given slices.
func NewSnapshot(workspaceID int64, tasks []Task, breaks []Break, devices []Device, operators []Operator, loadedAt time.Time) *Snapshot {
	return &Snapshot{
		WorkspaceID: workspaceID,
		Tasks:       append([]Task(nil), tasks...),
		Breaks:      append([]Break(nil), breaks...),
		Devices:     append([]Device(nil), devices...),
		Operators:   append([]Operator(nil), operators...),
		LoadedAt:    loadedAt,
	}
}

// TaskByID looks up a task.
func (s *Snapshot) TaskByID(id int64) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// BreakByID looks up a break.
func (s *Snapshot) BreakByID(id int64) (Break, bool) {
	for _, b := range s.Breaks {
		if b.ID == id {
			return b, true
		}
	}
	return Break{}, false
}

// DeviceByID looks up a device.
func (s *Snapshot) DeviceByID(id int64) (Device, bool) {
	for _, d := range s.Devices {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// OperatorByID looks up an operator.
func (s *Snapshot) OperatorByID(id int64) (Operator, bool) {
	for _, o := range s.Operators {
		if o.ID == id {
			return o, true
		}
	}
	return Operator{}, false
}

// OperatorName returns the operator's full name or a placeholder.
func (s *Snapshot) OperatorName(id int64) string {
	if o, ok := s.OperatorByID(id); ok && o.FullName != "" {
		return o.FullName
	}
	if id == 0 {
		return "unassigned"
	}
	return "operator #" + strconv.FormatInt(id, 10)
}

// DeviceName returns the device name or a placeholder.
func (s *Snapshot) DeviceName(id int64) string {
	if d, ok := s.DeviceByID(id); ok && d.Name != "" {
		return d.Name
	}
	if id == 0 {
		return "no device"
	}
	return "device #" + strconv.FormatInt(id, 10)
}

// ReferenceTime is the time that places a task on a calendar day:
// plan start, else plan end, else deadline.
func (t Task) ReferenceTime() *time.Time {
	switch {
	case t.PlanStart != nil:
		return t.PlanStart
	case t.PlanEnd != nil:
		return t.PlanEnd
	default:
		return t.Deadline
	}
}

// TasksForDate returns the tasks whose reference time falls on day.
func (s *Snapshot) TasksForDate(day time.Time) []Task {
	var out []Task
	for _, t := range s.Tasks {
		ref := t.ReferenceTime()
		if ref == nil {
			continue
		}
		if dateutil.SameDay(ref.In(day.Location()), day) {
			out = append(out, t)
		}
	}
	return out
}

// BreaksForDate returns the breaks starting on day.
func (s *Snapshot) BreaksForDate(day time.Time) []Break {
	var out []Break
	for _, b := range s.Breaks {
		if b.Start == nil {
			continue
		}
		if dateutil.SameDay(b.Start.In(day.Location()), day) {
			out = append(out, b)
		}
	}
	return out
}

// SortMode orders the day task list.
type SortMode string

const (
	SortByTask   SortMode = "task"
	SortByDevice SortMode = "device"
)

// SortTasks orders tasks by name (or device name) and then by reference time.
// The input slice is not modified.
func (s *Snapshot) SortTasks(tasks []Task, mode SortMode) []Task {
	out := append([]Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		var ka, kb string
		if mode == SortByDevice {
			ka, kb = s.DeviceName(a.DeviceID), s.DeviceName(b.DeviceID)
		} else {
			ka, kb = a.Name, b.Name
		}
		if c := strings.Compare(strings.ToLower(ka), strings.ToLower(kb)); c != 0 {
			return c < 0
		}
		return timeOrZero(a.PlanStart, a.Deadline).Before(timeOrZero(b.PlanStart, b.Deadline))
	})
	return out
}

// SortByStart orders tasks by plan start, falling back to deadline.
// The input slice is not modified.
func SortByStart(tasks []Task) []Task {
	out := append([]Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return timeOrZero(out[i].PlanStart, out[i].Deadline).Before(timeOrZero(out[j].PlanStart, out[j].Deadline))
	})
	return out
}

func timeOrZero(primary, fallback *time.Time) time.Time {
	if primary != nil {
		return *primary
	}
	if fallback != nil {
		return *fallback
	}
	return time.Time{}
}
