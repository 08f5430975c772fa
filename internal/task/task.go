// Package task defines the core domain types for shopboard.
package task

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEndBeforeStart   = errors.New("end time must not be before start time")
	ErrInvalidBreakKind = errors.New("break kind must be 'lunch' or 'off_duty'")
	ErrInvalidDuration  = errors.New("durations cannot be negative")
)

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrBreakNotFound     = errors.New("break not found")
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// BreakKind classifies an operator break.
type BreakKind string

const (
	BreakLunch   BreakKind = "lunch"
	BreakOffDuty BreakKind = "off_duty"
)

// Valid returns true if the kind is a known value.
func (k BreakKind) Valid() bool {
	switch k {
	case BreakLunch, BreakOffDuty:
		return true
	default:
		return false
	}
}

// ParseBreakKind parses a stored kind. An empty string is rejected.
func ParseBreakKind(s string) (BreakKind, error) {
	k := BreakKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", ErrInvalidBreakKind
	}
	return k, nil
}

// KindFromName resolves the kind of a break that was stored without one.
// Labels mentioning lunch are lunch breaks; anything else is off duty.
func KindFromName(name string) BreakKind {
	n := strings.ToLower(name)
	if strings.Contains(n, "lunch") || strings.Contains(n, "обед") {
		return BreakLunch
	}
	return BreakOffDuty
}

// Task is a device job placed on the board.
type Task struct {
	ID            int64
	WorkspaceID   int64
	Name          string
	DocNum        string
	PhotoURL      string
	DeviceID      int64
	OperatorID    int64 // 0 means unassigned
	PriorityID    int64
	TypeID        int64
	NeedOperator  bool
	InRecommender bool
	Deadline      *time.Time
	PlanStart     *time.Time
	PlanEnd       *time.Time
	Duration      time.Duration
	SetupTime     time.Duration
	UnloadTime    time.Duration
}

// Dated returns true if both plan start and plan end are set.
func (t Task) Dated() bool {
	return t.PlanStart != nil && t.PlanEnd != nil
}

// TotalDuration returns setup, run and unload time combined.
// A zero total falls back to the planned span, then to one hour.
func (t Task) TotalDuration() time.Duration {
	total := t.SetupTime + t.Duration + t.UnloadTime
	if total > 0 {
		return total
	}
	if t.Dated() && t.PlanEnd.After(*t.PlanStart) {
		return t.PlanEnd.Sub(*t.PlanStart)
	}
	return time.Hour
}

// Validate checks the task's fields.
func (t Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.Duration < 0 || t.SetupTime < 0 || t.UnloadTime < 0 {
		return ErrInvalidDuration
	}
	if t.Dated() && t.PlanEnd.Before(*t.PlanStart) {
		return ErrEndBeforeStart
	}
	return nil
}

// WithSchedule returns a copy of the task planned for [start, end).
func (t Task) WithSchedule(start, end time.Time) Task {
	t.PlanStart = &start
	t.PlanEnd = &end
	return t
}

// Break is a period when an operator is unavailable.
type Break struct {
	ID          int64
	WorkspaceID int64
	OperatorID  int64
	Name        string
	Kind        BreakKind
	Priority    int
	Start       *time.Time
	End         *time.Time
}

// Dated returns true if both start and end are set.
func (b Break) Dated() bool {
	return b.Start != nil && b.End != nil
}

// Validate checks the break's fields.
func (b Break) Validate() error {
	if !b.Kind.Valid() {
		return ErrInvalidBreakKind
	}
	if b.Dated() && b.End.Before(*b.Start) {
		return ErrEndBeforeStart
	}
	return nil
}

// WithSchedule returns a copy of the break moved to [start, end).
func (b Break) WithSchedule(start, end time.Time) Break {
	b.Start = &start
	b.End = &end
	return b
}

// Device is a machine tasks run on.
type Device struct {
	ID            int64
	WorkspaceID   int64
	Name          string
	PhotoURL      string
	TypeID        int64
	StateID       int64
	InRecommender bool
}

// Operator is a person attending devices.
type Operator struct {
	ID          int64
	WorkspaceID int64
	FullName    string
	Phone       string
	UserLogin   string
}

// Workspace groups the entities of one shop.
type Workspace struct {
	ID   int64
	Name string
}
