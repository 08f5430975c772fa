// Package conflict detects scheduling conflicts between board items.
//
// Device overlaps block a reschedule. Break overlaps are advisory and only
// produce a warning.
package conflict

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/javiermolinar/shopboard/internal/task"
)

// ErrDeviceOverlap is returned when a task would share its device with
// another task.
var ErrDeviceOverlap = errors.New("tasks cannot overlap on the same device")

// FindDeviceOverlap returns the first other task on t's device whose plan
// window intersects [start, end). Undated tasks never conflict.
func FindDeviceOverlap(s *task.Snapshot, t task.Task, start, end time.Time) (task.Task, bool) {
	for _, other := range s.Tasks {
		if other.ID == t.ID || other.DeviceID != t.DeviceID || !other.Dated() {
			continue
		}
		if task.Overlaps(start, end, *other.PlanStart, *other.PlanEnd) {
			return other, true
		}
	}
	return task.Task{}, false
}

// CheckDevice returns an ErrDeviceOverlap error naming the conflicting task,
// or nil.
func CheckDevice(s *task.Snapshot, t task.Task, start, end time.Time) error {
	other, ok := FindDeviceOverlap(s, t, start, end)
	if !ok {
		return nil
	}
	return fmt.Errorf("%w: conflicts with #%d %q (%s-%s) on %s",
		ErrDeviceOverlap, other.ID, other.Name,
		task.FormatClock(other.PlanStart), task.FormatClock(other.PlanEnd),
		s.DeviceName(other.DeviceID))
}

// BreakOverlap is a task planned over one or more breaks of its operator.
type BreakOverlap struct {
	Task         task.Task
	OperatorName string
	Breaks       []task.Break
}

// Message returns the warning shown to the user.
func (o BreakOverlap) Message() string {
	return fmt.Sprintf("Task %q of operator %s overlaps their break", o.Task.Name, o.OperatorName)
}

// FindBreakOverlaps returns the breaks of t's operator that intersect
// [start, end). Tasks without an operator have no breaks.
func FindBreakOverlaps(s *task.Snapshot, t task.Task, start, end time.Time) []task.Break {
	if t.OperatorID == 0 {
		return nil
	}
	var out []task.Break
	for _, b := range s.Breaks {
		if b.OperatorID != t.OperatorID || !b.Dated() {
			continue
		}
		if task.Overlaps(start, end, *b.Start, *b.End) {
			out = append(out, b)
		}
	}
	return out
}

// CheckBreaks reports whether t, planned for [start, end), overlaps a break.
func CheckBreaks(s *task.Snapshot, t task.Task, start, end time.Time) (BreakOverlap, bool) {
	breaks := FindBreakOverlaps(s, t, start, end)
	if len(breaks) == 0 {
		return BreakOverlap{}, false
	}
	return BreakOverlap{
		Task:         t,
		OperatorName: s.OperatorName(t.OperatorID),
		Breaks:       breaks,
	}, true
}

// SweepBreakOverlaps checks every dated task's plan window against its
// operator's breaks. Run after a plan recompute.
func SweepBreakOverlaps(s *task.Snapshot) []BreakOverlap {
	var out []BreakOverlap
	for _, t := range s.Tasks {
		if !t.Dated() {
			continue
		}
		if o, ok := CheckBreaks(s, t, *t.PlanStart, *t.PlanEnd); ok {
			out = append(out, o)
		}
	}
	return out
}

// DevicePair is two tasks booked on the same device at the same time.
type DevicePair struct {
	DeviceID int64
	First    task.Task
	Second   task.Task
}

// Report lists every conflict in a snapshot.
type Report struct {
	Devices []DevicePair
	Breaks  []BreakOverlap
}

// Empty returns true if no conflicts were found.
func (r Report) Empty() bool {
	return len(r.Devices) == 0 && len(r.Breaks) == 0
}

// Scan finds all device overlaps and break overlaps in s.
func Scan(s *task.Snapshot) Report {
	byDevice := map[int64][]task.Task{}
	for _, t := range s.Tasks {
		if t.Dated() {
			byDevice[t.DeviceID] = append(byDevice[t.DeviceID], t)
		}
	}
	deviceIDs := make([]int64, 0, len(byDevice))
	for id := range byDevice {
		deviceIDs = append(deviceIDs, id)
	}
	sort.Slice(deviceIDs, func(i, j int) bool { return deviceIDs[i] < deviceIDs[j] })

	var r Report
	for _, id := range deviceIDs {
		tasks := task.SortByStart(byDevice[id])
		for i := 0; i < len(tasks); i++ {
			for j := i + 1; j < len(tasks); j++ {
				a, b := tasks[i], tasks[j]
				if task.Overlaps(*a.PlanStart, *a.PlanEnd, *b.PlanStart, *b.PlanEnd) {
					r.Devices = append(r.Devices, DevicePair{DeviceID: id, First: a, Second: b})
				}
			}
		}
	}
	r.Breaks = SweepBreakOverlaps(s)
	return r
}
