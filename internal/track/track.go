// Package track arranges snapshot entities into board rows.
//
// Two layouts exist. Single rows hold the bars of one subject on one line
// (a task, or every task of a device). Stacked rows give each task and break
// of an operator its own lane, in insertion order, so overlapping items stay
// visible. Lanes are not packed by time.
package track

import (
	"fmt"
	"time"

	"github.com/javiermolinar/shopboard/internal/task"
)

// Layout constants for the stacked operator rows, in pixels.
const (
	MinRowHeight = 50
	ItemHeight   = 34
	LanePitch    = 32
	LanePadding  = 12
)

// Kind identifies what a bar refers to.
type Kind string

const (
	KindTask  Kind = "task"
	KindBreak Kind = "break"
)

// Ref points at the entity behind a bar.
type Ref struct {
	Kind Kind  `json:"kind"`
	ID   int64 `json:"id"`
}

// Valid returns true if the ref names a persisted entity.
func (r Ref) Valid() bool {
	return r.ID > 0 && (r.Kind == KindTask || r.Kind == KindBreak)
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d", r.Kind, r.ID)
}

// Item is one schedulable entry on a track.
type Item struct {
	Ref        Ref
	Name       string
	Start      *time.Time
	End        *time.Time
	EndDerived bool // End was computed from the duration, not stored
	DeviceID   int64
	OperatorID int64
	BreakKind  task.BreakKind // set for breaks only
}

// IsBreak returns true for operator breaks.
func (it Item) IsBreak() bool {
	return it.Ref.Kind == KindBreak
}

// HasStoredWindow returns true if both bounds come from the record itself.
func (it Item) HasStoredWindow() bool {
	return it.Start != nil && it.End != nil && !it.EndDerived
}

// FromTask converts a task. A missing plan end is derived from the duration
// so the bar can still be drawn.
func FromTask(t task.Task) Item {
	it := Item{
		Ref:        Ref{Kind: KindTask, ID: t.ID},
		Name:       t.Name,
		Start:      t.PlanStart,
		End:        t.PlanEnd,
		DeviceID:   t.DeviceID,
		OperatorID: t.OperatorID,
	}
	if it.End == nil && it.Start != nil && t.Duration > 0 {
		end := it.Start.Add(t.Duration)
		it.End = &end
		it.EndDerived = true
	}
	return it
}

// FromBreak converts a break.
func FromBreak(b task.Break) Item {
	return Item{
		Ref:        Ref{Kind: KindBreak, ID: b.ID},
		Name:       b.Name,
		Start:      b.Start,
		End:        b.End,
		OperatorID: b.OperatorID,
		BreakKind:  b.Kind,
	}
}

// Lane is an item and its vertical offset within the row.
type Lane struct {
	Item Item
	Top  int
}

// Row is one horizontal track of the board.
type Row struct {
	Key     string
	Stacked bool
	Height  int
	Lanes   []Lane

	// Exactly one subject is set, depending on the layout.
	Task     *task.Task
	Device   *task.Device
	Operator *task.Operator
}

// StackedHeight returns the minimum height of a stacked row with n items.
func StackedHeight(n int) int {
	return max(MinRowHeight, n*ItemHeight+LanePadding)
}

// LaneTop returns the top offset of the i-th lane in a stacked row.
func LaneTop(i int) int {
	return LanePadding + i*LanePitch
}

// ForTasks builds one row per task, in the given order.
func ForTasks(tasks []task.Task) []Row {
	rows := make([]Row, 0, len(tasks))
	for i := range tasks {
		t := tasks[i]
		rows = append(rows, Row{
			Key:    fmt.Sprintf("task:%d", t.ID),
			Height: MinRowHeight,
			Lanes:  []Lane{{Item: FromTask(t), Top: LanePadding}},
			Task:   &t,
		})
	}
	return rows
}

// ForDevices builds one row per device holding every task booked on it.
func ForDevices(devices []task.Device, tasks []task.Task) []Row {
	rows := make([]Row, 0, len(devices))
	for i := range devices {
		d := devices[i]
		var lanes []Lane
		for _, t := range tasks {
			if t.DeviceID == d.ID {
				lanes = append(lanes, Lane{Item: FromTask(t), Top: LanePadding})
			}
		}
		rows = append(rows, Row{
			Key:    fmt.Sprintf("device:%d", d.ID),
			Height: MinRowHeight,
			Lanes:  lanes,
			Device: &d,
		})
	}
	return rows
}

// ForOperators builds one stacked row per operator: their tasks first, then
// their breaks. Undated items keep their lane so later items do not shift.
func ForOperators(operators []task.Operator, tasks []task.Task, breaks []task.Break) []Row {
	rows := make([]Row, 0, len(operators))
	for i := range operators {
		op := operators[i]
		var items []Item
		for _, t := range tasks {
			if t.OperatorID == op.ID {
				items = append(items, FromTask(t))
			}
		}
		for _, b := range breaks {
			if b.OperatorID == op.ID {
				items = append(items, FromBreak(b))
			}
		}
		lanes := make([]Lane, len(items))
		for j, it := range items {
			lanes[j] = Lane{Item: it, Top: LaneTop(j)}
		}
		rows = append(rows, Row{
			Key:      fmt.Sprintf("operator:%d", op.ID),
			Stacked:  true,
			Height:   StackedHeight(len(items)),
			Lanes:    lanes,
			Operator: &op,
		})
	}
	return rows
}

// Items returns every item on the rows, in row then lane order.
func Items(rows []Row) []Item {
	var out []Item
	for _, r := range rows {
		for _, l := range r.Lanes {
			out = append(out, l.Item)
		}
	}
	return out
}
