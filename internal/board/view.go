package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
)

// View is one page of the board.
type View string

const (
	ViewHome      View = "home"
	ViewTasks     View = "tasks"
	ViewDevices   View = "devices"
	ViewOperators View = "operators"
)

// Views lists the views in tab order.
func Views() []View {
	return []View{ViewHome, ViewTasks, ViewDevices, ViewOperators}
}

// ParseView parses a view name.
func ParseView(s string) (View, error) {
	v := View(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Views() {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Title is the heading shown above the view.
func (v View) Title() string {
	switch v {
	case ViewHome:
		return "Today"
	case ViewTasks:
		return "Tasks"
	case ViewDevices:
		return "Devices"
	case ViewOperators:
		return "Operators"
	default:
		return string(v)
	}
}

// Rows builds the track rows of view v from snap.
//
// home lists the tasks of today ordered by start. tasks lists the tasks of
// day in the requested order. devices has one row per device and operators
// one stacked row per operator, both filtered to day.
func Rows(snap *task.Snapshot, v View, day, today time.Time, mode task.SortMode) []track.Row {
	switch v {
	case ViewHome:
		return track.ForTasks(task.SortByStart(snap.TasksForDate(today)))
	case ViewTasks:
		return track.ForTasks(snap.SortTasks(snap.TasksForDate(day), mode))
	case ViewDevices:
		return track.ForDevices(snap.Devices, snap.TasksForDate(day))
	case ViewOperators:
		return track.ForOperators(snap.Operators, snap.TasksForDate(day), snap.BreaksForDate(day))
	default:
		return nil
	}
}

// Label returns the row labeller for snap.
func Label(snap *task.Snapshot) render.LabelFunc {
	return func(r track.Row) string {
		switch {
		case r.Task != nil:
			name := r.Task.Name
			if r.Task.DocNum != "" {
				name = r.Task.DocNum + " " + name
			}
			return name + " · " + snap.DeviceName(r.Task.DeviceID)
		case r.Device != nil:
			return r.Device.Name
		case r.Operator != nil:
			return r.Operator.FullName
		default:
			return r.Key
		}
	}
}
