package tui

import (
	"fmt"
	"strconv"

	"github.com/javiermolinar/shopboard/internal/render"
	"github.com/javiermolinar/shopboard/internal/task"
	"github.com/javiermolinar/shopboard/internal/track"
	"github.com/javiermolinar/shopboard/internal/tui/view"
)

// detailFields describes the entity behind ref for the detail modal and the
// clipboard.
func (m Model) detailFields(ref track.Ref) (string, []view.Field, bool) {
	if !ref.Valid() {
		return "", nil, false
	}
	snap := m.board.Snapshot()
	now := m.now()

	switch ref.Kind {
	case track.KindTask:
		t, ok := snap.TaskByID(ref.ID)
		if !ok {
			return "", nil, false
		}
		title := t.Name
		if t.DocNum != "" {
			title = t.DocNum + " " + t.Name
		}
		fields := []view.Field{
			{Label: "Status", Value: render.StatusFor(track.FromTask(t), now).Label()},
			{Label: "Time", Value: view.FormatRange(t.PlanStart, t.PlanEnd)},
			{Label: "Device", Value: snap.DeviceName(t.DeviceID)},
			{Label: "Operator", Value: snap.OperatorName(t.OperatorID)},
			{Label: "Duration", Value: durationText(t)},
		}
		if t.Deadline != nil {
			fields = append(fields, view.Field{Label: "Deadline", Value: t.Deadline.Format("2006-01-02 15:04")})
		}
		if t.PriorityID != 0 {
			fields = append(fields, view.Field{Label: "Priority", Value: strconv.FormatInt(t.PriorityID, 10)})
		}
		return title, fields, true

	case track.KindBreak:
		b, ok := snap.BreakByID(ref.ID)
		if !ok {
			return "", nil, false
		}
		status := render.StatusFor(track.FromBreak(b), now)
		fields := []view.Field{
			{Label: "Kind", Value: status.Label()},
			{Label: "Time", Value: view.FormatRange(b.Start, b.End)},
			{Label: "Operator", Value: snap.OperatorName(b.OperatorID)},
		}
		return b.Name, fields, true
	}
	return "", nil, false
}

func durationText(t task.Task) string {
	total := view.FormatDuration(t.TotalDuration())
	if t.SetupTime == 0 && t.UnloadTime == 0 {
		return total
	}
	return fmt.Sprintf("%s (setup %s, run %s, unload %s)", total,
		view.FormatDuration(t.SetupTime), view.FormatDuration(t.Duration), view.FormatDuration(t.UnloadTime))
}

func (m Model) renderDetail() (string, bool) {
	title, fields, ok := m.detailFields(m.selected)
	if !ok {
		return "", false
	}
	body := view.RenderDetailBody(fields, m.styles.Detail)
	footer := view.RenderModalButtons(m.styles.Modal, "[Esc] Close", "[y] Copy")
	return view.RenderModalFrame(title, body, footer, m.styles.Modal), true
}
