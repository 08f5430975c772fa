package db

import (
	"context"
	"fmt"
	"time"

	"github.com/javiermolinar/shopboard/internal/task"
)

// Seed creates a demo workspace populated with devices, operators, tasks
// and breaks around day. It returns the new workspace ID.
func Seed(ctx context.Context, repo task.Repository, name string, day time.Time) (int64, error) {
	ws := &task.Workspace{Name: name}
	if err := repo.CreateWorkspace(ctx, ws); err != nil {
		return 0, fmt.Errorf("creating workspace: %w", err)
	}

	devices := []*task.Device{
		{WorkspaceID: ws.ID, Name: "Lathe 1", TypeID: 1, InRecommender: true},
		{WorkspaceID: ws.ID, Name: "Mill 2", TypeID: 2, InRecommender: true},
		{WorkspaceID: ws.ID, Name: "Press 3", TypeID: 3},
	}
	for _, d := range devices {
		if err := repo.CreateDevice(ctx, d); err != nil {
			return 0, fmt.Errorf("creating device %q: %w", d.Name, err)
		}
	}

	operators := []*task.Operator{
		{WorkspaceID: ws.ID, FullName: "Anna Sokolova", UserLogin: "asokolova"},
		{WorkspaceID: ws.ID, FullName: "Boris Orlov", UserLogin: "borlov"},
		{WorkspaceID: ws.ID, FullName: "Vera Kuznetsova", UserLogin: "vkuznetsova"},
	}
	for _, o := range operators {
		if err := repo.CreateOperator(ctx, o); err != nil {
			return 0, fmt.Errorf("creating operator %q: %w", o.FullName, err)
		}
	}

	clock := func(h, m int) *time.Time {
		v := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, day.Location())
		return &v
	}

	tasks := []*task.Task{
		{Name: "Shaft turning", DocNum: "WO-101", DeviceID: devices[0].ID, OperatorID: operators[0].ID,
			PlanStart: clock(9, 0), PlanEnd: clock(11, 0), Duration: 110 * time.Minute, SetupTime: 10 * time.Minute, PriorityID: 1},
		{Name: "Flange facing", DocNum: "WO-102", DeviceID: devices[0].ID, OperatorID: operators[0].ID,
			PlanStart: clock(11, 30), PlanEnd: clock(12, 45), Duration: 75 * time.Minute, PriorityID: 2},
		{Name: "Bracket milling", DocNum: "WO-103", DeviceID: devices[1].ID, OperatorID: operators[1].ID,
			PlanStart: clock(10, 0), PlanEnd: clock(13, 30), Duration: 3*time.Hour + 30*time.Minute, PriorityID: 1},
		{Name: "Housing pocket", DocNum: "WO-104", DeviceID: devices[1].ID, OperatorID: operators[1].ID,
			PlanStart: clock(15, 0), Duration: 90 * time.Minute, PriorityID: 3},
		{Name: "Panel stamping", DocNum: "WO-105", DeviceID: devices[2].ID, OperatorID: operators[2].ID,
			PlanStart: clock(14, 0), PlanEnd: clock(16, 0), Duration: 2 * time.Hour, PriorityID: 2, NeedOperator: true},
		{Name: "Bushing batch", DocNum: "WO-106", DeviceID: devices[0].ID,
			Deadline: clock(20, 0), Duration: time.Hour, UnloadTime: 15 * time.Minute, PriorityID: 2, InRecommender: true},
		{Name: "Gear blank", DocNum: "WO-107", DeviceID: devices[2].ID,
			Deadline: clock(21, 0), Duration: 45 * time.Minute, PriorityID: 3, InRecommender: true},
	}
	for _, t := range tasks {
		t.WorkspaceID = ws.ID
		if err := repo.CreateTask(ctx, t); err != nil {
			return 0, fmt.Errorf("creating task %q: %w", t.Name, err)
		}
	}

	breaks := []*task.Break{
		{OperatorID: operators[0].ID, Name: "Lunch", Kind: task.BreakLunch, Start: clock(13, 0), End: clock(14, 0)},
		{OperatorID: operators[1].ID, Name: "Lunch", Kind: task.BreakLunch, Start: clock(13, 0), End: clock(14, 0)},
		{OperatorID: operators[2].ID, Name: "Lunch", Kind: task.BreakLunch, Start: clock(12, 0), End: clock(13, 0)},
		{OperatorID: operators[2].ID, Name: "Safety briefing", Kind: task.BreakOffDuty, Start: clock(17, 0), End: clock(18, 0)},
	}
	for _, b := range breaks {
		b.WorkspaceID = ws.ID
		if err := repo.CreateBreak(ctx, b); err != nil {
			return 0, fmt.Errorf("creating break %q: %w", b.Name, err)
		}
	}

	return ws.ID, nil
}
