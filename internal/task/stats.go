package task

import "time"

// DayStats summarises the day's tasks relative to now.
type DayStats struct {
	InProgress    int
	Pending       int
	Done          int
	ClosestEnd    *time.Time
	NextStart     *time.Time
	DeviceLoadPct int
}

// StatsFor computes the home view summary for the tasks of one day.
// Device load is the share of devices running a task right now.
func StatsFor(tasks []Task, deviceCount int, now time.Time) DayStats {
	var st DayStats
	for _, t := range tasks {
		if t.Dated() && !t.PlanStart.After(now) && !now.After(*t.PlanEnd) {
			st.InProgress++
			if st.ClosestEnd == nil || t.PlanEnd.Before(*st.ClosestEnd) {
				st.ClosestEnd = t.PlanEnd
			}
		}
		if t.PlanStart != nil && t.PlanStart.After(now) {
			st.Pending++
			if st.NextStart == nil || t.PlanStart.Before(*st.NextStart) {
				st.NextStart = t.PlanStart
			}
		}
		if t.PlanEnd != nil && t.PlanEnd.Before(now) {
			st.Done++
		}
	}
	if deviceCount > 0 {
		st.DeviceLoadPct = int(float64(st.InProgress)/float64(deviceCount)*100 + 0.5)
	}
	return st
}
