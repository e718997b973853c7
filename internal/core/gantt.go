package core

import (
	"context"
	"time"

	"github.com/JonMunkholm/pmis/internal/schema"
)

// GroupBy selects what each Gantt bar represents.
type GroupBy string

const (
	GroupBySubTask GroupBy = "sub_task" // one bar per task row, labelled "Task : Sub_Task"
	GroupByTask    GroupBy = "task"     // one bar per task group, spanning its rows
	GroupByOwner   GroupBy = "owner"    // one bar per task row, labelled by owner
)

// ParseGroupBy returns the named grouping, defaulting to GroupBySubTask.
func ParseGroupBy(s string) GroupBy {
	switch GroupBy(s) {
	case GroupByTask, GroupByOwner:
		return GroupBy(s)
	default:
		return GroupBySubTask
	}
}

// GanttOptions filters and groups the schedule.
type GanttOptions struct {
	GroupBy GroupBy

	// Statuses keeps only tasks with one of these statuses. Nil selects
	// every status except the completed ones, or every status when that
	// would leave none.
	Statuses []string

	// Owners keeps only tasks with one of these owners. Nil keeps all.
	Owners []string
}

// GanttBar is one row of the schedule.
type GanttBar struct {
	Label  string    `json:"label"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
	Owner  string    `json:"owner,omitempty"`
	Count  int       `json:"count"` // tasks folded into this bar
}

// GanttChart is a filtered schedule plus the filter choices it offers.
type GanttChart struct {
	Bars     []GanttBar `json:"bars"`
	Statuses []string   `json:"statuses"` // every status present, first-seen
	Selected []string   `json:"selected"` // statuses actually applied
	Owners   []string   `json:"owners"`   // every owner present, first-seen
	Start    time.Time  `json:"start"`
	End      time.Time  `json:"end"`
}

// Gantt builds the schedule for one project, or all. Tasks whose start or
// end date cannot be parsed are left out.
func (s *Service) Gantt(ctx context.Context, projectID string, opts GanttOptions) GanttChart {
	tasks := s.Tasks(ctx, projectID)

	var chart GanttChart
	chart.Statuses = distinct(tasks, func(t Task) string { return t.Status })
	chart.Owners = distinct(tasks, func(t Task) string { return t.Owner })

	chart.Selected = opts.Statuses
	if chart.Selected == nil {
		for _, st := range chart.Statuses {
			if !schema.IsCompleted(st) {
				chart.Selected = append(chart.Selected, st)
			}
		}
		if len(chart.Selected) == 0 {
			chart.Selected = chart.Statuses
		}
	}
	statusOK := setOf(chart.Selected)
	ownerOK := setOf(opts.Owners)

	var kept []Task
	for _, t := range tasks {
		if t.StartDate.IsZero() || t.EndDate.IsZero() {
			continue
		}
		if len(statusOK) > 0 && !statusOK[t.Status] {
			continue
		}
		if len(ownerOK) > 0 && !ownerOK[t.Owner] {
			continue
		}
		kept = append(kept, t)
	}

	switch opts.GroupBy {
	case GroupByTask:
		chart.Bars = barsByTaskGroup(kept)
	case GroupByOwner:
		for _, t := range kept {
			chart.Bars = append(chart.Bars, GanttBar{Label: t.Owner, Start: t.StartDate, End: t.EndDate, Status: t.Status, Owner: t.Owner, Count: 1})
		}
	default:
		for _, t := range kept {
			label := t.SubTask
			if t.Task != "" && t.SubTask != "" {
				label = t.Task + " : " + t.SubTask
			} else if label == "" {
				label = t.Task
			}
			chart.Bars = append(chart.Bars, GanttBar{Label: label, Start: t.StartDate, End: t.EndDate, Status: t.Status, Owner: t.Owner, Count: 1})
		}
	}

	for i, b := range chart.Bars {
		if i == 0 || b.Start.Before(chart.Start) {
			chart.Start = b.Start
		}
		if i == 0 || b.End.After(chart.End) {
			chart.End = b.End
		}
	}
	return chart
}

// barsByTaskGroup folds task rows into one bar per task group, spanning the
// earliest start to the latest end, with the group's first non-empty status.
func barsByTaskGroup(tasks []Task) []GanttBar {
	idx := map[string]int{}
	var bars []GanttBar
	for _, t := range tasks {
		i, ok := idx[t.Task]
		if !ok {
			idx[t.Task] = len(bars)
			bars = append(bars, GanttBar{Label: t.Task, Start: t.StartDate, End: t.EndDate, Status: t.Status, Count: 1})
			continue
		}
		b := &bars[i]
		if t.StartDate.Before(b.Start) {
			b.Start = t.StartDate
		}
		if t.EndDate.After(b.End) {
			b.End = t.EndDate
		}
		if b.Status == "" {
			b.Status = t.Status
		}
		b.Count++
	}
	return bars
}

func distinct(tasks []Task, key func(Task) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range tasks {
		k := key(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func setOf(vals []string) map[string]bool {
	if len(vals) == 0 {
		return nil
	}
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}
