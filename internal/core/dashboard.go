package core

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/table"
)

// Count is a labelled tally for charts.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardKPIs are the headline figures of the dashboard page.
type DashboardKPIs struct {
	// Project is the selected project, or the first registered one when all
	// projects are selected. Nil when the register is empty or the selected
	// project does not exist.
	Project *Project `json:"project,omitempty"`

	Stats           ProjectStats `json:"stats"`
	TotalTasks      int          `json:"totalTasks"`
	CompletedTasks  int          `json:"completedTasks"`
	InProgressTasks int          `json:"inProgressTasks"`
	RemainingTasks  int          `json:"remainingTasks"`

	Budget      float64 `json:"budget"`
	HasDeadline bool    `json:"hasDeadline"`
	DaysLeft    int     `json:"daysLeft"` // negative once the deadline has passed

	StatusCounts []Count `json:"statusCounts"` // first-seen order
	Workload     []Count `json:"workload"`     // ascending by count
}

// DeadlinePassed reports whether the project end date is in the past.
func (k DashboardKPIs) DeadlinePassed() bool { return k.HasDeadline && k.DaysLeft < 0 }

// Dashboard computes the KPIs for a selection. Progress is quantity-based,
// the same figure GetProjectStats reports.
func (s *Service) Dashboard(ctx context.Context, sel Selection) DashboardKPIs {
	var kpi DashboardKPIs

	projects := s.Projects(ctx)
	var tasks table.Table
	if sel.AllProjects() {
		if len(projects) > 0 {
			kpi.Project = &projects[0]
		}
		tasks = s.LoadTable(ctx, schema.TableTasks)
	} else {
		for i := range projects {
			if projects[i].ID == sel.ProjectID {
				kpi.Project = &projects[i]
				break
			}
		}
		if kpi.Project != nil {
			tasks = s.TaskTable(ctx, sel.ProjectID)
		}
	}

	if !tasks.Empty() {
		kpi.Stats = quantityStats(ctx, tasks)
	}
	kpi.TotalTasks = tasks.Len()
	for _, r := range tasks.Rows {
		switch schema.ClassifyStatus(r.String(schema.ColStatus)) {
		case schema.StatusCompleted:
			kpi.CompletedTasks++
		case schema.StatusInProgress:
			kpi.InProgressTasks++
		}
	}
	kpi.RemainingTasks = kpi.TotalTasks - kpi.CompletedTasks
	kpi.StatusCounts = countBy(tasks, schema.ColStatus)
	kpi.Workload = workload(tasks)

	if kpi.Project != nil {
		kpi.Budget = kpi.Project.Budget
		if !kpi.Project.EndDate.IsZero() {
			kpi.HasDeadline = true
			kpi.DaysLeft = daysUntil(s.now(), kpi.Project.EndDate)
		}
	}
	return kpi
}

// daysUntil returns whole days from now to target, rounding toward the past.
func daysUntil(now, target time.Time) int {
	return int(math.Floor(target.Sub(now).Hours() / 24))
}

// countBy tallies the non-empty values of col in first-seen order.
func countBy(t table.Table, col string) []Count {
	idx := map[string]int{}
	out := []Count{}
	for _, v := range t.Column(col) {
		if v.IsNull() {
			continue
		}
		k := v.String()
		if i, ok := idx[k]; ok {
			out[i].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, Count{Label: k, Count: 1})
	}
	return out
}

// workload is the task count per owner, ascending by count then name.
func workload(t table.Table) []Count {
	out := countBy(t, schema.ColOwner)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count < out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// RecommendationStats summarizes a meeting log.
type RecommendationStats struct {
	Total             int     `json:"total"`
	Completed         int     `json:"completed"`
	InProgress        int     `json:"inProgress"`
	Suspended         int     `json:"suspended"`
	CompletionPercent float64 `json:"completionPercent"`
}

// RecommendationSummary counts the recommendations of one project, or all.
func (s *Service) RecommendationSummary(ctx context.Context, projectID string) RecommendationStats {
	var st RecommendationStats
	for _, r := range s.Recommendations(ctx, projectID) {
		st.Total++
		switch schema.ClassifyStatus(r.Status) {
		case schema.StatusCompleted:
			st.Completed++
		case schema.StatusInProgress:
			st.InProgress++
		case schema.StatusSuspended:
			st.Suspended++
		}
	}
	st.CompletionPercent = percent(float64(st.Completed), float64(st.Total))
	return st
}
