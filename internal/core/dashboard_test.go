package core

import (
	"context"
	"testing"

	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
)

func seedDashboard(t *testing.T, mem *store.Memory, endDate string) {
	t.Helper()
	mem.Put(schema.TableProjects, table.New(schema.Projects.Columns()...).
		Append(table.Row{
			schema.ColProjectID: table.Text("P1"),
			schema.ColName:      table.Text("Reports"),
			schema.ColBudget:    table.Number(150000),
			schema.ColEndDate:   table.Text(endDate),
		}).
		Append(table.Row{schema.ColProjectID: table.Text("P2"), schema.ColName: table.Text("Portal")}))

	owner := func(r table.Row, o string) table.Row {
		r[schema.ColOwner] = table.Text(o)
		return r
	}
	mem.Put(schema.TableTasks, tasksTable(
		owner(taskRow("P1", "T1", 10, 10, "مكتمل"), "A"),
		owner(taskRow("P1", "T2", 10, 5, "In Progress"), "B"),
		owner(taskRow("P1", "T3", 10, 5, "قيد التنفيذ"), "A"),
		owner(taskRow("P1", "T4", 10, 0, "لم يبدأ"), "C"),
		owner(taskRow("P1", "T5", 10, 10, "مكتمل"), "A"),
		owner(taskRow("P2", "T6", 10, 0, "Not Started"), "D"),
	))
}

func TestDashboard_SingleProject(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	seedDashboard(t, mem, "2026-03-11")

	kpi := svc.Dashboard(context.Background(), Selection{ProjectID: "P1"})

	if kpi.Project == nil || kpi.Project.ID != "P1" {
		t.Fatalf("Project = %+v", kpi.Project)
	}
	if kpi.Stats != (ProjectStats{Progress: 60, Total: 50, Remaining: 20}) {
		t.Errorf("Stats = %+v", kpi.Stats)
	}
	if kpi.TotalTasks != 5 || kpi.CompletedTasks != 2 || kpi.InProgressTasks != 2 || kpi.RemainingTasks != 3 {
		t.Errorf("task counts = %d/%d/%d/%d", kpi.TotalTasks, kpi.CompletedTasks, kpi.InProgressTasks, kpi.RemainingTasks)
	}
	if kpi.Budget != 150000 {
		t.Errorf("Budget = %v", kpi.Budget)
	}
	if !kpi.HasDeadline || kpi.DaysLeft != 9 || kpi.DeadlinePassed() {
		t.Errorf("deadline = %v, %d days", kpi.HasDeadline, kpi.DaysLeft)
	}

	wantStatus := []Count{{"مكتمل", 2}, {"In Progress", 1}, {"قيد التنفيذ", 1}, {"لم يبدأ", 1}}
	if len(kpi.StatusCounts) != len(wantStatus) {
		t.Fatalf("StatusCounts = %v", kpi.StatusCounts)
	}
	for i, w := range wantStatus {
		if kpi.StatusCounts[i] != w {
			t.Errorf("StatusCounts[%d] = %v, want %v", i, kpi.StatusCounts[i], w)
		}
	}

	wantLoad := []Count{{"B", 1}, {"C", 1}, {"A", 3}}
	for i, w := range wantLoad {
		if i >= len(kpi.Workload) || kpi.Workload[i] != w {
			t.Errorf("Workload = %v, want %v", kpi.Workload, wantLoad)
			break
		}
	}
}

func TestDashboard_DeadlinePassed(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	seedDashboard(t, mem, "2026-02-20")

	kpi := svc.Dashboard(context.Background(), Selection{ProjectID: "P1"})
	if kpi.DaysLeft != -10 || !kpi.DeadlinePassed() {
		t.Errorf("DaysLeft = %d, DeadlinePassed = %v", kpi.DaysLeft, kpi.DeadlinePassed())
	}
}

func TestDashboard_AllProjectsAndUnknown(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	seedDashboard(t, mem, "not a date")

	all := svc.Dashboard(context.Background(), Selection{})
	if all.Project == nil || all.Project.ID != "P1" {
		t.Errorf("all-projects header should show the first project, got %+v", all.Project)
	}
	if all.TotalTasks != 6 || all.HasDeadline {
		t.Errorf("all projects: %d tasks, deadline %v", all.TotalTasks, all.HasDeadline)
	}

	none := svc.Dashboard(context.Background(), Selection{ProjectID: "P404"})
	if none.Project != nil || none.TotalTasks != 0 || none.Stats != (ProjectStats{}) {
		t.Errorf("unknown project = %+v", none)
	}
}

func TestDashboard_EmptyBackend(t *testing.T) {
	svc, _ := newTestService(t, Options{})
	kpi := svc.Dashboard(context.Background(), Selection{})
	if kpi.Project != nil || kpi.TotalTasks != 0 || len(kpi.StatusCounts) != 0 {
		t.Errorf("empty backend = %+v", kpi)
	}
}

func TestRecommendations_AddAndSummarize(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})
	seedDashboard(t, mem, "2026-03-11")

	rec, err := svc.AddRecommendation(ctx, Recommendation{Recommendation: "  اعتماد الخطة  ", Owner: "A"})
	if err != nil {
		t.Fatalf("AddRecommendation: %v", err)
	}
	if rec.ProjectID != "P1" || rec.Date != "2026-03-01" || rec.CreatedAt != "2026-03-01 10:30" || rec.Status != "قيد التنفيذ" {
		t.Errorf("defaults not applied: %+v", rec)
	}
	if rec.Recommendation != "اعتماد الخطة" {
		t.Errorf("text not trimmed: %q", rec.Recommendation)
	}

	for _, st := range []string{"مكتمل", "معلق", "ملغي"} {
		if _, err := svc.AddRecommendation(ctx, Recommendation{ProjectID: "P1", Recommendation: "x", Status: st}); err != nil {
			t.Fatalf("AddRecommendation(%s): %v", st, err)
		}
	}

	sum := svc.RecommendationSummary(ctx, "P1")
	want := RecommendationStats{Total: 4, Completed: 1, InProgress: 1, Suspended: 1, CompletionPercent: 25}
	if sum != want {
		t.Errorf("RecommendationSummary = %+v, want %+v", sum, want)
	}
	if got := svc.Recommendations(ctx, "P2"); len(got) != 0 {
		t.Errorf("P2 recommendations = %v", got)
	}
}

func TestAddRecommendation_RequiresText(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	_, err := svc.AddRecommendation(context.Background(), Recommendation{Recommendation: " "})
	if MapError(err).Code != "VAL001" {
		t.Errorf("err = %v, want VAL001", err)
	}
	if mem.Writes() != 0 {
		t.Error("rejected recommendation should not write")
	}
}

func TestAddRecommendation_WriteFailure(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	mem.SetUnavailable(true)
	_, err := svc.AddRecommendation(context.Background(), Recommendation{Recommendation: "x"})
	if MapError(err).Code != "STO003" {
		t.Errorf("err = %v, want STO003", err)
	}
}

func TestTeamMembers_FallsBackToOwners(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})
	seedDashboard(t, mem, "2026-03-11")

	got := svc.TeamMembers(ctx)
	if len(got) != 4 || got[0] != "A" || got[3] != "D" {
		t.Errorf("TeamMembers = %v", got)
	}

	svc.WriteConfig(ctx, schema.ConfigTeamMember, "مدير المشروع")
	if got := svc.TeamMembers(ctx); len(got) != 1 || got[0] != "مدير المشروع" {
		t.Errorf("configured TeamMembers = %v", got)
	}
}
