package core

import (
	"context"
	"testing"
	"time"

	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/table"
)

func ganttRow(id, group, sub, owner, status, start, end string) table.Row {
	return table.Row{
		schema.ColTaskID:    table.Text(id),
		schema.ColProjectID: table.Text("P1"),
		schema.ColTask:      table.Text(group),
		schema.ColSubTask:   table.Text(sub),
		schema.ColOwner:     table.Text(owner),
		schema.ColStatus:    table.Text(status),
		schema.ColStartDate: table.Text(start),
		schema.ColEndDate:   table.Text(end),
	}
}

func newGanttService(t *testing.T) *Service {
	svc, mem := newTestService(t, Options{})
	mem.Put(schema.TableTasks, tasksTable(
		ganttRow("T1", "Research", "Interviews", "A", "مكتمل", "2026-01-01", "2026-01-10"),
		ganttRow("T2", "Research", "Survey", "B", "قيد التنفيذ", "2026-01-05", "2026-01-20"),
		ganttRow("T3", "Design", "Wireframes", "A", "لم يبدأ", "2026-02-01", "2026-02-15"),
		ganttRow("T4", "Design", "Mockups", "C", "قيد التنفيذ", "bad", "2026-02-20"),
	))
	return svc
}

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestGantt_DefaultStatusFilterHidesCompleted(t *testing.T) {
	chart := newGanttService(t).Gantt(context.Background(), "P1", GanttOptions{})

	if len(chart.Statuses) != 3 {
		t.Fatalf("Statuses = %v", chart.Statuses)
	}
	if len(chart.Selected) != 2 || chart.Selected[0] != "قيد التنفيذ" || chart.Selected[1] != "لم يبدأ" {
		t.Errorf("Selected = %v", chart.Selected)
	}
	if len(chart.Bars) != 2 {
		t.Fatalf("Bars = %+v, want 2 (completed hidden, bad date skipped)", chart.Bars)
	}
	if chart.Bars[0].Label != "Research : Survey" {
		t.Errorf("label = %q", chart.Bars[0].Label)
	}
	if !chart.Start.Equal(day("2026-01-05")) || !chart.End.Equal(day("2026-02-15")) {
		t.Errorf("range = %v..%v", chart.Start, chart.End)
	}
}

func TestGantt_GroupByTaskGroup(t *testing.T) {
	all := []string{"مكتمل", "قيد التنفيذ", "لم يبدأ"}
	chart := newGanttService(t).Gantt(context.Background(), "P1", GanttOptions{GroupBy: GroupByTask, Statuses: all})

	if len(chart.Bars) != 2 {
		t.Fatalf("Bars = %+v", chart.Bars)
	}
	r := chart.Bars[0]
	if r.Label != "Research" || r.Count != 2 || r.Status != "مكتمل" {
		t.Errorf("Research bar = %+v", r)
	}
	if !r.Start.Equal(day("2026-01-01")) || !r.End.Equal(day("2026-01-20")) {
		t.Errorf("Research span = %v..%v", r.Start, r.End)
	}
	if chart.Bars[1].Count != 1 {
		t.Errorf("Design bar should hold only the row with valid dates: %+v", chart.Bars[1])
	}
}

func TestGantt_OwnerFilterAndGrouping(t *testing.T) {
	chart := newGanttService(t).Gantt(context.Background(), "P1", GanttOptions{
		GroupBy:  GroupByOwner,
		Statuses: []string{},
		Owners:   []string{"A"},
	})
	if len(chart.Bars) != 2 {
		t.Fatalf("Bars = %+v", chart.Bars)
	}
	for _, b := range chart.Bars {
		if b.Label != "A" {
			t.Errorf("bar label = %q, want A", b.Label)
		}
	}
}

func TestGantt_AllCompletedShowsEverything(t *testing.T) {
	svc, mem := newTestService(t, Options{})
	mem.Put(schema.TableTasks, tasksTable(
		ganttRow("T1", "Research", "Interviews", "A", "Completed", "2026-01-01", "2026-01-10"),
	))
	chart := svc.Gantt(context.Background(), "", GanttOptions{})
	if len(chart.Bars) != 1 || len(chart.Selected) != 1 {
		t.Errorf("chart = %+v", chart)
	}
}

func TestParseGroupBy(t *testing.T) {
	tests := map[string]GroupBy{"task": GroupByTask, "owner": GroupByOwner, "": GroupBySubTask, "x": GroupBySubTask}
	for in, want := range tests {
		if got := ParseGroupBy(in); got != want {
			t.Errorf("ParseGroupBy(%q) = %q, want %q", in, got, want)
		}
	}
}
