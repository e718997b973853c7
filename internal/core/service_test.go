package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/cache"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
)

var testNow = time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts Options) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory("primary")
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	return NewService(store.NewAdapter(mem, nil), opts), mem
}

func taskRow(project, id string, total, done float64, status string) table.Row {
	return table.Row{
		schema.ColProjectID:     table.Text(project),
		schema.ColTaskID:        table.Text(id),
		schema.ColQuantityTotal: table.Number(total),
		schema.ColQuantityDone:  table.Number(done),
		schema.ColStatus:        table.Text(status),
	}
}

func tasksTable(rows ...table.Row) table.Table {
	t := schema.Tasks.Columns()
	out := table.New(t...)
	for _, r := range rows {
		out = out.Append(r)
	}
	return out
}

func TestGetProjectStats(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})
	mem.Put(schema.TableTasks, tasksTable(
		taskRow("P1", "T1", 100, 50, "In Progress"),
		taskRow("P1", "T2", 200, 50, "Not Started"),
		taskRow("P2", "T3", 10, 10, "Completed"),
	))

	got := svc.GetProjectStats(ctx, "P1")
	want := ProjectStats{Progress: 33.3, Total: 300, Remaining: 200}
	if got != want {
		t.Errorf("GetProjectStats(P1) = %+v, want %+v", got, want)
	}

	if got := svc.GetProjectStats(ctx, "P9"); got != (ProjectStats{}) {
		t.Errorf("GetProjectStats(P9) = %+v, want zeros", got)
	}
}

func TestGetProjectStats_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		rows []table.Row
		want ProjectStats
	}{
		{
			name: "zero total guards division",
			rows: []table.Row{taskRow("P1", "T1", 0, 0, "")},
			want: ProjectStats{},
		},
		{
			name: "malformed quantities count as zero",
			rows: []table.Row{
				{schema.ColProjectID: table.Text("P1"), schema.ColQuantityTotal: table.Text("n/a"), schema.ColQuantityDone: table.Text("5")},
				taskRow("P1", "T2", 20, 5, ""),
			},
			want: ProjectStats{Progress: 50, Total: 20, Remaining: 10},
		},
		{
			name: "text quantities with separators",
			rows: []table.Row{
				{schema.ColProjectID: table.Text("P1"), schema.ColQuantityTotal: table.Text("1,200"), schema.ColQuantityDone: table.Text("300")},
			},
			want: ProjectStats{Progress: 25, Total: 1200, Remaining: 900},
		},
		{
			name: "missing quantity columns",
			rows: []table.Row{{schema.ColProjectID: table.Text("P1")}},
			want: ProjectStats{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mem := newTestService(t, Options{})
			mem.Put(schema.TableTasks, tasksTable(tt.rows...))
			if got := svc.GetProjectStats(context.Background(), "P1"); got != tt.want {
				t.Errorf("GetProjectStats = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGetConfigList(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})

	if got := svc.GetConfigList(ctx, schema.ConfigTeamMember); got == nil || len(got) != 0 {
		t.Fatalf("missing Config table: got %#v, want empty slice", got)
	}

	mem.Put(schema.TableConfig, table.New(schema.ColType, schema.ColValue))
	if got := svc.GetConfigList(ctx, schema.ConfigTeamMember); len(got) != 0 {
		t.Fatalf("empty Config table: got %v", got)
	}

	cfg := table.New(schema.ColType, schema.ColValue).
		Append(table.Row{schema.ColType: table.Text(schema.ConfigTeamMember), schema.ColValue: table.Text("أحمد")}).
		Append(table.Row{schema.ColType: table.Text(schema.ConfigTaskCategory), schema.ColValue: table.Text("تطوير")}).
		Append(table.Row{schema.ColType: table.Text(schema.ConfigTeamMember)}).
		Append(table.Row{schema.ColType: table.Text(schema.ConfigTeamMember), schema.ColValue: table.Text("سارة")})
	mem.Put(schema.TableConfig, cfg)

	got := svc.GetConfigList(ctx, schema.ConfigTeamMember)
	if len(got) != 3 || got[0] != "أحمد" || got[1] != "" || got[2] != "سارة" {
		t.Errorf("GetConfigList = %q, want [أحمد \"\" سارة]", got)
	}
	if members := svc.TeamMembers(ctx); len(members) != 2 || members[1] != "سارة" {
		t.Errorf("TeamMembers = %q, want blank entry skipped", members)
	}

	mem.Put(schema.TableConfig, table.New("Other").Append(table.Row{"Other": table.Text("x")}))
	if got := svc.GetConfigList(ctx, schema.ConfigTeamMember); len(got) != 0 {
		t.Errorf("Config without Type/Value columns: got %v", got)
	}
}

func TestWriteTasks_RoundTripThroughWorkbook(t *testing.T) {
	ctx := context.Background()
	wb := store.NewWorkbook(filepath.Join(t.TempDir(), "data.xlsx"))
	svc := NewService(store.NewAdapter(wb, nil), Options{})

	in := table.New("Task_ID", "Project_ID", "القسم", "المهمة", "Quantity_Total").
		Append(table.Row{"Task_ID": table.Text("T1"), "Project_ID": table.Text("P1"), "القسم": table.Text("البحث"), "المهمة": table.Text("مقابلات"), "Quantity_Total": table.Number(100)}).
		Append(table.Row{"Task_ID": table.Text("T2"), "Project_ID": table.Text("P1"), "القسم": table.Text("التصميم")})

	if !svc.WriteTasks(ctx, in) {
		t.Fatal("WriteTasks returned false")
	}
	got := svc.LoadTable(ctx, schema.TableTasks)
	want := schema.Normalize(in)
	if !got.Equal(want) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, want)
	}
	if !got.HasColumn(schema.ColTask) || got.HasColumn("القسم") {
		t.Errorf("loaded header not canonical: %v", got.Columns)
	}
}

func TestWriteTasks_BlankRowSurvivesWorkbook(t *testing.T) {
	ctx := context.Background()
	wb := store.NewWorkbook(filepath.Join(t.TempDir(), "data.xlsx"))
	svc := NewService(store.NewAdapter(wb, nil), Options{})

	in := tasksTable(
		taskRow("P1", "T1", 10, 5, "In Progress"),
		table.Row{},
		taskRow("P1", "T2", 4, 0, "Not Started"),
	)
	if !svc.WriteTasks(ctx, in) {
		t.Fatal("WriteTasks returned false")
	}
	got := svc.LoadTable(ctx, schema.TableTasks)
	if !got.Equal(schema.Normalize(in)) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", got, schema.Normalize(in))
	}
	if got.Len() != 3 || got.Rows[2].String(schema.ColTaskID) != "T2" {
		t.Errorf("rows = %v", got.Rows)
	}
}

func TestWriteTasks_LastWriterWins(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})
	mem.Put(schema.TableTasks, tasksTable(taskRow("P1", "T1", 10, 0, "Not Started")))

	a := svc.LoadTable(ctx, schema.TableTasks)
	b := svc.LoadTable(ctx, schema.TableTasks)

	a.Rows[0][schema.ColStatus] = table.Text("In Progress")
	b = b.Append(taskRow("P1", "T2", 5, 0, "Not Started"))

	if !svc.WriteTasks(ctx, a) || !svc.WriteTasks(ctx, b) {
		t.Fatal("write failed")
	}

	final := svc.LoadTable(ctx, schema.TableTasks)
	if !final.Equal(b) {
		t.Errorf("final state = %v, want writer B's version %v", final, b)
	}
	if final.Rows[0].String(schema.ColStatus) != "Not Started" {
		t.Error("writer A's edit should have been lost")
	}
}

func TestService_UnreachablePrimaryUsesFallback(t *testing.T) {
	ctx := context.Background()
	primary := store.NewMemory("sheets")
	primary.SetUnavailable(true)
	fallback := store.NewWorkbook(filepath.Join(t.TempDir(), "mock_data.xlsx"))

	seed := tasksTable(taskRow("P1", "T1", 100, 25, "In Progress"))
	if err := fallback.WriteTable(ctx, schema.TableTasks, seed); err != nil {
		t.Fatalf("seed fallback: %v", err)
	}

	svc := NewService(store.NewAdapter(primary, fallback), Options{})
	res := svc.LoadTableResult(ctx, schema.TableTasks)
	if res.Status != store.StatusOK || res.Backend != "workbook" {
		t.Fatalf("read = %s via %q, want ok via workbook", res.Status, res.Backend)
	}
	if got := svc.GetProjectStats(ctx, "P1"); got.Progress != 25 || got.Total != 100 {
		t.Errorf("stats from fallback = %+v", got)
	}

	edited := seed.Append(taskRow("P1", "T2", 1, 1, "Completed"))
	if !svc.WriteTasks(ctx, edited) {
		t.Fatal("write should fall back to the workbook")
	}
	back, err := fallback.ReadTable(ctx, schema.TableTasks)
	if err != nil || back.Len() != 2 {
		t.Errorf("fallback after write: %v rows, err %v", back.Len(), err)
	}
}

func TestWriteConfig_Appends(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})

	if !svc.WriteConfig(ctx, schema.ConfigTeamMember, "خالد") {
		t.Fatal("WriteConfig on absent table returned false")
	}
	if !svc.WriteConfig(ctx, schema.ConfigTeamMember, "نورة") {
		t.Fatal("second WriteConfig returned false")
	}
	got := svc.GetConfigList(ctx, schema.ConfigTeamMember)
	if len(got) != 2 || got[0] != "خالد" || got[1] != "نورة" {
		t.Errorf("config list = %v", got)
	}
	if mem.Writes() != 2 {
		t.Errorf("writes = %d, want 2", mem.Writes())
	}

	if svc.WriteConfig(ctx, schema.ConfigTeamMember, "   ") {
		t.Error("empty value should be rejected")
	}
}

func TestWriteConfig_AbortsWhenBackendFails(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})
	mem.Put(schema.TableConfig, table.New(schema.ColType, schema.ColValue).
		Append(table.Row{schema.ColType: table.Text("Team_Member"), schema.ColValue: table.Text("a")}))
	mem.SetUnavailable(true)

	if svc.WriteConfig(ctx, schema.ConfigTeamMember, "b") {
		t.Fatal("WriteConfig should fail when the table cannot be read")
	}
	mem.SetUnavailable(false)
	if got := svc.GetConfigList(ctx, schema.ConfigTeamMember); len(got) != 1 {
		t.Errorf("stored config changed: %v", got)
	}
}

func TestService_CacheIsNotInvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(0)
	svc, mem := newTestService(t, Options{Cache: c})
	mem.Put(schema.TableTasks, tasksTable(taskRow("P1", "T1", 10, 0, "")))

	if got := svc.LoadTable(ctx, schema.TableTasks); got.Len() != 1 {
		t.Fatalf("initial load = %d rows", got.Len())
	}
	svc.WriteTasks(ctx, tasksTable(taskRow("P1", "T1", 10, 0, ""), taskRow("P1", "T2", 1, 0, "")))

	res := svc.LoadTableResult(ctx, schema.TableTasks)
	if res.Backend != cacheBackend || res.Table.Len() != 1 {
		t.Errorf("expected stale cached read, got %d rows via %q", res.Table.Len(), res.Backend)
	}

	if err := svc.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := svc.LoadTable(ctx, schema.TableTasks); got.Len() != 2 {
		t.Errorf("after Reload = %d rows, want 2", got.Len())
	}
	if !svc.Connection().CacheEnabled {
		t.Error("Connection should report the cache as enabled")
	}
}

func TestService_JournalsWrites(t *testing.T) {
	ctx := audit.ContextWithIPAddress(context.Background(), "192.0.2.1")
	j := audit.NewMemory(0)
	svc, mem := newTestService(t, Options{Journal: j})

	svc.WriteTasks(ctx, tasksTable(taskRow("P1", "T1", 1, 0, "")))
	mem.SetUnavailable(true)
	svc.WriteMeetingRecommendations(ctx, table.New(schema.ColRecommendation))

	entries, _ := svc.RecentWrites(ctx, 10)
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	failed, ok := entries[0], entries[1]
	if failed.OK || failed.Error == "" || failed.Table != schema.TableRecommendations {
		t.Errorf("failed entry = %+v", failed)
	}
	if !ok.OK || ok.Backend != "primary" || ok.IPAddress != "192.0.2.1" || ok.Rows != 1 {
		t.Errorf("ok entry = %+v", ok)
	}
}

func TestService_Connection(t *testing.T) {
	wb := store.NewWorkbook("mock_data.xlsx")
	svc := NewService(store.NewAdapter(wb, nil), Options{})
	got := svc.Connection()
	if got.Primary != "workbook" || got.UsingSheets || got.WorkbookPath != "mock_data.xlsx" || got.CacheEnabled {
		t.Errorf("Connection() = %+v", got)
	}
}

func TestProjectsAndLookup(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t, Options{})
	mem.Put(schema.TableProjects, table.New(schema.Projects.Columns()...).
		Append(table.Row{
			schema.ColProjectID: table.Text("P_REPORTS"),
			schema.ColName:      table.Text("التقارير"),
			schema.ColEndDate:   table.Text("2026-03-11"),
			schema.ColBudget:    table.Text("150000"),
		}).
		Append(table.Row{schema.ColProjectID: table.Text("P2"), schema.ColName: table.Text("Portal")}))

	ps := svc.Projects(ctx)
	if len(ps) != 2 || ps[0].Budget != 150000 || ps[0].EndDate.IsZero() {
		t.Fatalf("Projects = %+v", ps)
	}
	if p, ok := svc.ProjectByName(ctx, "Portal"); !ok || p.ID != "P2" {
		t.Errorf("ProjectByName = %+v, %v", p, ok)
	}
	if _, ok := svc.ProjectByID(ctx, "nope"); ok {
		t.Error("ProjectByID(nope) should miss")
	}
}
