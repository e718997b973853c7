package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/pmis/internal/table"
)

func TestWorkbook_MissingFile(t *testing.T) {
	w := NewWorkbook(filepath.Join(t.TempDir(), "none.xlsx"))
	_, err := w.ReadTable(context.Background(), "Tasks")
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestWorkbook_RoundTrip(t *testing.T) {
	ctx := context.Background()
	w := NewWorkbook(filepath.Join(t.TempDir(), "data", "pmis.xlsx"))

	in := table.New("Task_ID", "Task", "Quantity_Total", "Quantity_Done").
		Append(table.Row{"Task_ID": table.Text("T1"), "Task": table.Text("البحث"), "Quantity_Total": table.Number(12000), "Quantity_Done": table.Number(7200)}).
		Append(table.Row{"Task_ID": table.Text("T2"), "Quantity_Total": table.Number(100.5)})

	if err := w.WriteTable(ctx, "Tasks", in); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if _, err := os.Stat(w.Path()); err != nil {
		t.Fatalf("workbook not created: %v", err)
	}

	out, err := w.ReadTable(ctx, "Tasks")
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	if !out.Equal(in) {
		t.Errorf("round trip mismatch:\n in  %v\n out %v", in, out)
	}
	if f, ok := out.Rows[1].Get("Quantity_Total").Float(); !ok || f != 100.5 {
		t.Errorf("Quantity_Total = %v, %v", f, ok)
	}
	if !out.Rows[1].Get("Task").IsNull() {
		t.Errorf("sparse cell should read back null")
	}
}

func TestWorkbook_OverwritePreservesOtherSheets(t *testing.T) {
	ctx := context.Background()
	w := NewWorkbook(filepath.Join(t.TempDir(), "pmis.xlsx"))

	projects := table.New("Project_ID", "Name").
		Append(table.Row{"Project_ID": table.Text("P1"), "Name": table.Text("Platform")})
	if err := w.WriteTable(ctx, "Projects", projects); err != nil {
		t.Fatalf("write Projects: %v", err)
	}

	long := table.New("Task_ID")
	for _, id := range []string{"T1", "T2", "T3"} {
		long = long.Append(table.Row{"Task_ID": table.Text(id)})
	}
	if err := w.WriteTable(ctx, "Tasks", long); err != nil {
		t.Fatalf("write Tasks: %v", err)
	}

	short := table.New("Task_ID").Append(table.Row{"Task_ID": table.Text("T9")})
	if err := w.WriteTable(ctx, "Tasks", short); err != nil {
		t.Fatalf("overwrite Tasks: %v", err)
	}

	got, err := w.ReadTable(ctx, "Tasks")
	if err != nil {
		t.Fatalf("read Tasks: %v", err)
	}
	if !got.Equal(short) {
		t.Errorf("Tasks = %v, want %v (stale rows left behind?)", got, short)
	}

	gotProjects, err := w.ReadTable(ctx, "Projects")
	if err != nil {
		t.Fatalf("read Projects: %v", err)
	}
	if !gotProjects.Equal(projects) {
		t.Errorf("Projects disturbed by Tasks write: %v", gotProjects)
	}
}

func TestWorkbook_MissingSheet(t *testing.T) {
	ctx := context.Background()
	w := NewWorkbook(filepath.Join(t.TempDir(), "pmis.xlsx"))
	if err := w.WriteTable(ctx, "Projects", table.New("Project_ID")); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	_, err := w.ReadTable(ctx, "Challenges")
	if !errors.Is(err, ErrTableNotFound) {
		t.Errorf("err = %v, want ErrTableNotFound", err)
	}
}
