package store

import (
	"context"
	"errors"
	"testing"

	"github.com/JonMunkholm/pmis/internal/table"
)

func tasksFixture() table.Table {
	return table.New("Task_ID", "Quantity_Total").
		Append(table.Row{"Task_ID": table.Text("T1"), "Quantity_Total": table.Number(100)})
}

func TestAdapter_ReadPrimary(t *testing.T) {
	primary := NewMemory("primary")
	primary.Put("Tasks", tasksFixture())
	fallback := NewMemory("fallback")

	res := NewAdapter(primary, fallback).ReadResult(context.Background(), "Tasks")
	if res.Status != StatusOK || res.Backend != "primary" {
		t.Fatalf("ReadResult = %+v, want ok from primary", res)
	}
	if !res.Table.Equal(tasksFixture()) {
		t.Errorf("Table = %v", res.Table)
	}
}

func TestAdapter_ReadFallsBackWhenPrimaryUnavailable(t *testing.T) {
	primary := NewMemory("primary")
	primary.SetUnavailable(true)
	fallback := NewMemory("fallback")
	fallback.Put("Tasks", tasksFixture())

	a := NewAdapter(primary, fallback)
	res := a.ReadResult(context.Background(), "Tasks")
	if res.Status != StatusOK || res.Backend != "fallback" {
		t.Fatalf("ReadResult = %+v, want ok from fallback", res)
	}
	if !a.Read(context.Background(), "Tasks").Equal(tasksFixture()) {
		t.Error("Read did not return the fallback's contents")
	}
}

func TestAdapter_ReadFallsBackOnMissingSheet(t *testing.T) {
	primary := NewMemory("primary")
	fallback := NewMemory("fallback")
	fallback.Put("Config", table.New("Type", "Value"))

	res := NewAdapter(primary, fallback).ReadResult(context.Background(), "Config")
	if res.Status != StatusOK || res.Backend != "fallback" {
		t.Fatalf("ReadResult = %+v, want ok from fallback", res)
	}
}

func TestAdapter_ReadStatusDistinguishesAbsentFromError(t *testing.T) {
	tests := []struct {
		name       string
		primaryErr bool
		want       Status
		wantErr    error
	}{
		{"both report missing sheet", false, StatusAbsent, ErrTableNotFound},
		{"primary unreachable", true, StatusBackendError, ErrTableNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := NewMemory("primary")
			primary.SetUnavailable(tt.primaryErr)
			fallback := NewMemory("fallback")

			a := NewAdapter(primary, fallback)
			res := a.ReadResult(context.Background(), "Nope")
			if res.Status != tt.want {
				t.Errorf("Status = %q, want %q", res.Status, tt.want)
			}
			if !errors.Is(res.Err, tt.wantErr) {
				t.Errorf("Err = %v, want %v", res.Err, tt.wantErr)
			}
			if got := a.Read(context.Background(), "Nope"); !got.Empty() || len(got.Columns) != 0 {
				t.Errorf("Read = %v, want empty table", got)
			}
		})
	}
}

func TestAdapter_NoBackends(t *testing.T) {
	a := NewAdapter(nil, nil)
	if res := a.ReadResult(context.Background(), "Tasks"); res.Status != StatusBackendError {
		t.Errorf("Status = %q, want backend_error", res.Status)
	}
	if a.Write(context.Background(), "Tasks", tasksFixture()) {
		t.Error("Write with no backend should fail")
	}
}

func TestAdapter_WritePrimary(t *testing.T) {
	primary := NewMemory("primary")
	fallback := NewMemory("fallback")

	res := NewAdapter(primary, fallback).WriteResult(context.Background(), "Tasks", tasksFixture())
	if !res.OK || res.FellBack || res.Backend != "primary" {
		t.Fatalf("WriteResult = %+v", res)
	}
	if fallback.Writes() != 0 {
		t.Error("fallback written although primary succeeded")
	}
}

func TestAdapter_WriteFallsBack(t *testing.T) {
	primary := NewMemory("primary")
	primary.SetUnavailable(true)
	fallback := NewMemory("fallback")

	a := NewAdapter(primary, fallback)
	res := a.WriteResult(context.Background(), "Tasks", tasksFixture())
	if !res.OK || !res.FellBack || res.Backend != "fallback" {
		t.Fatalf("WriteResult = %+v, want fallback success", res)
	}

	got, err := fallback.ReadTable(context.Background(), "Tasks")
	if err != nil || !got.Equal(tasksFixture()) {
		t.Errorf("fallback contents = %v, %v", got, err)
	}
}

func TestAdapter_WriteAllFail(t *testing.T) {
	primary := NewMemory("primary")
	primary.SetUnavailable(true)
	fallback := NewMemory("fallback")
	fallback.SetUnavailable(true)

	a := NewAdapter(primary, fallback)
	res := a.WriteResult(context.Background(), "Tasks", tasksFixture())
	if res.OK {
		t.Fatal("WriteResult.OK = true, want false")
	}
	if !errors.Is(res.Err, ErrBackendUnavailable) {
		t.Errorf("Err = %v, want ErrBackendUnavailable", res.Err)
	}
	if a.Write(context.Background(), "Tasks", tasksFixture()) {
		t.Error("Write = true, want false")
	}
}

func TestMemory_CancelledContext(t *testing.T) {
	m := NewMemory("")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.ReadTable(ctx, "Tasks"); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("ReadTable err = %v", err)
	}
	if err := m.WriteTable(ctx, "Tasks", table.Table{}); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("WriteTable err = %v", err)
	}
}
