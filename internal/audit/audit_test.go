package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

type fakeDB struct {
	sql  []string
	args [][]any
	err  error
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func TestNewEntry_CarriesRequestMetadata(t *testing.T) {
	ctx := ContextWithIPAddress(context.Background(), "10.0.0.7")
	ctx = ContextWithUserAgent(ctx, "curl/8.0")

	e := NewEntry(ctx, ActionWriteTasks, "Tasks", 3)
	if e.ID == "" {
		t.Error("entry has no ID")
	}
	if e.IPAddress != "10.0.0.7" || e.UserAgent != "curl/8.0" {
		t.Errorf("metadata = (%q, %q)", e.IPAddress, e.UserAgent)
	}
	if e.Table != "Tasks" || e.Rows != 3 || e.CreatedAt.IsZero() {
		t.Errorf("entry = %+v", e)
	}
}

func TestContextHelpers_Empty(t *testing.T) {
	ctx := context.Background()
	if IPAddressFromContext(ctx) != "" || UserAgentFromContext(ctx) != "" {
		t.Error("empty context should yield empty metadata")
	}
}

func TestMemory_RecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	for _, tbl := range []string{"A", "B", "C"} {
		_ = m.Record(ctx, Entry{Table: tbl})
	}

	got, err := m.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0].Table != "C" || got[1].Table != "B" {
		t.Errorf("Recent = %+v, want [C B]", got)
	}

	one, _ := m.Recent(ctx, 1)
	if len(one) != 1 || one[0].Table != "C" {
		t.Errorf("Recent(1) = %+v", one)
	}
}

func TestPgRecorder_Record(t *testing.T) {
	db := &fakeDB{}
	r := NewPgRecorder(db)

	e := NewEntry(context.Background(), ActionWriteConfig, "Config", 4)
	e.OK = true
	e.Backend = "workbook"
	if err := r.Record(context.Background(), e); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(db.args) != 1 {
		t.Fatalf("Exec calls = %d, want 1", len(db.args))
	}
	if !strings.Contains(db.sql[0], "INSERT INTO write_journal") {
		t.Errorf("sql = %q", db.sql[0])
	}
	args := db.args[0]
	if len(args) != 11 {
		t.Fatalf("args = %d, want 11", len(args))
	}
	if id, ok := args[0].(pgtype.UUID); !ok || !id.Valid {
		t.Errorf("id arg = %#v, want valid UUID", args[0])
	}
	if got := args[1].(string); got != "write_config" {
		t.Errorf("action arg = %q", got)
	}
	if errArg := args[7].(pgtype.Text); errArg.Valid {
		t.Errorf("error arg should be NULL for a successful write, got %q", errArg.String)
	}
}

func TestPgRecorder_RecordError(t *testing.T) {
	r := NewPgRecorder(&fakeDB{err: errors.New("connection refused")})
	if err := r.Record(context.Background(), Entry{ID: "bad"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestPgRecorder_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	if err := NewPgRecorder(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if len(db.sql) != 1 || !strings.Contains(db.sql[0], "CREATE TABLE IF NOT EXISTS write_journal") {
		t.Errorf("sql = %v", db.sql)
	}
}

func TestToPgUUID_Invalid(t *testing.T) {
	if toPgUUID("not-a-uuid").Valid {
		t.Error("invalid UUID should map to NULL")
	}
	if uuidToString(pgtype.UUID{}) != "" {
		t.Error("NULL UUID should render empty")
	}
}
