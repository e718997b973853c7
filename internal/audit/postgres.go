package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of *pgxpool.Pool the recorder needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const createJournal = `
CREATE TABLE IF NOT EXISTS write_journal (
    id          UUID PRIMARY KEY,
    action      TEXT NOT NULL,
    table_name  TEXT NOT NULL,
    rows        INTEGER NOT NULL,
    backend     TEXT,
    ok          BOOLEAN NOT NULL,
    fell_back   BOOLEAN NOT NULL DEFAULT FALSE,
    error       TEXT,
    ip_address  TEXT,
    user_agent  TEXT,
    created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS write_journal_created_at_idx ON write_journal (created_at DESC);
`

const insertEntry = `
INSERT INTO write_journal
    (id, action, table_name, rows, backend, ok, fell_back, error, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectRecent = `
SELECT id, action, table_name, rows, backend, ok, fell_back, error, ip_address, user_agent, created_at
FROM write_journal
ORDER BY created_at DESC
LIMIT $1`

// PgRecorder stores entries in PostgreSQL.
type PgRecorder struct {
	db DBTX
}

// NewPgRecorder returns a recorder over db.
func NewPgRecorder(db DBTX) *PgRecorder {
	return &PgRecorder{db: db}
}

// Connect opens a pool and creates the journal table if needed.
func Connect(ctx context.Context, databaseURL string, maxConns, minConns int32) (*pgxpool.Pool, *PgRecorder, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	if minConns > 0 {
		cfg.MinConns = minConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	rec := NewPgRecorder(pool)
	if err := rec.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, rec, nil
}

// EnsureSchema creates the journal table and index.
func (r *PgRecorder) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createJournal); err != nil {
		return fmt.Errorf("create write_journal: %w", err)
	}
	return nil
}

// Record implements Recorder.
func (r *PgRecorder) Record(ctx context.Context, e Entry) error {
	_, err := r.db.Exec(ctx, insertEntry,
		toPgUUID(e.ID),
		string(e.Action),
		e.Table,
		int32(e.Rows),
		toPgText(e.Backend),
		e.OK,
		e.FellBack,
		toPgText(e.Error),
		toPgText(e.IPAddress),
		toPgText(e.UserAgent),
		pgtype.Timestamptz{Time: e.CreatedAt, Valid: true},
	)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// Recent implements Recorder, newest first.
func (r *PgRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	rows, err := r.db.Query(ctx, selectRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id                       pgtype.UUID
			action, tableName        string
			n                        int32
			backend, errText, ip, ua pgtype.Text
			ok, fellBack             bool
			createdAt                pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &action, &tableName, &n, &backend, &ok, &fellBack, &errText, &ip, &ua, &createdAt); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		out = append(out, Entry{
			ID:        uuidToString(id),
			Action:    Action(action),
			Table:     tableName,
			Rows:      int(n),
			Backend:   backend.String,
			OK:        ok,
			FellBack:  fellBack,
			Error:     errText.String,
			IPAddress: ip.String,
			UserAgent: ua.String,
			CreatedAt: createdAt.Time,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return out, nil
}

func toPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func toPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

func uuidToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
