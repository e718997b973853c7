// Package store reads and overwrites named tables on a spreadsheet backend.
//
// Two interchangeable backends implement [Backend]: [Sheets] (a cloud
// spreadsheet) and [Workbook] (a local .xlsx file with one sheet per table).
// [Adapter] composes a primary and a fallback backend and never returns an
// error to its caller: reads degrade to an empty table and writes to false.
// Callers that need to tell "table absent" from "backend failed" use
// [Adapter.ReadResult] and [Adapter.WriteResult].
package store

import (
	"context"
	"errors"

	"github.com/JonMunkholm/pmis/internal/table"
)

var (
	// ErrTableNotFound is returned when the backend is reachable but has no
	// sheet with the requested name.
	ErrTableNotFound = errors.New("table not found")

	// ErrBackendUnavailable is returned for connection, auth, file access
	// and other backend failures.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Backend is a named-table store.
type Backend interface {
	// Name identifies the backend in logs and notices.
	Name() string

	// ReadTable returns every row of the named table, header first.
	ReadTable(ctx context.Context, name string) (table.Table, error)

	// WriteTable replaces the named table's contents with t.
	WriteTable(ctx context.Context, name string, t table.Table) error
}

// Status classifies the outcome of a read.
type Status string

const (
	StatusOK           Status = "ok"
	StatusAbsent       Status = "absent"
	StatusBackendError Status = "backend_error"
)

// ReadResult is a table plus how it was obtained.
type ReadResult struct {
	Table   table.Table
	Status  Status
	Backend string // backend that served the table; empty when none did
	Err     error  // last failure; nil when Status is StatusOK
}

// WriteResult reports the outcome of an overwrite.
type WriteResult struct {
	OK       bool
	Backend  string // backend that accepted the write
	FellBack bool   // true when the primary failed and the fallback accepted
	Err      error  // last failure; nil when OK
}
