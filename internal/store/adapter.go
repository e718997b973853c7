package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/table"
)

// Adapter routes reads and writes to a primary backend and falls back to a
// secondary one on any failure. Either backend may be nil; the backend
// selection is fixed at construction.
type Adapter struct {
	primary  Backend
	fallback Backend
}

// NewAdapter returns an Adapter over primary with fallback as the secondary.
// With only a local workbook configured, pass it as primary and nil fallback.
func NewAdapter(primary, fallback Backend) *Adapter {
	return &Adapter{primary: primary, fallback: fallback}
}

// Primary returns the primary backend, or nil.
func (a *Adapter) Primary() Backend { return a.primary }

// Fallback returns the fallback backend, or nil.
func (a *Adapter) Fallback() Backend { return a.fallback }

func (a *Adapter) backends() []Backend {
	var out []Backend
	if a.primary != nil {
		out = append(out, a.primary)
	}
	if a.fallback != nil {
		out = append(out, a.fallback)
	}
	return out
}

// Read returns the named table, or an empty table when no backend can
// serve it. It never fails.
func (a *Adapter) Read(ctx context.Context, name string) table.Table {
	return a.ReadResult(ctx, name).Table
}

// ReadResult tries each backend in order and reports which one served the
// table. When all fail, Status is StatusAbsent if every backend reported
// ErrTableNotFound, and StatusBackendError otherwise.
func (a *Adapter) ReadResult(ctx context.Context, name string) ReadResult {
	logger := logging.WithFields(ctx, "table", name)

	backends := a.backends()
	if len(backends) == 0 {
		return ReadResult{Status: StatusBackendError, Err: ErrBackendUnavailable}
	}

	absent := true
	var lastErr error
	for i, b := range backends {
		t, err := b.ReadTable(ctx, name)
		if err == nil {
			if i > 0 {
				logger.Info("table served by fallback backend", "backend", b.Name())
			}
			return ReadResult{Table: t, Status: StatusOK, Backend: b.Name()}
		}

		lastErr = err
		if !errors.Is(err, ErrTableNotFound) {
			absent = false
		}
		logger.Warn("table read failed", "backend", b.Name(), "error", err)
	}

	status := StatusBackendError
	if absent {
		status = StatusAbsent
	}
	return ReadResult{Status: status, Err: lastErr}
}

// Write overwrites the named table and reports success. Failures are
// logged, never returned.
func (a *Adapter) Write(ctx context.Context, name string, t table.Table) bool {
	return a.WriteResult(ctx, name, t).OK
}

// WriteResult overwrites the named table on the primary backend and, when
// that fails, on the fallback. Only the named table is replaced.
func (a *Adapter) WriteResult(ctx context.Context, name string, t table.Table) WriteResult {
	logger := logging.WithFields(ctx, "table", name, "rows", t.Len())

	backends := a.backends()
	if len(backends) == 0 {
		logger.Error("table write failed: no backend configured")
		return WriteResult{Err: ErrBackendUnavailable}
	}

	var lastErr error
	for i, b := range backends {
		err := b.WriteTable(ctx, name, t)
		if err == nil {
			res := WriteResult{OK: true, Backend: b.Name(), FellBack: i > 0}
			level := slog.LevelInfo
			if res.FellBack {
				level = slog.LevelWarn
			}
			logger.Log(ctx, level, "table written", "backend", b.Name(), "fell_back", res.FellBack)
			return res
		}
		lastErr = err
		logger.Warn("table write failed", "backend", b.Name(), "error", err)
	}
	return WriteResult{Err: lastErr}
}
