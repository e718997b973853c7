package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/cache"
	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
)

// cacheBackend is the Backend name reported for reads served from cache.
const cacheBackend = "cache"

// ConnectionInfo describes the configured storage for display.
type ConnectionInfo struct {
	Primary      string `json:"primary"`
	Fallback     string `json:"fallback,omitempty"`
	UsingSheets  bool   `json:"usingSheets"`
	SheetURL     string `json:"sheetUrl,omitempty"`
	WorkbookPath string `json:"workbookPath,omitempty"`
	CacheEnabled bool   `json:"cacheEnabled"`
}

// Options configures optional collaborators of a Service.
type Options struct {
	// Cache holds loaded tables. Nil disables caching.
	Cache cache.Cache

	// Journal records every write. Nil disables journaling.
	Journal audit.Recorder

	// Now is the clock used for timestamps and deadlines. Defaults to time.Now.
	Now func() time.Time
}

// Service is the single entry point the presentation layer uses.
type Service struct {
	adapter *store.Adapter
	cache   cache.Cache
	journal audit.Recorder
	now     func() time.Time
	conn    ConnectionInfo
}

// NewService creates a Service over adapter. The connection descriptor is
// derived from the adapter's backends once, here.
func NewService(adapter *store.Adapter, opts Options) *Service {
	s := &Service{
		adapter: adapter,
		cache:   opts.Cache,
		journal: opts.Journal,
		now:     opts.Now,
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.journal == nil {
		s.journal = audit.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.conn = describe(adapter)
	_, isNop := s.cache.(cache.Nop)
	s.conn.CacheEnabled = !isNop
	return s
}

func describe(a *store.Adapter) ConnectionInfo {
	var info ConnectionInfo
	for i, b := range []store.Backend{a.Primary(), a.Fallback()} {
		if b == nil {
			continue
		}
		if i == 0 {
			info.Primary = b.Name()
		} else {
			info.Fallback = b.Name()
		}
		switch v := b.(type) {
		case *store.Sheets:
			if i == 0 {
				info.UsingSheets = true
			}
			info.SheetURL = v.URL()
		case *store.Workbook:
			info.WorkbookPath = v.Path()
		}
	}
	return info
}

// Connection returns the display-only storage descriptor.
func (s *Service) Connection() ConnectionInfo { return s.conn }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// LoadTable returns the named table with canonical headers. A missing table
// or a failing backend yields an empty table.
func (s *Service) LoadTable(ctx context.Context, name string) table.Table {
	return s.LoadTableResult(ctx, name).Table
}

// LoadTableResult is LoadTable with the read outcome attached.
func (s *Service) LoadTableResult(ctx context.Context, name string) store.ReadResult {
	if t, ok := s.cache.Get(ctx, name); ok {
		return store.ReadResult{Table: t, Status: store.StatusOK, Backend: cacheBackend}
	}

	res := s.adapter.ReadResult(ctx, name)
	res.Table = schema.Normalize(res.Table)
	if res.Status == store.StatusOK {
		s.cache.Set(ctx, name, res.Table)
	}
	return res
}

// Reload drops every cached table so the next load hits the backend.
func (s *Service) Reload(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		logging.FromContext(ctx).Warn("cache clear failed", "error", err)
		return err
	}
	logging.FromContext(ctx).Info("table cache cleared")
	return nil
}

// RecentWrites returns the newest journal entries.
func (s *Service) RecentWrites(ctx context.Context, limit int) ([]audit.Entry, error) {
	return s.journal.Recent(ctx, limit)
}

// write overwrites one table and journals the outcome.
func (s *Service) write(ctx context.Context, action audit.Action, name string, t table.Table) store.WriteResult {
	res := s.adapter.WriteResult(ctx, name, t)

	e := audit.NewEntry(ctx, action, name, t.Len())
	e.OK = res.OK
	e.Backend = res.Backend
	e.FellBack = res.FellBack
	if res.Err != nil {
		e.Error = res.Err.Error()
	}
	if err := s.journal.Record(ctx, e); err != nil {
		logging.WithFields(ctx, "table", name).Warn("journal record failed", "error", err)
	}
	return res
}

// logMalformed reports non-numeric cells found while decoding a load.
func logMalformed(ctx context.Context, name string, n numbers) {
	if n.malformed == 0 {
		return
	}
	logging.FromContext(ctx).Log(ctx, slog.LevelDebug, "non-numeric cells treated as 0",
		"table", name, "cells", n.malformed)
}
