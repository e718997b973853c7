// Package application assembles the dashboard's collaborators from
// configuration: storage backends, the table cache and the write journal.
package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/cache"
	"github.com/JonMunkholm/pmis/internal/config"
	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App is an assembled service plus the resources it holds open.
type App struct {
	Service *core.Service
	Adapter *store.Adapter

	pool  *pgxpool.Pool
	redis *cache.Redis
}

// Open builds the backends the config selects. The spreadsheet, when
// configured, is primary with the workbook as fallback; otherwise the
// workbook is the only backend. Cache and journal connection failures are
// fatal.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	adapter := openAdapter(ctx, cfg)
	app := &App{Adapter: adapter}

	opts := core.Options{}
	if cfg.Cache.Enabled {
		if cfg.Cache.RedisURL != "" {
			r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
			if err != nil {
				return nil, fmt.Errorf("open cache: %w", err)
			}
			app.redis = r
			opts.Cache = r
			slog.Info("table cache enabled", "kind", "redis", "ttl", cfg.Cache.TTL)
		} else {
			opts.Cache = cache.NewMemory(cfg.Cache.TTL)
			slog.Info("table cache enabled", "kind", "memory", "ttl", cfg.Cache.TTL)
		}
	}

	if cfg.Audit.Enabled() {
		pool, rec, err := audit.Connect(ctx, cfg.Audit.DatabaseURL, int32(cfg.Audit.MaxConns), int32(cfg.Audit.MinConns))
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("open write journal: %w", err)
		}
		app.pool = pool
		opts.Journal = rec
		slog.Info("write journal enabled", "kind", "postgres")
	} else {
		opts.Journal = audit.NewMemory(audit.DefaultRecentLimit)
	}

	app.Service = core.NewService(adapter, opts)
	return app, nil
}

// NewDryRun returns an App over an empty in-memory backend.
func NewDryRun() *App {
	adapter := store.NewAdapter(store.NewMemory("dry-run"), nil)
	return &App{
		Adapter: adapter,
		Service: core.NewService(adapter, core.Options{Journal: audit.NewMemory(audit.DefaultRecentLimit)}),
	}
}

func openAdapter(ctx context.Context, cfg *config.Config) *store.Adapter {
	workbook := store.NewWorkbook(cfg.Workbook.Path)
	if !cfg.Sheets.Enabled() {
		slog.Info("using local workbook", "path", cfg.Workbook.Path)
		return store.NewAdapter(workbook, nil)
	}

	srv, err := store.NewSheetsService(ctx, cfg.Sheets.CredentialsFile)
	if err != nil {
		// Bad credentials degrade to the workbook like any other backend failure.
		slog.Warn("spreadsheet unavailable, using local workbook", "error", err, "path", cfg.Workbook.Path)
		return store.NewAdapter(workbook, nil)
	}
	slog.Info("using spreadsheet with workbook fallback",
		"url", store.SpreadsheetURL(cfg.Sheets.SpreadsheetID),
		"fallback", cfg.Workbook.Path,
	)
	return store.NewAdapter(store.NewSheets(srv, cfg.Sheets.SpreadsheetID, cfg.Sheets.Timeout), workbook)
}

// Close releases the cache and journal connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("close redis", "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
