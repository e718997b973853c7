package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
)

// DefaultProjectID is stamped on a recommendation when no project is
// selected and the project register is empty.
const DefaultProjectID = "P001"

// WriteTasks overwrites the Tasks table with t.
func (s *Service) WriteTasks(ctx context.Context, t table.Table) bool {
	return s.write(ctx, audit.ActionWriteTasks, schema.TableTasks, t).OK
}

// WriteMeetingRecommendations overwrites the MeetingRecommendations table.
func (s *Service) WriteMeetingRecommendations(ctx context.Context, t table.Table) bool {
	return s.write(ctx, audit.ActionWriteRecommendations, schema.TableRecommendations, t).OK
}

// WriteTable overwrites any named table. Used by the JSON API; the typed
// writers above are preferred elsewhere.
func (s *Service) WriteTable(ctx context.Context, name string, t table.Table) store.WriteResult {
	return s.write(ctx, audit.ActionWriteTable, name, t)
}

// SeedTable overwrites a table with demo data, journaled as a seed.
func (s *Service) SeedTable(ctx context.Context, name string, t table.Table) store.WriteResult {
	return s.write(ctx, audit.ActionSeed, name, t)
}

// WriteConfig appends one (type, value) pair to the Config table.
func (s *Service) WriteConfig(ctx context.Context, typ, value string) bool {
	typ, value = strings.TrimSpace(typ), strings.TrimSpace(value)
	if typ == "" || value == "" {
		logging.WithFields(ctx, "type", typ).Warn("config entry rejected: empty type or value")
		return false
	}

	cfg, ok := s.loadForAppend(ctx, schema.TableConfig, schema.Config.Columns())
	if !ok {
		return false
	}
	cfg = cfg.Append(table.Row{
		schema.ColType:  table.Text(typ),
		schema.ColValue: table.Text(value),
	})
	return s.write(ctx, audit.ActionWriteConfig, schema.TableConfig, cfg).OK
}

// AddRecommendation appends one meeting recommendation. Created_At is
// stamped from the service clock; an empty Date defaults to today and an
// empty ProjectID to the first registered project.
func (s *Service) AddRecommendation(ctx context.Context, rec Recommendation) (Recommendation, error) {
	rec.Recommendation = strings.TrimSpace(rec.Recommendation)
	if rec.Recommendation == "" {
		return Recommendation{}, fmt.Errorf("recommendation text is required: %w", ErrInvalidInput)
	}

	now := s.now()
	if rec.Date == "" {
		rec.Date = now.Format("2006-01-02")
	}
	if rec.Status == "" {
		rec.Status = schema.RecommendationStatuses[0]
	}
	if rec.ProjectID == "" {
		rec.ProjectID = DefaultProjectID
		if projects := s.Projects(ctx); len(projects) > 0 {
			rec.ProjectID = projects[0].ID
		}
	}
	rec.CreatedAt = now.Format("2006-01-02 15:04")

	recs, ok := s.loadForAppend(ctx, schema.TableRecommendations, schema.Recommendations.Columns())
	if !ok {
		return Recommendation{}, fmt.Errorf("load %s: %w", schema.TableRecommendations, ErrWriteFailed)
	}
	rec.Index = recs.Len()
	recs = recs.Append(rec.Row())

	res := s.write(ctx, audit.ActionWriteRecommendations, schema.TableRecommendations, recs)
	if !res.OK {
		return Recommendation{}, fmt.Errorf("save %s: %w: %v", schema.TableRecommendations, ErrWriteFailed, res.Err)
	}
	return rec, nil
}

// AppendRows adds rows to the end of a stored table in one load-append-
// overwrite cycle. An absent table starts from the canonical header.
func (s *Service) AppendRows(ctx context.Context, name string, rows []table.Row) (store.WriteResult, error) {
	var columns []string
	if spec, ok := schema.Lookup(name); ok {
		columns = spec.Columns()
	}
	t, ok := s.loadForAppend(ctx, name, columns)
	if !ok {
		return store.WriteResult{}, fmt.Errorf("load %s: %w", name, ErrWriteFailed)
	}
	for _, r := range rows {
		t = t.Append(r)
	}
	res := s.write(ctx, audit.ActionWriteTable, name, t)
	if !res.OK {
		return res, fmt.Errorf("save %s: %w: %v", name, ErrWriteFailed, res.Err)
	}
	return res, nil
}

// loadForAppend reads a table fresh from the adapter for a load-append-
// overwrite cycle. An absent table starts from the given header. A backend
// failure aborts the append so the stored table is not replaced by a
// single row.
func (s *Service) loadForAppend(ctx context.Context, name string, columns []string) (table.Table, bool) {
	res := s.adapter.ReadResult(ctx, name)
	switch res.Status {
	case store.StatusOK:
		t := schema.Normalize(res.Table)
		if len(t.Columns) == 0 {
			t = table.New(columns...)
		}
		return t, true
	case store.StatusAbsent:
		return table.New(columns...), true
	default:
		logging.WithFields(ctx, "table", name).Warn("append aborted: table could not be read", "error", res.Err)
		return table.Table{}, false
	}
}
