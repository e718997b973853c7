package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/table"
)

// TaskEditableColumns are the task columns the task editor may change.
var TaskEditableColumns = []string{
	schema.ColTask,
	schema.ColSubTask,
	schema.ColOwner,
	schema.ColStatus,
	schema.ColStartDate,
	schema.ColEndDate,
}

// UpdateTasks merges task editor changes into the stored Tasks table and
// overwrites it. Each edit names its row by Task_ID; only the editable
// columns it carries are changed, every other cell and row is kept. It
// returns the number of rows changed.
func (s *Service) UpdateTasks(ctx context.Context, edits []table.Row) (int, error) {
	if len(edits) == 0 {
		return 0, nil
	}

	tasks, ok := s.loadForAppend(ctx, schema.TableTasks, schema.Tasks.Columns())
	if !ok {
		return 0, fmt.Errorf("load %s: %w", schema.TableTasks, ErrWriteFailed)
	}

	byID := make(map[string]int, tasks.Len())
	for i, r := range tasks.Rows {
		id := r.String(schema.ColTaskID)
		if _, dup := byID[id]; id != "" && !dup {
			byID[id] = i
		}
	}

	changed := 0
	for _, edit := range edits {
		id := strings.TrimSpace(edit.String(schema.ColTaskID))
		i, found := byID[id]
		if !found {
			return 0, fmt.Errorf("unknown task %q: %w", id, ErrInvalidInput)
		}

		cells := table.Row{}
		for _, col := range TaskEditableColumns {
			if v, present := edit[col]; present && !v.Equal(tasks.Rows[i].Get(col)) {
				cells[col] = v
			}
		}
		if len(cells) == 0 {
			continue
		}
		tasks = tasks.Update(i, cells)
		changed++
	}

	if changed == 0 {
		return 0, nil
	}
	if res := s.write(ctx, audit.ActionWriteTasks, schema.TableTasks, tasks); !res.OK {
		return 0, fmt.Errorf("save %s: %w: %v", schema.TableTasks, ErrWriteFailed, res.Err)
	}
	return changed, nil
}

// UpdateRecommendation replaces the date, text, owner and status of the
// meeting recommendation at rec.Index and overwrites the meeting log.
// Project_ID and Created_At are kept as stored. When rec carries them they
// must match the stored row at rec.Index, or ErrStaleRow is returned and
// nothing is written.
func (s *Service) UpdateRecommendation(ctx context.Context, rec Recommendation) error {
	rec.Recommendation = strings.TrimSpace(rec.Recommendation)
	if rec.Recommendation == "" {
		return fmt.Errorf("recommendation text is required: %w", ErrInvalidInput)
	}

	recs, ok := s.loadForAppend(ctx, schema.TableRecommendations, schema.Recommendations.Columns())
	if !ok {
		return fmt.Errorf("load %s: %w", schema.TableRecommendations, ErrWriteFailed)
	}
	if rec.Index < 0 || rec.Index >= recs.Len() {
		return fmt.Errorf("recommendation %d out of range: %w", rec.Index, ErrInvalidInput)
	}
	stored := recs.Rows[rec.Index]
	if (rec.ProjectID != "" && stored.String(schema.ColProjectID) != rec.ProjectID) ||
		(rec.CreatedAt != "" && stored.String(schema.ColCreatedAt) != rec.CreatedAt) {
		logging.WithFields(ctx, "index", rec.Index, "project", rec.ProjectID, "created_at", rec.CreatedAt).
			Warn("recommendation edit rejected: stored row differs")
		return fmt.Errorf("recommendation %d: %w", rec.Index, ErrStaleRow)
	}

	recs = recs.Update(rec.Index, table.Row{
		schema.ColDate:           table.Text(rec.Date),
		schema.ColRecommendation: table.Text(rec.Recommendation),
		schema.ColOwner:          table.Text(rec.Owner),
		schema.ColStatus:         table.Text(rec.Status),
	})
	if res := s.write(ctx, audit.ActionWriteRecommendations, schema.TableRecommendations, recs); !res.OK {
		return fmt.Errorf("save %s: %w: %v", schema.TableRecommendations, ErrWriteFailed, res.Err)
	}
	return nil
}
