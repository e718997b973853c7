package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/table"
)

// saveTasksRequest is the JSON body of a task editor save.
type saveTasksRequest struct {
	Tasks []table.Row `json:"tasks"`
}

// handleSaveTasks merges task editor changes into the Tasks table. It
// accepts the editor form or a JSON body.
func (s *Server) handleSaveTasks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	var edits []table.Row
	if isJSONBody(r) {
		var req saveTasksRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, fmt.Errorf("decode tasks: %w: %v", core.ErrInvalidInput, err), http.StatusBadRequest)
			return
		}
		edits = req.Tasks
	} else {
		if err := r.ParseForm(); err != nil {
			s.respondError(w, r, fmt.Errorf("parse form: %w: %v", core.ErrInvalidInput, err), http.StatusBadRequest)
			return
		}
		var err error
		if edits, err = taskEditsFromForm(r.PostForm); err != nil {
			s.respondError(w, r, err, 0)
			return
		}
	}

	changed, err := s.service.UpdateTasks(r.Context(), edits)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, map[string]int{"changed": changed})
		return
	}
	notice := "saved"
	if changed == 0 {
		notice = "nochange"
	}
	redirectTo(w, r, core.ViewTasks, r.PostForm.Get("project"), notice)
}

// taskEditsFromForm pairs the editor's per-column values with the Task_ID
// values by position.
func taskEditsFromForm(form url.Values) ([]table.Row, error) {
	ids := form[schema.ColTaskID]
	edits := make([]table.Row, len(ids))
	for i, id := range ids {
		edits[i] = table.Row{schema.ColTaskID: table.Text(id)}
	}
	for _, col := range core.TaskEditableColumns {
		vals, present := form[col]
		if !present {
			continue
		}
		if len(vals) != len(ids) {
			return nil, fmt.Errorf("column %s has %d values for %d tasks: %w", col, len(vals), len(ids), core.ErrInvalidInput)
		}
		for i, v := range vals {
			edits[i][col] = table.Text(v)
		}
	}
	return edits, nil
}

// handleAddRecommendation appends one meeting recommendation from the add
// form or a JSON body.
func (s *Server) handleAddRecommendation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	rec, err := recommendationFromRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	saved, err := s.service.AddRecommendation(r.Context(), rec)
	if err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if wantsJSON(r) {
		writeJSONStatus(w, http.StatusCreated, saved)
		return
	}
	redirectTo(w, r, core.ViewMeetings, r.PostForm.Get("project"), "added")
}

// handleEditRecommendation saves one edited row of the meeting log.
func (s *Server) handleEditRecommendation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)

	rec, err := recommendationFromRequest(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}
	if !isJSONBody(r) {
		idx, err := strconv.Atoi(strings.TrimSpace(r.PostForm.Get("index")))
		if err != nil {
			s.respondError(w, r, fmt.Errorf("index %q: %w", r.PostForm.Get("index"), core.ErrInvalidInput), http.StatusBadRequest)
			return
		}
		rec.Index = idx
	}

	if err := s.service.UpdateRecommendation(r.Context(), rec); err != nil {
		s.respondError(w, r, err, 0)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, rec)
		return
	}
	redirectTo(w, r, core.ViewMeetings, r.PostForm.Get("project"), "updated")
}

// recommendationFromRequest decodes a recommendation from JSON or the
// meetings form. The form's project field is the recommendation's project.
func recommendationFromRequest(r *http.Request) (core.Recommendation, error) {
	var rec core.Recommendation
	if isJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			return rec, fmt.Errorf("decode recommendation: %w: %v", core.ErrInvalidInput, err)
		}
		return rec, nil
	}
	if err := r.ParseForm(); err != nil {
		return rec, fmt.Errorf("parse form: %w: %v", core.ErrInvalidInput, err)
	}
	f := r.PostForm
	rec.ProjectID = strings.TrimSpace(f.Get("project"))
	rec.Date = strings.TrimSpace(f.Get("date"))
	rec.Recommendation = f.Get("recommendation")
	rec.Owner = strings.TrimSpace(f.Get("owner"))
	rec.Status = strings.TrimSpace(f.Get("status"))
	rec.CreatedAt = strings.TrimSpace(f.Get("created_at"))
	return rec, nil
}

// handleReload clears the table cache so the next reads hit the backend.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reload(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	redirectTo(w, r, core.ViewSettings, r.FormValue("project"), "reloaded")
}

// handleAddConfigForm appends a dropdown value from the settings page.
func (s *Server) handleAddConfigForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, fmt.Errorf("parse form: %w: %v", core.ErrInvalidInput, err), http.StatusBadRequest)
		return
	}
	if err := s.addConfig(r, r.PostForm.Get("type"), r.PostForm.Get("value")); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	redirectTo(w, r, core.ViewSettings, r.PostForm.Get("project"), "config")
}

func (s *Server) addConfig(r *http.Request, typ, value string) error {
	typ, value = strings.TrimSpace(typ), strings.TrimSpace(value)
	if typ == "" || value == "" {
		return fmt.Errorf("config type and value are required: %w", core.ErrInvalidInput)
	}
	if !s.service.WriteConfig(r.Context(), typ, value) {
		return fmt.Errorf("save %s: %w", schema.TableConfig, core.ErrWriteFailed)
	}
	return nil
}

func isJSONBody(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
