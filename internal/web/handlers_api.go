package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
	"github.com/go-chi/chi/v5"
)

// TableResponse is a table as served by the API.
type TableResponse struct {
	Name    string      `json:"name"`
	Backend string      `json:"backend,omitempty"`
	Columns []string    `json:"columns"`
	Rows    []table.Row `json:"rows"`
}

// TableInfo describes one table the API serves.
type TableInfo struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Columns []string `json:"columns"`
}

// handleHealth reports liveness and the configured storage.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	conn := s.service.Connection()
	writeJSON(w, map[string]interface{}{
		"status":   "ok",
		"primary":  conn.Primary,
		"fallback": conn.Fallback,
	})
}

// handleListTables lists the tables the API serves with their canonical
// columns.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	specs := schema.All()
	out := make([]TableInfo, len(specs))
	for i, t := range specs {
		out[i] = TableInfo{Name: t.Name, Label: t.Label, Columns: t.Columns()}
	}
	writeJSON(w, out)
}

// lookupTable resolves the {name} route parameter to a dashboard table.
func lookupTable(r *http.Request) (schema.TableSpec, error) {
	name := chi.URLParam(r, "name")
	spec, ok := schema.Lookup(name)
	if !ok {
		return schema.TableSpec{}, fmt.Errorf("table %q: %w", name, store.ErrTableNotFound)
	}
	return spec, nil
}

// handleGetTable returns one normalized table. An empty table is served
// with 200; a missing sheet is 404 and unreachable storage 503.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	spec, err := lookupTable(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	res := s.service.LoadTableResult(r.Context(), spec.Name)
	switch res.Status {
	case store.StatusAbsent:
		s.respondError(w, r, fmt.Errorf("table %q: %w", spec.Name, store.ErrTableNotFound), http.StatusNotFound)
		return
	case store.StatusBackendError:
		s.respondError(w, r, fmt.Errorf("table %q: %w", spec.Name, res.Err), http.StatusServiceUnavailable)
		return
	}

	rows := res.Table.Rows
	if p := r.URL.Query().Get("project"); p != "" && res.Table.HasColumn(schema.ColProjectID) {
		rows = res.Table.Where(schema.ColProjectID, p).Rows
	}
	if rows == nil {
		rows = []table.Row{}
	}
	cols := res.Table.Columns
	if cols == nil {
		cols = []string{}
	}
	writeJSON(w, TableResponse{Name: spec.Name, Backend: res.Backend, Columns: cols, Rows: rows})
}

// putTableRequest is the body of a full-table overwrite.
type putTableRequest struct {
	Columns []string    `json:"columns"`
	Rows    []table.Row `json:"rows"`
}

// handlePutTable overwrites one table with the request body. Columns
// default to the canonical header; row keys outside it are appended.
func (s *Server) handlePutTable(w http.ResponseWriter, r *http.Request) {
	spec, err := lookupTable(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	var req putTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode table: %w: %v", core.ErrInvalidInput, err), http.StatusBadRequest)
		return
	}

	cols := req.Columns
	if len(cols) == 0 {
		cols = spec.Columns()
	}
	t := table.New(cols...)
	for _, row := range req.Rows {
		t = t.Append(row)
	}

	res := s.service.WriteTable(r.Context(), spec.Name, t)
	if !res.OK {
		s.respondError(w, r, fmt.Errorf("save %s: %w: %v", spec.Name, core.ErrWriteFailed, res.Err), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]interface{}{
		"name":     spec.Name,
		"rows":     t.Len(),
		"backend":  res.Backend,
		"fellBack": res.FellBack,
	})
}

// handleStats returns quantity-based progress for one project, or all
// projects without a project ID.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	if id == "" {
		writeJSON(w, s.service.Dashboard(r.Context(), core.Selection{}).Stats)
		return
	}
	writeJSON(w, s.service.GetProjectStats(r.Context(), id))
}

// handleDashboardJSON returns the dashboard KPIs for ?project=.
func (s *Server) handleDashboardJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.service.Dashboard(r.Context(), selection(r, core.ViewDashboard)))
}

// handleGanttJSON returns the schedule for ?project= with the page filters.
func (s *Server) handleGanttJSON(w http.ResponseWriter, r *http.Request) {
	sel := selection(r, core.ViewGantt)
	writeJSON(w, s.service.Gantt(r.Context(), sel.ProjectID, ganttOptions(r)))
}

// ConfigResponse is one dropdown list.
type ConfigResponse struct {
	Type   string   `json:"type"`
	Values []string `json:"values"`
}

// handleGetConfig returns the values of one Config type.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	writeJSON(w, ConfigResponse{Type: typ, Values: s.service.GetConfigList(r.Context(), typ)})
}

// handleAddConfig appends one value to a Config type. The value comes from
// a JSON body {"value": ...} or a form field.
func (s *Server) handleAddConfig(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	typ := chi.URLParam(r, "type")

	var value string
	if isJSONBody(r) {
		var req struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, r, fmt.Errorf("decode config: %w: %v", core.ErrInvalidInput, err), http.StatusBadRequest)
			return
		}
		value = req.Value
	} else {
		value = r.FormValue("value")
	}

	if err := s.addConfig(r, typ, value); err != nil {
		s.respondError(w, r, err, 0)
		return
	}
	writeJSONStatus(w, http.StatusCreated, ConfigResponse{Type: typ, Values: s.service.GetConfigList(r.Context(), typ)})
}

// handleReloadJSON clears the table cache.
func (s *Server) handleReloadJSON(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reload(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"status": "reloaded"})
}

// handleRecentWrites returns the newest journaled writes.
func (s *Server) handleRecentWrites(w http.ResponseWriter, r *http.Request) {
	entries, err := s.service.RecentWrites(r.Context(), audit.DefaultRecentLimit)
	if err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, entries)
}
