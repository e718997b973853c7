package web

import (
	"net/http"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/web/views"
)

// handleDashboard renders the KPI page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sel := selection(r, core.ViewDashboard)
	s.render(w, r, sel, views.Dashboard(s.service.Dashboard(r.Context(), sel)))
}

// handleGantt renders the schedule.
func (s *Server) handleGantt(w http.ResponseWriter, r *http.Request) {
	sel := selection(r, core.ViewGantt)
	opts := ganttOptions(r)
	chart := s.service.Gantt(r.Context(), sel.ProjectID, opts)
	s.render(w, r, sel, views.Gantt(sel.ProjectID, chart, opts))
}

func ganttOptions(r *http.Request) core.GanttOptions {
	q := r.URL.Query()
	return core.GanttOptions{
		GroupBy:  core.ParseGroupBy(q.Get("group")),
		Statuses: q["status"],
		Owners:   q["owner"],
	}
}

// handleTasks renders the task editor.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	sel := selection(r, core.ViewTasks)
	s.render(w, r, sel, views.Tasks(sel.ProjectID, s.service.Tasks(r.Context(), sel.ProjectID)))
}

// handleChallenges renders the risk log.
func (s *Server) handleChallenges(w http.ResponseWriter, r *http.Request) {
	sel := selection(r, core.ViewChallenges)
	s.render(w, r, sel, views.Challenges(s.service.Challenges(r.Context(), sel.ProjectID)))
}

// handleDocuments renders the document links.
func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	sel := selection(r, core.ViewDocuments)
	s.render(w, r, sel, views.Documents(s.service.Documents(r.Context(), sel.ProjectID)))
}

// handleMeetings renders the meeting log with optional status and owner
// filters.
func (s *Server) handleMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel := selection(r, core.ViewMeetings)

	items := s.service.Recommendations(ctx, sel.ProjectID)
	statuses, owners := r.URL.Query()["status"], r.URL.Query()["owner"]
	if len(statuses) > 0 || len(owners) > 0 {
		items = filterRecommendations(items, statuses, owners)
	}

	s.render(w, r, sel, views.Meetings(views.MeetingsData{
		ProjectID: sel.ProjectID,
		Items:     items,
		Summary:   s.service.RecommendationSummary(ctx, sel.ProjectID),
		Team:      s.service.TeamMembers(ctx),
		Today:     s.service.Now().Format("2006-01-02"),
	}))
}

func filterRecommendations(items []core.Recommendation, statuses, owners []string) []core.Recommendation {
	in := func(list []string, v string) bool {
		if len(list) == 0 {
			return true
		}
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	}
	var out []core.Recommendation
	for _, it := range items {
		if in(statuses, it.Status) && in(owners, it.Owner) {
			out = append(out, it)
		}
	}
	return out
}

// configListTypes are the dropdown lists managed on the settings page.
var configListTypes = []string{schema.ConfigTeamMember, schema.ConfigTaskCategory}

// handleSettings renders the connection status and configuration.
func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sel := selection(r, core.ViewSettings)

	data := views.SettingsData{
		Conn:     s.service.Connection(),
		Projects: len(s.service.Projects(ctx)),
		Tasks:    s.service.TaskTable(ctx, "").Len(),
	}
	for _, typ := range configListTypes {
		data.Lists = append(data.Lists, views.ConfigList{Type: typ, Values: s.service.GetConfigList(ctx, typ)})
	}
	writes, err := s.service.RecentWrites(ctx, audit.DefaultRecentLimit)
	if err != nil {
		logging.FromContext(ctx).Warn("recent writes unavailable", "error", err)
	}
	data.Writes = writes

	s.render(w, r, sel, views.Settings(data))
}
