package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/web/views"
	"github.com/a-h/templ"
)

// maxFormSize bounds form and JSON request bodies.
const maxFormSize = 1 << 20

// notices are the confirmations a redirect can ask the next page to show.
var notices = map[string]string{
	"saved":    "✅ تم حفظ البيانات بنجاح!",
	"added":    "✅ تم إضافة التوصية بنجاح!",
	"updated":  "✅ تم حفظ التعديلات بنجاح!",
	"reloaded": "🔄 تم مسح الذاكرة المؤقتة وإعادة تحميل البيانات",
	"config":   "✅ تمت إضافة القيمة",
	"nochange": "لا توجد تعديلات للحفظ",
}

// selection reads the project choice from the query string or form. The
// view comes from the route.
func selection(r *http.Request, view core.View) core.Selection {
	return core.Selection{
		ProjectID: strings.TrimSpace(r.FormValue("project")),
		View:      view,
	}
}

func (s *Server) nav(r *http.Request, sel core.Selection) views.Nav {
	return views.Nav{
		Active:    sel.View,
		ProjectID: sel.ProjectID,
		Projects:  s.service.Projects(r.Context()),
		Gated:     s.cfg.Security.RequireAccessCode,
		Notice:    notices[r.URL.Query().Get("notice")],
	}
}

// render writes a full page around body.
func (s *Server) render(w http.ResponseWriter, r *http.Request, sel core.Selection, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := views.Page(views.Label(sel.View), s.nav(r, sel), body)
	if err := page.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "view", sel.View, "error", err)
	}
}

// redirectTo sends the browser back to a view after a form post.
func redirectTo(w http.ResponseWriter, r *http.Request, view core.View, projectID, notice string) {
	q := url.Values{}
	if projectID != "" {
		q.Set("project", projectID)
	}
	if notice != "" {
		q.Set("notice", notice)
	}
	target := views.Path(view)
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
