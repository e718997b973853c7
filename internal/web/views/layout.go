// Package views renders the dashboard pages as templ components.
//
// Components are plain Go functions returning templ.Component; all text
// goes through templ.EscapeString and all links through templ.URL.
package views

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"time"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/a-h/templ"
)

// AppTitle is the portal name shown in the header and the login page.
const AppTitle = "مشاريع سماوة"

// Nav is the page chrome shared by every view.
type Nav struct {
	Active    core.View
	ProjectID string
	Projects  []core.Project

	// Gated shows the logout button.
	Gated bool

	// Notice is a one-line confirmation shown above the content.
	Notice string
}

var viewLabels = map[core.View]string{
	core.ViewDashboard:  "لوحة التحكم",
	core.ViewGantt:      "مخطط جانت",
	core.ViewTasks:      "المهام",
	core.ViewChallenges: "التحديات",
	core.ViewDocuments:  "المستندات",
	core.ViewMeetings:   "الاجتماعات",
	core.ViewSettings:   "الإعدادات",
}

// Label returns the navigation label of a view.
func Label(v core.View) string {
	if l, ok := viewLabels[v]; ok {
		return l
	}
	return string(v)
}

// Path returns the route of a view.
func Path(v core.View) string {
	if v == core.ViewDashboard {
		return "/"
	}
	return "/" + string(v)
}

// Href returns the URL of view v keeping the project selection.
func Href(v core.View, projectID string) string {
	p := Path(v)
	if projectID != "" {
		p += "?project=" + url.QueryEscape(projectID)
	}
	return p
}

// html writes markup and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, p := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, p)
	}
}

// text writes s escaped, safe for element content and quoted attributes.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) href(s string) {
	h.raw(templ.EscapeString(string(templ.URL(s))))
}

func (h *html) child(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

const styles = `
body{margin:0;font-family:system-ui,"Segoe UI",Tahoma,sans-serif;background:#F7F5F0;color:#414042}
header{display:flex;flex-wrap:wrap;align-items:center;gap:1rem;padding:.75rem 1.5rem;background:#fff;border-bottom:3px solid #062759}
header .brand{font-weight:700;color:#062759;font-size:1.2rem}
nav a{padding:.5rem .9rem;border-radius:8px;color:#414042;text-decoration:none}
nav a.active{background:#062759;color:#fff}
main{padding:1.5rem;max-width:1200px;margin:auto}
.cards{display:grid;grid-template-columns:repeat(auto-fit,minmax(200px,1fr));gap:1rem;margin-bottom:1.5rem}
.card{background:#fff;border-radius:10px;padding:1rem;border-right:4px solid #118791}
.card .label{font-size:.85rem;color:#777}.card .value{font-size:1.6rem;font-weight:700;color:#062759}.card .delta{font-size:.8rem;color:#118791}
.notice{background:#97D3CB;padding:.6rem 1rem;border-radius:8px;margin-bottom:1rem}
.error{background:#FE6D6A;color:#fff;padding:.6rem 1rem;border-radius:8px;margin-bottom:1rem}
table{width:100%;border-collapse:collapse;background:#fff}th,td{padding:.45rem .6rem;border-bottom:1px solid #eee;text-align:right}
.bar{height:1.1rem;background:#118791;border-radius:4px}
.track{position:relative;height:1.1rem;background:#f0f0f0;border-radius:4px}
.track span{position:absolute;top:0;bottom:0;border-radius:4px;background:#118791}
.track span.done{background:#97D3CB}.track span.idle{background:#062759}
button,.button{background:#062759;color:#fff;border:0;border-radius:8px;padding:.5rem 1rem;cursor:pointer}
.empty{color:#777;padding:1rem;background:#fff;border-radius:8px}
`

// Page wraps body in the document shell with navigation and the project
// selector.
func Page(title string, nav Nav, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="ar" dir="rtl"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title + " | " + AppTitle)
		h.raw(`</title><style>`, styles, `</style></head><body><header><span class="brand">`)
		h.text(AppTitle)
		h.raw(`</span><nav>`)
		for _, v := range core.Views {
			class := ""
			if v == nav.Active {
				class = ` class="active"`
			}
			h.raw(`<a`, class, ` href="`)
			h.href(Href(v, nav.ProjectID))
			h.raw(`">`)
			h.text(Label(v))
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
		h.child(ctx, projectSelector(nav))
		if nav.Gated {
			h.raw(`<form method="post" action="/logout"><button type="submit">خروج</button></form>`)
		}
		h.raw(`</header><main>`)
		if nav.Notice != "" {
			h.raw(`<div class="notice">`)
			h.text(nav.Notice)
			h.raw(`</div>`)
		}
		h.child(ctx, body)
		h.raw(`</main></body></html>`)
	})
}

func projectSelector(nav Nav) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<form method="get" action="`)
		h.href(Path(nav.Active))
		h.raw(`"><select name="project" onchange="this.form.submit()"><option value="">📊 كل المشاريع</option>`)
		for _, p := range nav.Projects {
			h.raw(`<option value="`)
			h.text(p.ID)
			h.raw(`"`)
			if p.ID == nav.ProjectID {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(p.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select></form>`)
	})
}

func kpiCard(h *html, label, value, delta string) {
	h.raw(`<div class="card"><div class="label">`)
	h.text(label)
	h.raw(`</div><div class="value">`)
	h.text(value)
	h.raw(`</div><div class="delta">`)
	h.text(delta)
	h.raw(`</div></div>`)
}

func emptyState(h *html, msg string) {
	h.raw(`<div class="empty">`)
	h.text(msg)
	h.raw(`</div>`)
}

// countBars renders labelled counts as horizontal bars scaled to the
// largest count.
func countBars(h *html, counts []core.Count) {
	top := 0
	for _, c := range counts {
		if c.Count > top {
			top = c.Count
		}
	}
	h.raw(`<table>`)
	for _, c := range counts {
		width := 0
		if top > 0 {
			width = c.Count * 100 / top
		}
		h.raw(`<tr><td>`)
		h.text(c.Label)
		h.raw(`</td><td style="width:60%"><div class="bar" style="width:`, strconv.Itoa(width), `%"></div></td><td>`)
		h.text(strconv.Itoa(c.Count))
		h.raw(`</td></tr>`)
	}
	h.raw(`</table>`)
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func formatBudget(b float64) string {
	return fmt.Sprintf("%dk ر.س", int(b/1000))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
