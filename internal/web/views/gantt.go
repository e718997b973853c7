package views

import (
	"context"
	"strconv"
	"time"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/a-h/templ"
)

var groupLabels = []struct {
	by    core.GroupBy
	label string
}{
	{core.GroupBySubTask, "المهمة"},
	{core.GroupByTask, "القسم"},
	{core.GroupByOwner, "المسؤول"},
}

// Gantt renders the filter form and the schedule as positioned bars.
func Gantt(projectID string, chart core.GanttChart, opts core.GanttOptions) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h3>📅 الجدول الزمني</h3><form method="get" action="/gantt">`)
		if projectID != "" {
			h.raw(`<input type="hidden" name="project" value="`)
			h.text(projectID)
			h.raw(`">`)
		}

		h.raw(`<label>عرض حسب <select name="group">`)
		for _, g := range groupLabels {
			h.raw(`<option value="`, string(g.by), `"`)
			if g.by == opts.GroupBy {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(g.label)
			h.raw(`</option>`)
		}
		h.raw(`</select></label>`)

		checkboxes(h, "الحالة", "status", chart.Statuses, chart.Selected)
		checkboxes(h, "المسؤول", "owner", chart.Owners, opts.Owners)
		h.raw(`<button type="submit">تطبيق</button></form>`)

		if len(chart.Bars) == 0 {
			emptyState(h, "لا توجد مهام لعرضها.")
			return
		}

		h.raw(`<p>`)
		h.text(formatDate(chart.Start) + " ← " + formatDate(chart.End))
		h.raw(`</p><table><tr><th>البند</th><th>الحالة</th><th style="width:60%">المدة</th></tr>`)
		span := chart.End.Sub(chart.Start)
		for _, b := range chart.Bars {
			left, width := position(chart.Start, span, b.Start, b.End)
			h.raw(`<tr><td>`)
			h.text(b.Label)
			h.raw(`</td><td>`)
			h.text(b.Status)
			h.raw(`</td><td><div class="track"><span class="`, barClass(b.Status),
				`" style="right:`, left, `%;width:`, width, `%" title="`)
			h.text(formatDate(b.Start) + " - " + formatDate(b.End))
			h.raw(`"></span></div></td></tr>`)
		}
		h.raw(`</table>`)
	})
}

func checkboxes(h *html, legend, name string, options, checked []string) {
	if len(options) == 0 {
		return
	}
	on := make(map[string]bool, len(checked))
	for _, c := range checked {
		on[c] = true
	}
	h.raw(`<fieldset><legend>`)
	h.text(legend)
	h.raw(`</legend>`)
	for _, o := range options {
		h.raw(`<label><input type="checkbox" name="`, name, `" value="`)
		h.text(o)
		h.raw(`"`)
		if on[o] {
			h.raw(` checked`)
		}
		h.raw(`> `)
		h.text(o)
		h.raw(`</label> `)
	}
	h.raw(`</fieldset>`)
}

// position places [start, end] on a track covering span from origin, as
// percentages. A zero-length bar still gets a sliver so it stays visible.
func position(origin time.Time, span time.Duration, start, end time.Time) (left, width string) {
	if span <= 0 {
		return "0", "100"
	}
	l := float64(start.Sub(origin)) / float64(span) * 100
	w := float64(end.Sub(start)) / float64(span) * 100
	if w < 0.5 {
		w = 0.5
	}
	return strconv.FormatFloat(l, 'f', 2, 64), strconv.FormatFloat(w, 'f', 2, 64)
}

func barClass(status string) string {
	switch schema.ClassifyStatus(status) {
	case schema.StatusCompleted:
		return "done"
	case schema.StatusNotStarted:
		return "idle"
	default:
		return "active"
	}
}
