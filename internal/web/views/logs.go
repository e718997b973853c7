package views

import (
	"context"
	"strconv"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/a-h/templ"
)

// Challenges renders the risk log.
func Challenges(items []core.Challenge) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h3>⚠️ التحديات والمخاطر</h3>`)
		if len(items) == 0 {
			emptyState(h, "لا توجد مخاطر مسجلة حالياً.")
			return
		}
		h.raw(`<table><tr><th>الوصف</th><th>الحالة</th><th>الأثر</th><th>المسؤول</th><th>خطة المعالجة</th></tr>`)
		for _, c := range items {
			h.raw(`<tr><td>`)
			h.text(c.Description)
			h.raw(`</td><td>`)
			h.text(c.Status)
			h.raw(`</td><td>`)
			h.text(c.RiskImpact)
			h.raw(`</td><td>`)
			h.text(c.Owner)
			h.raw(`</td><td>`)
			h.text(c.ResolutionPlan)
			h.raw(`</td></tr>`)
		}
		h.raw(`</table>`)
	})
}

// Documents renders the document links.
func Documents(items []core.Document) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h3>📁 المستندات</h3>`)
		if len(items) == 0 {
			emptyState(h, "لا توجد مستندات مرتبطة بهذا المشروع.")
			return
		}
		for _, d := range items {
			h.raw(`<div class="card"><b>`)
			h.text(d.Name)
			h.raw(`</b> <a target="_blank" rel="noopener" href="`)
			h.href(d.LinkURL)
			h.raw(`">🔗 رابط</a></div>`)
		}
	})
}

// MeetingsData is everything the meetings page shows.
type MeetingsData struct {
	ProjectID string
	Items     []core.Recommendation
	Summary   core.RecommendationStats
	Team      []string
	Today     string
}

// Meetings renders the add form, the editable log and the summary.
func Meetings(d MeetingsData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h3>📅 توصيات الاجتماعات الدورية</h3><h4>➕ إضافة توصية جديدة</h4>`,
			`<form method="post" action="/meetings" class="card">`)
		projectField(h, d.ProjectID)
		h.raw(`<label>📅 تاريخ الاجتماع <input type="date" name="date" value="`)
		h.text(d.Today)
		h.raw(`"></label> <label>👤 المسؤول عن التنفيذ <select name="owner">`)
		team := d.Team
		if len(team) == 0 {
			team = []string{"مدير المشروع"}
		}
		for _, m := range team {
			h.raw(`<option value="`)
			h.text(m)
			h.raw(`">`)
			h.text(m)
			h.raw(`</option>`)
		}
		h.raw(`</select></label> <label>📊 الحالة `)
		statusSelect(h, "status", "", schema.RecommendationStatuses[0], schema.RecommendationStatuses)
		h.raw(`</label><p><textarea name="recommendation" rows="3" cols="60" placeholder="أدخل تفاصيل التوصية أو المهمة المطلوبة..."></textarea></p>`,
			`<button type="submit">💾 إضافة التوصية</button></form><h4>📋 سجل التوصيات</h4>`)

		if len(d.Items) == 0 {
			emptyState(h, "📭 لا توجد توصيات مسجلة لهذا المشروع. استخدم النموذج أعلاه لإضافة توصية جديدة.")
			return
		}
		h.raw(`<table><tr><th>التاريخ</th><th>التوصية</th><th>المسؤول</th><th>الحالة</th><th></th></tr>`)
		for _, r := range d.Items {
			form := "rec-" + strconv.Itoa(r.Index)
			h.raw(`<tr><td><form id="`, form, `" method="post" action="/meetings/edit">`,
				`<input type="hidden" name="index" value="`, strconv.Itoa(r.Index), `"><input type="hidden" name="created_at" value="`)
			h.text(r.CreatedAt)
			h.raw(`">`)
			projectField(h, d.ProjectID)
			h.raw(`</form><input form="`, form, `" type="text" name="date" value="`)
			h.text(r.Date)
			h.raw(`"></td><td><input form="`, form, `" type="text" name="recommendation" size="50" value="`)
			h.text(r.Recommendation)
			h.raw(`"></td><td><input form="`, form, `" type="text" name="owner" value="`)
			h.text(r.Owner)
			h.raw(`"></td><td>`)
			statusSelect(h, "status", form, r.Status, schema.RecommendationStatuses)
			h.raw(`</td><td><button form="`, form, `" type="submit">💾 حفظ</button></td></tr>`)
		}
		h.raw(`</table><h4>📊 ملخص الإحصائيات</h4><div class="cards">`)
		s := d.Summary
		kpiCard(h, "إجمالي التوصيات", strconv.Itoa(s.Total), "📋 كل التوصيات")
		kpiCard(h, "مكتملة", strconv.Itoa(s.Completed), formatPercent(s.CompletionPercent))
		kpiCard(h, "قيد التنفيذ", strconv.Itoa(s.InProgress), "⏳ جاري العمل")
		kpiCard(h, "معلقة", strconv.Itoa(s.Suspended), "⚠️ تحتاج متابعة")
		h.raw(`</div>`)
	})
}

func projectField(h *html, projectID string) {
	if projectID == "" {
		return
	}
	h.raw(`<input type="hidden" name="project" value="`)
	h.text(projectID)
	h.raw(`">`)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
