package views

import (
	"context"
	"strconv"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/a-h/templ"
)

// Dashboard renders the KPI cards and the status and workload charts.
func Dashboard(kpi core.DashboardKPIs) templ.Component {
	return component(func(ctx context.Context, h *html) {
		if p := kpi.Project; p != nil {
			desc := p.Description
			if desc == "" {
				desc = "إدارة المشروع ومتابعة الإنجاز"
			}
			h.raw(`<section class="card"><h2>`)
			h.text(p.Name)
			h.raw(`</h2><p>`)
			h.text(desc)
			h.raw(`</p>`)
			if p.LogoURL != "" {
				h.raw(`<img alt="" style="max-height:80px" src="`)
				h.href(p.LogoURL)
				h.raw(`">`)
			}
			h.raw(`</section>`)
		}

		h.raw(`<div class="cards">`)
		kpiCard(h, "نسبة الإنجاز", formatPercent(kpi.Stats.Progress),
			strconv.Itoa(kpi.CompletedTasks)+" مهمة مكتملة")
		kpiCard(h, "المهام المتبقية", strconv.Itoa(kpi.RemainingTasks),
			"من "+strconv.Itoa(kpi.TotalTasks)+" مهمة")
		kpiCard(h, "قيد التنفيذ", strconv.Itoa(kpi.InProgressTasks), "")
		if p := kpi.Project; p != nil {
			kpiCard(h, "الميزانية التقديرية", formatBudget(kpi.Budget), "💰 إجمالي")
			deadline := "—"
			switch {
			case kpi.DeadlinePassed():
				deadline = "انتهى الموعد"
			case kpi.HasDeadline:
				deadline = "باقي " + strconv.Itoa(kpi.DaysLeft) + " يوم"
			}
			kpiCard(h, "الموعد النهائي", deadline, "📅 "+p.EndDateText)
		}
		h.raw(`</div>`)

		h.raw(`<h3>📊 تحليلات المشروع</h3><div class="cards"><section><h4>حالة المهام</h4>`)
		if len(kpi.StatusCounts) == 0 {
			emptyState(h, "لا توجد مهام لعرضها.")
		} else {
			countBars(h, kpi.StatusCounts)
		}
		h.raw(`</section><section><h4>أحمال العمل</h4>`)
		if len(kpi.Workload) == 0 {
			emptyState(h, "لا توجد مهام لعرضها.")
		} else {
			countBars(h, kpi.Workload)
		}
		h.raw(`</section></div>`)
	})
}
