package views

import (
	"context"
	"time"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/a-h/templ"
)

// taskStatusOptions is the status picker of the task editor.
var taskStatusOptions = []string{"مكتمل", "جاري التنفيذ", "قيد التنفيذ", "لم يبدأ", "Completed", "In Progress", "Not Started"}

// Tasks renders the task editor. The form posts one value per editable
// column per row, in row order, keyed by Task_ID.
func Tasks(projectID string, tasks []core.Task) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h3>📋 قائمة المهام</h3>`)
		if len(tasks) == 0 {
			emptyState(h, "لا توجد مهام لعرضها.")
			return
		}

		h.raw(`<form method="post" action="/tasks">`)
		if projectID != "" {
			h.raw(`<input type="hidden" name="project" value="`)
			h.text(projectID)
			h.raw(`">`)
		}
		h.raw(`<table><tr><th>القسم</th><th>المهمة</th><th>المسؤول</th><th>الحالة</th><th>البدء</th><th>التسليم</th></tr>`)
		for _, t := range tasks {
			h.raw(`<tr><td><input type="hidden" name="`, schema.ColTaskID, `" value="`)
			h.text(t.ID)
			h.raw(`"><input type="text" name="`, schema.ColTask, `" value="`)
			h.text(t.Task)
			h.raw(`"></td>`)
			textCell(h, schema.ColSubTask, t.SubTask, "text")
			textCell(h, schema.ColOwner, t.Owner, "text")
			h.raw(`<td>`)
			statusSelect(h, schema.ColStatus, "", t.Status, taskStatusOptions)
			h.raw(`</td>`)
			textCell(h, schema.ColStartDate, dateText(t.StartDate, t.StartDateText), "text")
			textCell(h, schema.ColEndDate, dateText(t.EndDate, t.EndDateText), "text")
			h.raw(`</tr>`)
		}
		h.raw(`</table><p><button type="submit">💾 حفظ البيانات</button></p></form>`)
	})
}

func textCell(h *html, name, value, kind string) {
	h.raw(`<td><input type="`, kind, `" name="`, name, `" value="`)
	h.text(value)
	h.raw(`"></td>`)
}

// statusSelect renders a status picker, bound to form when form is not
// empty. A current value outside options is offered too, so saving does not
// silently change it.
func statusSelect(h *html, name, form, current string, options []string) {
	h.raw(`<select name="`, name, `"`)
	if form != "" {
		h.raw(` form="`, form, `"`)
	}
	h.raw(`>`)
	if current != "" && !contains(options, current) {
		options = append([]string{current}, options...)
	}
	for _, o := range options {
		h.raw(`<option value="`)
		h.text(o)
		h.raw(`"`)
		if o == current {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(o)
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
}

// dateText shows a parsed date in ISO form and anything else as stored.
func dateText(t time.Time, stored string) string {
	if t.IsZero() {
		return stored
	}
	return formatDate(t)
}
