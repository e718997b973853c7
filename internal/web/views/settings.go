package views

import (
	"context"
	"strconv"

	"github.com/JonMunkholm/pmis/internal/audit"
	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/a-h/templ"
)

// ConfigList is one configured dropdown list.
type ConfigList struct {
	Type   string
	Values []string
}

// SettingsData is everything the settings page shows.
type SettingsData struct {
	Conn     core.ConnectionInfo
	Projects int
	Tasks    int
	Lists    []ConfigList
	Writes   []audit.Entry
}

// Settings renders the connection status, the reload button, the config
// lists and the recent writes.
func Settings(d SettingsData) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<h3>⚙️ الإعدادات وحالة النظام</h3>`)
		if d.Conn.UsingSheets {
			h.raw(`<div class="notice">✅ <b>متصل بـ Google Sheets</b> `)
			if d.Conn.SheetURL != "" {
				h.raw(`<a target="_blank" rel="noopener" href="`)
				h.href(d.Conn.SheetURL)
				h.raw(`">📄 `)
				h.text(d.Conn.SheetURL)
				h.raw(`</a>`)
			}
			h.raw(`</div>`)
		} else {
			h.raw(`<div class="error">⚠️ وضع المحلي - غير متصل بـ Google Sheets</div>`)
		}

		h.raw(`<form method="post" action="/settings/reload"><button type="submit">🔄 إعادة تحميل البيانات</button></form>`)

		h.raw(`<h4>ℹ️ معلومات النظام</h4><ul><li>📊 إجمالي المشاريع: `, strconv.Itoa(d.Projects),
			`</li><li>📋 إجمالي المهام: `, strconv.Itoa(d.Tasks), `</li><li>المصدر الأساسي: `)
		h.text(d.Conn.Primary)
		h.raw(`</li>`)
		if d.Conn.Fallback != "" {
			h.raw(`<li>المصدر الاحتياطي: `)
			h.text(d.Conn.Fallback)
			h.raw(`</li>`)
		}
		if d.Conn.WorkbookPath != "" {
			h.raw(`<li>الملف المحلي: `)
			h.text(d.Conn.WorkbookPath)
			h.raw(`</li>`)
		}
		cache := "معطل"
		if d.Conn.CacheEnabled {
			cache = "مفعل"
		}
		h.raw(`<li>التخزين المؤقت: `, cache, `</li></ul>`)

		h.raw(`<h4>القوائم</h4>`)
		for _, l := range d.Lists {
			h.raw(`<div class="card"><b>`)
			h.text(l.Type)
			h.raw(`</b>: `)
			for i, v := range l.Values {
				if i > 0 {
					h.raw(`، `)
				}
				h.text(v)
			}
			h.raw(`<form method="post" action="/settings/config"><input type="hidden" name="type" value="`)
			h.text(l.Type)
			h.raw(`"><input type="text" name="value" required> <button type="submit">إضافة</button></form></div>`)
		}

		if len(d.Writes) > 0 {
			h.raw(`<h4>آخر عمليات الحفظ</h4><table><tr><th>الوقت</th><th>العملية</th><th>الجدول</th><th>الصفوف</th><th>المصدر</th><th>النتيجة</th></tr>`)
			for _, e := range d.Writes {
				result := "✅"
				if !e.OK {
					result = "❌ " + e.Error
				} else if e.FellBack {
					result = "✅ (احتياطي)"
				}
				h.raw(`<tr><td>`)
				h.text(e.CreatedAt.Format("2006-01-02 15:04"))
				h.raw(`</td><td>`)
				h.text(string(e.Action))
				h.raw(`</td><td>`)
				h.text(e.Table)
				h.raw(`</td><td>`, strconv.Itoa(e.Rows), `</td><td>`)
				h.text(e.Backend)
				h.raw(`</td><td>`)
				h.text(result)
				h.raw(`</td></tr>`)
			}
			h.raw(`</table>`)
		}
	})
}

// Login renders the access code form.
func Login(next string, failed bool) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="ar" dir="rtl"><head><meta charset="utf-8"><title>`)
		h.text(AppTitle)
		h.raw(`</title><style>`, styles, `</style></head><body><main><section class="card"><h2>بوابة `)
		h.text(AppTitle)
		h.raw(`</h2>`)
		if failed {
			h.raw(`<div class="error">😕 رمز الدخول غير صحيح</div>`)
		}
		h.raw(`<form method="post" action="/login"><input type="hidden" name="next" value="`)
		h.text(next)
		h.raw(`"><label>يرجى إدخال رمز الدخول <input type="password" name="code" autofocus required></label> `,
			`<button type="submit">دخول</button></form></section></main></body></html>`)
	})
}

// ErrorNotice renders a user-facing error with its support code.
func ErrorNotice(msg core.UserMessage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="error" role="alert"><b>`)
		h.text(msg.Message)
		h.raw(`</b>`)
		if msg.Action != "" {
			h.raw(` `)
			h.text(msg.Action)
		}
		h.raw(` <small>(`)
		h.text(msg.Code)
		h.raw(`)</small></div>`)
	})
}
