// Package seed builds the demo workbook used to try the dashboard without
// a spreadsheet: one reporting-platform project with its tasks, dropdown
// lists, a risk, a document and a meeting log.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/pmis/internal/logging"
	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/store"
	"github.com/JonMunkholm/pmis/internal/table"
)

// ProjectID is the identifier of the demo project.
const ProjectID = "P_REPORTS"

// Sheet is one named demo table.
type Sheet struct {
	Name  string
	Table table.Table
}

// Writer stores one table. *core.Service implements it.
type Writer interface {
	SeedTable(ctx context.Context, name string, t table.Table) store.WriteResult
}

// Result is the outcome of writing one sheet.
type Result struct {
	Name     string
	Rows     int
	Backend  string
	FellBack bool
}

// Sheets returns the demo data in write order. now stamps the meeting log.
func Sheets(now time.Time) []Sheet {
	return []Sheet{
		{schema.TableProjects, projects()},
		{schema.TableTasks, tasks()},
		{schema.TableConfig, configEntries()},
		{schema.TableChallenges, challenges()},
		{schema.TableUsers, users()},
		{schema.TableDocuments, documents()},
		{schema.TableRecommendations, recommendations(now)},
	}
}

// Write stores every sheet through w, stopping at the first failure.
// Sheets written before the failure stay written.
func Write(ctx context.Context, w Writer, sheets []Sheet) ([]Result, error) {
	logger := logging.FromContext(ctx)
	out := make([]Result, 0, len(sheets))
	for _, s := range sheets {
		res := w.SeedTable(ctx, s.Name, s.Table)
		if !res.OK {
			return out, fmt.Errorf("seed %s: %w", s.Name, res.Err)
		}
		logger.Debug("seeded table", "table", s.Name, "rows", s.Table.Len(), "backend", res.Backend)
		out = append(out, Result{Name: s.Name, Rows: s.Table.Len(), Backend: res.Backend, FellBack: res.FellBack})
	}
	return out, nil
}

func projects() table.Table {
	return table.New(schema.Projects.Columns()...).Append(table.Row{
		schema.ColProjectID:   table.Text(ProjectID),
		schema.ColName:        table.Text("منصة التقارير"),
		schema.ColManager:     table.Text("عوض"),
		schema.ColPath:        table.Text("Tech/Media"),
		schema.ColStage:       table.Text("Execution"),
		schema.ColStartDate:   table.Text("2026-01-06"),
		schema.ColEndDate:     table.Text("2026-02-15"),
		schema.ColBudget:      table.Number(23000),
		schema.ColDescription: table.Text("مشروع حصر وبرمجة وتنظيم منصة التقارير الكبرى"),
		schema.ColLogoURL:     table.Text("https://cdn-icons-png.flaticon.com/512/2645/2645853.png"),
	})
}

type demoTask struct {
	id, task, group, category, owner, start, end string
	cost, total, done                             float64
	status                                        string
}

var demoTasks = []demoTask{
	{"T1", "مراجعة ال 12 ألف تقرير المتبقي", "البحث", "Content/Writing", "فريق البحث", "2026-01-06", "2026-01-12", 15000, 12000, 12000, "Completed"},
	{"T2", "البحث عن 18 ألف تقرير جديد", "البحث", "Content/Writing", "فريق البحث", "2026-01-06", "2026-01-12", 0, 18000, 7200, "In Progress"},

	{"T3", "فرز التقارير والتأكد من شمولها", "معالجة البيانات", "General", "فريق البحث", "2026-01-08", "2026-01-18", 0, 100, 0, "Not Started"},
	{"T4", "التأكد من صحة البيانات وإتاحتها", "معالجة البيانات", "General", "فريق البحث", "2026-01-08", "2026-01-18", 0, 100, 0, "Not Started"},

	{"T5", "كتابة محتوى تسويقي للمنصة", "المحتوى", "Content/Writing", "أثير", "2026-01-11", "2026-01-13", 0, 100, 50, "In Progress"},
	{"T6", "كتابة تجربة المستخدم للمنصة", "المحتوى", "Content/Writing", "أثير", "2026-01-11", "2026-01-13", 0, 100, 70, "In Progress"},

	{"T7", "تصميم المحتوى التسويقي للمنصة", "التصاميم", "Design/Execution", "يوسف", "2026-01-13", "2026-01-17", 0, 100, 0, "Not Started"},
	{"T8", "تصميم تجربة المستخدم للمنصة", "التصاميم", "Design/Execution", "يوسف", "2026-01-13", "2026-01-17", 0, 100, 0, "Not Started"},

	{"T9", "التواصل مع الجهة القانونية", "القانون", "General", "محمد الجديعي", "2026-01-11", "2026-01-20", 0, 100, 0, "Not Started"},
	{"T10", "جلب والاتفاق", "القانون", "General", "محمد الجديعي", "2026-01-11", "2026-01-20", 0, 100, 0, "Not Started"},
	{"T11", "دراسة المبرمجين وتوقيع الاتفاقية", "القانون", "General", "محمد الجديعي", "2026-01-11", "2026-01-20", 0, 100, 0, "Not Started"},
	{"T12", "الدراسة الفنية والتوقيع والاتفاقية", "القانون", "General", "محمد الجديعي", "2026-01-11", "2026-01-20", 0, 100, 0, "Not Started"},
	{"T13", "الاتفاقية الدولية للممول والشريك", "القانون", "General", "محمد الجديعي", "2026-01-11", "2026-01-20", 0, 100, 0, "Not Started"},

	{"T14", "UX للمنصة", "البرمجة", "Design/Execution", "عبدالرحمن الأردني", "2026-01-08", "2026-01-17", 5000, 100, 50, "In Progress"},
	{"T15", "تصميم واجهة الموقع بالتطبيقات", "البرمجة", "Design/Execution", "عبدالرحمن الأردني", "2026-01-15", "2026-01-29", 0, 100, 0, "Not Started"},
	{"T16", "برمجة كود نظيف", "البرمجة", "Design/Execution", "عبدالرحمن الأردني", "2026-01-06", "2026-01-12", 0, 100, 100, "Completed"},
	{"T17", "تضمين SEO من المبرمج", "البرمجة", "Design/Execution", "عبدالرحمن الأردني", "2026-01-11", "2026-01-20", 0, 100, 0, "Not Started"},

	{"T18", "التواصل مع قطاع التعليم", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T19", "التواصل مع قطاع المال", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T20", "التواصل مع قطاع الصحة", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T21", "التواصل مع قطاع البنوك", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T22", "الشركات مع الحكومة العربي", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T23", "التواصل مع المجتمع المدني", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T24", "توقيع الشراكة مع قطاع التعدين", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T25", "توقيع الشراكة مع الصحة العالمية", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},
	{"T26", "مراجعة وتجهيز وثائق المشروع", "الشراكات", "General", "أ- محمد بارحمة", "2026-01-11", "2026-01-22", 0, 100, 0, "Not Started"},

	{"T27", "خطة إدارة المستخدمين", "إدارة المستخدمين", "General", "بشائر", "2026-01-10", "2026-01-12", 3000, 100, 0, "Not Started"},
	{"T28", "تفعيل ميزات بروفايل المستخدمين", "إدارة المستخدمين", "General", "بشائر", "2026-01-10", "2026-01-12", 0, 100, 0, "Not Started"},
	{"T29", "استقطاب الكادرات الفنية للمنصة", "إدارة المستخدمين", "General", "بشائر", "2026-01-12", "2026-01-16", 0, 100, 0, "Not Started"},

	{"T30", "مراجعة الهوية", "ما قبل الإطلاق", "General", "الهوية", "2026-01-21", "2026-01-21", 0, 100, 0, "Not Started"},
	{"T31", "مراجعة المحتوى", "ما قبل الإطلاق", "General", "المحتوى", "2026-01-22", "2026-01-23", 0, 100, 0, "Not Started"},
	{"T32", "مراجعة الأمان", "ما قبل الإطلاق", "General", "الأمان", "2026-01-26", "2026-01-27", 0, 100, 0, "Not Started"},
}

// tasks lays the demo tasks out with the group label in Task and the
// task text in Sub_Task, the way the tracking sheet is kept.
func tasks() table.Table {
	t := table.New(schema.Tasks.Columns()...)
	for _, d := range demoTasks {
		t = t.Append(table.Row{
			schema.ColTaskID:        table.Text(d.id),
			schema.ColProjectID:     table.Text(ProjectID),
			schema.ColTask:          table.Text(d.group),
			schema.ColSubTask:       table.Text(d.task),
			schema.ColCategory:      table.Text(d.category),
			schema.ColOwner:         table.Text(d.owner),
			schema.ColStartDate:     table.Text(d.start),
			schema.ColEndDate:       table.Text(d.end),
			schema.ColCost:          table.Number(d.cost),
			schema.ColQuantityTotal: table.Number(d.total),
			schema.ColQuantityDone:  table.Number(d.done),
			schema.ColStatus:        table.Text(d.status),
		})
	}
	return t
}

var (
	teamMembers = []string{
		"عوض", "فريق البحث", "أثير", "يوسف", "محمد الجديعي", "عبدالرحمن الأردني",
		"أ- محمد بارحمة", "بشائر", "الهوية", "المحتوى", "الأمان",
	}
	taskCategories = []string{"Content/Writing", "Design/Execution", "General"}
)

func configEntries() table.Table {
	t := table.New(schema.Config.Columns()...)
	add := func(typ string, values []string) {
		for _, v := range values {
			t = t.Append(table.Row{schema.ColType: table.Text(typ), schema.ColValue: table.Text(v)})
		}
	}
	add(schema.ConfigTeamMember, teamMembers)
	add(schema.ConfigTaskCategory, taskCategories)
	return t
}

func challenges() table.Table {
	return table.New(schema.Challenges.Columns()...).Append(table.Row{
		schema.ColChallengeID:    table.Text("C1"),
		schema.ColProjectID:      table.Text(ProjectID),
		schema.ColDescription:    table.Text("تأخر الاتفاقيات الدولية"),
		schema.ColStatus:         table.Text("Open"),
		schema.ColOwner:          table.Text("محمد الجديعي"),
		schema.ColResolutionPlan: table.Text("تصعيد للادارة"),
		schema.ColRiskImpact:     table.Text("Medium"),
		schema.ColRiskType:       table.Text("Legal"),
	})
}

func users() table.Table {
	return table.New(schema.Users.Columns()...).Append(table.Row{
		schema.ColUsername: table.Text("admin"),
		schema.ColName:     table.Text("Awad"),
		schema.ColRole:     table.Text("Admin"),
	})
}

func documents() table.Table {
	return table.New(schema.Documents.Columns()...).Append(table.Row{
		schema.ColDocID:     table.Text("D1"),
		schema.ColProjectID: table.Text(ProjectID),
		schema.ColName:      table.Text("Design Doc"),
		schema.ColLinkURL:   table.Text("#"),
	})
}

func recommendations(now time.Time) table.Table {
	return table.New(schema.Recommendations.Columns()...).Append(table.Row{
		schema.ColProjectID:      table.Text(ProjectID),
		schema.ColDate:           table.Text("2026-01-08"),
		schema.ColRecommendation: table.Text("تسريع توقيع الاتفاقيات مع الشركاء"),
		schema.ColOwner:          table.Text("محمد الجديعي"),
		schema.ColStatus:         table.Text(schema.RecommendationStatuses[0]),
		schema.ColCreatedAt:      table.Text(now.Format("2006-01-02 15:04")),
	})
}
