package core

import (
	"time"

	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/table"
)

// Project is one row of the project register.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Manager     string    `json:"manager,omitempty"`
	Path        string    `json:"path,omitempty"`
	Stage       string    `json:"stage,omitempty"`
	StartDate   time.Time `json:"startDate,omitempty"`
	EndDate     time.Time `json:"endDate,omitempty"`
	EndDateText string    `json:"endDateText,omitempty"` // End_Date as stored, for display
	Budget      float64   `json:"budget"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
}

// Task is one row of the work breakdown.
type Task struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId"`
	Task          string    `json:"task"`
	SubTask       string    `json:"subTask,omitempty"`
	Category      string    `json:"category,omitempty"`
	Owner         string    `json:"owner,omitempty"`
	StartDate     time.Time `json:"startDate,omitempty"`
	EndDate       time.Time `json:"endDate,omitempty"`
	StartDateText string    `json:"startDateText,omitempty"` // dates as stored, for display
	EndDateText   string    `json:"endDateText,omitempty"`
	Cost          float64   `json:"cost"`
	QuantityTotal float64   `json:"quantityTotal"`
	QuantityDone  float64   `json:"quantityDone"`
	Status        string    `json:"status"`
}

// Challenge is one entry of the risk log.
type Challenge struct {
	ID             string `json:"id"`
	ProjectID      string `json:"projectId"`
	Description    string `json:"description"`
	Status         string `json:"status,omitempty"`
	Owner          string `json:"owner,omitempty"`
	ResolutionPlan string `json:"resolutionPlan,omitempty"`
	RiskImpact     string `json:"riskImpact,omitempty"`
	RiskType       string `json:"riskType,omitempty"`
}

// Document is a link to an external project document.
type Document struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Name      string `json:"name"`
	LinkURL   string `json:"linkUrl"`
}

// Recommendation is one meeting recommendation. Dates are kept as text,
// the way the meeting log stores them.
type Recommendation struct {
	// Index is the row position in the stored meeting log, used to address
	// edits. It is not stored.
	Index int `json:"index"`

	ProjectID      string `json:"projectId"`
	Date           string `json:"date"`
	Recommendation string `json:"recommendation"`
	Owner          string `json:"owner,omitempty"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt,omitempty"`
}

// Row renders the recommendation as a canonical table row.
func (r Recommendation) Row() table.Row {
	return table.Row{
		schema.ColProjectID:      table.Text(r.ProjectID),
		schema.ColDate:           table.Text(r.Date),
		schema.ColRecommendation: table.Text(r.Recommendation),
		schema.ColOwner:          table.Text(r.Owner),
		schema.ColStatus:         table.Text(r.Status),
		schema.ColCreatedAt:      table.Text(r.CreatedAt),
	}
}

// ProjectStats is the quantity-based progress of one project.
type ProjectStats struct {
	Progress  float64 `json:"progress"`  // percent, one decimal
	Total     int     `json:"total"`     // sum of Quantity_Total
	Remaining int     `json:"remaining"` // total minus sum of Quantity_Done
}

// View names a dashboard page.
type View string

const (
	ViewDashboard  View = "dashboard"
	ViewGantt      View = "gantt"
	ViewTasks      View = "tasks"
	ViewChallenges View = "challenges"
	ViewDocuments  View = "documents"
	ViewMeetings   View = "meetings"
	ViewSettings   View = "settings"
)

// Views lists the pages in navigation order.
var Views = []View{ViewDashboard, ViewGantt, ViewTasks, ViewChallenges, ViewDocuments, ViewMeetings, ViewSettings}

// ParseView returns the named view, or ViewDashboard for unknown names.
func ParseView(s string) View {
	for _, v := range Views {
		if string(v) == s {
			return v
		}
	}
	return ViewDashboard
}

// Selection is the per-request choice of project and page. An empty
// ProjectID selects all projects.
type Selection struct {
	ProjectID string
	View      View
}

// AllProjects reports whether no single project is selected.
func (s Selection) AllProjects() bool { return s.ProjectID == "" }
