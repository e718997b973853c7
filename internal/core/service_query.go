package core

import (
	"context"

	"github.com/JonMunkholm/pmis/internal/schema"
	"github.com/JonMunkholm/pmis/internal/table"
)

// GetProjectStats sums Quantity_Total and Quantity_Done over the project's
// tasks. Progress is 100*done/total rounded to one decimal, 0 when total is
// 0. A project without tasks yields all zeros.
func (s *Service) GetProjectStats(ctx context.Context, projectID string) ProjectStats {
	tasks := s.LoadTable(ctx, schema.TableTasks).Where(schema.ColProjectID, projectID)
	if tasks.Empty() {
		return ProjectStats{}
	}
	return quantityStats(ctx, tasks)
}

func quantityStats(ctx context.Context, tasks table.Table) ProjectStats {
	var nums numbers
	var total, done float64
	for _, r := range tasks.Rows {
		total += nums.get(r, schema.ColQuantityTotal)
		done += nums.get(r, schema.ColQuantityDone)
	}
	logMalformed(ctx, schema.TableTasks, nums)

	return ProjectStats{
		Progress:  percent(done, total),
		Total:     int(total),
		Remaining: int(total - done),
	}
}

// GetConfigList returns the Value of every Config row whose Type is typ,
// in row order. A blank value is returned as the empty string.
func (s *Service) GetConfigList(ctx context.Context, typ string) []string {
	cfg := s.LoadTable(ctx, schema.TableConfig)
	out := []string{}
	if !cfg.HasColumn(schema.ColType) || !cfg.HasColumn(schema.ColValue) {
		return out
	}
	for _, r := range cfg.Where(schema.ColType, typ).Rows {
		out = append(out, r.String(schema.ColValue))
	}
	return out
}

// Projects returns the project register in stored order.
func (s *Service) Projects(ctx context.Context) []Project {
	t := s.LoadTable(ctx, schema.TableProjects)
	var nums numbers
	out := make([]Project, 0, t.Len())
	for _, r := range t.Rows {
		if len(r) == 0 {
			continue
		}
		p := Project{
			ID:          r.String(schema.ColProjectID),
			Name:        r.String(schema.ColName),
			Manager:     r.String(schema.ColManager),
			Path:        r.String(schema.ColPath),
			Stage:       r.String(schema.ColStage),
			EndDateText: r.String(schema.ColEndDate),
			Budget:      nums.get(r, schema.ColBudget),
			Description: r.String(schema.ColDescription),
			LogoURL:     r.String(schema.ColLogoURL),
		}
		p.StartDate, _ = ParseDate(r.Get(schema.ColStartDate))
		p.EndDate, _ = ParseDate(r.Get(schema.ColEndDate))
		out = append(out, p)
	}
	logMalformed(ctx, schema.TableProjects, nums)
	return out
}

// ProjectByID returns the first project with the given identifier.
func (s *Service) ProjectByID(ctx context.Context, id string) (Project, bool) {
	for _, p := range s.Projects(ctx) {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// ProjectByName returns the first project with the given display name.
func (s *Service) ProjectByName(ctx context.Context, name string) (Project, bool) {
	for _, p := range s.Projects(ctx) {
		if p.Name == name {
			return p, true
		}
	}
	return Project{}, false
}

// scoped filters t to one project; an empty projectID keeps every row.
func scoped(t table.Table, projectID string) table.Table {
	if projectID == "" {
		return t
	}
	return t.Where(schema.ColProjectID, projectID)
}

// TaskTable returns the canonical Tasks rows of one project, or all.
func (s *Service) TaskTable(ctx context.Context, projectID string) table.Table {
	return scoped(s.LoadTable(ctx, schema.TableTasks), projectID)
}

// Tasks returns the typed tasks of one project, or all.
func (s *Service) Tasks(ctx context.Context, projectID string) []Task {
	return decodeTasks(ctx, s.TaskTable(ctx, projectID))
}

func decodeTasks(ctx context.Context, t table.Table) []Task {
	var nums numbers
	out := make([]Task, 0, t.Len())
	for _, r := range t.Rows {
		task := Task{
			ID:            r.String(schema.ColTaskID),
			ProjectID:     r.String(schema.ColProjectID),
			Task:          r.String(schema.ColTask),
			SubTask:       r.String(schema.ColSubTask),
			Category:      r.String(schema.ColCategory),
			Owner:         r.String(schema.ColOwner),
			Cost:          nums.get(r, schema.ColCost),
			QuantityTotal: nums.get(r, schema.ColQuantityTotal),
			QuantityDone:  nums.get(r, schema.ColQuantityDone),
			Status:        r.String(schema.ColStatus),
			StartDateText: r.String(schema.ColStartDate),
			EndDateText:   r.String(schema.ColEndDate),
		}
		task.StartDate, _ = ParseDate(r.Get(schema.ColStartDate))
		task.EndDate, _ = ParseDate(r.Get(schema.ColEndDate))
		out = append(out, task)
	}
	logMalformed(ctx, schema.TableTasks, nums)
	return out
}

// Challenges returns the risk log of one project, or all.
func (s *Service) Challenges(ctx context.Context, projectID string) []Challenge {
	t := scoped(s.LoadTable(ctx, schema.TableChallenges), projectID)
	out := make([]Challenge, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, Challenge{
			ID:             r.String(schema.ColChallengeID),
			ProjectID:      r.String(schema.ColProjectID),
			Description:    r.String(schema.ColDescription),
			Status:         r.String(schema.ColStatus),
			Owner:          r.String(schema.ColOwner),
			ResolutionPlan: r.String(schema.ColResolutionPlan),
			RiskImpact:     r.String(schema.ColRiskImpact),
			RiskType:       r.String(schema.ColRiskType),
		})
	}
	return out
}

// Documents returns the document links of one project, or all.
func (s *Service) Documents(ctx context.Context, projectID string) []Document {
	t := scoped(s.LoadTable(ctx, schema.TableDocuments), projectID)
	out := make([]Document, 0, t.Len())
	for _, r := range t.Rows {
		out = append(out, Document{
			ID:        r.String(schema.ColDocID),
			ProjectID: r.String(schema.ColProjectID),
			Name:      r.String(schema.ColName),
			LinkURL:   r.String(schema.ColLinkURL),
		})
	}
	return out
}

// Recommendations returns the meeting log of one project, or all.
func (s *Service) Recommendations(ctx context.Context, projectID string) []Recommendation {
	t := s.LoadTable(ctx, schema.TableRecommendations)
	out := make([]Recommendation, 0, t.Len())
	for i, r := range t.Rows {
		if projectID != "" && r.String(schema.ColProjectID) != projectID {
			continue
		}
		out = append(out, Recommendation{
			Index:          i,
			ProjectID:      r.String(schema.ColProjectID),
			Date:           r.String(schema.ColDate),
			Recommendation: r.String(schema.ColRecommendation),
			Owner:          r.String(schema.ColOwner),
			Status:         r.String(schema.ColStatus),
			CreatedAt:      r.String(schema.ColCreatedAt),
		})
	}
	return out
}

// TeamMembers returns the configured team members, skipping blank
// entries, falling back to the distinct task owners when none are
// configured.
func (s *Service) TeamMembers(ctx context.Context) []string {
	var out []string
	for _, m := range s.GetConfigList(ctx, schema.ConfigTeamMember) {
		if m != "" {
			out = append(out, m)
		}
	}
	if len(out) > 0 {
		return out
	}
	seen := map[string]bool{}
	for _, v := range s.LoadTable(ctx, schema.TableTasks).Column(schema.ColOwner) {
		if v.IsNull() || seen[v.String()] {
			continue
		}
		seen[v.String()] = true
		out = append(out, v.String())
	}
	return out
}
