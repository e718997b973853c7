package schema

// Table names as they appear in the backend.
const (
	TableProjects        = "Projects"
	TableTasks           = "Tasks"
	TableChallenges      = "Challenges"
	TableDocuments       = "Documents"
	TableRecommendations = "MeetingRecommendations"
	TableConfig          = "Config"
	TableUsers           = "App_Users"
)

// Canonical column names shared across tables.
const (
	ColProjectID   = "Project_ID"
	ColName        = "Name"
	ColManager     = "Manager"
	ColPath        = "Project_Path"
	ColStage       = "Current_Stage"
	ColStartDate   = "Start_Date"
	ColEndDate     = "End_Date"
	ColBudget      = "Total_Budget"
	ColDescription = "Description"
	ColLogoURL     = "Logo_URL"

	ColTaskID        = "Task_ID"
	ColTask          = "Task"
	ColSubTask       = "Sub_Task"
	ColCategory      = "Category"
	ColOwner         = "Owner"
	ColCost          = "Cost"
	ColQuantityTotal = "Quantity_Total"
	ColQuantityDone  = "Quantity_Done"
	ColStatus        = "Status"

	ColChallengeID    = "Challenge_ID"
	ColResolutionPlan = "Resolution_Plan"
	ColRiskImpact     = "Risk_Impact"
	ColRiskType       = "Risk_Type"

	ColDocID   = "Doc_ID"
	ColLinkURL = "Link_URL"

	ColDate           = "Date"
	ColRecommendation = "Recommendation"
	ColCreatedAt      = "Created_At"

	ColType  = "Type"
	ColValue = "Value"

	ColUsername = "Username"
	ColRole     = "Role"
)

// Config entry types used to populate selection lists.
const (
	ConfigTeamMember   = "Team_Member"
	ConfigTaskCategory = "Task_Category"
)

// Task status values offered by the task editor.
var TaskStatuses = []string{"Completed", "In Progress", "Not Started", "مكتمل", "جاري التنفيذ", "لم يبدأ"}

// Recommendation status values offered by the meeting log.
var RecommendationStatuses = []string{"قيد التنفيذ", "مكتمل", "معلق", "ملغي"}

// Projects is the project register.
var Projects = TableSpec{
	Name:  TableProjects,
	Label: "Projects",
	Fields: []FieldSpec{
		{Name: ColProjectID, Type: FieldText, Required: true},
		{Name: ColName, Type: FieldText},
		{Name: ColManager, Type: FieldText},
		{Name: ColPath, Type: FieldText},
		{Name: ColStage, Type: FieldText},
		{Name: ColStartDate, Type: FieldDate},
		{Name: ColEndDate, Type: FieldDate},
		{Name: ColBudget, Type: FieldNumeric},
		{Name: ColDescription, Type: FieldText},
		{Name: ColLogoURL, Type: FieldURL},
	},
}

// Tasks is the work breakdown with quantity-based progress.
var Tasks = TableSpec{
	Name:  TableTasks,
	Label: "Tasks",
	Fields: []FieldSpec{
		{Name: ColTaskID, Type: FieldText, Required: true},
		{Name: ColProjectID, Type: FieldText},
		{Name: ColTask, Type: FieldText},
		{Name: ColSubTask, Type: FieldText},
		{Name: ColCategory, Type: FieldText},
		{Name: ColOwner, Type: FieldEnum},
		{Name: ColStartDate, Type: FieldDate},
		{Name: ColEndDate, Type: FieldDate},
		{Name: ColCost, Type: FieldNumeric},
		{Name: ColQuantityTotal, Type: FieldNumeric},
		{Name: ColQuantityDone, Type: FieldNumeric},
		{Name: ColStatus, Type: FieldEnum, EnumValues: TaskStatuses},
	},
}

// Challenges is the risk log.
var Challenges = TableSpec{
	Name:  TableChallenges,
	Label: "Challenges",
	Fields: []FieldSpec{
		{Name: ColChallengeID, Type: FieldText, Required: true},
		{Name: ColProjectID, Type: FieldText},
		{Name: ColDescription, Type: FieldText},
		{Name: ColStatus, Type: FieldText},
		{Name: ColOwner, Type: FieldText},
		{Name: ColResolutionPlan, Type: FieldText},
		{Name: ColRiskImpact, Type: FieldText},
		{Name: ColRiskType, Type: FieldText},
	},
}

// Documents is the project document index.
var Documents = TableSpec{
	Name:  TableDocuments,
	Label: "Documents",
	Fields: []FieldSpec{
		{Name: ColDocID, Type: FieldText, Required: true},
		{Name: ColProjectID, Type: FieldText},
		{Name: ColName, Type: FieldText},
		{Name: ColLinkURL, Type: FieldURL},
	},
}

// Recommendations is the meeting recommendation log.
var Recommendations = TableSpec{
	Name:  TableRecommendations,
	Label: "Meeting Recommendations",
	Fields: []FieldSpec{
		{Name: ColProjectID, Type: FieldText},
		{Name: ColDate, Type: FieldDate},
		{Name: ColRecommendation, Type: FieldText},
		{Name: ColOwner, Type: FieldEnum},
		{Name: ColStatus, Type: FieldEnum, EnumValues: RecommendationStatuses},
		{Name: ColCreatedAt, Type: FieldText},
	},
}

// Config holds (type, value) pairs for selection lists.
var Config = TableSpec{
	Name:  TableConfig,
	Label: "Config",
	Fields: []FieldSpec{
		{Name: ColType, Type: FieldText, Required: true},
		{Name: ColValue, Type: FieldText},
	},
}

// Users is the seeded user directory. It is not read by the dashboard.
var Users = TableSpec{
	Name:  TableUsers,
	Label: "Users",
	Fields: []FieldSpec{
		{Name: ColUsername, Type: FieldText, Required: true},
		{Name: ColName, Type: FieldText},
		{Name: ColRole, Type: FieldText},
	},
}

var specs = []TableSpec{Projects, Tasks, Challenges, Documents, Recommendations, Config}

// All returns the tables the dashboard reads, in display order.
func All() []TableSpec {
	return append([]TableSpec(nil), specs...)
}

// Lookup returns the spec for a dashboard table. The user directory is
// not a dashboard table and is not found.
func Lookup(name string) (TableSpec, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s, true
		}
	}
	return TableSpec{}, false
}
