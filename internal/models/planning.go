package models

// Planning artifacts produced by parsing AI text output. None of these are
// persisted; they live for a single request unless the AI cache holds them.

type LearningObjective struct {
	Description        string   `json:"description"`
	Skills             []string `json:"skills"`
	AssessmentCriteria []string `json:"assessment_criteria"`
}

type AssessmentItem struct {
	Question     string            `json:"question"`
	Rubric       map[string]string `json:"rubric"`
	SampleAnswer *string           `json:"sample_answer"`
	MaxScore     int               `json:"max_score"`
}

type StudentProgress struct {
	StudentID          string   `json:"student_id"`
	Subject            string   `json:"subject"`
	ObjectivesMastered []string `json:"mastered"`
	AreasForGrowth     []string `json:"growth_areas"`
	Recommendations    []string `json:"recommendations"`
}

type TermPlanRequest struct {
	Subject         string   `json:"subject"`
	GradeLevel      string   `json:"grade_level"`
	Term            int      `json:"term"`
	PriorObjectives []string `json:"prior_objectives,omitempty"`
}

type AssessmentRequest struct {
	Objective string `json:"objective"`
	Type      string `json:"type"`
	Level     string `json:"level"`
}

type ProgressRequest struct {
	StudentID string `json:"student_id"`
	Subject   string `json:"subject"`
}

// ActivitiesRequest carries the objective plus a count of students per
// differentiation level, e.g. {"support": 4, "standard": 18, "extension": 6}.
type ActivitiesRequest struct {
	Objective    string         `json:"objective"`
	ClassProfile map[string]int `json:"class_profile"`
}
