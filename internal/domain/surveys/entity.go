package surveys

import "time"

// ResponseID identifier type
type ResponseID string

// Status enum for the administrative flag on a response
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnalyzed Status = "analyzed"
	StatusArchived Status = "archived"
)

// CategoryDemographic marks questions that collect respondent attributes
// rather than analyzable free text.
const CategoryDemographic = "demographic"

// Answer is one per-question answer inside a response.
type Answer struct {
	QuestionID       string `json:"question_id"`
	QuestionText     string `json:"question_text"`
	QuestionCategory string `json:"question_category,omitempty"`
	Value            string `json:"value"`
}

// Aggregate root: Response
type Response struct {
	ID                   ResponseID `json:"id"`
	SurveyID             string     `json:"survey_id"`
	OrganizationID       string     `json:"organization_id"`
	RespondentRole       string     `json:"respondent_role,omitempty"`
	RespondentDepartment string     `json:"respondent_department,omitempty"`
	Status               Status     `json:"status"`
	Answers              []Answer   `json:"answers,omitempty"`
	SubmittedAt          time.Time  `json:"submitted_at"`
}

// AnalyzableAnswers returns the answers worth sending to the analyzer.
// Demographic answers are skipped unless includeDemographic is set.
func (r *Response) AnalyzableAnswers(includeDemographic bool) []Answer {
	var out []Answer
	for _, a := range r.Answers {
		if !includeDemographic && a.QuestionCategory == CategoryDemographic {
			continue
		}
		out = append(out, a)
	}
	return out
}

// OnlyDemographic reports whether every answer belongs to a demographic
// question. Such responses carry nothing to analyze.
func (r *Response) OnlyDemographic() bool {
	if len(r.Answers) == 0 {
		return true
	}
	for _, a := range r.Answers {
		if a.QuestionCategory != CategoryDemographic {
			return false
		}
	}
	return true
}
