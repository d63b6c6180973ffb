package analysis

import (
	"context"
	"time"
)

// ItemContext is the organizational/respondent context handed to the
// analyzer with each invocation.
type ItemContext struct {
	OrganizationID       string `json:"organization_id,omitempty"`
	SurveyID             string `json:"survey_id,omitempty"`
	RespondentRole       string `json:"respondent_role,omitempty"`
	RespondentDepartment string `json:"respondent_department,omitempty"`
	QuestionContext      string `json:"question_context,omitempty"`
}

// Item is one response/question pair to analyze.
type Item struct {
	ResponseID    string
	QuestionID    string
	QuestionText  string
	ResponseText  string
	ExpectedForce Force
	Context       ItemContext
}

// Priority enum for batch scheduling hints. Purely advisory today.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// BatchRequest is the delegate call into the analyzer's batch entry point.
type BatchRequest struct {
	Items    []Item
	Parallel bool
	Priority Priority
}

// BatchOutput carries per-item results, aggregate accounting and per-item
// errors. Result order is not guaranteed to match item order; correlate by
// ResponseID.
type BatchOutput struct {
	Results []*Result
	Summary BatchSummary
	Errors  []ItemError
}

// ClientConfig is the analyzer configuration reported by the health check.
type ClientConfig struct {
	Model      string        `json:"model"`
	Timeout    time.Duration `json:"timeout"`
	Retries    int           `json:"retries"`
	MaxWorkers int           `json:"max_workers"`
}

// Client port (interface for the LLM collaborator)
type Client interface {
	AnalyzeResponse(ctx context.Context, item Item) (*Result, error)
	AnalyzeBatch(ctx context.Context, req BatchRequest) (*BatchOutput, error)
	// Health pings the provider and returns the observed latency.
	Health(ctx context.Context) (time.Duration, error)
	Config() ClientConfig
}

// Repository port for persisting analysis results
type Repository interface {
	Save(ctx context.Context, id ResultID, organizationID string, r *Result) error
}

// ReportArchive port for best-effort archival of batch report documents
type ReportArchive interface {
	// Archive stores the report under key and returns its URL.
	Archive(ctx context.Context, key string, report []byte) (string, error)
}

// BatchLogRepository port for the batch audit trail
type BatchLogRepository interface {
	Save(ctx context.Context, l *BatchLog) error
	// List returns logs newest first. organizationID, surveyID and
	// batchID filter when non-empty.
	List(ctx context.Context, organizationID, surveyID, batchID string, limit int) ([]*BatchLog, error)
}
