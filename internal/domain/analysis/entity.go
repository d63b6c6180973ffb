package analysis

import "time"

// ResultID identifier type
type ResultID string

// Sentiment is the sentiment sub-object of a result.
type Sentiment struct {
	Overall string  `json:"overall"`
	Score   float64 `json:"score"`
}

// QualityIndicators capture how usable the raw answer text was.
type QualityIndicators struct {
	ResponseQuality    string  `json:"responseQuality"`
	SpecificityLevel   string  `json:"specificityLevel"`
	ActionabilityScore float64 `json:"actionabilityScore"`
}

// Metadata records accounting facts about one analyzer invocation.
type Metadata struct {
	Model            string    `json:"model"`
	TokensUsed       int       `json:"tokensUsed"`
	CostCents        int64     `json:"costCents"`
	ProcessingTimeMS int64     `json:"processingTimeMs"`
	AnalyzedAt       time.Time `json:"analyzedAt"`
}

// Result is the structured output of analyzing one response/question pair.
// Written once per successful invocation; re-analysis overwrites it.
type Result struct {
	ResponseID           string            `json:"responseId"`
	QuestionID           string            `json:"questionId,omitempty"`
	PrimaryJTBDForce     Force             `json:"primaryJtbdForce"`
	SecondaryForces      []Force           `json:"secondaryJtbdForces,omitempty"`
	ForceStrength        int               `json:"forceStrengthScore"`
	ConfidenceScore      float64           `json:"confidenceScore"`
	Reasoning            string            `json:"reasoning"`
	KeyThemes            []string          `json:"keyThemes,omitempty"`
	SentimentAnalysis    Sentiment         `json:"sentimentAnalysis"`
	BusinessImplications string            `json:"businessImplications,omitempty"`
	ActionableInsights   []string          `json:"actionableInsights,omitempty"`
	Quality              QualityIndicators `json:"qualityIndicators"`
	Metadata             Metadata          `json:"analysisMetadata"`
}

// BatchSummary aggregates one batch invocation.
type BatchSummary struct {
	TotalProcessed   int   `json:"totalProcessed"`
	Successful       int   `json:"successful"`
	Failed           int   `json:"failed"`
	TotalCostCents   int64 `json:"totalCostCents"`
	TotalTokensUsed  int   `json:"totalTokensUsed"`
	ProcessingTimeMS int64 `json:"processingTimeMs"`
}

// ItemError is a per-item failure inside an otherwise successful batch.
type ItemError struct {
	ResponseID string `json:"responseId"`
	QuestionID string `json:"questionId,omitempty"`
	Message    string `json:"error"`
}

// BatchLog is the audit record for one batch invocation. Created once,
// never mutated.
type BatchLog struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	SurveyID       string    `json:"survey_id,omitempty"`
	TotalProcessed int       `json:"total_processed"`
	Successful     int       `json:"successful"`
	Failed         int       `json:"failed"`
	CostCents      int64     `json:"cost_cents"`
	TokensUsed     int       `json:"tokens_used"`
	DurationMS     int64     `json:"duration_ms"`
	ReportURL      string    `json:"report_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
