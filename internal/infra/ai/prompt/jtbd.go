package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/haekalrfd/readiness-ai/internal/domain/analysis"
)

// System provides strict directions and the schema for JSON output.
func System() string {
	return `You are an organizational-change analyst scoring survey answers with the Jobs-to-be-Done forces framework. You must produce one valid JSON object only (no markdown, no commentary, no code fences) that follows the schema below.

Requirements:
- primary_jtbd_force must be one of: pain_of_old, pull_of_new, anchors_to_old, anxiety_of_new, demographic.
- When an expected force is given in the prompt, primary_jtbd_force must equal it; use secondary_jtbd_forces for any other forces you detect.
- force_strength_score is an integer from 1 to 10; confidence_score is a number from 0 to 1.
- sentiment.overall is one of: positive, neutral, negative; sentiment.score is from -1 to 1.
- quality.response_quality and quality.specificity_level are one of: low, medium, high.
- Keep reasoning and insights concise and grounded in the answer text.

Schema (example with empty values):
{
  "primary_jtbd_force": "<string>",
  "secondary_jtbd_forces": ["<string>"],
  "force_strength_score": 0,
  "confidence_score": 0,
  "reasoning": "<string>",
  "key_themes": ["<string>"],
  "sentiment": {"overall": "<string>", "score": 0},
  "business_implications": "<string>",
  "actionable_insights": ["<string>"],
  "quality": {"response_quality": "<string>", "specificity_level": "<string>", "actionability_score": 0}
}`
}

// User builds the per-item message around the answer text and its context.
func User(item analysis.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n", item.QuestionText)
	fmt.Fprintf(&b, "Answer: %s\n", item.ResponseText)
	if item.ExpectedForce != "" {
		fmt.Fprintf(&b, "Expected force: %s\n", item.ExpectedForce)
	}
	if ctx := contextJSON(item.Context); ctx != "" {
		fmt.Fprintf(&b, "Context: %s\n", ctx)
	}
	b.WriteString("Respond with the JSON per schema.")
	return b.String()
}

func contextJSON(c analysis.ItemContext) string {
	if c == (analysis.ItemContext{}) {
		return ""
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

// Payload mirrors the JSON object the analyzer is instructed to emit.
type Payload struct {
	PrimaryJTBDForce string   `json:"primary_jtbd_force"`
	SecondaryForces  []string `json:"secondary_jtbd_forces"`
	ForceStrength    int      `json:"force_strength_score"`
	ConfidenceScore  float64  `json:"confidence_score"`
	Reasoning        string   `json:"reasoning"`
	KeyThemes        []string `json:"key_themes"`
	Sentiment        struct {
		Overall string  `json:"overall"`
		Score   float64 `json:"score"`
	} `json:"sentiment"`
	BusinessImplications string   `json:"business_implications"`
	ActionableInsights   []string `json:"actionable_insights"`
	Quality              struct {
		ResponseQuality    string  `json:"response_quality"`
		SpecificityLevel   string  `json:"specificity_level"`
		ActionabilityScore float64 `json:"actionability_score"`
	} `json:"quality"`
}
