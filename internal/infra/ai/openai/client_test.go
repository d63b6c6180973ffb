package openai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haekalrfd/readiness-ai/internal/domain/analysis"
)

const samplePayload = `{
  "primary_jtbd_force": "pain_of_old",
  "secondary_jtbd_forces": ["anxiety_of_new", "pain_of_old", "nonsense"],
  "force_strength_score": 7,
  "confidence_score": 0.82,
  "reasoning": "The answer centers on friction with the current process.",
  "key_themes": ["manual work", "reporting"],
  "sentiment": {"overall": "negative", "score": -0.6},
  "business_implications": "Strong driver for adoption.",
  "actionable_insights": ["automate the weekly report"],
  "quality": {"response_quality": "high", "specificity_level": "medium", "actionability_score": 0.7}
}`

func TestParsePayload(t *testing.T) {
	item := analysis.Item{ResponseID: "r1", QuestionID: "q1", ExpectedForce: analysis.ForcePainOfOld}

	t.Run("maps a well-formed payload", func(t *testing.T) {
		res, err := parsePayload(samplePayload, item)
		require.NoError(t, err)
		assert.Equal(t, "r1", res.ResponseID)
		assert.Equal(t, "q1", res.QuestionID)
		assert.Equal(t, analysis.ForcePainOfOld, res.PrimaryJTBDForce)
		assert.Equal(t, []analysis.Force{analysis.ForceAnxietyOfNew}, res.SecondaryForces,
			"secondary list drops the primary and unknown labels")
		assert.Equal(t, 7, res.ForceStrength)
		assert.InDelta(t, 0.82, res.ConfidenceScore, 1e-9)
		assert.Equal(t, "negative", res.SentimentAnalysis.Overall)
		assert.InDelta(t, -0.6, res.SentimentAnalysis.Score, 1e-9)
		assert.Equal(t, "high", res.Quality.ResponseQuality)
	})

	t.Run("differing valid primary is demoted, expected force echoed", func(t *testing.T) {
		res, err := parsePayload(`{
  "primary_jtbd_force": "pull_of_new",
  "secondary_jtbd_forces": ["anxiety_of_new"]
}`, item)
		require.NoError(t, err)
		assert.Equal(t, analysis.ForcePainOfOld, res.PrimaryJTBDForce)
		assert.Equal(t, []analysis.Force{analysis.ForcePullOfNew, analysis.ForceAnxietyOfNew}, res.SecondaryForces)
	})

	t.Run("demoted primary is not duplicated in the secondary list", func(t *testing.T) {
		res, err := parsePayload(`{
  "primary_jtbd_force": "pull_of_new",
  "secondary_jtbd_forces": ["pull_of_new", "pain_of_old"]
}`, item)
		require.NoError(t, err)
		assert.Equal(t, analysis.ForcePainOfOld, res.PrimaryJTBDForce)
		assert.Equal(t, []analysis.Force{analysis.ForcePullOfNew}, res.SecondaryForces)
	})

	t.Run("unknown primary falls back to expected force", func(t *testing.T) {
		res, err := parsePayload(`{"primary_jtbd_force": "momentum"}`, item)
		require.NoError(t, err)
		assert.Equal(t, analysis.ForcePainOfOld, res.PrimaryJTBDForce)
	})

	t.Run("unknown primary without an expected force fails", func(t *testing.T) {
		_, err := parsePayload(`{"primary_jtbd_force": "momentum"}`, analysis.Item{ResponseID: "r1"})
		assert.Error(t, err)
	})

	t.Run("malformed JSON fails", func(t *testing.T) {
		_, err := parsePayload("```json not json```", item)
		assert.Error(t, err)
	})

	t.Run("out-of-range scores are clamped", func(t *testing.T) {
		res, err := parsePayload(`{
  "primary_jtbd_force": "pull_of_new",
  "force_strength_score": 42,
  "confidence_score": 3.5,
  "sentiment": {"overall": "positive", "score": 9},
  "quality": {"actionability_score": -2}
}`, item)
		require.NoError(t, err)
		assert.Equal(t, 10, res.ForceStrength)
		assert.Equal(t, 1.0, res.ConfidenceScore)
		assert.Equal(t, 1.0, res.SentimentAnalysis.Score)
		assert.Equal(t, 0.0, res.Quality.ActionabilityScore)
	})
}

func TestCost(t *testing.T) {
	c := &Client{opts: Options{CostPer1KCents: 15}}
	assert.Equal(t, int64(0), c.cost(0))
	assert.Equal(t, int64(1), c.cost(1), "rounds up")
	assert.Equal(t, int64(15), c.cost(1000))
	assert.Equal(t, int64(23), c.cost(1500))

	free := &Client{}
	assert.Equal(t, int64(0), free.cost(100000))
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, backoff(0))
	assert.Equal(t, time.Second, backoff(1))
	assert.Equal(t, 4*time.Second, backoff(3))
	assert.Equal(t, 8*time.Second, backoff(10), "capped")
}

func TestIsReasoningModel(t *testing.T) {
	assert.True(t, isReasoningModel("o1-mini"))
	assert.True(t, isReasoningModel("o3"))
	assert.True(t, isReasoningModel("gpt-5-turbo"))
	assert.False(t, isReasoningModel("gpt-4o-mini"))
	assert.False(t, isReasoningModel("gpt-4.1"))
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{APIKey: "sk-test"})
	cfg := c.Config()
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.MaxWorkers)
}
