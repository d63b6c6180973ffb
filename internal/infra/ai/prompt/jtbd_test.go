package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haekalrfd/readiness-ai/internal/domain/analysis"
)

func TestUser(t *testing.T) {
	item := analysis.Item{
		ResponseID:    "r1",
		QuestionText:  "What frustrates you today?",
		ResponseText:  "manual reporting",
		ExpectedForce: analysis.ForcePainOfOld,
		Context: analysis.ItemContext{
			OrganizationID: "org-a",
			RespondentRole: "analyst",
		},
	}

	msg := User(item)
	assert.Contains(t, msg, "Question: What frustrates you today?")
	assert.Contains(t, msg, "Answer: manual reporting")
	assert.Contains(t, msg, "Expected force: pain_of_old")
	assert.Contains(t, msg, `"organization_id":"org-a"`)
	assert.True(t, strings.HasSuffix(msg, "Respond with the JSON per schema."))
}

func TestUser_OmitsEmptySections(t *testing.T) {
	msg := User(analysis.Item{QuestionText: "Q", ResponseText: "A"})
	assert.NotContains(t, msg, "Expected force:")
	assert.NotContains(t, msg, "Context:")
}

func TestSystemNamesEveryForce(t *testing.T) {
	sys := System()
	for _, f := range analysis.Forces() {
		assert.Contains(t, sys, string(f))
	}
}
