package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
	"github.com/haekalrfd/readiness-ai/internal/domain/identity"
	"github.com/haekalrfd/readiness-ai/internal/domain/surveys"
)

func demographicResponse(id, survey, org string) *surveys.Response {
	return &surveys.Response{
		ID:             surveys.ResponseID(id),
		SurveyID:       survey,
		OrganizationID: org,
		Status:         surveys.StatusPending,
		Answers: []Answer{
			{QuestionID: "d1", QuestionText: "Which department?", QuestionCategory: surveys.CategoryDemographic, Value: "Finance"},
		},
	}
}

func TestAnalyzeBatch_AuthGate(t *testing.T) {
	svc, _, _ := newService(newFakeResponses(), &fakeClient{})

	_, err := svc.AnalyzeBatch(context.Background(), identity.Caller{}, BatchCommand{SurveyID: "s1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))

	user := identity.Caller{UserID: "u1", Role: identity.RoleUser}
	_, err = svc.AnalyzeBatch(context.Background(), user, BatchCommand{SurveyID: "s1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
}

func TestAnalyzeBatch_SelectorRequired(t *testing.T) {
	svc, _, _ := newService(newFakeResponses(), &fakeClient{})

	_, err := svc.AnalyzeBatch(context.Background(), sysAdmin(), BatchCommand{})
	require.Error(t, err)
	assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
	assert.Equal(t, "Either surveyId or responseIds array is required", domain.AsError(err).Message)
}

func TestAnalyzeBatch_Resolution(t *testing.T) {
	resps := newFakeResponses(
		testResponse("r1", "s1", "org-a"),
		testResponse("r2", "s1", "org-a"),
		testResponse("r3", "s2", "org-b"),
	)
	svc, _, _ := newService(resps, &fakeClient{})

	t.Run("empty before scoping is not found", func(t *testing.T) {
		_, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s-empty"})
		require.Error(t, err)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
		assert.Equal(t, "No survey responses found", domain.AsError(err).Message)
	})

	t.Run("empty after scoping is forbidden", func(t *testing.T) {
		_, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s2"})
		require.Error(t, err)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		assert.Equal(t, "No accessible responses found", domain.AsError(err).Message)
	})

	t.Run("org admin keeps only own rows from a mixed id list", func(t *testing.T) {
		client := &fakeClient{}
		svcMixed, _, _ := newService(resps, client)
		out, err := svcMixed.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{
			ResponseIDs: []string{"r1", "r3"},
		})
		require.NoError(t, err)
		require.Len(t, client.lastBatch.Items, 1)
		assert.Equal(t, "r1", client.lastBatch.Items[0].ResponseID)
		assert.Equal(t, 1, out.Summary.TotalProcessed)
	})

	t.Run("admin sees every organization", func(t *testing.T) {
		client := &fakeClient{}
		svcAll, _, _ := newService(resps, client)
		_, err := svcAll.AnalyzeBatch(context.Background(), sysAdmin(), BatchCommand{
			ResponseIDs: []string{"r1", "r3"},
		})
		require.NoError(t, err)
		assert.Len(t, client.lastBatch.Items, 2)
	})
}

func TestAnalyzeBatch_DemographicFilter(t *testing.T) {
	resps := newFakeResponses(
		demographicResponse("r1", "s1", "org-a"),
		demographicResponse("r2", "s1", "org-a"),
	)

	t.Run("all demographic is a bad request", func(t *testing.T) {
		svc, _, _ := newService(resps, &fakeClient{})
		_, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
		require.Error(t, err)
		assert.Equal(t, domain.KindBadRequest, domain.KindOf(err))
		assert.Contains(t, domain.AsError(err).Message, "No analyzable responses found")
		assert.Contains(t, domain.AsError(err).Message, "includeDemographic")
	})

	t.Run("includeDemographic analyzes them", func(t *testing.T) {
		client := &fakeClient{}
		svc, _, _ := newService(resps, client)
		out, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{
			SurveyID: "s1",
			Options:  BatchOptions{IncludeDemographic: true},
		})
		require.NoError(t, err)
		assert.Len(t, client.lastBatch.Items, 2)
		assert.Equal(t, 2, out.Summary.Successful)
	})
}

func TestAnalyzeBatch_ItemExpansion(t *testing.T) {
	resp := testResponse("r1", "s1", "org-a")
	resp.Answers = append(resp.Answers,
		Answer{QuestionID: "q2", QuestionText: "What excites you?", QuestionCategory: "pull_of_new", Value: "faster insight"},
		Answer{QuestionID: "d1", QuestionText: "Department?", QuestionCategory: surveys.CategoryDemographic, Value: "Sales"},
		Answer{QuestionID: "q3", QuestionText: "Anything else?", QuestionCategory: "open_feedback", Value: "nothing"},
	)
	client := &fakeClient{}
	svc, _, _ := newService(newFakeResponses(resp), client)

	_, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
	require.NoError(t, err)

	items := client.lastBatch.Items
	require.Len(t, items, 3, "one item per non-demographic answer")
	assert.Equal(t, domain.ForcePainOfOld, items[0].ExpectedForce)
	assert.Equal(t, domain.ForcePullOfNew, items[1].ExpectedForce)
	assert.Equal(t, domain.Force(""), items[2].ExpectedForce, "unrecognized category leaves classification to the analyzer")
}

func TestAnalyzeBatch_WholesaleFailure(t *testing.T) {
	resps := newFakeResponses(testResponse("r1", "s1", "org-a"))
	client := &fakeClient{batchFn: func(ctx context.Context, req domain.BatchRequest) (*domain.BatchOutput, error) {
		return nil, errors.New("model is overloaded")
	}}
	svc, results, logs := newService(resps, client)

	_, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
	require.Error(t, err)
	assert.Equal(t, domain.KindBatch, domain.KindOf(err))
	assert.Equal(t, "model is overloaded", domain.AsError(err).Message)
	assert.Empty(t, results.saved)
	assert.Empty(t, logs.saved)
}

func TestAnalyzeBatch_Persistence(t *testing.T) {
	t.Run("results, statuses and audit log stored", func(t *testing.T) {
		resps := newFakeResponses(
			testResponse("r1", "s1", "org-a"),
			testResponse("r2", "s1", "org-a"),
		)
		svc, results, logs := newService(resps, &fakeClient{})

		out, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
		require.NoError(t, err)
		assert.Len(t, results.saved, 2)
		assert.Equal(t, surveys.StatusAnalyzed, resps.statuses["r1"])
		assert.Equal(t, surveys.StatusAnalyzed, resps.statuses["r2"])
		require.Len(t, logs.saved, 1)
		log := logs.saved[0]
		assert.Equal(t, out.BatchID, log.ID)
		assert.NotEmpty(t, out.BatchID)
		assert.Equal(t, "org-a", log.OrganizationID)
		assert.Equal(t, "s1", log.SurveyID)
		assert.Equal(t, 2, log.TotalProcessed)
		assert.Equal(t, 2, log.Successful)
		assert.Equal(t, int64(4), log.CostCents)
		assert.Equal(t, 200, log.TokensUsed)
	})

	t.Run("failed log insert omits batchId", func(t *testing.T) {
		resps := newFakeResponses(testResponse("r1", "s1", "org-a"))
		svc, _, logs := newService(resps, &fakeClient{})
		logs.saveErr = errors.New("table full")

		out, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
		require.NoError(t, err)
		assert.Empty(t, out.BatchID)
		assert.Equal(t, 1, out.Summary.Successful)
	})

	t.Run("failed result insert leaves status untouched", func(t *testing.T) {
		resps := newFakeResponses(testResponse("r1", "s1", "org-a"))
		svc, results, _ := newService(resps, &fakeClient{})
		results.saveErr = errors.New("disk full")

		out, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
		require.NoError(t, err)
		assert.Equal(t, 1, out.Summary.Successful)
		assert.NotContains(t, resps.statuses, surveys.ResponseID("r1"))
	})

	t.Run("report archived when a store is wired", func(t *testing.T) {
		resps := newFakeResponses(testResponse("r1", "s1", "org-a"))
		svc, _, logs := newService(resps, &fakeClient{})
		archive := &fakeArchive{}
		svc.Reports = archive

		out, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
		require.NoError(t, err)
		require.Len(t, archive.keys, 1)
		assert.Contains(t, archive.keys[0], "batch-reports/org-a/")
		assert.Equal(t, "http://minio.local/reports/"+archive.keys[0], out.ReportURL)
		assert.Equal(t, out.ReportURL, logs.saved[0].ReportURL)
	})

	t.Run("archive failure is swallowed", func(t *testing.T) {
		resps := newFakeResponses(testResponse("r1", "s1", "org-a"))
		svc, _, logs := newService(resps, &fakeClient{})
		svc.Reports = &fakeArchive{err: errors.New("bucket gone")}

		out, err := svc.AnalyzeBatch(context.Background(), orgAdmin("org-a"), BatchCommand{SurveyID: "s1"})
		require.NoError(t, err)
		assert.Empty(t, out.ReportURL)
		assert.Empty(t, logs.saved[0].ReportURL)
	})
}

func TestListBatchLogs(t *testing.T) {
	logs := &fakeBatchLogs{saved: []*domain.BatchLog{
		{ID: "b1", OrganizationID: "org-a", SurveyID: "s1"},
		{ID: "b2", OrganizationID: "org-b", SurveyID: "s2"},
	}}
	svc := &Service{BatchLogs: logs, Clock: fixedClock{}}

	t.Run("org admin sees only own org", func(t *testing.T) {
		got, err := svc.ListBatchLogs(context.Background(), orgAdmin("org-a"), "", "", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b1", got[0].ID)
	})

	t.Run("admin sees everything", func(t *testing.T) {
		got, err := svc.ListBatchLogs(context.Background(), sysAdmin(), "", "", 0)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("survey filter applies", func(t *testing.T) {
		got, err := svc.ListBatchLogs(context.Background(), sysAdmin(), "s2", "", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b2", got[0].ID)
	})

	t.Run("batch filter selects a single row", func(t *testing.T) {
		got, err := svc.ListBatchLogs(context.Background(), sysAdmin(), "", "b2", 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "b2", got[0].ID)
	})

	t.Run("batch filter stays org scoped", func(t *testing.T) {
		got, err := svc.ListBatchLogs(context.Background(), orgAdmin("org-a"), "", "b2", 0)
		require.NoError(t, err)
		assert.Empty(t, got, "foreign batch id yields nothing for an org admin")
	})

	t.Run("plain user rejected", func(t *testing.T) {
		user := identity.Caller{UserID: "u1", Role: identity.RoleUser}
		_, err := svc.ListBatchLogs(context.Background(), user, "", "", 0)
		require.Error(t, err)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})
}
