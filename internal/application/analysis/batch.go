package analysis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
	"github.com/haekalrfd/readiness-ai/internal/domain/identity"
	"github.com/haekalrfd/readiness-ai/internal/domain/surveys"
	"github.com/haekalrfd/readiness-ai/internal/logger"
)

// BatchOptions is the recognized options bag for a batch run.
type BatchOptions struct {
	Parallel           bool
	Priority           string
	IncludeDemographic bool
}

// BatchCommand selects responses either by survey or by explicit id list.
type BatchCommand struct {
	SurveyID    string
	ResponseIDs []string
	Options     BatchOptions
}

// BatchOutcome is the aggregate of one batch invocation. BatchID is empty
// when the audit log row could not be inserted.
type BatchOutcome struct {
	Results   []*domain.Result
	Summary   domain.BatchSummary
	Errors    []domain.ItemError
	BatchID   string
	ReportURL string
}

// AnalyzeBatch resolves the candidate responses, filters out
// non-analyzable ones, delegates to the analyzer's batch entry point and
// records the audit trail best-effort.
func (s *Service) AnalyzeBatch(ctx context.Context, caller identity.Caller, cmd BatchCommand) (*BatchOutcome, error) {
	if err := requireAnalyst(caller); err != nil {
		return nil, err
	}
	if cmd.SurveyID == "" && len(cmd.ResponseIDs) == 0 {
		return nil, domain.E(domain.KindBadRequest,
			"Either surveyId or responseIds array is required")
	}

	candidates, err := s.resolveResponses(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.E(domain.KindNotFound, "No survey responses found")
	}

	// tenant scoping happens after resolution so an org admin probing a
	// foreign survey sees Forbidden, not NotFound
	if caller.Role == identity.RoleOrgAdmin {
		candidates = scopeToOrg(candidates, caller.OrganizationID)
		if len(candidates) == 0 {
			return nil, domain.E(domain.KindForbidden, "No accessible responses found")
		}
	}

	analyzable := filterAnalyzable(candidates, cmd.Options.IncludeDemographic)
	if len(analyzable) == 0 {
		return nil, domain.E(domain.KindBadRequest,
			"No analyzable responses found: all candidate responses answer only demographic questions (set includeDemographic to analyze them)")
	}

	req := domain.BatchRequest{
		Items:    buildItems(analyzable, cmd.Options.IncludeDemographic),
		Parallel: cmd.Options.Parallel,
		Priority: parsePriority(cmd.Options.Priority),
	}
	out, err := s.Client.AnalyzeBatch(ctx, req)
	if err != nil {
		return nil, domain.Wrap(domain.KindBatch, err.Error(), err)
	}

	outcome := &BatchOutcome{
		Results: out.Results,
		Summary: out.Summary,
		Errors:  out.Errors,
	}
	s.persistBatch(ctx, caller, cmd, analyzable, out, outcome)
	return outcome, nil
}

// ListBatchLogs returns prior batch audit rows, newest first, scoped to
// the caller's organization for org admins. surveyID and batchID narrow
// the listing when given.
func (s *Service) ListBatchLogs(ctx context.Context, caller identity.Caller, surveyID, batchID string, limit int) ([]*domain.BatchLog, error) {
	if err := requireAnalyst(caller); err != nil {
		return nil, err
	}
	org := ""
	if caller.Role == identity.RoleOrgAdmin {
		org = caller.OrganizationID
	}
	logs, err := s.BatchLogs.List(ctx, org, surveyID, batchID, limit)
	if err != nil {
		return nil, fmt.Errorf("list batch logs: %w", err)
	}
	return logs, nil
}

func (s *Service) resolveResponses(ctx context.Context, cmd BatchCommand) ([]*surveys.Response, error) {
	if cmd.SurveyID != "" {
		list, err := s.Responses.ListBySurvey(ctx, cmd.SurveyID)
		if err != nil {
			return nil, fmt.Errorf("list responses by survey: %w", err)
		}
		return list, nil
	}
	ids := make([]surveys.ResponseID, len(cmd.ResponseIDs))
	for i, id := range cmd.ResponseIDs {
		ids[i] = surveys.ResponseID(id)
	}
	list, err := s.Responses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list responses by ids: %w", err)
	}
	return list, nil
}

// persistBatch writes results, status flags, the audit log and the report
// artifact. Every write is best-effort: failures are logged, never
// surfaced, and a failed log insert simply leaves BatchID empty.
func (s *Service) persistBatch(ctx context.Context, caller identity.Caller, cmd BatchCommand, responses []*surveys.Response, out *domain.BatchOutput, outcome *BatchOutcome) {
	orgByResponse := make(map[string]string, len(responses))
	for _, r := range responses {
		orgByResponse[string(r.ID)] = r.OrganizationID
	}

	analyzed := make(map[string]bool)
	for _, res := range out.Results {
		id := domain.ResultID(uuid.New().String())
		if err := s.Results.Save(ctx, id, orgByResponse[res.ResponseID], res); err != nil {
			logger.Warnw("batch result not persisted",
				"response_id", res.ResponseID, "error", err)
			continue
		}
		analyzed[res.ResponseID] = true
	}
	for respID := range analyzed {
		if err := s.Responses.UpdateStatus(ctx, surveys.ResponseID(respID), surveys.StatusAnalyzed); err != nil {
			logger.Warnw("response status not updated",
				"response_id", respID, "error", err)
		}
	}

	batchOrg := caller.OrganizationID
	if batchOrg == "" && len(responses) > 0 {
		batchOrg = responses[0].OrganizationID
	}
	log := &domain.BatchLog{
		ID:             uuid.New().String(),
		OrganizationID: batchOrg,
		SurveyID:       cmd.SurveyID,
		TotalProcessed: out.Summary.TotalProcessed,
		Successful:     out.Summary.Successful,
		Failed:         out.Summary.Failed,
		CostCents:      out.Summary.TotalCostCents,
		TokensUsed:     out.Summary.TotalTokensUsed,
		DurationMS:     out.Summary.ProcessingTimeMS,
		CreatedAt:      s.Clock.Now(),
	}
	log.ReportURL = s.archiveReport(ctx, log, out)
	outcome.ReportURL = log.ReportURL

	if err := s.BatchLogs.Save(ctx, log); err != nil {
		logger.Warnw("batch log not persisted", "batch_id", log.ID, "error", err)
		return
	}
	outcome.BatchID = log.ID
}

// archiveReport uploads the full batch report as a JSON artifact. Returns
// "" when archival is disabled or fails.
func (s *Service) archiveReport(ctx context.Context, log *domain.BatchLog, out *domain.BatchOutput) string {
	if s.Reports == nil {
		return ""
	}
	report := struct {
		BatchID string              `json:"batch_id"`
		Summary domain.BatchSummary `json:"summary"`
		Errors  []domain.ItemError  `json:"errors,omitempty"`
		Results []*domain.Result    `json:"results"`
	}{BatchID: log.ID, Summary: out.Summary, Errors: out.Errors, Results: out.Results}

	data, err := json.Marshal(report)
	if err != nil {
		logger.Warnw("batch report not encoded", "batch_id", log.ID, "error", err)
		return ""
	}
	key := fmt.Sprintf("batch-reports/%s/%s.json", log.OrganizationID, log.ID)
	url, err := s.Reports.Archive(ctx, key, data)
	if err != nil {
		logger.Warnw("batch report not archived", "batch_id", log.ID, "error", err)
		return ""
	}
	return url
}

func scopeToOrg(in []*surveys.Response, org string) []*surveys.Response {
	var out []*surveys.Response
	for _, r := range in {
		if r.OrganizationID == org {
			out = append(out, r)
		}
	}
	return out
}

func filterAnalyzable(in []*surveys.Response, includeDemographic bool) []*surveys.Response {
	if includeDemographic {
		return in
	}
	var out []*surveys.Response
	for _, r := range in {
		if !r.OnlyDemographic() {
			out = append(out, r)
		}
	}
	return out
}

// buildItems expands responses into one analyzer item per response/answer
// pair. A question category that names a force becomes the expected label;
// anything else leaves classification entirely to the analyzer.
func buildItems(responses []*surveys.Response, includeDemographic bool) []domain.Item {
	var items []domain.Item
	for _, r := range responses {
		for _, a := range r.AnalyzableAnswers(includeDemographic) {
			item := domain.Item{
				ResponseID:   string(r.ID),
				QuestionID:   a.QuestionID,
				QuestionText: a.QuestionText,
				ResponseText: a.Value,
				Context: domain.ItemContext{
					OrganizationID:       r.OrganizationID,
					SurveyID:             r.SurveyID,
					RespondentRole:       r.RespondentRole,
					RespondentDepartment: r.RespondentDepartment,
				},
			}
			if f, err := domain.ParseForce(a.QuestionCategory); err == nil {
				item.ExpectedForce = f
			}
			items = append(items, item)
		}
	}
	return items
}

func parsePriority(s string) domain.Priority {
	switch domain.Priority(s) {
	case domain.PriorityLow, domain.PriorityHigh:
		return domain.Priority(s)
	default:
		return domain.PriorityNormal
	}
}
