package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/haekalrfd/readiness-ai/internal/application"
	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
	"github.com/haekalrfd/readiness-ai/internal/domain/identity"
	"github.com/haekalrfd/readiness-ai/internal/domain/surveys"
	"github.com/haekalrfd/readiness-ai/internal/logger"
)

// ServiceName identifies this component in health payloads.
const ServiceName = "ai-analysis"

// Service implements the analysis use-cases. Safe for concurrent use:
// every request works on its own rows and all shared collaborators are
// injected ports.
type Service struct {
	Responses surveys.Repository
	Results   domain.Repository
	BatchLogs domain.BatchLogRepository
	Client    domain.Client
	Reports   domain.ReportArchive // optional, nil disables report archival
	Clock     application.Clock
}

//
// ==== USE CASES ====
//

// AnalyzeCommand carries one single-response analysis request.
type AnalyzeCommand struct {
	ResponseID      string
	ResponseText    string
	QuestionText    string
	ExpectedForce   string
	QuestionContext string
}

// PersistenceState makes the best-effort storage outcome explicit instead
// of signalling it only through a missing identifier.
type PersistenceState string

const (
	PersistenceStored  PersistenceState = "stored"
	PersistenceSkipped PersistenceState = "not_stored"
)

// AnalyzeOutcome is the result of one analysis invocation. AnalysisID is
// empty when the result could not be persisted; the analysis itself is
// still considered successful.
type AnalyzeOutcome struct {
	Result      *domain.Result
	AnalysisID  string
	Persistence PersistenceState
}

// Analyze validates and authorizes the request, invokes the analyzer
// exactly once, then persists the result best-effort. Storage failures are
// logged and swallowed: analysis is the valuable part.
func (s *Service) Analyze(ctx context.Context, caller identity.Caller, cmd AnalyzeCommand) (*AnalyzeOutcome, error) {
	if err := requireAnalyst(caller); err != nil {
		return nil, err
	}

	if missing := missingFields(cmd); len(missing) > 0 {
		return nil, domain.E(domain.KindBadRequest,
			"Missing required fields: "+strings.Join(missing, ", "))
	}
	force, err := domain.ParseForce(cmd.ExpectedForce)
	if err != nil {
		return nil, domain.E(domain.KindBadRequest, fmt.Sprintf(
			"Invalid expectedForce: %q. Must be one of: %s",
			cmd.ExpectedForce, forceList()))
	}

	resp, err := s.Responses.Get(ctx, surveys.ResponseID(cmd.ResponseID))
	if err != nil {
		return nil, fmt.Errorf("load survey response: %w", err)
	}
	if resp == nil {
		return nil, domain.E(domain.KindNotFound, "Survey response not found")
	}
	if !caller.CanAccessOrg(resp.OrganizationID) {
		return nil, domain.E(domain.KindForbidden, "Access denied to this organization")
	}

	item := domain.Item{
		ResponseID:    cmd.ResponseID,
		QuestionText:  cmd.QuestionText,
		ResponseText:  cmd.ResponseText,
		ExpectedForce: force,
		Context: domain.ItemContext{
			OrganizationID:       resp.OrganizationID,
			SurveyID:             resp.SurveyID,
			RespondentRole:       resp.RespondentRole,
			RespondentDepartment: resp.RespondentDepartment,
			QuestionContext:      cmd.QuestionContext,
		},
	}

	// one invocation, no retry at this layer; the message is surfaced
	// verbatim to the caller
	result, err := s.Client.AnalyzeResponse(ctx, item)
	if err != nil {
		return nil, domain.Wrap(domain.KindAnalysis, err.Error(), err)
	}

	outcome := &AnalyzeOutcome{Result: result, Persistence: PersistenceSkipped}
	id := domain.ResultID(uuid.New().String())
	if err := s.Results.Save(ctx, id, resp.OrganizationID, result); err != nil {
		logger.Warnw("analysis result not persisted",
			"response_id", cmd.ResponseID, "error", err)
	} else {
		outcome.AnalysisID = string(id)
		outcome.Persistence = PersistenceStored
	}
	if err := s.Responses.UpdateStatus(ctx, resp.ID, surveys.StatusAnalyzed); err != nil {
		logger.Warnw("response status not updated",
			"response_id", cmd.ResponseID, "error", err)
	}
	return outcome, nil
}

// HealthStatus reports analyzer reachability for the read-only check.
type HealthStatus struct {
	Service   string              `json:"service"`
	Status    string              `json:"status"`
	LatencyMS int64               `json:"latency,omitempty"`
	Config    domain.ClientConfig `json:"config,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// Health pings the analyzer. A failed ping degrades the status instead of
// raising; any authenticated caller may read it.
func (s *Service) Health(ctx context.Context) *HealthStatus {
	st := &HealthStatus{Service: ServiceName}
	latency, err := s.Client.Health(ctx)
	if err != nil {
		st.Status = "unhealthy"
		st.Error = err.Error()
		return st
	}
	st.Status = "healthy"
	st.LatencyMS = latency.Milliseconds()
	st.Config = s.Client.Config()
	return st
}

// requireAnalyst gates the mutating operations: only org admins and system
// admins may trigger analysis.
func requireAnalyst(caller identity.Caller) error {
	if caller.UserID == "" {
		return domain.E(domain.KindUnauthorized, "Unauthorized")
	}
	if !caller.Role.CanRunAnalysis() {
		return domain.E(domain.KindForbidden, "Insufficient permissions")
	}
	return nil
}

func missingFields(cmd AnalyzeCommand) []string {
	var missing []string
	if strings.TrimSpace(cmd.ResponseID) == "" {
		missing = append(missing, "responseId")
	}
	if strings.TrimSpace(cmd.ResponseText) == "" {
		missing = append(missing, "responseText")
	}
	if strings.TrimSpace(cmd.QuestionText) == "" {
		missing = append(missing, "questionText")
	}
	if strings.TrimSpace(cmd.ExpectedForce) == "" {
		missing = append(missing, "expectedForce")
	}
	return missing
}

func forceList() string {
	forces := domain.Forces()
	parts := make([]string, len(forces))
	for i, f := range forces {
		parts[i] = string(f)
	}
	return strings.Join(parts, ", ")
}
