package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/haekalrfd/readiness-ai/internal/application/analysis"
	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
	"github.com/haekalrfd/readiness-ai/internal/domain/identity"
	"github.com/haekalrfd/readiness-ai/internal/middleware"
)

type Router struct {
	svc *appanalysis.Service
}

// Options bundles the cross-cutting wiring the router mounts around the
// API handlers.
type Options struct {
	Tokens            *middleware.TokenManager
	Users             identity.Repository
	AllowedOrigins    []string
	RateLimitCapacity int
	RateLimitRefill   int
	HealthCheckers    map[string]middleware.HealthChecker
}

func NewRouter(svc *appanalysis.Service, opts Options) http.Handler {
	r := &Router{svc: svc}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.AllowedOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/api/v1", func(rt chi.Router) {
		rt.Use(middleware.Authenticator(opts.Tokens, opts.Users))
		if opts.RateLimitCapacity > 0 {
			rt.Use(middleware.RateLimitMiddleware(opts.RateLimitCapacity, opts.RateLimitRefill))
		}
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Get("/analyze", r.wrap(r.handleAnalysisHealth))
		rt.Post("/analyze/batch", r.wrap(r.handleAnalyzeBatch))
		rt.Get("/analyze/batch", r.wrap(r.handleListBatchLogs))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap maps domain error kinds onto HTTP statuses and the {error, message}
// body shape. Unclassified errors become opaque 500s.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		if derr := domain.AsError(err); derr != nil {
			writeError(w, derr)
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}

func writeError(w http.ResponseWriter, derr *domain.Error) {
	var status int
	label := derr.Message
	switch derr.Kind {
	case domain.KindUnauthorized:
		status = http.StatusUnauthorized
		label = "Unauthorized"
	case domain.KindForbidden:
		status = http.StatusForbidden
	case domain.KindBadRequest:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindAnalysis:
		status = http.StatusInternalServerError
		label = "Analysis failed"
	case domain.KindBatch:
		status = http.StatusInternalServerError
		label = "Batch analysis failed"
	default:
		status = http.StatusInternalServerError
		label = "Internal server error"
	}
	writeJSON(w, status, map[string]string{
		"error":   label,
		"message": derr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/v1/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	caller := middleware.CallerFromContext(req.Context())

	var body struct {
		ResponseID      string `json:"responseId"`
		ResponseText    string `json:"responseText"`
		QuestionText    string `json:"questionText"`
		ExpectedForce   string `json:"expectedForce"`
		QuestionContext string `json:"questionContext"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.E(domain.KindBadRequest, "Invalid JSON body")
	}

	middleware.IncrementAnalyses()
	out, err := r.svc.Analyze(req.Context(), caller, appanalysis.AnalyzeCommand{
		ResponseID:      body.ResponseID,
		ResponseText:    body.ResponseText,
		QuestionText:    body.QuestionText,
		ExpectedForce:   body.ExpectedForce,
		QuestionContext: body.QuestionContext,
	})
	if err != nil {
		middleware.IncrementAnalysesFailed()
		return err
	}

	resp := struct {
		Success    bool           `json:"success"`
		Result     *domain.Result `json:"result"`
		AnalysisID string         `json:"analysisId,omitempty"`
	}{Success: true, Result: out.Result, AnalysisID: out.AnalysisID}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// GET /api/v1/analyze
func (r *Router) handleAnalysisHealth(w http.ResponseWriter, req *http.Request) error {
	st := r.svc.Health(req.Context())
	status := http.StatusOK
	if st.Status != "healthy" {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, st)
	return nil
}

// POST /api/v1/analyze/batch
func (r *Router) handleAnalyzeBatch(w http.ResponseWriter, req *http.Request) error {
	caller := middleware.CallerFromContext(req.Context())

	var body struct {
		SurveyID    string   `json:"surveyId"`
		ResponseIDs []string `json:"responseIds"`
		Options     struct {
			Parallel           bool   `json:"parallel"`
			Priority           string `json:"priority"`
			IncludeDemographic bool   `json:"includeDemographic"`
		} `json:"options"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return domain.E(domain.KindBadRequest, "Invalid JSON body")
	}

	middleware.IncrementBatches()
	out, err := r.svc.AnalyzeBatch(req.Context(), caller, appanalysis.BatchCommand{
		SurveyID:    body.SurveyID,
		ResponseIDs: body.ResponseIDs,
		Options: appanalysis.BatchOptions{
			Parallel:           body.Options.Parallel,
			Priority:           body.Options.Priority,
			IncludeDemographic: body.Options.IncludeDemographic,
		},
	})
	if err != nil {
		middleware.IncrementBatchesFailed()
		return err
	}

	resp := struct {
		Success bool                `json:"success"`
		Results []*domain.Result    `json:"results"`
		Summary domain.BatchSummary `json:"summary"`
		Errors  []domain.ItemError  `json:"errors"`
		BatchID string              `json:"batchId,omitempty"`
	}{Success: true, Results: out.Results, Summary: out.Summary, Errors: out.Errors, BatchID: out.BatchID}
	if resp.Results == nil {
		resp.Results = []*domain.Result{}
	}
	if resp.Errors == nil {
		resp.Errors = []domain.ItemError{}
	}
	writeJSON(w, http.StatusOK, resp)
	return nil
}

// GET /api/v1/analyze/batch?surveyId=&batchId=&limit=
func (r *Router) handleListBatchLogs(w http.ResponseWriter, req *http.Request) error {
	caller := middleware.CallerFromContext(req.Context())

	surveyID := req.URL.Query().Get("surveyId")
	batchID := req.URL.Query().Get("batchId")
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	logs, err := r.svc.ListBatchLogs(req.Context(), caller, surveyID, batchID, limit)
	if err != nil {
		return err
	}
	if logs == nil {
		logs = []*domain.BatchLog{}
	}

	resp := struct {
		Success bool               `json:"success"`
		Batches []*domain.BatchLog `json:"batches"`
	}{Success: true, Batches: logs}
	writeJSON(w, http.StatusOK, resp)
	return nil
}
