package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates one analysis result
func (r *AnalysisRepository) Save(ctx context.Context, id domain.ResultID, organizationID string, res *domain.Result) error {
	const q = `
INSERT INTO analysis_results
  (id, response_id, question_id, organization_id, primary_force, payload_json, model, tokens_used, cost_cents, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  primary_force=EXCLUDED.primary_force,
  payload_json=EXCLUDED.payload_json,
  model=EXCLUDED.model,
  tokens_used=EXCLUDED.tokens_used,
  cost_cents=EXCLUDED.cost_cents;
`
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	created := res.Metadata.AnalyzedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = r.db.ExecContext(ctx, q,
		string(id), res.ResponseID, res.QuestionID, stringOrDash(organizationID),
		res.PrimaryJTBDForce, payload, res.Metadata.Model,
		res.Metadata.TokensUsed, res.Metadata.CostCents, created,
	)
	return err
}
