package mysql

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

// Save inserts one analysis result. The structured payload is stored as
// JSON next to the indexed columns.
func (r *AnalysisRepository) Save(ctx context.Context, id domain.ResultID, organizationID string, res *domain.Result) error {
	const q = `
INSERT INTO analysis_results
  (id, response_id, question_id, organization_id, primary_force, payload_json, model, tokens_used, cost_cents, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  primary_force=VALUES(primary_force), payload_json=VALUES(payload_json),
  model=VALUES(model), tokens_used=VALUES(tokens_used), cost_cents=VALUES(cost_cents);
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
