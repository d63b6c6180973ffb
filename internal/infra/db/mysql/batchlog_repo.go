package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/haekalrfd/readiness-ai/internal/domain/analysis"
)

type BatchLogRepository struct {
	db *sql.DB
}

func NewBatchLogRepository(db *sql.DB) *BatchLogRepository {
	return &BatchLogRepository{db: db}
}

func (r *BatchLogRepository) Save(ctx context.Context, l *domain.BatchLog) error {
	const q = `
INSERT INTO batch_analysis_logs
  (id, organization_id, survey_id, total_processed, successful, failed, cost_cents, tokens_used, duration_ms, report_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?);
`
	created := l.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		l.ID, stringOrDash(l.OrganizationID), l.SurveyID,
		l.TotalProcessed, l.Successful, l.Failed,
		l.CostCents, l.TokensUsed, l.DurationMS, l.ReportURL, created,
	)
	return err
}

// List returns batch logs newest first; organizationID, surveyID and
// batchID narrow the result when non-empty.
func (r *BatchLogRepository) List(ctx context.Context, organizationID, surveyID, batchID string, limit int) ([]*domain.BatchLog, error) {
	if limit <= 0 {
		limit = 20
	}
	q := `
SELECT id, organization_id, survey_id, total_processed, successful, failed, cost_cents, tokens_used, duration_ms, report_url, created_at
FROM batch_analysis_logs
WHERE 1=1`
	var args []any
	if organizationID != "" {
		q += ` AND organization_id = ?`
		args = append(args, organizationID)
	}
	if surveyID != "" {
		q += ` AND survey_id = ?`
		args = append(args, surveyID)
	}
	if batchID != "" {
		q += ` AND id = ?`
		args = append(args, batchID)
	}
	q += `
ORDER BY created_at DESC, id DESC
LIMIT ?;`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.BatchLog
	for rows.Next() {
		var l domain.BatchLog
		var created time.Time
		if err := rows.Scan(
			&l.ID, &l.OrganizationID, &l.SurveyID,
			&l.TotalProcessed, &l.Successful, &l.Failed,
			&l.CostCents, &l.TokensUsed, &l.DurationMS, &l.ReportURL, &created,
		); err != nil {
			return nil, err
		}
		l.CreatedAt = created
		out = append(out, &l)
	}
	return out, rows.Err()
}
