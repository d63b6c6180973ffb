package postgres

import (
	"context"
	"database/sql"
	"fmt"
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
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);
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
		args = append(args, organizationID)
		q += fmt.Sprintf(` AND organization_id = $%d`, len(args))
	}
	if surveyID != "" {
		args = append(args, surveyID)
		q += fmt.Sprintf(` AND survey_id = $%d`, len(args))
	}
	if batchID != "" {
		args = append(args, batchID)
		q += fmt.Sprintf(` AND id = $%d`, len(args))
	}
	args = append(args, limit)
	q += fmt.Sprintf(`
ORDER BY created_at DESC, id DESC
LIMIT $%d;`, len(args))

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
