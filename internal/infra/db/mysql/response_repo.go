package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/haekalrfd/readiness-ai/internal/domain/surveys"
)

type ResponseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Get loads one response with its answers; nil when the id is unknown.
func (r *ResponseRepository) Get(ctx context.Context, id domain.ResponseID) (*domain.Response, error) {
	const q = `
SELECT id, survey_id, organization_id, respondent_role, respondent_department, status, submitted_at
FROM survey_responses
WHERE id = ?;
`
	var resp domain.Response
	var submitted time.Time
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&resp.ID, &resp.SurveyID, &resp.OrganizationID,
		&resp.RespondentRole, &resp.RespondentDepartment, &resp.Status, &submitted,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	resp.SubmittedAt = submitted

	answers, err := r.loadAnswers(ctx, []domain.ResponseID{id})
	if err != nil {
		return nil, err
	}
	resp.Answers = answers[id]
	return &resp, nil
}

func (r *ResponseRepository) ListBySurvey(ctx context.Context, surveyID string) ([]*domain.Response, error) {
	const q = `
SELECT id, survey_id, organization_id, respondent_role, respondent_department, status, submitted_at
FROM survey_responses
WHERE survey_id = ?
ORDER BY submitted_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, surveyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

func (r *ResponseRepository) ListByIDs(ctx context.Context, ids []domain.ResponseID) ([]*domain.Response, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `
SELECT id, survey_id, organization_id, respondent_role, respondent_department, status, submitted_at
FROM survey_responses
WHERE id IN (` + placeholders(len(ids)) + `)
ORDER BY submitted_at ASC, id ASC;
`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(ctx, rows)
}

func (r *ResponseRepository) UpdateStatus(ctx context.Context, id domain.ResponseID, status domain.Status) error {
	const q = `UPDATE survey_responses SET status = ? WHERE id = ?;`
	_, err := r.db.ExecContext(ctx, q, status, id)
	return err
}

func (r *ResponseRepository) collect(ctx context.Context, rows *sql.Rows) ([]*domain.Response, error) {
	var out []*domain.Response
	var ids []domain.ResponseID
	for rows.Next() {
		var resp domain.Response
		var submitted time.Time
		if err := rows.Scan(
			&resp.ID, &resp.SurveyID, &resp.OrganizationID,
			&resp.RespondentRole, &resp.RespondentDepartment, &resp.Status, &submitted,
		); err != nil {
			return nil, err
		}
		resp.SubmittedAt = submitted
		out = append(out, &resp)
		ids = append(ids, resp.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	answers, err := r.loadAnswers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, resp := range out {
		resp.Answers = answers[resp.ID]
	}
	return out, nil
}

func (r *ResponseRepository) loadAnswers(ctx context.Context, ids []domain.ResponseID) (map[domain.ResponseID][]domain.Answer, error) {
	q := `
SELECT response_id, question_id, question_text, question_category, answer_text
FROM response_answers
WHERE response_id IN (` + placeholders(len(ids)) + `)
ORDER BY response_id, question_id;
`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = string(id)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byResponse := make(map[domain.ResponseID][]domain.Answer)
	for rows.Next() {
		var respID domain.ResponseID
		var a domain.Answer
		if err := rows.Scan(&respID, &a.QuestionID, &a.QuestionText, &a.QuestionCategory, &a.Value); err != nil {
			return nil, err
		}
		byResponse[respID] = append(byResponse[respID], a)
	}
	return byResponse, rows.Err()
}
