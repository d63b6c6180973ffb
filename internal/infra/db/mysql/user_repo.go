package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/haekalrfd/readiness-ai/internal/domain/identity"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID resolves the account behind a session; nil when unknown.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id, email, role, organization_id, created_at
FROM users
WHERE id = ?;
`
	var u domain.User
	var role string
	var created time.Time
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Email, &role, &u.OrganizationID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.CreatedAt = created

	parsed, ok := domain.ParseRole(role)
	if !ok {
		// unknown roles demote to plain user rather than failing auth
		parsed = domain.RoleUser
	}
	u.Role = parsed
	return &u, nil
}
