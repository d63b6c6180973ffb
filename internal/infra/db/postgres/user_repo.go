package postgres

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

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id, email, role, organization_id, created_at
FROM users
WHERE id = $1;
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
		parsed = domain.RoleUser
	}
	u.Role = parsed
	return &u, nil
}
