package identity

import "context"

// Repository port for user lookup during session resolution
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
}
