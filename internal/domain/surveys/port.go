package surveys

import "context"

// Repository port (interface for persistence)
type Repository interface {
	// Get returns the response with its answers, or nil when the id does
	// not resolve.
	Get(ctx context.Context, id ResponseID) (*Response, error)
	ListBySurvey(ctx context.Context, surveyID string) ([]*Response, error)
	ListByIDs(ctx context.Context, ids []ResponseID) ([]*Response, error)
	UpdateStatus(ctx context.Context, id ResponseID, status Status) error
}
