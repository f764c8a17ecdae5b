package principal

import "context"

// Repository defines read access to directory records.
type Repository interface {
	// GetByID loads a principal. Returns a not-found error when absent.
	GetByID(ctx context.Context, id uint) (*Principal, error)
}
