package role

import "context"

// Repository defines read access to role definitions.
type Repository interface {
	// GetByID loads a role. Returns a not-found error when absent.
	GetByID(ctx context.Context, id uint) (*Role, error)

	// GetByCode loads a role by its unique code.
	GetByCode(ctx context.Context, code string) (*Role, error)

	// List returns all active roles ordered by level.
	List(ctx context.Context) ([]*Role, error)
}
