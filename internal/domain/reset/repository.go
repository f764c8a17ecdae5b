package reset

import "context"

// Repository defines the persistence contract for reset requests.
type Repository interface {
	// CreateInvalidatingPrior atomically invalidates every pending request
	// for the principal and persists the new one, so at most one request
	// is ever consumable.
	CreateInvalidatingPrior(ctx context.Context, token *ResetToken) error

	// GetByHash looks up a request by token hash. Returns a not-found
	// error when absent.
	GetByHash(ctx context.Context, tokenHash string) (*ResetToken, error)

	// MarkUsed persists the used flag and timestamp of a consumed request.
	MarkUsed(ctx context.Context, token *ResetToken) error

	// InvalidateAllForPrincipal invalidates every pending request for the
	// principal without creating a replacement.
	InvalidateAllForPrincipal(ctx context.Context, principalID uint) error

	// GetLatestForPrincipal returns the most recently created request for
	// a principal, or a not-found error when none exists.
	GetLatestForPrincipal(ctx context.Context, principalID uint) (*ResetToken, error)

	// DeleteExpired removes requests past their deadline, returning the
	// number deleted.
	DeleteExpired(ctx context.Context) (int64, error)
}
