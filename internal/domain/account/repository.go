package account

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by UpdateAuth when the persisted version
// no longer matches the aggregate's version. Callers reload and retry.
var ErrVersionConflict = errors.New("account version conflict")

// Repository defines the persistence contract for account aggregates.
type Repository interface {
	// Create persists a new account and assigns its ID.
	Create(ctx context.Context, acct *Account) error

	// GetByUsername loads an account with its device sessions.
	// Returns a not-found error when no account matches.
	GetByUsername(ctx context.Context, username string) (*Account, error)

	// GetByPrincipalID loads the account owned by a principal.
	GetByPrincipalID(ctx context.Context, principalID uint) (*Account, error)

	// UpdateAuth persists the mutable security state (password hash, lock
	// fields, login flags, device sessions) guarded by the aggregate
	// version. Returns ErrVersionConflict on a concurrent update.
	UpdateAuth(ctx context.Context, acct *Account) error
}
