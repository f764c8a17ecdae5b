package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"admincore/internal/domain/account"
)

// TokenPair is the issued credential pair returned to clients.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RefreshClaims is the verified identity carried by a refresh token.
type RefreshClaims struct {
	PrincipalID uint
	Username    string
	DeviceID    string
}

// TokenService issues and verifies token pairs. HashToken digests a
// refresh token the same way the store does.
type TokenService interface {
	GeneratePair(principalID uint, username, deviceID string) (*TokenPair, error)
	VerifyRefresh(token string) (*RefreshClaims, error)
	HashToken(token string) string
}

const maxUpdateRetries = 3

// updateAccountWithRetry applies mutate to a freshly loaded aggregate and
// persists it, retrying on optimistic lock conflicts. mutate runs once per
// attempt and must be safe to replay.
func updateAccountWithRetry(
	ctx context.Context,
	repo account.Repository,
	load func(context.Context) (*account.Account, error),
	mutate func(*account.Account) error,
) (*account.Account, error) {
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		acct, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if err := mutate(acct); err != nil {
			return nil, err
		}
		err = repo.UpdateAuth(ctx, acct)
		if err == nil {
			return acct, nil
		}
		if !stderrors.Is(err, account.ErrVersionConflict) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("account update conflicted %d times, giving up", maxUpdateRetries)
}
