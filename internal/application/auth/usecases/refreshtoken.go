package usecases

import (
	"context"
	"fmt"

	"admincore/internal/domain/account"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type RefreshTokenCommand struct {
	RefreshToken string
	IPAddress    string
	UserAgent    string
}

type RefreshTokenResult struct {
	PrincipalID  uint
	DeviceID     string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// RefreshTokenUseCase rotates a refresh token. The presented token must
// byte-for-byte match the hash stored on its device session; any mismatch
// fails closed without issuing anything.
type RefreshTokenUseCase struct {
	accountRepo account.Repository
	tokens      TokenService
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewRefreshTokenUseCase(
	accountRepo account.Repository,
	tokens TokenService,
	auditSink audit.Sink,
	log logger.Interface,
) *RefreshTokenUseCase {
	return &RefreshTokenUseCase{
		accountRepo: accountRepo,
		tokens:      tokens,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *RefreshTokenUseCase) Execute(ctx context.Context, cmd RefreshTokenCommand) (*RefreshTokenResult, error) {
	claims, err := uc.tokens.VerifyRefresh(cmd.RefreshToken)
	if err != nil {
		return nil, err
	}

	presentedHash := uc.tokens.HashToken(cmd.RefreshToken)

	var pair *TokenPair
	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByPrincipalID(ctx, claims.PrincipalID)
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		device := acct.Device(claims.DeviceID)
		if device == nil || device.RefreshTokenHash == nil || *device.RefreshTokenHash != presentedHash {
			// evicted device, rotated token or replayed old token
			return errors.NewTokenInvalidError("refresh")
		}
		if !device.IsActive() {
			return errors.NewTokenInvalidError("refresh")
		}

		var genErr error
		pair, genErr = uc.tokens.GeneratePair(acct.PrincipalID(), acct.Username().String(), claims.DeviceID)
		if genErr != nil {
			return fmt.Errorf("failed to issue tokens: %w", genErr)
		}
		return acct.StoreRefreshToken(claims.DeviceID, uc.tokens.HashToken(pair.RefreshToken))
	})
	if err != nil {
		if errors.IsAuthError(err) {
			uc.auditSink.Emit(ctx, audit.Event{
				Type:        audit.EventRefreshRejected,
				PrincipalID: claims.PrincipalID,
				Username:    claims.Username,
				DeviceID:    claims.DeviceID,
				IPAddress:   cmd.IPAddress,
			})
		} else {
			uc.logger.Errorw("failed to rotate refresh token", "principal_id", claims.PrincipalID, "error", err)
		}
		return nil, err
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventTokenRefreshed,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		DeviceID:    claims.DeviceID,
		IPAddress:   cmd.IPAddress,
		UserAgent:   cmd.UserAgent,
	})

	return &RefreshTokenResult{
		PrincipalID:  acct.PrincipalID(),
		DeviceID:     claims.DeviceID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}
