package usecases

import (
	"context"
	"fmt"
	"time"

	"admincore/internal/domain/account"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type VerifyResetTokenCommand struct {
	Token string
}

type VerifyResetTokenResult struct {
	Valid     bool
	Username  string
	ExpiresAt time.Time
}

// VerifyResetTokenUseCase checks whether a reset token would be accepted,
// without consuming it. Malformed and unknown tokens both report invalid;
// a valid token reveals the username it belongs to.
type VerifyResetTokenUseCase struct {
	resetRepo   reset.Repository
	accountRepo account.Repository
	logger      logger.Interface
}

func NewVerifyResetTokenUseCase(resetRepo reset.Repository, accountRepo account.Repository, log logger.Interface) *VerifyResetTokenUseCase {
	return &VerifyResetTokenUseCase{resetRepo: resetRepo, accountRepo: accountRepo, logger: log}
}

func (uc *VerifyResetTokenUseCase) Execute(ctx context.Context, cmd VerifyResetTokenCommand) (*VerifyResetTokenResult, error) {
	token, err := reset.ParseToken(cmd.Token)
	if err != nil {
		return &VerifyResetTokenResult{Valid: false}, nil
	}

	request, err := uc.resetRepo.GetByHash(ctx, token.Hash())
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &VerifyResetTokenResult{Valid: false}, nil
		}
		return nil, fmt.Errorf("failed to look up reset request: %w", err)
	}

	if !request.IsConsumable() {
		return &VerifyResetTokenResult{Valid: false}, nil
	}

	acct, err := uc.accountRepo.GetByPrincipalID(ctx, request.PrincipalID())
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &VerifyResetTokenResult{Valid: false}, nil
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	return &VerifyResetTokenResult{
		Valid:     true,
		Username:  acct.Username().String(),
		ExpiresAt: request.ExpiresAt(),
	}, nil
}
