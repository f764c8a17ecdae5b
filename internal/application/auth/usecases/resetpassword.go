package usecases

import (
	"context"
	"fmt"

	"admincore/internal/domain/account"
	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type ResetPasswordCommand struct {
	Token       string
	NewPassword string
}

type ResetPasswordResult struct {
	PrincipalID uint
	Username    string
}

// ResetPasswordUseCase completes a reset request. The password is replaced
// first and the token marked used after, so a failed account update never
// burns an unconsumed token. Every device is logged out and all refresh
// tokens revoked. Temporary lockout state is cleared; a permanent lock
// survives and still requires an explicit unlock.
type ResetPasswordUseCase struct {
	accountRepo account.Repository
	resetRepo   reset.Repository
	hasher      account.PasswordHasher
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewResetPasswordUseCase(
	accountRepo account.Repository,
	resetRepo reset.Repository,
	hasher account.PasswordHasher,
	auditSink audit.Sink,
	log logger.Interface,
) *ResetPasswordUseCase {
	return &ResetPasswordUseCase{
		accountRepo: accountRepo,
		resetRepo:   resetRepo,
		hasher:      hasher,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *ResetPasswordUseCase) Execute(ctx context.Context, cmd ResetPasswordCommand) (*ResetPasswordResult, error) {
	newPassword, err := vo.NewPassword(cmd.NewPassword)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	token, err := reset.ParseToken(cmd.Token)
	if err != nil {
		return nil, errors.NewTokenInvalidError("reset")
	}

	request, err := uc.resetRepo.GetByHash(ctx, token.Hash())
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewTokenInvalidError("reset")
		}
		return nil, fmt.Errorf("failed to look up reset request: %w", err)
	}

	if request.IsExpired() {
		return nil, errors.NewTokenExpiredError("reset")
	}
	if err := request.Consume(); err != nil {
		return nil, errors.NewTokenInvalidError("reset")
	}

	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByPrincipalID(ctx, request.PrincipalID())
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		if err := acct.SetPassword(newPassword, uc.hasher); err != nil {
			return err
		}
		acct.ResetLockState()
		acct.RevokeAllRefreshTokens()
		_, logoutErr := acct.RecordLogout("")
		return logoutErr
	})
	if err != nil {
		return nil, err
	}

	// the password change is committed; mark the token only now so a
	// failed update above leaves it consumable
	if err := uc.resetRepo.MarkUsed(ctx, request); err != nil {
		uc.logger.Errorw("failed to mark reset request used", "principal_id", request.PrincipalID(), "error", err)
		return nil, fmt.Errorf("failed to mark reset request used: %w", err)
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventResetCompleted,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		Detail:      string(request.Reason()),
	})
	return &ResetPasswordResult{
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
	}, nil
}
