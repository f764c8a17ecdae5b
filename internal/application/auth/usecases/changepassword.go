package usecases

import (
	"context"

	"admincore/internal/domain/account"
	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type ChangePasswordCommand struct {
	PrincipalID     uint
	CurrentPassword string
	NewPassword     string
}

// ChangePasswordUseCase replaces the password of an authenticated user.
// The current password must verify, and any pending reset requests are
// invalidated since the account owner clearly still holds the secret.
type ChangePasswordUseCase struct {
	accountRepo account.Repository
	resetRepo   reset.Repository
	hasher      account.PasswordHasher
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewChangePasswordUseCase(
	accountRepo account.Repository,
	resetRepo reset.Repository,
	hasher account.PasswordHasher,
	auditSink audit.Sink,
	log logger.Interface,
) *ChangePasswordUseCase {
	return &ChangePasswordUseCase{
		accountRepo: accountRepo,
		resetRepo:   resetRepo,
		hasher:      hasher,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *ChangePasswordUseCase) Execute(ctx context.Context, cmd ChangePasswordCommand) error {
	if cmd.NewPassword == cmd.CurrentPassword {
		return errors.NewValidationError("new password must differ from the current password")
	}
	newPassword, err := vo.NewPassword(cmd.NewPassword)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}

	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByPrincipalID(ctx, cmd.PrincipalID)
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		if err := acct.VerifyPassword(cmd.CurrentPassword, uc.hasher); err != nil {
			return errors.NewInvalidCredentialsError()
		}
		return acct.SetPassword(newPassword, uc.hasher)
	})
	if err != nil {
		return err
	}

	if err := uc.resetRepo.InvalidateAllForPrincipal(ctx, cmd.PrincipalID); err != nil {
		// the password change already took effect, only log
		uc.logger.Warnw("failed to invalidate pending reset requests", "principal_id", cmd.PrincipalID, "error", err)
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventPasswordChanged,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
	})
	return nil
}
