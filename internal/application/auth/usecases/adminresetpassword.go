package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"admincore/internal/domain/account"
	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

const tempPasswordBytes = 6

type AdminResetPasswordCommand struct {
	TargetPrincipalID uint
	AdminPrincipalID  uint
}

type AdminResetPasswordResult struct {
	// TemporaryPassword is returned exactly once for out-of-band delivery.
	TemporaryPassword string
}

// AdminResetPasswordUseCase forcibly replaces an account's password with a
// random temporary one. The account is fully unlocked, every session is
// closed and pending reset requests are invalidated.
type AdminResetPasswordUseCase struct {
	accountRepo account.Repository
	resetRepo   reset.Repository
	hasher      account.PasswordHasher
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewAdminResetPasswordUseCase(
	accountRepo account.Repository,
	resetRepo reset.Repository,
	hasher account.PasswordHasher,
	auditSink audit.Sink,
	log logger.Interface,
) *AdminResetPasswordUseCase {
	return &AdminResetPasswordUseCase{
		accountRepo: accountRepo,
		resetRepo:   resetRepo,
		hasher:      hasher,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *AdminResetPasswordUseCase) Execute(ctx context.Context, cmd AdminResetPasswordCommand) (*AdminResetPasswordResult, error) {
	tempPassword, err := generateTemporaryPassword()
	if err != nil {
		return nil, err
	}
	password, err := vo.NewPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("generated temporary password rejected: %w", err)
	}

	load := func(ctx context.Context) (*account.Account, error) {
		acct, err := uc.accountRepo.GetByPrincipalID(ctx, cmd.TargetPrincipalID)
		if err != nil && errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("account not found")
		}
		return acct, err
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		if err := acct.SetPassword(password, uc.hasher); err != nil {
			return err
		}
		acct.Unlock()
		acct.RevokeAllRefreshTokens()
		_, logoutErr := acct.RecordLogout("")
		return logoutErr
	})
	if err != nil {
		return nil, err
	}

	if err := uc.resetRepo.InvalidateAllForPrincipal(ctx, cmd.TargetPrincipalID); err != nil {
		uc.logger.Warnw("failed to invalidate pending reset requests", "principal_id", cmd.TargetPrincipalID, "error", err)
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventAdminResetIssued,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		Detail:      fmt.Sprintf("by admin %d", cmd.AdminPrincipalID),
	})

	return &AdminResetPasswordResult{TemporaryPassword: tempPassword}, nil
}

func generateTemporaryPassword() (string, error) {
	buf := make([]byte, tempPasswordBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate temporary password: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
