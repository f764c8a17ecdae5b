package usecases

import (
	"context"
	"fmt"

	"admincore/internal/domain/account"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type UnlockAccountCommand struct {
	PrincipalID      uint
	AdminPrincipalID uint
}

// UnlockAccountUseCase clears all lockout state including a permanent
// lock. Admin only; the counter restarts from zero.
type UnlockAccountUseCase struct {
	accountRepo account.Repository
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewUnlockAccountUseCase(accountRepo account.Repository, auditSink audit.Sink, log logger.Interface) *UnlockAccountUseCase {
	return &UnlockAccountUseCase{
		accountRepo: accountRepo,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *UnlockAccountUseCase) Execute(ctx context.Context, cmd UnlockAccountCommand) error {
	load := func(ctx context.Context) (*account.Account, error) {
		acct, err := uc.accountRepo.GetByPrincipalID(ctx, cmd.PrincipalID)
		if err != nil && errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("account not found")
		}
		return acct, err
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		acct.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventAccountUnlocked,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		Detail:      fmt.Sprintf("by admin %d", cmd.AdminPrincipalID),
	})
	return nil
}
