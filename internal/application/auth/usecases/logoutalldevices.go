package usecases

import (
	"context"

	"admincore/internal/domain/account"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/logger"
)

type LogoutAllDevicesCommand struct {
	PrincipalID uint
}

type LogoutAllDevicesResult struct {
	LoggedOutDevices []string
}

// LogoutAllDevicesUseCase closes every open session on an account. Used
// for the user's own "log out everywhere" and for admin-forced logouts.
type LogoutAllDevicesUseCase struct {
	accountRepo account.Repository
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewLogoutAllDevicesUseCase(accountRepo account.Repository, auditSink audit.Sink, log logger.Interface) *LogoutAllDevicesUseCase {
	return &LogoutAllDevicesUseCase{
		accountRepo: accountRepo,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *LogoutAllDevicesUseCase) Execute(ctx context.Context, cmd LogoutAllDevicesCommand) (*LogoutAllDevicesResult, error) {
	var closed []string
	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByPrincipalID(ctx, cmd.PrincipalID)
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		var logoutErr error
		closed, logoutErr = acct.RecordLogout("")
		return logoutErr
	})
	if err != nil {
		return nil, err
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventLogout,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		Detail:      "all devices",
	})

	return &LogoutAllDevicesResult{LoggedOutDevices: closed}, nil
}
