package usecases

import (
	"context"

	"admincore/internal/domain/account"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type LogoutCommand struct {
	PrincipalID uint
	DeviceID    string
}

type LogoutResult struct {
	LoggedOutDevices []string
	StillLoggedIn    bool
}

// LogoutUseCase closes the open session on one device and revokes its
// refresh token.
type LogoutUseCase struct {
	accountRepo account.Repository
	auditSink   audit.Sink
	logger      logger.Interface
}

func NewLogoutUseCase(accountRepo account.Repository, auditSink audit.Sink, log logger.Interface) *LogoutUseCase {
	return &LogoutUseCase{
		accountRepo: accountRepo,
		auditSink:   auditSink,
		logger:      log,
	}
}

func (uc *LogoutUseCase) Execute(ctx context.Context, cmd LogoutCommand) (*LogoutResult, error) {
	if cmd.DeviceID == "" {
		return nil, errors.NewValidationError("device ID is required")
	}

	var closed []string
	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByPrincipalID(ctx, cmd.PrincipalID)
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		var logoutErr error
		closed, logoutErr = acct.RecordLogout(cmd.DeviceID)
		return logoutErr
	})
	if err != nil {
		return nil, err
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventLogout,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		DeviceID:    cmd.DeviceID,
	})

	return &LogoutResult{
		LoggedOutDevices: closed,
		StillLoggedIn:    acct.IsLoggedIn(),
	}, nil
}
