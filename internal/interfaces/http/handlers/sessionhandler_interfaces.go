package handlers

import (
	"context"

	"admincore/internal/application/auth/usecases"
)

// Use case interfaces for SessionHandler - enables unit testing with mocks.

type getSessionsUseCase interface {
	Execute(ctx context.Context, query usecases.GetSessionsQuery) (*usecases.GetSessionsResult, error)
}

type logoutAllDevicesUseCase interface {
	Execute(ctx context.Context, cmd usecases.LogoutAllDevicesCommand) (*usecases.LogoutAllDevicesResult, error)
}

type getLoginAttemptsUseCase interface {
	Execute(ctx context.Context, query usecases.GetLoginAttemptsQuery) (*usecases.GetLoginAttemptsResult, error)
}

type getLoginHistoryUseCase interface {
	Execute(ctx context.Context, query usecases.GetLoginHistoryQuery) (*usecases.GetLoginHistoryResult, error)
}

type unlockAccountUseCase interface {
	Execute(ctx context.Context, cmd usecases.UnlockAccountCommand) error
}
