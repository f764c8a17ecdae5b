package handlers

import (
	"context"

	"admincore/internal/application/auth/usecases"
)

// Use case interfaces for AuthHandler - enables unit testing with mocks.

type registerCredentialsUseCase interface {
	Execute(ctx context.Context, cmd usecases.RegisterCredentialsCommand) (*usecases.RegisterCredentialsResult, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd usecases.LoginCommand) (*usecases.LoginResult, error)
}

type logoutUseCase interface {
	Execute(ctx context.Context, cmd usecases.LogoutCommand) (*usecases.LogoutResult, error)
}

type refreshTokenUseCase interface {
	Execute(ctx context.Context, cmd usecases.RefreshTokenCommand) (*usecases.RefreshTokenResult, error)
}

type changePasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.ChangePasswordCommand) error
}
