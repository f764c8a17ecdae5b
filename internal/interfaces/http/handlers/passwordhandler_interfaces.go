package handlers

import (
	"context"

	"admincore/internal/application/auth/usecases"
)

// Use case interfaces for PasswordHandler - enables unit testing with mocks.

type requestPasswordResetUseCase interface {
	Execute(ctx context.Context, cmd usecases.RequestPasswordResetCommand) (*usecases.RequestPasswordResetResult, error)
}

type verifyResetTokenUseCase interface {
	Execute(ctx context.Context, cmd usecases.VerifyResetTokenCommand) (*usecases.VerifyResetTokenResult, error)
}

type resetPasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.ResetPasswordCommand) (*usecases.ResetPasswordResult, error)
}

type adminResetPasswordUseCase interface {
	Execute(ctx context.Context, cmd usecases.AdminResetPasswordCommand) (*usecases.AdminResetPasswordResult, error)
}

type getPasswordResetStatusUseCase interface {
	Execute(ctx context.Context, query usecases.GetPasswordResetStatusQuery) (*usecases.GetPasswordResetStatusResult, error)
}
