package usecases

import (
	"context"
	"fmt"

	"admincore/internal/domain/account"
	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/domain/principal"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type RegisterCredentialsCommand struct {
	PrincipalID uint
	Username    string
	Password    string
}

type RegisterCredentialsResult struct {
	AccountID   uint
	PrincipalID uint
	Username    string
}

// RegisterCredentialsUseCase provisions login credentials for an existing
// directory record.
type RegisterCredentialsUseCase struct {
	accountRepo   account.Repository
	principalRepo principal.Repository
	hasher        account.PasswordHasher
	auditSink     audit.Sink
	logger        logger.Interface
}

func NewRegisterCredentialsUseCase(
	accountRepo account.Repository,
	principalRepo principal.Repository,
	hasher account.PasswordHasher,
	auditSink audit.Sink,
	log logger.Interface,
) *RegisterCredentialsUseCase {
	return &RegisterCredentialsUseCase{
		accountRepo:   accountRepo,
		principalRepo: principalRepo,
		hasher:        hasher,
		auditSink:     auditSink,
		logger:        log,
	}
}

func (uc *RegisterCredentialsUseCase) Execute(ctx context.Context, cmd RegisterCredentialsCommand) (*RegisterCredentialsResult, error) {
	username, err := vo.NewUsername(cmd.Username)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	password, err := vo.NewPassword(cmd.Password)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if _, err := uc.principalRepo.GetByID(ctx, cmd.PrincipalID); err != nil {
		if errors.IsNotFoundError(err) {
			return nil, errors.NewNotFoundError("principal not found")
		}
		uc.logger.Errorw("failed to load principal", "principal_id", cmd.PrincipalID, "error", err)
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}

	if existing, err := uc.accountRepo.GetByPrincipalID(ctx, cmd.PrincipalID); err == nil && existing != nil {
		return nil, errors.NewConflictError("principal already has credentials")
	} else if err != nil && !errors.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check existing credentials: %w", err)
	}

	acct, err := account.NewAccount(cmd.PrincipalID, username, password, uc.hasher)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if err := uc.accountRepo.Create(ctx, acct); err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("username already taken")
		}
		uc.logger.Errorw("failed to persist account", "principal_id", cmd.PrincipalID, "error", err)
		return nil, fmt.Errorf("failed to persist account: %w", err)
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventCredentialsCreated,
		PrincipalID: cmd.PrincipalID,
		Username:    username.String(),
	})

	return &RegisterCredentialsResult{
		AccountID:   acct.ID(),
		PrincipalID: acct.PrincipalID(),
		Username:    username.String(),
	}, nil
}
