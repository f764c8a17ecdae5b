package usecases

import (
	"context"
	"time"

	"admincore/internal/domain/account"
	"admincore/internal/shared/biztime"
	"admincore/internal/shared/logger"
)

type GetLoginAttemptsQuery struct {
	PrincipalID uint
}

type GetLoginAttemptsResult struct {
	PrincipalID         uint       `json:"principalId"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	LockLevel           int        `json:"lockLevel"`
	LockUntil           *time.Time `json:"lockUntil,omitempty"`
	RemainingSeconds    int64      `json:"remainingSeconds"`
	PermanentlyLocked   bool       `json:"permanentlyLocked"`
	IsLoggedIn          bool       `json:"isLoggedIn"`
	LastLoginAt         *time.Time `json:"lastLoginAt,omitempty"`
}

// GetLoginAttemptsUseCase exposes an account's lockout state for the
// admin console.
type GetLoginAttemptsUseCase struct {
	accountRepo account.Repository
	logger      logger.Interface
}

func NewGetLoginAttemptsUseCase(accountRepo account.Repository, log logger.Interface) *GetLoginAttemptsUseCase {
	return &GetLoginAttemptsUseCase{accountRepo: accountRepo, logger: log}
}

func (uc *GetLoginAttemptsUseCase) Execute(ctx context.Context, query GetLoginAttemptsQuery) (*GetLoginAttemptsResult, error) {
	acct, err := uc.accountRepo.GetByPrincipalID(ctx, query.PrincipalID)
	if err != nil {
		return nil, err
	}

	result := &GetLoginAttemptsResult{
		PrincipalID:         acct.PrincipalID(),
		FailedLoginAttempts: acct.FailedLoginAttempts(),
		LockLevel:           acct.LockLevel(),
		LockUntil:           acct.LockUntil(),
		PermanentlyLocked:   acct.IsPermanentlyLocked(),
		IsLoggedIn:          acct.IsLoggedIn(),
		LastLoginAt:         acct.LastLoginAt(),
	}
	if acct.LockUntil() != nil {
		result.RemainingSeconds = biztime.RemainingSeconds(*acct.LockUntil())
	}
	return result, nil
}
