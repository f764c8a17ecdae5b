package usecases

import (
	"context"
	"fmt"
	"time"

	"admincore/internal/domain/reset"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type GetPasswordResetStatusQuery struct {
	PrincipalID uint
}

type GetPasswordResetStatusResult struct {
	Status      string     `json:"status"`
	Reason      string     `json:"reason,omitempty"`
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
}

const (
	ResetStatusNone        = "none"
	ResetStatusPending     = "pending"
	ResetStatusUsed        = "used"
	ResetStatusExpired     = "expired"
	ResetStatusInvalidated = "invalidated"
)

// GetPasswordResetStatusUseCase reports the state of a principal's most
// recent reset request.
type GetPasswordResetStatusUseCase struct {
	resetRepo reset.Repository
	logger    logger.Interface
}

func NewGetPasswordResetStatusUseCase(resetRepo reset.Repository, log logger.Interface) *GetPasswordResetStatusUseCase {
	return &GetPasswordResetStatusUseCase{resetRepo: resetRepo, logger: log}
}

func (uc *GetPasswordResetStatusUseCase) Execute(ctx context.Context, query GetPasswordResetStatusQuery) (*GetPasswordResetStatusResult, error) {
	request, err := uc.resetRepo.GetLatestForPrincipal(ctx, query.PrincipalID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return &GetPasswordResetStatusResult{Status: ResetStatusNone}, nil
		}
		return nil, fmt.Errorf("failed to look up reset request: %w", err)
	}

	status := ResetStatusPending
	switch {
	case request.IsUsed():
		status = ResetStatusUsed
	case request.IsInvalidated():
		status = ResetStatusInvalidated
	case request.IsExpired():
		status = ResetStatusExpired
	}

	createdAt := request.CreatedAt()
	expiresAt := request.ExpiresAt()
	return &GetPasswordResetStatusResult{
		Status:      status,
		Reason:      string(request.Reason()),
		RequestedAt: &createdAt,
		ExpiresAt:   &expiresAt,
		UsedAt:      request.UsedAt(),
	}, nil
}
