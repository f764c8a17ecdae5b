package usecases

import (
	"context"
	"time"

	"admincore/internal/domain/account"
	"admincore/internal/shared/logger"
)

type GetSessionsQuery struct {
	PrincipalID uint
}

type SessionDTO struct {
	DeviceID     string     `json:"deviceId"`
	IPAddress    string     `json:"ipAddress"`
	UserAgent    string     `json:"userAgent"`
	LoginCount   int        `json:"loginCount"`
	Active       bool       `json:"active"`
	LastActiveAt *time.Time `json:"lastActiveAt,omitempty"`
}

type GetSessionsResult struct {
	PrincipalID uint
	IsLoggedIn  bool
	Sessions    []SessionDTO
}

// GetSessionsUseCase lists an account's tracked devices with their
// current activity state.
type GetSessionsUseCase struct {
	accountRepo account.Repository
	logger      logger.Interface
}

func NewGetSessionsUseCase(accountRepo account.Repository, log logger.Interface) *GetSessionsUseCase {
	return &GetSessionsUseCase{accountRepo: accountRepo, logger: log}
}

func (uc *GetSessionsUseCase) Execute(ctx context.Context, query GetSessionsQuery) (*GetSessionsResult, error) {
	acct, err := uc.accountRepo.GetByPrincipalID(ctx, query.PrincipalID)
	if err != nil {
		return nil, err
	}

	sessions := make([]SessionDTO, 0, len(acct.Devices()))
	for _, device := range acct.Devices() {
		dto := SessionDTO{
			DeviceID:   device.DeviceID,
			IPAddress:  device.IPAddress,
			UserAgent:  device.UserAgent,
			LoginCount: device.LoginCount,
			Active:     device.IsActive(),
		}
		if last := device.LastActiveAt(); !last.IsZero() {
			dto.LastActiveAt = &last
		}
		sessions = append(sessions, dto)
	}

	return &GetSessionsResult{
		PrincipalID: acct.PrincipalID(),
		IsLoggedIn:  acct.IsLoggedIn(),
		Sessions:    sessions,
	}, nil
}
