package usecases

import (
	"context"
	"sort"
	"time"

	"admincore/internal/domain/account"
	"admincore/internal/shared/logger"
)

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

type GetLoginHistoryQuery struct {
	PrincipalID uint
	Page        int
	PageSize    int
}

type LoginHistoryEntry struct {
	DeviceID  string     `json:"deviceId"`
	IPAddress string     `json:"ipAddress"`
	UserAgent string     `json:"userAgent"`
	LoginAt   time.Time  `json:"loginAt"`
	LogoutAt  *time.Time `json:"logoutAt,omitempty"`
}

type GetLoginHistoryResult struct {
	Entries  []LoginHistoryEntry
	Total    int
	Page     int
	PageSize int
}

// GetLoginHistoryUseCase flattens per-device login events into one list,
// newest first, paginated.
type GetLoginHistoryUseCase struct {
	accountRepo account.Repository
	logger      logger.Interface
}

func NewGetLoginHistoryUseCase(accountRepo account.Repository, log logger.Interface) *GetLoginHistoryUseCase {
	return &GetLoginHistoryUseCase{accountRepo: accountRepo, logger: log}
}

func (uc *GetLoginHistoryUseCase) Execute(ctx context.Context, query GetLoginHistoryQuery) (*GetLoginHistoryResult, error) {
	acct, err := uc.accountRepo.GetByPrincipalID(ctx, query.PrincipalID)
	if err != nil {
		return nil, err
	}

	var entries []LoginHistoryEntry
	for _, device := range acct.Devices() {
		for _, event := range device.History {
			entries = append(entries, LoginHistoryEntry{
				DeviceID:  device.DeviceID,
				IPAddress: device.IPAddress,
				UserAgent: device.UserAgent,
				LoginAt:   event.LoginAt,
				LogoutAt:  event.LogoutAt,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoginAt.After(entries[j].LoginAt)
	})

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = defaultHistoryPageSize
	}
	if pageSize > maxHistoryPageSize {
		pageSize = maxHistoryPageSize
	}

	total := len(entries)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &GetLoginHistoryResult{
		Entries:  entries[start:end],
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
