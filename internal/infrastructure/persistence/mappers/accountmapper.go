package mappers

import (
	"fmt"

	"admincore/internal/domain/account"
	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/infrastructure/persistence/models"
)

// AccountMapper handles the conversion between account aggregates and
// persistence models.
type AccountMapper interface {
	// ToModel converts an aggregate to its persistence models. Device
	// sessions are returned separately with positions assigned.
	ToModel(acct *account.Account) (*models.AccountModel, []*models.DeviceSessionModel)

	// ToDomain rebuilds the aggregate from persistence models. Devices
	// must arrive ordered by position.
	ToDomain(model *models.AccountModel, devices []*models.DeviceSessionModel) (*account.Account, error)
}

type AccountMapperImpl struct{}

func NewAccountMapper() AccountMapper {
	return &AccountMapperImpl{}
}

func (m *AccountMapperImpl) ToModel(acct *account.Account) (*models.AccountModel, []*models.DeviceSessionModel) {
	if acct == nil {
		return nil, nil
	}

	accountModel := &models.AccountModel{
		ID:                  acct.ID(),
		PrincipalID:         acct.PrincipalID(),
		Username:            acct.Username().String(),
		PasswordHash:        acct.PasswordHash(),
		FailedLoginAttempts: acct.FailedLoginAttempts(),
		LockLevel:           acct.LockLevel(),
		LockUntil:           acct.LockUntil(),
		PermanentlyLocked:   acct.IsPermanentlyLocked(),
		IsLoggedIn:          acct.IsLoggedIn(),
		LastLoginAt:         acct.LastLoginAt(),
		MaxAllowedDevices:   acct.MaxAllowedDevices(),
		Version:             acct.Version(),
		CreatedAt:           acct.CreatedAt(),
		UpdatedAt:           acct.UpdatedAt(),
	}

	deviceModels := make([]*models.DeviceSessionModel, 0, len(acct.Devices()))
	for position, device := range acct.Devices() {
		deviceModel := &models.DeviceSessionModel{
			AccountID:        acct.ID(),
			DeviceID:         device.DeviceID,
			IPAddress:        device.IPAddress,
			UserAgent:        device.UserAgent,
			LoginCount:       device.LoginCount,
			RefreshTokenHash: device.RefreshTokenHash,
			Position:         position,
		}
		for _, event := range device.History {
			deviceModel.Events = append(deviceModel.Events, models.LoginEventModel{
				LoginAt:  event.LoginAt,
				LogoutAt: event.LogoutAt,
			})
		}
		deviceModels = append(deviceModels, deviceModel)
	}

	return accountModel, deviceModels
}

func (m *AccountMapperImpl) ToDomain(model *models.AccountModel, devices []*models.DeviceSessionModel) (*account.Account, error) {
	if model == nil {
		return nil, fmt.Errorf("account model is nil")
	}

	username, err := vo.NewUsername(model.Username)
	if err != nil {
		return nil, fmt.Errorf("corrupt username in storage: %w", err)
	}

	domainDevices := make([]*account.DeviceSession, 0, len(devices))
	for _, deviceModel := range devices {
		device := &account.DeviceSession{
			DeviceID:         deviceModel.DeviceID,
			IPAddress:        deviceModel.IPAddress,
			UserAgent:        deviceModel.UserAgent,
			LoginCount:       deviceModel.LoginCount,
			RefreshTokenHash: deviceModel.RefreshTokenHash,
		}
		for _, eventModel := range deviceModel.Events {
			device.History = append(device.History, account.LoginEvent{
				LoginAt:  eventModel.LoginAt,
				LogoutAt: eventModel.LogoutAt,
			})
		}
		domainDevices = append(domainDevices, device)
	}

	return account.ReconstructAccount(
		model.ID,
		model.PrincipalID,
		username,
		account.AuthState{
			PasswordHash:        model.PasswordHash,
			FailedLoginAttempts: model.FailedLoginAttempts,
			LockLevel:           model.LockLevel,
			LockUntil:           model.LockUntil,
			PermanentlyLocked:   model.PermanentlyLocked,
			LoggedIn:            model.IsLoggedIn,
			LastLoginAt:         model.LastLoginAt,
			MaxAllowedDevices:   model.MaxAllowedDevices,
			Devices:             domainDevices,
		},
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
