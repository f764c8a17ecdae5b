package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"admincore/internal/domain/account"
	"admincore/internal/infrastructure/persistence/mappers"
	"admincore/internal/infrastructure/persistence/models"
	"admincore/internal/shared/errors"
)

type AccountRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.AccountMapper
}

func NewAccountRepository(db *gorm.DB) account.Repository {
	return &AccountRepositoryImpl{
		db:     db,
		mapper: mappers.NewAccountMapper(),
	}
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, acct *account.Account) error {
	accountModel, deviceModels := r.mapper.ToModel(acct)
	accountModel.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(accountModel).Error; err != nil {
			return err
		}
		for _, deviceModel := range deviceModels {
			deviceModel.AccountID = accountModel.ID
			if err := tx.Create(deviceModel).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			return errors.NewConflictError("account already exists")
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return acct.SetID(accountModel.ID)
}

func (r *AccountRepositoryImpl) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("account not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return r.load(ctx, &model)
}

func (r *AccountRepositoryImpl) GetByPrincipalID(ctx context.Context, principalID uint) (*account.Account, error) {
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Where("principal_id = ?", principalID).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("account not found")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return r.load(ctx, &model)
}

func (r *AccountRepositoryImpl) load(ctx context.Context, model *models.AccountModel) (*account.Account, error) {
	var deviceModels []*models.DeviceSessionModel
	err := r.db.WithContext(ctx).
		Preload("Events", func(db *gorm.DB) *gorm.DB {
			return db.Order("login_events.id ASC")
		}).
		Where("account_id = ?", model.ID).
		Order("position ASC").
		Find(&deviceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load device sessions: %w", err)
	}
	return r.mapper.ToDomain(model, deviceModels)
}

// UpdateAuth persists the aggregate's security state, guarded by the
// version the aggregate was loaded at. Device sessions and their events
// are replaced wholesale in the same transaction.
func (r *AccountRepositoryImpl) UpdateAuth(ctx context.Context, acct *account.Account) error {
	accountModel, deviceModels := r.mapper.ToModel(acct)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// the row must still hold the version seen at load time
		result := tx.Model(&models.AccountModel{}).
			Where("id = ? AND version = ?", accountModel.ID, acct.LoadedVersion()).
			Updates(map[string]interface{}{
				"password_hash":         accountModel.PasswordHash,
				"failed_login_attempts": accountModel.FailedLoginAttempts,
				"lock_level":            accountModel.LockLevel,
				"lock_until":            accountModel.LockUntil,
				"permanently_locked":    accountModel.PermanentlyLocked,
				"is_logged_in":          accountModel.IsLoggedIn,
				"last_login_at":         accountModel.LastLoginAt,
				"max_allowed_devices":   accountModel.MaxAllowedDevices,
				"version":               accountModel.Version,
				"updated_at":            accountModel.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update account: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return account.ErrVersionConflict
		}

		var existingDeviceIDs []uint
		if err := tx.Model(&models.DeviceSessionModel{}).
			Where("account_id = ?", accountModel.ID).
			Pluck("id", &existingDeviceIDs).Error; err != nil {
			return fmt.Errorf("failed to list device sessions: %w", err)
		}
		if len(existingDeviceIDs) > 0 {
			if err := tx.Where("device_session_id IN ?", existingDeviceIDs).
				Delete(&models.LoginEventModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear login events: %w", err)
			}
			if err := tx.Where("account_id = ?", accountModel.ID).
				Delete(&models.DeviceSessionModel{}).Error; err != nil {
				return fmt.Errorf("failed to clear device sessions: %w", err)
			}
		}
		for _, deviceModel := range deviceModels {
			deviceModel.AccountID = accountModel.ID
			if err := tx.Create(deviceModel).Error; err != nil {
				return fmt.Errorf("failed to persist device session: %w", err)
			}
		}
		return nil
	})
}
