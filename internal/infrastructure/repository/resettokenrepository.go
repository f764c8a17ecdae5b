package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"admincore/internal/domain/reset"
	"admincore/internal/infrastructure/persistence/mappers"
	"admincore/internal/infrastructure/persistence/models"
	"admincore/internal/shared/biztime"
	"admincore/internal/shared/errors"
)

type ResetTokenRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.ResetTokenMapper
}

func NewResetTokenRepository(db *gorm.DB) reset.Repository {
	return &ResetTokenRepositoryImpl{
		db:     db,
		mapper: mappers.NewResetTokenMapper(),
	}
}

func (r *ResetTokenRepositoryImpl) CreateInvalidatingPrior(ctx context.Context, token *reset.ResetToken) error {
	model := r.mapper.ToModel(token)
	model.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ResetTokenModel{}).
			Where("principal_id = ? AND used = ? AND invalidated = ?", token.PrincipalID(), false, false).
			Update("invalidated", true).Error; err != nil {
			return err
		}
		return tx.Create(model).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	return token.SetID(model.ID)
}

func (r *ResetTokenRepositoryImpl) GetByHash(ctx context.Context, tokenHash string) (*reset.ResetToken, error) {
	var model models.ResetTokenModel
	if err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("reset token not found")
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *ResetTokenRepositoryImpl) MarkUsed(ctx context.Context, token *reset.ResetToken) error {
	result := r.db.WithContext(ctx).Model(&models.ResetTokenModel{}).
		Where("id = ? AND used = ?", token.ID(), false).
		Updates(map[string]interface{}{
			"used":    true,
			"used_at": token.UsedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reset token used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("reset token already used")
	}
	return nil
}

func (r *ResetTokenRepositoryImpl) InvalidateAllForPrincipal(ctx context.Context, principalID uint) error {
	err := r.db.WithContext(ctx).Model(&models.ResetTokenModel{}).
		Where("principal_id = ? AND used = ? AND invalidated = ?", principalID, false, false).
		Update("invalidated", true).Error
	if err != nil {
		return fmt.Errorf("failed to invalidate reset tokens: %w", err)
	}
	return nil
}

func (r *ResetTokenRepositoryImpl) GetLatestForPrincipal(ctx context.Context, principalID uint) (*reset.ResetToken, error) {
	var model models.ResetTokenModel
	err := r.db.WithContext(ctx).
		Where("principal_id = ?", principalID).
		Order("id DESC").
		First(&model).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("reset token not found")
		}
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *ResetTokenRepositoryImpl) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", biztime.NowUTC()).
		Delete(&models.ResetTokenModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}
