package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"admincore/internal/domain/role"
	"admincore/internal/infrastructure/persistence/mappers"
	"admincore/internal/infrastructure/persistence/models"
	"admincore/internal/shared/errors"
)

type RoleRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.RoleMapper
}

func NewRoleRepository(db *gorm.DB) role.Repository {
	return &RoleRepositoryImpl{
		db:     db,
		mapper: mappers.NewRoleMapper(),
	}
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*role.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("role not found")
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *RoleRepositoryImpl) GetByCode(ctx context.Context, code string) (*role.Role, error) {
	var model models.RoleModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("role not found")
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]*role.Role, error) {
	var roleModels []models.RoleModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("level ASC").
		Find(&roleModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]*role.Role, 0, len(roleModels))
	for i := range roleModels {
		domainRole, err := r.mapper.ToDomain(&roleModels[i])
		if err != nil {
			return nil, err
		}
		roles = append(roles, domainRole)
	}
	return roles, nil
}
