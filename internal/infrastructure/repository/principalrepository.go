package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"admincore/internal/domain/principal"
	"admincore/internal/infrastructure/persistence/mappers"
	"admincore/internal/infrastructure/persistence/models"
	"admincore/internal/shared/errors"
)

type PrincipalRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.PrincipalMapper
}

func NewPrincipalRepository(db *gorm.DB) principal.Repository {
	return &PrincipalRepositoryImpl{
		db:     db,
		mapper: mappers.NewPrincipalMapper(),
	}
}

func (r *PrincipalRepositoryImpl) GetByID(ctx context.Context, id uint) (*principal.Principal, error) {
	var model models.PrincipalModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("principal not found")
		}
		return nil, fmt.Errorf("failed to get principal: %w", err)
	}
	return r.mapper.ToDomain(&model)
}
