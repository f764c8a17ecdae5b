package mappers

import (
	"admincore/internal/domain/reset"
	"admincore/internal/infrastructure/persistence/models"
)

// ResetTokenMapper handles the conversion between reset request entities
// and persistence models.
type ResetTokenMapper interface {
	ToModel(entity *reset.ResetToken) *models.ResetTokenModel
	ToDomain(model *models.ResetTokenModel) *reset.ResetToken
}

type ResetTokenMapperImpl struct{}

func NewResetTokenMapper() ResetTokenMapper {
	return &ResetTokenMapperImpl{}
}

func (m *ResetTokenMapperImpl) ToModel(entity *reset.ResetToken) *models.ResetTokenModel {
	if entity == nil {
		return nil
	}
	return &models.ResetTokenModel{
		ID:          entity.ID(),
		PrincipalID: entity.PrincipalID(),
		TokenHash:   entity.TokenHash(),
		Reason:      string(entity.Reason()),
		RequestIP:   entity.RequestIP(),
		UserAgent:   entity.UserAgent(),
		ExpiresAt:   entity.ExpiresAt(),
		Used:        entity.IsUsed(),
		UsedAt:      entity.UsedAt(),
		Invalidated: entity.IsInvalidated(),
		CreatedAt:   entity.CreatedAt(),
	}
}

func (m *ResetTokenMapperImpl) ToDomain(model *models.ResetTokenModel) *reset.ResetToken {
	if model == nil {
		return nil
	}
	return reset.ReconstructResetToken(
		model.ID,
		model.PrincipalID,
		model.TokenHash,
		reset.Reason(model.Reason),
		model.RequestIP,
		model.UserAgent,
		model.ExpiresAt,
		model.Used,
		model.UsedAt,
		model.Invalidated,
		model.CreatedAt,
	)
}
