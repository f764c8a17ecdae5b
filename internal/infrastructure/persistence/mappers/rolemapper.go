package mappers

import (
	"encoding/json"
	"fmt"

	"admincore/internal/domain/role"
	"admincore/internal/infrastructure/persistence/models"
)

// RoleMapper handles the conversion between role entities and persistence
// models.
type RoleMapper interface {
	ToModel(entity *role.Role) (*models.RoleModel, error)
	ToDomain(model *models.RoleModel) (*role.Role, error)
}

type RoleMapperImpl struct{}

func NewRoleMapper() RoleMapper {
	return &RoleMapperImpl{}
}

func (m *RoleMapperImpl) ToModel(entity *role.Role) (*models.RoleModel, error) {
	if entity == nil {
		return nil, nil
	}
	permissions, err := json.Marshal(entity.Permissions())
	if err != nil {
		return nil, fmt.Errorf("failed to encode permissions: %w", err)
	}
	return &models.RoleModel{
		ID:           entity.ID(),
		Name:         entity.Name(),
		Code:         entity.Code(),
		Level:        entity.Level(),
		Permissions:  string(permissions),
		Scope:        string(entity.Scope()),
		IsSystemRole: entity.IsSystemRole(),
		IsActive:     entity.IsActive(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}, nil
}

func (m *RoleMapperImpl) ToDomain(model *models.RoleModel) (*role.Role, error) {
	if model == nil {
		return nil, fmt.Errorf("role model is nil")
	}
	var permissions []string
	if model.Permissions != "" {
		if err := json.Unmarshal([]byte(model.Permissions), &permissions); err != nil {
			return nil, fmt.Errorf("failed to decode permissions: %w", err)
		}
	}
	return role.ReconstructRole(
		model.ID,
		model.Name,
		model.Code,
		model.Level,
		permissions,
		role.Scope(model.Scope),
		model.IsSystemRole,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
