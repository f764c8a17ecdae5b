package mappers

import (
	"encoding/json"
	"fmt"

	"admincore/internal/domain/principal"
	"admincore/internal/infrastructure/persistence/models"
)

// PrincipalMapper rebuilds principal read models from persistence.
type PrincipalMapper interface {
	ToDomain(model *models.PrincipalModel) (*principal.Principal, error)
}

type PrincipalMapperImpl struct{}

func NewPrincipalMapper() PrincipalMapper {
	return &PrincipalMapperImpl{}
}

func (m *PrincipalMapperImpl) ToDomain(model *models.PrincipalModel) (*principal.Principal, error) {
	if model == nil {
		return nil, fmt.Errorf("principal model is nil")
	}
	var branchIDs []uint
	if model.BranchIDs != "" {
		if err := json.Unmarshal([]byte(model.BranchIDs), &branchIDs); err != nil {
			return nil, fmt.Errorf("failed to decode branch IDs: %w", err)
		}
	}
	return principal.ReconstructPrincipal(
		model.ID,
		model.Name,
		model.Email,
		model.RoleID,
		model.LegacyRole,
		model.OrganizationID,
		branchIDs,
		model.CanLogin,
		model.Active,
		model.Blocked,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
