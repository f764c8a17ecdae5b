package authz

import (
	"context"
	"fmt"

	"admincore/internal/domain/principal"
	"admincore/internal/domain/role"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

// Mode selects how a set of required permission codes combines.
type Mode int

const (
	// ModeAny grants access when the role holds at least one code.
	ModeAny Mode = iota
	// ModeAll grants access only when the role holds every code.
	ModeAll
)

// Service is the authorization gate. It resolves a principal's role and
// checks required permission codes against it.
type Service struct {
	principalRepo principal.Repository
	roleRepo      role.Repository
	logger        logger.Interface
}

func NewService(principalRepo principal.Repository, roleRepo role.Repository, log logger.Interface) *Service {
	return &Service{
		principalRepo: principalRepo,
		roleRepo:      roleRepo,
		logger:        log,
	}
}

// Authorize checks that the principal's role grants the required codes.
// A principal without any role resolves to a distinct error so clients can
// tell "no role assigned" from "role lacks permission". An empty code list
// only requires that some role is assigned.
func (s *Service) Authorize(ctx context.Context, principalID uint, codes []string, mode Mode) error {
	p, err := s.principalRepo.GetByID(ctx, principalID)
	if err != nil {
		return fmt.Errorf("failed to load principal: %w", err)
	}

	r, err := s.resolveRole(ctx, p)
	if err != nil {
		return err
	}

	if len(codes) == 0 {
		return nil
	}

	granted := false
	switch mode {
	case ModeAll:
		granted = r.HasAllPermissions(codes...)
	default:
		granted = r.HasAnyPermission(codes...)
	}

	if !granted {
		s.logger.Warnw("permission denied",
			"principal_id", principalID,
			"role", r.Code(),
			"required", codes,
		)
		return errors.NewInsufficientPermissionError(codes...)
	}
	return nil
}

// resolveRole loads the principal's assigned role, falling back to the
// legacy role code carried on directory records that predate role IDs.
func (s *Service) resolveRole(ctx context.Context, p *principal.Principal) (*role.Role, error) {
	if p.RoleID() != nil {
		r, err := s.roleRepo.GetByID(ctx, *p.RoleID())
		if err != nil {
			if errors.IsNotFoundError(err) {
				return nil, errors.NewNoRoleAssignedError()
			}
			return nil, fmt.Errorf("failed to load role: %w", err)
		}
		if !r.IsActive() {
			return nil, errors.NewNoRoleAssignedError()
		}
		return r, nil
	}

	if legacy := p.LegacyRole(); legacy != "" {
		r, err := s.roleRepo.GetByCode(ctx, legacy)
		if err != nil {
			if errors.IsNotFoundError(err) {
				return nil, errors.NewNoRoleAssignedError()
			}
			return nil, fmt.Errorf("failed to load role: %w", err)
		}
		if !r.IsActive() {
			return nil, errors.NewNoRoleAssignedError()
		}
		return r, nil
	}

	return nil, errors.NewNoRoleAssignedError()
}
