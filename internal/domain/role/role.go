package role

import (
	"fmt"
	"time"
)

// Scope bounds where a role's permissions apply.
type Scope string

const (
	ScopeSystem       Scope = "SYSTEM"
	ScopeOrganization Scope = "ORGANIZATION"
	ScopeDepartment   Scope = "DEPARTMENT"
	ScopeBranch       Scope = "BRANCH"
)

// IsValid reports whether the scope is one of the defined values.
func (s Scope) IsValid() bool {
	switch s {
	case ScopeSystem, ScopeOrganization, ScopeDepartment, ScopeBranch:
		return true
	}
	return false
}

// Role bundles a named permission set at an authority level. Level 1 is
// the highest authority, 5 the lowest.
type Role struct {
	id           uint
	name         string
	code         string
	level        int
	permissions  []string
	scope        Scope
	isSystemRole bool
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

// ReconstructRole rebuilds a role from persistence.
func ReconstructRole(id uint, name, code string, level int, permissions []string, scope Scope, isSystemRole, isActive bool, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}
	if code == "" {
		return nil, fmt.Errorf("role code is required")
	}
	if level < 1 || level > 5 {
		return nil, fmt.Errorf("role level must be between 1 and 5, got %d", level)
	}
	if !scope.IsValid() {
		return nil, fmt.Errorf("invalid role scope: %s", scope)
	}
	return &Role{
		id:           id,
		name:         name,
		code:         code,
		level:        level,
		permissions:  permissions,
		scope:        scope,
		isSystemRole: isSystemRole,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (r *Role) ID() uint              { return r.id }
func (r *Role) Name() string          { return r.name }
func (r *Role) Code() string          { return r.code }
func (r *Role) Level() int            { return r.level }
func (r *Role) Permissions() []string { return r.permissions }
func (r *Role) Scope() Scope          { return r.scope }
func (r *Role) IsSystemRole() bool    { return r.isSystemRole }
func (r *Role) IsActive() bool        { return r.isActive }
func (r *Role) CreatedAt() time.Time  { return r.createdAt }
func (r *Role) UpdatedAt() time.Time  { return r.updatedAt }

// HasPermission reports whether the role grants a single permission code.
func (r *Role) HasPermission(code string) bool {
	for _, p := range r.permissions {
		if p == code {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the role grants at least one of the
// given codes.
func (r *Role) HasAnyPermission(codes ...string) bool {
	for _, code := range codes {
		if r.HasPermission(code) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether the role grants every one of the
// given codes.
func (r *Role) HasAllPermissions(codes ...string) bool {
	for _, code := range codes {
		if !r.HasPermission(code) {
			return false
		}
	}
	return true
}
