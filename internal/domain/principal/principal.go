package principal

import (
	"fmt"
	"time"
)

// Principal is a read model over the directory record that owns an
// account. Login eligibility and role assignment live here; the auth
// domain never mutates it except through the dedicated repository methods.
type Principal struct {
	id             uint
	name           string
	email          string
	roleID         *uint
	legacyRole     string
	organizationID *uint
	branchIDs      []uint
	canLogin       bool
	active         bool
	blocked        bool
	createdAt      time.Time
	updatedAt      time.Time
}

// ReconstructPrincipal rebuilds a principal from persistence.
func ReconstructPrincipal(id uint, name, email string, roleID *uint, legacyRole string, organizationID *uint, branchIDs []uint, canLogin, active, blocked bool, createdAt, updatedAt time.Time) (*Principal, error) {
	if id == 0 {
		return nil, fmt.Errorf("principal ID cannot be zero")
	}
	return &Principal{
		id:             id,
		name:           name,
		email:          email,
		roleID:         roleID,
		legacyRole:     legacyRole,
		organizationID: organizationID,
		branchIDs:      branchIDs,
		canLogin:       canLogin,
		active:         active,
		blocked:        blocked,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (p *Principal) ID() uint              { return p.id }
func (p *Principal) Name() string          { return p.name }
func (p *Principal) Email() string         { return p.email }
func (p *Principal) RoleID() *uint         { return p.roleID }
func (p *Principal) LegacyRole() string    { return p.legacyRole }
func (p *Principal) OrganizationID() *uint { return p.organizationID }
func (p *Principal) BranchIDs() []uint     { return p.branchIDs }
func (p *Principal) CanLogin() bool        { return p.canLogin }
func (p *Principal) IsActive() bool        { return p.active }
func (p *Principal) IsBlocked() bool       { return p.blocked }
func (p *Principal) CreatedAt() time.Time  { return p.createdAt }
func (p *Principal) UpdatedAt() time.Time  { return p.updatedAt }

// IsEligibleForLogin reports whether the directory record permits any
// authentication at all, independent of lockout state.
func (p *Principal) IsEligibleForLogin() bool {
	return p.canLogin && p.active && !p.blocked
}
