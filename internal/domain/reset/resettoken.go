package reset

import (
	"fmt"
	"time"

	"admincore/internal/shared/biztime"
)

// Reason records who initiated a reset request.
type Reason string

const (
	ReasonUserRequest Reason = "user_request"
	ReasonAdminForced Reason = "admin_forced"
)

// DefaultExpiry is the request lifetime when configuration supplies none.
const DefaultExpiry = time.Hour

// ResetToken is a single password reset request. Only the token hash is
// stored; the plaintext lives in the Token value object and is discarded
// after delivery.
type ResetToken struct {
	id          uint
	principalID uint
	tokenHash   string
	reason      Reason
	requestIP   string
	userAgent   string
	expiresAt   time.Time
	used        bool
	usedAt      *time.Time
	invalidated bool
	createdAt   time.Time
}

// NewResetToken creates a pending reset request for a principal.
func NewResetToken(principalID uint, token *Token, reason Reason, expiry time.Duration) (*ResetToken, error) {
	if principalID == 0 {
		return nil, fmt.Errorf("principal ID is required")
	}
	if token == nil {
		return nil, fmt.Errorf("token is required")
	}
	if reason != ReasonUserRequest && reason != ReasonAdminForced {
		return nil, fmt.Errorf("invalid reset reason: %s", reason)
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	now := biztime.NowUTC()
	return &ResetToken{
		principalID: principalID,
		tokenHash:   token.Hash(),
		reason:      reason,
		expiresAt:   now.Add(expiry),
		createdAt:   now,
	}, nil
}

// SetRequestContext records where the request came from. Metadata only;
// it never affects token validity.
func (r *ResetToken) SetRequestContext(requestIP, userAgent string) {
	r.requestIP = requestIP
	r.userAgent = userAgent
}

// ReconstructResetToken rebuilds a reset request from persistence.
func ReconstructResetToken(id, principalID uint, tokenHash string, reason Reason, requestIP, userAgent string, expiresAt time.Time, used bool, usedAt *time.Time, invalidated bool, createdAt time.Time) *ResetToken {
	return &ResetToken{
		id:          id,
		principalID: principalID,
		tokenHash:   tokenHash,
		reason:      reason,
		requestIP:   requestIP,
		userAgent:   userAgent,
		expiresAt:   expiresAt,
		used:        used,
		usedAt:      usedAt,
		invalidated: invalidated,
		createdAt:   createdAt,
	}
}

func (r *ResetToken) ID() uint             { return r.id }
func (r *ResetToken) PrincipalID() uint    { return r.principalID }
func (r *ResetToken) TokenHash() string    { return r.tokenHash }
func (r *ResetToken) Reason() Reason       { return r.reason }
func (r *ResetToken) RequestIP() string    { return r.requestIP }
func (r *ResetToken) UserAgent() string    { return r.userAgent }
func (r *ResetToken) ExpiresAt() time.Time { return r.expiresAt }
func (r *ResetToken) IsUsed() bool         { return r.used }
func (r *ResetToken) UsedAt() *time.Time   { return r.usedAt }
func (r *ResetToken) IsInvalidated() bool  { return r.invalidated }
func (r *ResetToken) CreatedAt() time.Time { return r.createdAt }

// SetID sets the record ID (only for persistence layer use)
func (r *ResetToken) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("reset token ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("reset token ID cannot be zero")
	}
	r.id = id
	return nil
}

// IsExpired reports whether the request is past its deadline.
func (r *ResetToken) IsExpired() bool {
	return biztime.NowUTC().After(r.expiresAt)
}

// IsConsumable reports whether the request can still complete a reset.
func (r *ResetToken) IsConsumable() bool {
	return !r.used && !r.invalidated && !r.IsExpired()
}

// Consume marks the request as used. Fails when already used,
// invalidated or expired.
func (r *ResetToken) Consume() error {
	if r.used {
		return fmt.Errorf("reset token already used")
	}
	if r.invalidated {
		return fmt.Errorf("reset token invalidated")
	}
	if r.IsExpired() {
		return fmt.Errorf("reset token expired")
	}
	now := biztime.NowUTC()
	r.used = true
	r.usedAt = &now
	return nil
}

// Invalidate marks the request as superseded.
func (r *ResetToken) Invalidate() {
	r.invalidated = true
}
