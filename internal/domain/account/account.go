package account

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/shared/biztime"
	"admincore/internal/shared/errors"
)

// DefaultMaxAllowedDevices is the device cap applied to new accounts.
const DefaultMaxAllowedDevices = 2

// PasswordHasher is the one-way hashing contract for account secrets.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// Account is the aggregate root for login credentials, lockout state and
// device sessions of a single principal. Pure domain model without
// persistence concerns; the version field drives optimistic locking.
type Account struct {
	id                  uint
	principalID         uint
	username            *vo.Username
	passwordHash        string
	failedLoginAttempts int
	lockLevel           int
	lockUntil           *time.Time
	permanentlyLocked   bool
	loggedIn            bool
	lastLoginAt         *time.Time
	maxAllowedDevices   int
	devices             []*DeviceSession
	version             int
	loadedVersion       int
	createdAt           time.Time
	updatedAt           time.Time
}

// NewAccount provisions login credentials for a principal.
func NewAccount(principalID uint, username *vo.Username, password *vo.Password, hasher PasswordHasher) (*Account, error) {
	if principalID == 0 {
		return nil, fmt.Errorf("principal ID is required")
	}
	if username == nil {
		return nil, fmt.Errorf("username is required")
	}
	if password == nil {
		return nil, fmt.Errorf("password is required")
	}

	hash, err := hasher.Hash(password.String())
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := biztime.NowUTC()
	return &Account{
		principalID:       principalID,
		username:          username,
		passwordHash:      hash,
		maxAllowedDevices: DefaultMaxAllowedDevices,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// AuthState carries the mutable security fields when reconstructing from
// persistence.
type AuthState struct {
	PasswordHash        string
	FailedLoginAttempts int
	LockLevel           int
	LockUntil           *time.Time
	PermanentlyLocked   bool
	LoggedIn            bool
	LastLoginAt         *time.Time
	MaxAllowedDevices   int
	Devices             []*DeviceSession
}

// ReconstructAccount rebuilds an account aggregate from persistence.
func ReconstructAccount(id, principalID uint, username *vo.Username, state AuthState, version int, createdAt, updatedAt time.Time) (*Account, error) {
	if id == 0 {
		return nil, fmt.Errorf("account ID cannot be zero")
	}
	if username == nil {
		return nil, fmt.Errorf("username is required")
	}

	maxDevices := state.MaxAllowedDevices
	if maxDevices <= 0 {
		maxDevices = DefaultMaxAllowedDevices
	}

	return &Account{
		id:                  id,
		principalID:         principalID,
		username:            username,
		passwordHash:        state.PasswordHash,
		failedLoginAttempts: state.FailedLoginAttempts,
		lockLevel:           state.LockLevel,
		lockUntil:           state.LockUntil,
		permanentlyLocked:   state.PermanentlyLocked,
		loggedIn:            state.LoggedIn,
		lastLoginAt:         state.LastLoginAt,
		maxAllowedDevices:   maxDevices,
		devices:             state.Devices,
		version:             version,
		loadedVersion:       version,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}, nil
}

func (a *Account) ID() uint                  { return a.id }
func (a *Account) PrincipalID() uint         { return a.principalID }
func (a *Account) Username() *vo.Username    { return a.username }
func (a *Account) PasswordHash() string      { return a.passwordHash }
func (a *Account) FailedLoginAttempts() int  { return a.failedLoginAttempts }
func (a *Account) LockLevel() int            { return a.lockLevel }
func (a *Account) LockUntil() *time.Time     { return a.lockUntil }
func (a *Account) IsPermanentlyLocked() bool { return a.permanentlyLocked }
func (a *Account) IsLoggedIn() bool          { return a.loggedIn }
func (a *Account) LastLoginAt() *time.Time   { return a.lastLoginAt }
func (a *Account) MaxAllowedDevices() int    { return a.maxAllowedDevices }
func (a *Account) Devices() []*DeviceSession { return a.devices }
func (a *Account) Version() int              { return a.version }

// LoadedVersion is the version this aggregate was reconstructed at. The
// persistence layer compares it against the stored row before writing.
func (a *Account) LoadedVersion() int { return a.loadedVersion }
func (a *Account) CreatedAt() time.Time      { return a.createdAt }
func (a *Account) UpdatedAt() time.Time      { return a.updatedAt }

// SetID sets the account ID (only for persistence layer use)
func (a *Account) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("account ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("account ID cannot be zero")
	}
	a.id = id
	return nil
}

// SetPassword hashes and stores a new secret.
func (a *Account) SetPassword(password *vo.Password, hasher PasswordHasher) error {
	if password == nil {
		return fmt.Errorf("password cannot be nil")
	}

	hash, err := hasher.Hash(password.String())
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	a.passwordHash = hash
	a.touch()
	return nil
}

// VerifyPassword checks a candidate secret against the stored hash.
// Verification itself never mutates state; the caller decides whether a
// failure feeds the lockout counter.
func (a *Account) VerifyPassword(plainPassword string, hasher PasswordHasher) error {
	if a.passwordHash == "" {
		return fmt.Errorf("account has no password set")
	}
	if err := hasher.Verify(plainPassword, a.passwordHash); err != nil {
		return fmt.Errorf("invalid password")
	}
	return nil
}

// CheckLoginAllowed gates a login attempt on the current lock state.
// Attempts made while a temporary lock is active are rejected here, before
// any counter mutation, so re-attempts during lockout never escalate it.
func (a *Account) CheckLoginAllowed() error {
	if a.permanentlyLocked {
		return errors.NewAccountPermanentlyLockedError()
	}
	if a.lockUntil != nil && a.lockUntil.After(biztime.NowUTC()) {
		return errors.NewAccountLockedError(biztime.RemainingSeconds(*a.lockUntil))
	}
	return nil
}

// RecordFailedAttempt increments the failure counter and applies the
// lockout policy table to the new count.
func (a *Account) RecordFailedAttempt() LockDecision {
	a.failedLoginAttempts++

	decision := DecideLock(a.failedLoginAttempts)
	a.lockLevel = decision.Level
	if decision.Permanent {
		a.permanentlyLocked = true
		a.lockUntil = nil
	} else if decision.Duration > 0 {
		until := biztime.NowUTC().Add(decision.Duration)
		a.lockUntil = &until
	}

	a.touch()
	return decision
}

// ResetLockState clears the counter and any temporary lock after a
// successful verification. The permanent flag is untouched: level 4 never
// self-recovers, only Unlock clears it.
func (a *Account) ResetLockState() {
	if a.failedLoginAttempts == 0 && a.lockLevel == 0 && a.lockUntil == nil {
		return
	}
	a.failedLoginAttempts = 0
	a.lockLevel = 0
	a.lockUntil = nil
	a.touch()
}

// Unlock clears all four lock fields. Admin-invoked; the only way out of a
// permanent lock.
func (a *Account) Unlock() {
	a.failedLoginAttempts = 0
	a.lockLevel = 0
	a.lockUntil = nil
	a.permanentlyLocked = false
	a.touch()
}

// LoginResult describes the device outcome of a successful login.
type LoginResult struct {
	DeviceID    string
	IsNewDevice bool
	LoginCount  int
	// EvictedDeviceID is set when the device cap forced out the oldest
	// session to make room.
	EvictedDeviceID string
}

// RecordLogin registers a successful login from a device. An empty deviceID
// means a new client: a random identifier is generated. When the account is
// at its device cap and the device is new, the oldest session (insertion
// order) is evicted and its refresh token revoked.
func (a *Account) RecordLogin(deviceID, ipAddress, userAgent string) LoginResult {
	result := LoginResult{}

	var device *DeviceSession
	if deviceID != "" {
		device = a.Device(deviceID)
	}

	if device == nil {
		if len(a.devices) >= a.maxAllowedDevices {
			evicted := a.devices[0]
			evicted.revokeRefreshToken()
			result.EvictedDeviceID = evicted.DeviceID
			a.devices = a.devices[1:]
		}

		if deviceID == "" {
			deviceID = uuid.NewString()
		}
		device = &DeviceSession{DeviceID: deviceID}
		a.devices = append(a.devices, device)
		result.IsNewDevice = true
	}

	device.recordLogin(ipAddress, userAgent)

	now := biztime.NowUTC()
	a.loggedIn = true
	a.lastLoginAt = &now
	a.touch()

	result.DeviceID = device.DeviceID
	result.LoginCount = device.LoginCount
	return result
}

// StoreRefreshToken binds a refresh token hash to a device session,
// superseding any previous token for that device.
func (a *Account) StoreRefreshToken(deviceID, tokenHash string) error {
	device := a.Device(deviceID)
	if device == nil {
		return errors.NewNotFoundError("device not found")
	}
	device.RefreshTokenHash = &tokenHash
	a.touch()
	return nil
}

// RecordLogout closes the open event on the named device, or on every
// device when deviceID is empty. Closed devices lose their refresh token.
// Returns the device IDs that were actually logged out.
func (a *Account) RecordLogout(deviceID string) ([]string, error) {
	now := biztime.NowUTC()
	var closed []string

	if deviceID != "" {
		device := a.Device(deviceID)
		if device == nil {
			return nil, errors.NewNotFoundError("device not found")
		}
		if device.closeOpenEvent(now) {
			device.revokeRefreshToken()
			closed = append(closed, device.DeviceID)
		}
	} else {
		for _, device := range a.devices {
			if device.closeOpenEvent(now) {
				device.revokeRefreshToken()
				closed = append(closed, device.DeviceID)
			}
		}
	}

	a.recomputeLoggedIn()
	a.touch()
	return closed, nil
}

// Device returns the session with the given identifier, nil when absent.
func (a *Account) Device(deviceID string) *DeviceSession {
	for _, device := range a.devices {
		if device.DeviceID == deviceID {
			return device
		}
	}
	return nil
}

// DeviceByRefreshTokenHash returns the session currently holding the given
// refresh token hash, nil when no device matches.
func (a *Account) DeviceByRefreshTokenHash(tokenHash string) *DeviceSession {
	for _, device := range a.devices {
		if device.RefreshTokenHash != nil && *device.RefreshTokenHash == tokenHash {
			return device
		}
	}
	return nil
}

// ActiveDevices returns devices whose most recent event is still open.
func (a *Account) ActiveDevices() []*DeviceSession {
	var active []*DeviceSession
	for _, device := range a.devices {
		if device.IsActive() {
			active = append(active, device)
		}
	}
	return active
}

// RevokeAllRefreshTokens drops every device's refresh token. Used after
// admin password resets so stolen refresh tokens die with the old secret.
func (a *Account) RevokeAllRefreshTokens() {
	for _, device := range a.devices {
		device.revokeRefreshToken()
	}
	a.touch()
}

// recomputeLoggedIn derives the account flag from device state: true iff
// at least one device has an open event.
func (a *Account) recomputeLoggedIn() {
	for _, device := range a.devices {
		if device.IsActive() {
			a.loggedIn = true
			return
		}
	}
	a.loggedIn = false
}

func (a *Account) touch() {
	a.updatedAt = biztime.NowUTC()
	a.version++
}
