package account

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/shared/errors"
)

type stubHasher struct{}

func (stubHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (stubHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func newTestAccount(t *testing.T) *Account {
	t.Helper()
	username, err := vo.NewUsername("alice")
	require.NoError(t, err)
	password, err := vo.NewPassword("correct-horse-battery")
	require.NoError(t, err)
	acct, err := NewAccount(42, username, password, stubHasher{})
	require.NoError(t, err)
	require.NoError(t, acct.SetID(1))
	return acct
}

func TestNewAccount(t *testing.T) {
	acct := newTestAccount(t)

	assert.Equal(t, uint(42), acct.PrincipalID())
	assert.Equal(t, "alice", acct.Username().String())
	assert.Equal(t, DefaultMaxAllowedDevices, acct.MaxAllowedDevices())
	assert.Equal(t, 0, acct.FailedLoginAttempts())
	assert.False(t, acct.IsLoggedIn())
	assert.Empty(t, acct.Devices())
}

func TestNewAccountValidation(t *testing.T) {
	username, err := vo.NewUsername("alice")
	require.NoError(t, err)
	password, err := vo.NewPassword("correct-horse-battery")
	require.NoError(t, err)

	_, err = NewAccount(0, username, password, stubHasher{})
	assert.Error(t, err)

	_, err = NewAccount(1, nil, password, stubHasher{})
	assert.Error(t, err)

	_, err = NewAccount(1, username, nil, stubHasher{})
	assert.Error(t, err)
}

func TestVerifyPassword(t *testing.T) {
	acct := newTestAccount(t)

	assert.NoError(t, acct.VerifyPassword("correct-horse-battery", stubHasher{}))
	assert.Error(t, acct.VerifyPassword("wrong", stubHasher{}))

	// verification alone leaves the lockout counter untouched
	assert.Equal(t, 0, acct.FailedLoginAttempts())
}

func TestRecordFailedAttemptEscalation(t *testing.T) {
	acct := newTestAccount(t)

	for i := 1; i <= 4; i++ {
		decision := acct.RecordFailedAttempt()
		assert.Equal(t, 0, decision.Level)
		assert.NoError(t, acct.CheckLoginAllowed())
	}

	decision := acct.RecordFailedAttempt()
	assert.Equal(t, 1, decision.Level)
	assert.Equal(t, 60*time.Second, decision.Duration)
	require.NotNil(t, acct.LockUntil())

	err := acct.CheckLoginAllowed()
	require.Error(t, err)
	authErr := errors.GetAuthError(err)
	require.NotNil(t, authErr)
	assert.Equal(t, http.StatusLocked, authErr.Code)

	decision = acct.RecordFailedAttempt()
	assert.Equal(t, 2, decision.Level)
	decision = acct.RecordFailedAttempt()
	assert.Equal(t, 3, decision.Level)

	decision = acct.RecordFailedAttempt()
	assert.Equal(t, 4, decision.Level)
	assert.True(t, decision.Permanent)
	assert.True(t, acct.IsPermanentlyLocked())
	assert.Nil(t, acct.LockUntil())

	err = acct.CheckLoginAllowed()
	require.Error(t, err)
	authErr = errors.GetAuthError(err)
	require.NotNil(t, authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Code)
}

func TestCheckLoginAllowedAfterLockExpiry(t *testing.T) {
	username, _ := vo.NewUsername("alice")
	past := time.Now().UTC().Add(-time.Minute)
	acct, err := ReconstructAccount(1, 42, username, AuthState{
		PasswordHash:        "hashed:pw",
		FailedLoginAttempts: 5,
		LockLevel:           1,
		LockUntil:           &past,
	}, 3, time.Now().UTC(), time.Now().UTC())
	require.NoError(t, err)

	assert.NoError(t, acct.CheckLoginAllowed())
}

func TestResetLockStateKeepsPermanentFlag(t *testing.T) {
	acct := newTestAccount(t)
	for i := 0; i < 8; i++ {
		acct.RecordFailedAttempt()
	}
	require.True(t, acct.IsPermanentlyLocked())

	acct.ResetLockState()
	assert.Equal(t, 0, acct.FailedLoginAttempts())
	assert.Equal(t, 0, acct.LockLevel())
	assert.True(t, acct.IsPermanentlyLocked())
}

func TestUnlockClearsEverything(t *testing.T) {
	acct := newTestAccount(t)
	for i := 0; i < 8; i++ {
		acct.RecordFailedAttempt()
	}

	acct.Unlock()
	assert.Equal(t, 0, acct.FailedLoginAttempts())
	assert.Equal(t, 0, acct.LockLevel())
	assert.Nil(t, acct.LockUntil())
	assert.False(t, acct.IsPermanentlyLocked())
	assert.NoError(t, acct.CheckLoginAllowed())
}

func TestRecordLoginGeneratesDeviceID(t *testing.T) {
	acct := newTestAccount(t)

	result := acct.RecordLogin("", "10.0.0.1", "cli/1.0")
	assert.NotEmpty(t, result.DeviceID)
	assert.True(t, result.IsNewDevice)
	assert.Equal(t, 1, result.LoginCount)
	assert.Empty(t, result.EvictedDeviceID)
	assert.True(t, acct.IsLoggedIn())
	require.NotNil(t, acct.LastLoginAt())

	device := acct.Device(result.DeviceID)
	require.NotNil(t, device)
	assert.Equal(t, "10.0.0.1", device.IPAddress)
	assert.True(t, device.IsActive())
}

func TestRecordLoginKnownDeviceAppendsEvent(t *testing.T) {
	acct := newTestAccount(t)

	first := acct.RecordLogin("dev-a", "10.0.0.1", "cli/1.0")
	assert.True(t, first.IsNewDevice)

	_, err := acct.RecordLogout("dev-a")
	require.NoError(t, err)
	assert.False(t, acct.IsLoggedIn())

	second := acct.RecordLogin("dev-a", "10.0.0.2", "cli/2.0")
	assert.False(t, second.IsNewDevice)
	assert.Equal(t, 2, second.LoginCount)
	assert.Len(t, acct.Devices(), 1)

	device := acct.Device("dev-a")
	assert.Equal(t, "10.0.0.2", device.IPAddress)
	assert.Equal(t, "cli/2.0", device.UserAgent)
	assert.Len(t, device.History, 2)
}

func TestRecordLoginWithoutLogoutClosesPriorEvent(t *testing.T) {
	acct := newTestAccount(t)

	acct.RecordLogin("dev-a", "10.0.0.1", "cli/1.0")
	acct.RecordLogin("dev-a", "10.0.0.2", "cli/1.0")

	device := acct.Device("dev-a")
	require.NotNil(t, device)
	require.Len(t, device.History, 2)

	open := 0
	for _, event := range device.History {
		if event.IsOpen() {
			open++
		}
	}
	assert.Equal(t, 1, open)
	assert.True(t, device.History[len(device.History)-1].IsOpen())
	assert.True(t, acct.IsLoggedIn())
}

func TestRecordLoginEvictsOldestDevice(t *testing.T) {
	acct := newTestAccount(t)

	acct.RecordLogin("dev-a", "10.0.0.1", "ua")
	require.NoError(t, acct.StoreRefreshToken("dev-a", "hash-a"))
	acct.RecordLogin("dev-b", "10.0.0.2", "ua")

	result := acct.RecordLogin("dev-c", "10.0.0.3", "ua")
	assert.Equal(t, "dev-a", result.EvictedDeviceID)
	assert.Len(t, acct.Devices(), 2)
	assert.Nil(t, acct.Device("dev-a"))
	assert.NotNil(t, acct.Device("dev-b"))
	assert.NotNil(t, acct.Device("dev-c"))
}

func TestRecordLoginAtCapKnownDeviceDoesNotEvict(t *testing.T) {
	acct := newTestAccount(t)

	acct.RecordLogin("dev-a", "10.0.0.1", "ua")
	acct.RecordLogin("dev-b", "10.0.0.2", "ua")

	result := acct.RecordLogin("dev-a", "10.0.0.9", "ua")
	assert.Empty(t, result.EvictedDeviceID)
	assert.Len(t, acct.Devices(), 2)
}

func TestStoreRefreshToken(t *testing.T) {
	acct := newTestAccount(t)
	acct.RecordLogin("dev-a", "10.0.0.1", "ua")

	require.NoError(t, acct.StoreRefreshToken("dev-a", "hash-1"))
	assert.Equal(t, acct.Device("dev-a"), acct.DeviceByRefreshTokenHash("hash-1"))

	require.NoError(t, acct.StoreRefreshToken("dev-a", "hash-2"))
	assert.Nil(t, acct.DeviceByRefreshTokenHash("hash-1"))

	err := acct.StoreRefreshToken("missing", "hash")
	assert.Error(t, err)
}

func TestRecordLogoutSingleDevice(t *testing.T) {
	acct := newTestAccount(t)
	acct.RecordLogin("dev-a", "10.0.0.1", "ua")
	acct.RecordLogin("dev-b", "10.0.0.2", "ua")
	require.NoError(t, acct.StoreRefreshToken("dev-a", "hash-a"))

	closed, err := acct.RecordLogout("dev-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-a"}, closed)
	assert.Nil(t, acct.Device("dev-a").RefreshTokenHash)
	assert.False(t, acct.Device("dev-a").IsActive())
	assert.True(t, acct.IsLoggedIn())

	// logging out an already closed device is a no-op
	closed, err = acct.RecordLogout("dev-a")
	require.NoError(t, err)
	assert.Empty(t, closed)
}

func TestRecordLogoutAllDevices(t *testing.T) {
	acct := newTestAccount(t)
	acct.RecordLogin("dev-a", "10.0.0.1", "ua")
	acct.RecordLogin("dev-b", "10.0.0.2", "ua")

	closed, err := acct.RecordLogout("")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dev-a", "dev-b"}, closed)
	assert.False(t, acct.IsLoggedIn())
	assert.Empty(t, acct.ActiveDevices())
}

func TestRecordLogoutUnknownDevice(t *testing.T) {
	acct := newTestAccount(t)
	_, err := acct.RecordLogout("missing")
	assert.Error(t, err)
}

func TestRevokeAllRefreshTokens(t *testing.T) {
	acct := newTestAccount(t)
	acct.RecordLogin("dev-a", "10.0.0.1", "ua")
	acct.RecordLogin("dev-b", "10.0.0.2", "ua")
	require.NoError(t, acct.StoreRefreshToken("dev-a", "hash-a"))
	require.NoError(t, acct.StoreRefreshToken("dev-b", "hash-b"))

	acct.RevokeAllRefreshTokens()
	assert.Nil(t, acct.Device("dev-a").RefreshTokenHash)
	assert.Nil(t, acct.Device("dev-b").RefreshTokenHash)
}

func TestVersionIncrementsOnMutation(t *testing.T) {
	acct := newTestAccount(t)
	v := acct.Version()

	acct.RecordFailedAttempt()
	assert.Equal(t, v+1, acct.Version())

	acct.RecordLogin("dev-a", "10.0.0.1", "ua")
	assert.Equal(t, v+2, acct.Version())
}
