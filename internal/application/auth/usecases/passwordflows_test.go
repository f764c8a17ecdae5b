package usecases

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admincore/internal/domain/account"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/audit"
)

func TestRefreshTokenRotation(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	login, err := env.login(t, "alice", "password-123", "dev-a")
	require.NoError(t, err)

	uc := NewRefreshTokenUseCase(env.accounts, env.tokens, env.sink, env.log)

	refreshed, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "dev-a", refreshed.DeviceID)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the replaced token is rejected afterwards
	_, err = uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: login.RefreshToken})
	requireAuthCode(t, err, http.StatusUnauthorized)
	assert.Contains(t, env.sink.typesSeen(), audit.EventRefreshRejected)

	// the rotated token keeps working
	_, err = uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: refreshed.RefreshToken})
	require.NoError(t, err)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	uc := NewRefreshTokenUseCase(env.accounts, env.tokens, env.sink, env.log)

	_, err := uc.Execute(context.Background(), RefreshTokenCommand{RefreshToken: "forged"})
	requireAuthCode(t, err, http.StatusUnauthorized)
}

func TestRefreshTokenRejectedAfterLogout(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	login, err := env.login(t, "alice", "password-123", "dev-a")
	require.NoError(t, err)

	logoutUC := NewLogoutUseCase(env.accounts, env.sink, env.log)
	result, err := logoutUC.Execute(context.Background(), LogoutCommand{PrincipalID: 1, DeviceID: "dev-a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dev-a"}, result.LoggedOutDevices)
	assert.False(t, result.StillLoggedIn)

	refreshUC := NewRefreshTokenUseCase(env.accounts, env.tokens, env.sink, env.log)
	_, err = refreshUC.Execute(context.Background(), RefreshTokenCommand{RefreshToken: login.RefreshToken})
	requireAuthCode(t, err, http.StatusUnauthorized)
}

func TestLogoutAllDevices(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	_, err := env.login(t, "alice", "password-123", "dev-a")
	require.NoError(t, err)
	_, err = env.login(t, "alice", "password-123", "dev-b")
	require.NoError(t, err)

	uc := NewLogoutAllDevicesUseCase(env.accounts, env.sink, env.log)
	result, err := uc.Execute(context.Background(), LogoutAllDevicesCommand{PrincipalID: 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"dev-a", "dev-b"}, result.LoggedOutDevices)

	acct, loadErr := env.accounts.GetByPrincipalID(context.Background(), 1)
	require.NoError(t, loadErr)
	assert.False(t, acct.IsLoggedIn())
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	uc := NewChangePasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)

	err := uc.Execute(context.Background(), ChangePasswordCommand{
		PrincipalID:     1,
		CurrentPassword: "wrong-password",
		NewPassword:     "brand-new-password",
	})
	requireAuthCode(t, err, http.StatusUnauthorized)

	err = uc.Execute(context.Background(), ChangePasswordCommand{
		PrincipalID:     1,
		CurrentPassword: "password-123",
		NewPassword:     "brand-new-password",
	})
	require.NoError(t, err)

	_, err = env.login(t, "alice", "password-123", "")
	require.Error(t, err)
	_, err = env.login(t, "alice", "brand-new-password", "")
	require.NoError(t, err)

	assert.Contains(t, env.sink.typesSeen(), audit.EventPasswordChanged)
}

func TestChangePasswordRequiresDifferentPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	uc := NewChangePasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)

	err := uc.Execute(context.Background(), ChangePasswordCommand{
		PrincipalID:     1,
		CurrentPassword: "password-123",
		NewPassword:     "password-123",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "differ")
}

func TestChangePasswordRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t)
	uc := NewChangePasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)

	err := uc.Execute(context.Background(), ChangePasswordCommand{
		PrincipalID:     1,
		CurrentPassword: "password-123",
		NewPassword:     "short",
	})
	require.Error(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)
	verifyUC := NewVerifyResetTokenUseCase(env.resets, env.accounts, env.log)
	resetUC := NewResetPasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)

	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 1})
	require.NoError(t, err)
	assert.True(t, requested.Issued)
	assert.Len(t, requested.Token, 64)

	verified, err := verifyUC.Execute(context.Background(), VerifyResetTokenCommand{Token: requested.Token})
	require.NoError(t, err)
	assert.True(t, verified.Valid)
	assert.Equal(t, "alice", verified.Username)

	done, err := resetUC.Execute(context.Background(), ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "reset-password-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", done.Username)
	assert.Equal(t, uint(1), done.PrincipalID)

	_, err = env.login(t, "alice", "reset-password-1", "")
	require.NoError(t, err)

	// a consumed token cannot be replayed
	_, err = resetUC.Execute(context.Background(), ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "reset-password-2",
	})
	requireAuthCode(t, err, http.StatusUnauthorized)

	assert.Contains(t, env.sink.typesSeen(), audit.EventResetRequested)
	assert.Contains(t, env.sink.typesSeen(), audit.EventResetCompleted)
}

func TestNewResetRequestInvalidatesPrior(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)
	verifyUC := NewVerifyResetTokenUseCase(env.resets, env.accounts, env.log)

	first, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 1})
	require.NoError(t, err)
	second, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 1})
	require.NoError(t, err)

	verified, err := verifyUC.Execute(context.Background(), VerifyResetTokenCommand{Token: first.Token})
	require.NoError(t, err)
	assert.False(t, verified.Valid)

	verified, err = verifyUC.Execute(context.Background(), VerifyResetTokenCommand{Token: second.Token})
	require.NoError(t, err)
	assert.True(t, verified.Valid)
}

func TestRequestResetByUsername(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)

	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{Username: "alice"})
	require.NoError(t, err)
	assert.True(t, requested.Issued)
	assert.Len(t, requested.Token, 64)
	assert.Contains(t, env.sink.typesSeen(), audit.EventResetRequested)
}

func TestRequestResetUnknownUsername(t *testing.T) {
	env := newTestEnv(t)

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)

	// an unknown username yields the same success-shaped result as a known
	// one, so the endpoint cannot be used to enumerate accounts
	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{Username: "nobody"})
	require.NoError(t, err)
	assert.False(t, requested.Issued)
	assert.Empty(t, requested.Token)
	assert.NotContains(t, env.sink.typesSeen(), audit.EventResetRequested)

	// the admin path reports a missing account outright
	_, err = requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 99})
	require.Error(t, err)
}

func TestRequestResetIneligiblePrincipal(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, false)
	env.addAccount(t, 1, "alice", "password-123")

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)

	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{Username: "alice"})
	require.NoError(t, err)
	assert.False(t, requested.Issued)
	assert.Empty(t, requested.Token)
}

func TestRequestResetPurgesExpiredRequests(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	stale := reset.ReconstructResetToken(99, 2, "stale-hash", reset.ReasonUserRequest, "", "",
		time.Now().UTC().Add(-time.Minute), false, nil, false, time.Now().UTC().Add(-2*time.Hour))
	env.resets.tokens = append(env.resets.tokens, stale)

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)
	_, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{Username: "alice"})
	require.NoError(t, err)

	assert.Equal(t, 1, env.resets.purges)
	_, err = env.resets.GetByHash(context.Background(), "stale-hash")
	require.Error(t, err)
}

type failingAccountRepo struct {
	*memAccountRepo
}

func (r *failingAccountRepo) UpdateAuth(context.Context, *account.Account) error {
	return fmt.Errorf("storage offline")
}

type countingResetRepo struct {
	*memResetRepo
	markUsedCalls int
}

func (r *countingResetRepo) MarkUsed(ctx context.Context, token *reset.ResetToken) error {
	r.markUsedCalls++
	return r.memResetRepo.MarkUsed(ctx, token)
}

func TestResetPasswordKeepsTokenOnFailedUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)
	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 1})
	require.NoError(t, err)

	resets := &countingResetRepo{memResetRepo: env.resets}
	resetUC := NewResetPasswordUseCase(&failingAccountRepo{memAccountRepo: env.accounts}, resets, fakeHasher{}, env.sink, env.log)

	// the password write failed, so the request must not be burned
	_, err = resetUC.Execute(context.Background(), ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "reset-password-1",
	})
	require.Error(t, err)
	assert.Zero(t, resets.markUsedCalls)
}

func TestVerifyResetTokenMalformed(t *testing.T) {
	env := newTestEnv(t)
	verifyUC := NewVerifyResetTokenUseCase(env.resets, env.accounts, env.log)

	verified, err := verifyUC.Execute(context.Background(), VerifyResetTokenCommand{Token: "not-hex"})
	require.NoError(t, err)
	assert.False(t, verified.Valid)
}

func TestResetPasswordLogsOutAllDevices(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	login, err := env.login(t, "alice", "password-123", "dev-a")
	require.NoError(t, err)

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)
	resetUC := NewResetPasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)

	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 1})
	require.NoError(t, err)
	_, err = resetUC.Execute(context.Background(), ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "reset-password-1",
	})
	require.NoError(t, err)

	refreshUC := NewRefreshTokenUseCase(env.accounts, env.tokens, env.sink, env.log)
	_, err = refreshUC.Execute(context.Background(), RefreshTokenCommand{RefreshToken: login.RefreshToken})
	requireAuthCode(t, err, http.StatusUnauthorized)
}

func TestAdminResetPassword(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	// lock the account permanently first
	for i := 0; i < 7; i++ {
		_, _ = env.login(t, "alice", "wrong-password", "")
		expireLock(t, env, 1)
	}
	_, _ = env.login(t, "alice", "wrong-password", "")

	uc := NewAdminResetPasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)
	result, err := uc.Execute(context.Background(), AdminResetPasswordCommand{TargetPrincipalID: 1, AdminPrincipalID: 9})
	require.NoError(t, err)
	assert.Len(t, result.TemporaryPassword, 12)

	// the temporary password works and the lock is gone
	_, err = env.login(t, "alice", result.TemporaryPassword, "")
	require.NoError(t, err)

	assert.Contains(t, env.sink.typesSeen(), audit.EventAdminResetIssued)
}

func TestUnlockAccount(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	for i := 0; i < 7; i++ {
		_, _ = env.login(t, "alice", "wrong-password", "")
		expireLock(t, env, 1)
	}
	_, _ = env.login(t, "alice", "wrong-password", "")

	uc := NewUnlockAccountUseCase(env.accounts, env.sink, env.log)
	require.NoError(t, uc.Execute(context.Background(), UnlockAccountCommand{PrincipalID: 1, AdminPrincipalID: 9}))

	_, err := env.login(t, "alice", "password-123", "")
	require.NoError(t, err)

	assert.Contains(t, env.sink.typesSeen(), audit.EventAccountUnlocked)
}

func TestGetPasswordResetStatus(t *testing.T) {
	env := newTestEnv(t)
	env.addPrincipal(t, 1, true)
	env.addAccount(t, 1, "alice", "password-123")

	statusUC := NewGetPasswordResetStatusUseCase(env.resets, env.log)

	status, err := statusUC.Execute(context.Background(), GetPasswordResetStatusQuery{PrincipalID: 1})
	require.NoError(t, err)
	assert.Equal(t, ResetStatusNone, status.Status)

	requestUC := NewRequestPasswordResetUseCase(env.accounts, env.principals, env.resets, time.Hour, env.sink, env.log)
	requested, err := requestUC.Execute(context.Background(), RequestPasswordResetCommand{PrincipalID: 1, Reason: reset.ReasonAdminForced})
	require.NoError(t, err)

	status, err = statusUC.Execute(context.Background(), GetPasswordResetStatusQuery{PrincipalID: 1})
	require.NoError(t, err)
	assert.Equal(t, ResetStatusPending, status.Status)
	assert.Equal(t, string(reset.ReasonAdminForced), status.Reason)

	resetUC := NewResetPasswordUseCase(env.accounts, env.resets, fakeHasher{}, env.sink, env.log)
	_, err = resetUC.Execute(context.Background(), ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "another-password",
	})
	require.NoError(t, err)

	status, err = statusUC.Execute(context.Background(), GetPasswordResetStatusQuery{PrincipalID: 1})
	require.NoError(t, err)
	assert.Equal(t, ResetStatusUsed, status.Status)
}
