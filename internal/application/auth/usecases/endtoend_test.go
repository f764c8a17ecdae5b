package usecases

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	infraauth "admincore/internal/infrastructure/auth"
	"admincore/internal/infrastructure/persistence/models"
	"admincore/internal/infrastructure/repository"
	"admincore/internal/shared/logger"
)

// jwtTokens adapts the real JWT service to the TokenService port so the
// flow below runs with real signing and hashing.
type jwtTokens struct {
	svc *infraauth.JWTService
}

func (j jwtTokens) GeneratePair(principalID uint, username, deviceID string) (*TokenPair, error) {
	pair, err := j.svc.GeneratePair(principalID, username, deviceID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (j jwtTokens) VerifyRefresh(token string) (*RefreshClaims, error) {
	claims, err := j.svc.VerifyRefresh(token)
	if err != nil {
		return nil, err
	}
	return &RefreshClaims{
		PrincipalID: claims.PrincipalID,
		Username:    claims.Username,
		DeviceID:    claims.DeviceID,
	}, nil
}

func (j jwtTokens) HashToken(token string) string {
	return infraauth.HashRefreshToken(token)
}

// sqliteEnv wires the usecases to real repositories, real bcrypt and real
// JWT signing over an in-memory database.
type sqliteEnv struct {
	db     *gorm.DB
	hasher *infraauth.BcryptHasher
	tokens jwtTokens
	sink   *recordingSink
	log    logger.Interface

	login     *LoginUseCase
	register  *RegisterCredentialsUseCase
	refresh   *RefreshTokenUseCase
	request   *RequestPasswordResetUseCase
	verify    *VerifyResetTokenUseCase
	resetPass *ResetPasswordUseCase
	sessions  *GetSessionsUseCase
}

func newSQLiteEnv(t *testing.T) *sqliteEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.AccountModel{},
		&models.DeviceSessionModel{},
		&models.LoginEventModel{},
		&models.ResetTokenModel{},
		&models.RoleModel{},
		&models.PrincipalModel{},
	))

	accounts := repository.NewAccountRepository(db)
	principals := repository.NewPrincipalRepository(db)
	resets := repository.NewResetTokenRepository(db)

	hasher := infraauth.NewBcryptHasher(bcrypt.MinCost)
	tokens := jwtTokens{svc: infraauth.NewJWTService("e2e-access-secret", "e2e-refresh-secret", 15, 7)}
	sink := &recordingSink{}
	log := logger.NewLogger()

	return &sqliteEnv{
		db:        db,
		hasher:    hasher,
		tokens:    tokens,
		sink:      sink,
		log:       log,
		login:     NewLoginUseCase(accounts, principals, hasher, tokens, sink, log),
		register:  NewRegisterCredentialsUseCase(accounts, principals, hasher, sink, log),
		refresh:   NewRefreshTokenUseCase(accounts, tokens, sink, log),
		request:   NewRequestPasswordResetUseCase(accounts, principals, resets, time.Hour, sink, log),
		verify:    NewVerifyResetTokenUseCase(resets, accounts, log),
		resetPass: NewResetPasswordUseCase(accounts, resets, hasher, sink, log),
		sessions:  NewGetSessionsUseCase(accounts, log),
	}
}

func (e *sqliteEnv) seedPrincipal(t *testing.T, id uint, name string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.PrincipalModel{
		ID:       id,
		Name:     name,
		Email:    name + "@example.com",
		CanLogin: true,
		Active:   true,
	}).Error)
}

func (e *sqliteEnv) attempt(t *testing.T, username, password, deviceID string) (*LoginResult, error) {
	t.Helper()
	return e.login.Execute(context.Background(), LoginCommand{
		Username:  username,
		Password:  password,
		DeviceID:  deviceID,
		IPAddress: "10.0.0.1",
		UserAgent: "e2e/1.0",
	})
}

func TestCredentialLifecycleOnDatabase(t *testing.T) {
	e := newSQLiteEnv(t)
	ctx := context.Background()
	e.seedPrincipal(t, 1, "alice")

	_, err := e.register.Execute(ctx, RegisterCredentialsCommand{
		PrincipalID: 1,
		Username:    "alice",
		Password:    "Secret123",
	})
	require.NoError(t, err)

	// first login opens a device session and returns a full token pair
	first, err := e.attempt(t, "alice", "Secret123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)
	assert.True(t, first.IsNewDevice)

	view, err := e.sessions.Execute(ctx, GetSessionsQuery{PrincipalID: 1})
	require.NoError(t, err)
	assert.True(t, view.IsLoggedIn)
	require.Len(t, view.Sessions, 1)
	assert.Equal(t, 1, view.Sessions[0].LoginCount)

	// five wrong passwords escalate to a temporary lock
	for i := 0; i < 4; i++ {
		_, err = e.attempt(t, "alice", "wrong-password", first.DeviceID)
		requireAuthCode(t, err, http.StatusUnauthorized)
	}
	_, err = e.attempt(t, "alice", "wrong-password", first.DeviceID)
	requireAuthCode(t, err, http.StatusLocked)

	// the correct password is also rejected while locked
	_, err = e.attempt(t, "alice", "Secret123", first.DeviceID)
	requireAuthCode(t, err, http.StatusLocked)

	// reset flow: request, verify, consume
	requested, err := e.request.Execute(ctx, RequestPasswordResetCommand{PrincipalID: 1})
	require.NoError(t, err)
	require.NotEmpty(t, requested.Token)

	verified, err := e.verify.Execute(ctx, VerifyResetTokenCommand{Token: requested.Token})
	require.NoError(t, err)
	assert.True(t, verified.Valid)
	assert.Equal(t, "alice", verified.Username)

	_, err = e.resetPass.Execute(ctx, ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "NewPass123",
	})
	require.NoError(t, err)

	// the token is single use
	verified, err = e.verify.Execute(ctx, VerifyResetTokenCommand{Token: requested.Token})
	require.NoError(t, err)
	assert.False(t, verified.Valid)
	_, err = e.resetPass.Execute(ctx, ResetPasswordCommand{
		Token:       requested.Token,
		NewPassword: "OtherPass123",
	})
	require.Error(t, err)

	// reset cleared the temporary lock and the old password is gone
	_, err = e.attempt(t, "alice", "Secret123", first.DeviceID)
	requireAuthCode(t, err, http.StatusUnauthorized)
	relogin, err := e.attempt(t, "alice", "NewPass123", first.DeviceID)
	require.NoError(t, err)
	assert.False(t, relogin.IsNewDevice)
}

func TestRefreshRotationOnDatabase(t *testing.T) {
	e := newSQLiteEnv(t)
	ctx := context.Background()
	e.seedPrincipal(t, 1, "alice")

	_, err := e.register.Execute(ctx, RegisterCredentialsCommand{
		PrincipalID: 1,
		Username:    "alice",
		Password:    "Secret123",
	})
	require.NoError(t, err)

	first, err := e.attempt(t, "alice", "Secret123", "laptop")
	require.NoError(t, err)

	refreshed, err := e.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "laptop", refreshed.DeviceID)

	// logging in again on the same device supersedes the old refresh token
	second, err := e.attempt(t, "alice", "Secret123", "laptop")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = e.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: first.RefreshToken})
	require.Error(t, err)
	_, err = e.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: second.RefreshToken})
	require.NoError(t, err)
}

func TestDeviceEvictionOnDatabase(t *testing.T) {
	e := newSQLiteEnv(t)
	ctx := context.Background()
	e.seedPrincipal(t, 1, "alice")

	_, err := e.register.Execute(ctx, RegisterCredentialsCommand{
		PrincipalID: 1,
		Username:    "alice",
		Password:    "Secret123",
	})
	require.NoError(t, err)

	oldest, err := e.attempt(t, "alice", "Secret123", "dev-a")
	require.NoError(t, err)
	_, err = e.attempt(t, "alice", "Secret123", "dev-b")
	require.NoError(t, err)
	_, err = e.attempt(t, "alice", "Secret123", "dev-c")
	require.NoError(t, err)

	view, err := e.sessions.Execute(ctx, GetSessionsQuery{PrincipalID: 1})
	require.NoError(t, err)
	ids := make([]string, 0, len(view.Sessions))
	for _, s := range view.Sessions {
		ids = append(ids, s.DeviceID)
	}
	assert.NotContains(t, ids, "dev-a")
	assert.Contains(t, ids, "dev-b")
	assert.Contains(t, ids, "dev-c")

	// the evicted device's refresh token is revoked
	_, err = e.refresh.Execute(ctx, RefreshTokenCommand{RefreshToken: oldest.RefreshToken})
	require.Error(t, err)
}
