package usecases

import (
	"context"
	"fmt"

	"admincore/internal/domain/account"
	"admincore/internal/domain/principal"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

type LoginCommand struct {
	Username  string
	Password  string
	DeviceID  string
	IPAddress string
	UserAgent string
}

type LoginResult struct {
	PrincipalID  uint
	Username     string
	Name         string
	DeviceID     string
	IsNewDevice  bool
	LoginCount   int
	IsLoggedIn   bool
	TotalDevices int
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// LoginUseCase authenticates a username/password pair, applies the lockout
// policy and opens a device session with a fresh token pair.
type LoginUseCase struct {
	accountRepo   account.Repository
	principalRepo principal.Repository
	hasher        account.PasswordHasher
	tokens        TokenService
	auditSink     audit.Sink
	logger        logger.Interface
}

func NewLoginUseCase(
	accountRepo account.Repository,
	principalRepo principal.Repository,
	hasher account.PasswordHasher,
	tokens TokenService,
	auditSink audit.Sink,
	log logger.Interface,
) *LoginUseCase {
	return &LoginUseCase{
		accountRepo:   accountRepo,
		principalRepo: principalRepo,
		hasher:        hasher,
		tokens:        tokens,
		auditSink:     auditSink,
		logger:        log,
	}
}

func (uc *LoginUseCase) Execute(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	acct, err := uc.accountRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.IsNotFoundError(err) {
			// same response as a wrong password so usernames cannot be probed
			uc.emitFailure(ctx, 0, cmd, "unknown username")
			return nil, errors.NewInvalidCredentialsError()
		}
		uc.logger.Errorw("failed to load account", "error", err)
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	p, err := uc.principalRepo.GetByID(ctx, acct.PrincipalID())
	if err != nil {
		uc.logger.Errorw("failed to load principal", "principal_id", acct.PrincipalID(), "error", err)
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}
	if !p.IsEligibleForLogin() {
		uc.emitFailure(ctx, acct.PrincipalID(), cmd, "principal not eligible")
		return nil, errors.NewAccountIneligibleError()
	}

	if err := acct.CheckLoginAllowed(); err != nil {
		uc.emitFailure(ctx, acct.PrincipalID(), cmd, "account locked")
		return nil, err
	}

	if err := acct.VerifyPassword(cmd.Password, uc.hasher); err != nil {
		return nil, uc.recordFailedAttempt(ctx, cmd, acct.PrincipalID())
	}

	return uc.completeLogin(ctx, cmd, p)
}

// recordFailedAttempt feeds the lockout counter and returns the error the
// client should see: a lock error when this attempt crossed a threshold,
// the generic credential error otherwise.
func (uc *LoginUseCase) recordFailedAttempt(ctx context.Context, cmd LoginCommand, principalID uint) error {
	var decision account.LockDecision
	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByUsername(ctx, cmd.Username)
	}
	_, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		// a concurrent attempt may have locked the account already; locked
		// attempts never feed the counter
		if err := acct.CheckLoginAllowed(); err != nil {
			return err
		}
		decision = acct.RecordFailedAttempt()
		return nil
	})
	if err != nil {
		if errors.IsAuthError(err) {
			return err
		}
		uc.logger.Errorw("failed to record failed login attempt", "principal_id", principalID, "error", err)
		return errors.NewInvalidCredentialsError()
	}

	uc.emitFailure(ctx, principalID, cmd, "wrong password")

	if decision.Permanent {
		uc.auditSink.Emit(ctx, audit.Event{
			Type:        audit.EventAccountLocked,
			PrincipalID: principalID,
			Username:    cmd.Username,
			IPAddress:   cmd.IPAddress,
			Detail:      "permanent lock",
		})
		return errors.NewAccountPermanentlyLockedError()
	}
	if decision.Duration > 0 {
		uc.auditSink.Emit(ctx, audit.Event{
			Type:        audit.EventAccountLocked,
			PrincipalID: principalID,
			Username:    cmd.Username,
			IPAddress:   cmd.IPAddress,
			Detail:      fmt.Sprintf("lock level %d", decision.Level),
		})
		return errors.NewAccountLockedError(int64(decision.Duration.Seconds()))
	}
	return errors.NewInvalidCredentialsError()
}

func (uc *LoginUseCase) completeLogin(ctx context.Context, cmd LoginCommand, p *principal.Principal) (*LoginResult, error) {
	var (
		loginResult account.LoginResult
		pair        *TokenPair
	)
	load := func(ctx context.Context) (*account.Account, error) {
		return uc.accountRepo.GetByUsername(ctx, cmd.Username)
	}
	acct, err := updateAccountWithRetry(ctx, uc.accountRepo, load, func(acct *account.Account) error {
		if err := acct.CheckLoginAllowed(); err != nil {
			return err
		}
		if err := acct.VerifyPassword(cmd.Password, uc.hasher); err != nil {
			return errors.NewInvalidCredentialsError()
		}
		acct.ResetLockState()

		loginResult = acct.RecordLogin(cmd.DeviceID, cmd.IPAddress, cmd.UserAgent)

		var genErr error
		pair, genErr = uc.tokens.GeneratePair(acct.PrincipalID(), acct.Username().String(), loginResult.DeviceID)
		if genErr != nil {
			return fmt.Errorf("failed to issue tokens: %w", genErr)
		}
		return acct.StoreRefreshToken(loginResult.DeviceID, uc.tokens.HashToken(pair.RefreshToken))
	})
	if err != nil {
		return nil, err
	}

	if loginResult.EvictedDeviceID != "" {
		uc.auditSink.Emit(ctx, audit.Event{
			Type:        audit.EventDeviceEvicted,
			PrincipalID: acct.PrincipalID(),
			Username:    acct.Username().String(),
			DeviceID:    loginResult.EvictedDeviceID,
			Detail:      "device limit reached",
		})
	}
	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventLoginSucceeded,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		DeviceID:    loginResult.DeviceID,
		IPAddress:   cmd.IPAddress,
		UserAgent:   cmd.UserAgent,
	})

	return &LoginResult{
		PrincipalID:  acct.PrincipalID(),
		Username:     acct.Username().String(),
		Name:         p.Name(),
		DeviceID:     loginResult.DeviceID,
		IsNewDevice:  loginResult.IsNewDevice,
		LoginCount:   loginResult.LoginCount,
		IsLoggedIn:   acct.IsLoggedIn(),
		TotalDevices: len(acct.Devices()),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

func (uc *LoginUseCase) emitFailure(ctx context.Context, principalID uint, cmd LoginCommand, detail string) {
	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventLoginFailed,
		PrincipalID: principalID,
		Username:    cmd.Username,
		IPAddress:   cmd.IPAddress,
		UserAgent:   cmd.UserAgent,
		Detail:      detail,
	})
}
