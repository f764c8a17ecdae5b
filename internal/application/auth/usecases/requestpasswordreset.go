package usecases

import (
	"context"
	"fmt"
	"time"

	"admincore/internal/domain/account"
	"admincore/internal/domain/principal"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/errors"
	"admincore/internal/shared/logger"
)

// RequestPasswordResetCommand opens a reset request. Username is the
// public self-service path; PrincipalID is the admin-initiated path and
// takes precedence when set.
type RequestPasswordResetCommand struct {
	Username    string
	PrincipalID uint
	Reason      reset.Reason
	RequestIP   string
	UserAgent   string
}

type RequestPasswordResetResult struct {
	// Issued is false when the username did not resolve to an eligible
	// account. The caller must answer with the same success shape either
	// way so usernames cannot be probed.
	Issued bool
	// Token is the plaintext secret, returned exactly once. It is never
	// stored or logged.
	Token     string
	ExpiresAt time.Time
}

// RequestPasswordResetUseCase opens a reset request. Any prior pending
// request for the same principal is invalidated in the same transaction,
// so the newest token is the only consumable one. Unknown and ineligible
// usernames on the public path produce a success-shaped result without a
// token; only the admin path reports a missing account as an error.
type RequestPasswordResetUseCase struct {
	accountRepo   account.Repository
	principalRepo principal.Repository
	resetRepo     reset.Repository
	expiry        time.Duration
	auditSink     audit.Sink
	logger        logger.Interface
}

func NewRequestPasswordResetUseCase(
	accountRepo account.Repository,
	principalRepo principal.Repository,
	resetRepo reset.Repository,
	expiry time.Duration,
	auditSink audit.Sink,
	log logger.Interface,
) *RequestPasswordResetUseCase {
	return &RequestPasswordResetUseCase{
		accountRepo:   accountRepo,
		principalRepo: principalRepo,
		resetRepo:     resetRepo,
		expiry:        expiry,
		auditSink:     auditSink,
		logger:        log,
	}
}

func (uc *RequestPasswordResetUseCase) Execute(ctx context.Context, cmd RequestPasswordResetCommand) (*RequestPasswordResetResult, error) {
	acct, err := uc.resolveAccount(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return &RequestPasswordResetResult{Issued: false}, nil
	}

	// expired requests are dead weight; purge them opportunistically
	if _, err := uc.resetRepo.DeleteExpired(ctx); err != nil {
		uc.logger.Warnw("failed to purge expired reset requests", "error", err)
	}

	reason := cmd.Reason
	if reason == "" {
		reason = reset.ReasonUserRequest
	}

	token, err := reset.GenerateToken()
	if err != nil {
		return nil, err
	}
	request, err := reset.NewResetToken(acct.PrincipalID(), token, reason, uc.expiry)
	if err != nil {
		return nil, err
	}
	request.SetRequestContext(cmd.RequestIP, cmd.UserAgent)

	if err := uc.resetRepo.CreateInvalidatingPrior(ctx, request); err != nil {
		uc.logger.Errorw("failed to persist reset request", "principal_id", acct.PrincipalID(), "error", err)
		return nil, fmt.Errorf("failed to persist reset request: %w", err)
	}

	uc.auditSink.Emit(ctx, audit.Event{
		Type:        audit.EventResetRequested,
		PrincipalID: acct.PrincipalID(),
		Username:    acct.Username().String(),
		IPAddress:   cmd.RequestIP,
		Detail:      string(reason),
	})

	return &RequestPasswordResetResult{
		Issued:    true,
		Token:     token.String(),
		ExpiresAt: request.ExpiresAt(),
	}, nil
}

// resolveAccount returns nil without an error when the public path cannot
// issue a token for the given username.
func (uc *RequestPasswordResetUseCase) resolveAccount(ctx context.Context, cmd RequestPasswordResetCommand) (*account.Account, error) {
	if cmd.PrincipalID != 0 {
		acct, err := uc.accountRepo.GetByPrincipalID(ctx, cmd.PrincipalID)
		if err != nil {
			if errors.IsNotFoundError(err) {
				return nil, errors.NewNotFoundError("account not found")
			}
			return nil, fmt.Errorf("failed to load account: %w", err)
		}
		return acct, nil
	}

	acct, err := uc.accountRepo.GetByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	p, err := uc.principalRepo.GetByID(ctx, acct.PrincipalID())
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load principal: %w", err)
	}
	if !p.IsEligibleForLogin() {
		return nil, nil
	}
	return acct, nil
}
