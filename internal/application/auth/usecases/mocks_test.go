package usecases

import (
	"context"
	"fmt"
	"sync"

	"admincore/internal/domain/account"
	vo "admincore/internal/domain/account/valueobjects"
	"admincore/internal/domain/principal"
	"admincore/internal/domain/reset"
	"admincore/internal/shared/audit"
	"admincore/internal/shared/biztime"
	"admincore/internal/shared/errors"
)

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(password, hash string) error {
	if "hashed:"+password != hash {
		return fmt.Errorf("mismatch")
	}
	return nil
}

// memAccountRepo stores aggregates by snapshotting their state, so a
// mutation that is not saved is invisible to the next load. UpdateAuth
// enforces the version check the way the real store does.
type memAccountRepo struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*accountRecord
}

type accountRecord struct {
	id          uint
	principalID uint
	username    string
	state       account.AuthState
	version     int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{nextID: 1, byID: map[uint]*accountRecord{}}
}

func snapshotState(acct *account.Account) account.AuthState {
	devices := make([]*account.DeviceSession, 0, len(acct.Devices()))
	for _, d := range acct.Devices() {
		copied := &account.DeviceSession{
			DeviceID:   d.DeviceID,
			IPAddress:  d.IPAddress,
			UserAgent:  d.UserAgent,
			LoginCount: d.LoginCount,
		}
		if d.RefreshTokenHash != nil {
			hash := *d.RefreshTokenHash
			copied.RefreshTokenHash = &hash
		}
		copied.History = append(copied.History, d.History...)
		devices = append(devices, copied)
	}
	return account.AuthState{
		PasswordHash:        acct.PasswordHash(),
		FailedLoginAttempts: acct.FailedLoginAttempts(),
		LockLevel:           acct.LockLevel(),
		LockUntil:           acct.LockUntil(),
		PermanentlyLocked:   acct.IsPermanentlyLocked(),
		LoggedIn:            acct.IsLoggedIn(),
		LastLoginAt:         acct.LastLoginAt(),
		MaxAllowedDevices:   acct.MaxAllowedDevices(),
		Devices:             devices,
	}
}

func (r *memAccountRepo) Create(_ context.Context, acct *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.username == acct.Username().String() {
			return errors.NewConflictError("duplicate username")
		}
	}
	id := r.nextID
	r.nextID++
	if err := acct.SetID(id); err != nil {
		return err
	}
	r.byID[id] = &accountRecord{
		id:          id,
		principalID: acct.PrincipalID(),
		username:    acct.Username().String(),
		state:       snapshotState(acct),
		version:     acct.Version(),
	}
	return nil
}

func (r *memAccountRepo) rebuild(rec *accountRecord) (*account.Account, error) {
	username, err := vo.NewUsername(rec.username)
	if err != nil {
		return nil, err
	}
	now := biztime.NowUTC()
	return account.ReconstructAccount(rec.id, rec.principalID, username, rec.state, rec.version, now, now)
}

func (r *memAccountRepo) GetByUsername(_ context.Context, username string) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.username == username {
			return r.rebuild(rec)
		}
	}
	return nil, errors.NewNotFoundError("account not found")
}

func (r *memAccountRepo) GetByPrincipalID(_ context.Context, principalID uint) (*account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.principalID == principalID {
			return r.rebuild(rec)
		}
	}
	return nil, errors.NewNotFoundError("account not found")
}

func (r *memAccountRepo) UpdateAuth(_ context.Context, acct *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.byID[acct.ID()]
	if !ok {
		return errors.NewNotFoundError("account not found")
	}
	// the stored row must still be at the version the load saw
	if acct.LoadedVersion() != rec.version {
		return account.ErrVersionConflict
	}
	rec.state = snapshotState(acct)
	rec.version = acct.Version()
	return nil
}

type memPrincipalRepo struct {
	byID map[uint]*principal.Principal
}

func (r *memPrincipalRepo) GetByID(_ context.Context, id uint) (*principal.Principal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, errors.NewNotFoundError("principal not found")
	}
	return p, nil
}

type memResetRepo struct {
	mu     sync.Mutex
	nextID uint
	tokens []*reset.ResetToken
	purges int
}

func newMemResetRepo() *memResetRepo {
	return &memResetRepo{nextID: 1}
}

func (r *memResetRepo) CreateInvalidatingPrior(_ context.Context, token *reset.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tokens {
		if existing.PrincipalID() == token.PrincipalID() && !existing.IsUsed() {
			existing.Invalidate()
		}
	}
	if err := token.SetID(r.nextID); err != nil {
		return err
	}
	r.nextID++
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *memResetRepo) GetByHash(_ context.Context, tokenHash string) (*reset.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.TokenHash() == tokenHash {
			return token, nil
		}
	}
	return nil, errors.NewNotFoundError("reset token not found")
}

func (r *memResetRepo) MarkUsed(_ context.Context, _ *reset.ResetToken) error {
	return nil
}

func (r *memResetRepo) InvalidateAllForPrincipal(_ context.Context, principalID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.PrincipalID() == principalID && !token.IsUsed() {
			token.Invalidate()
		}
	}
	return nil
}

func (r *memResetRepo) GetLatestForPrincipal(_ context.Context, principalID uint) (*reset.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.tokens) - 1; i >= 0; i-- {
		if r.tokens[i].PrincipalID() == principalID {
			return r.tokens[i], nil
		}
	}
	return nil, errors.NewNotFoundError("reset token not found")
}

func (r *memResetRepo) DeleteExpired(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.purges++
	kept := r.tokens[:0]
	var removed int64
	for _, token := range r.tokens {
		if token.IsExpired() {
			removed++
			continue
		}
		kept = append(kept, token)
	}
	r.tokens = kept
	return removed, nil
}

// fakeTokenService issues deterministic tokens and parses them back.
type fakeTokenService struct {
	mu     sync.Mutex
	serial int
	issued map[string]RefreshClaims
}

func newFakeTokenService() *fakeTokenService {
	return &fakeTokenService{issued: map[string]RefreshClaims{}}
}

func (s *fakeTokenService) GeneratePair(principalID uint, username, deviceID string) (*TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serial++
	refresh := fmt.Sprintf("refresh-%d", s.serial)
	s.issued[refresh] = RefreshClaims{PrincipalID: principalID, Username: username, DeviceID: deviceID}
	return &TokenPair{
		AccessToken:  fmt.Sprintf("access-%d", s.serial),
		RefreshToken: refresh,
		ExpiresIn:    900,
	}, nil
}

func (s *fakeTokenService) VerifyRefresh(token string) (*RefreshClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	claims, ok := s.issued[token]
	if !ok {
		return nil, errors.NewTokenInvalidError("refresh")
	}
	return &claims, nil
}

func (s *fakeTokenService) HashToken(token string) string {
	return "h:" + token
}

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
}

func (s *recordingSink) Emit(_ context.Context, event audit.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) typesSeen() []audit.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]audit.EventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}
