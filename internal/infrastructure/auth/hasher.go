package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var errVerifyFailed = errors.New("password verification failed")

// BcryptHasher implements the account.PasswordHasher contract.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher clamps cost into bcrypt's valid range, falling back to
// the library default for out-of-range values.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify returns one opaque error for every failure mode so callers cannot
// distinguish a wrong password from a malformed stored hash.
func (h *BcryptHasher) Verify(password, hash string) error {
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return errVerifyFailed
	}
	return nil
}
