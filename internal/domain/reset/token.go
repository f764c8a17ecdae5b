package reset

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const tokenBytes = 32

// Token is the plaintext reset secret handed to the requester exactly
// once. Only its SHA-256 digest is ever persisted.
type Token struct {
	value string
}

// GenerateToken produces a new random reset token.
func GenerateToken() (*Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate reset token: %w", err)
	}
	return &Token{value: hex.EncodeToString(buf)}, nil
}

// ParseToken validates a client-supplied token string.
func ParseToken(raw string) (*Token, error) {
	if len(raw) != tokenBytes*2 {
		return nil, fmt.Errorf("invalid reset token length")
	}
	if _, err := hex.DecodeString(raw); err != nil {
		return nil, fmt.Errorf("invalid reset token encoding")
	}
	return &Token{value: raw}, nil
}

func (t *Token) String() string {
	return t.value
}

// Hash returns the hex-encoded SHA-256 digest used for storage and lookup.
func (t *Token) Hash() string {
	sum := sha256.Sum256([]byte(t.value))
	return hex.EncodeToString(sum[:])
}
