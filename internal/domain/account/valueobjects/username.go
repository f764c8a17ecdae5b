package valueobjects

import (
	"fmt"
	"strings"
)

// Username is the unique login identifier for an account.
// Stored and compared in lowercase.
type Username struct {
	value string
}

func NewUsername(raw string) (*Username, error) {
	value := strings.ToLower(strings.TrimSpace(raw))

	if value == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(value) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters long")
	}
	if len(value) > 50 {
		return nil, fmt.Errorf("username must not exceed 50 characters")
	}
	for _, ch := range value {
		if !isUsernameChar(ch) {
			return nil, fmt.Errorf("username may only contain letters, digits, '.', '_' and '-'")
		}
	}

	return &Username{value: value}, nil
}

func (u *Username) String() string {
	return u.value
}

func (u *Username) Equals(other *Username) bool {
	if other == nil {
		return false
	}
	return u.value == other.value
}

func isUsernameChar(ch rune) bool {
	switch {
	case ch >= 'a' && ch <= 'z':
		return true
	case ch >= '0' && ch <= '9':
		return true
	case ch == '.' || ch == '_' || ch == '-':
		return true
	}
	return false
}
