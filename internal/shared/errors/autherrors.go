package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
)

// Authentication and authorization specific error types
const (
	ErrorTypeInvalidCredentials     ErrorType = "invalid_credentials"
	ErrorTypeAccountLocked          ErrorType = "account_locked"
	ErrorTypeAccountPermanentLock   ErrorType = "account_permanently_locked"
	ErrorTypeAccountIneligible      ErrorType = "account_ineligible"
	ErrorTypeTokenExpired           ErrorType = "token_expired"
	ErrorTypeTokenInvalid           ErrorType = "token_invalid"
	ErrorTypeNoRoleAssigned         ErrorType = "no_role_assigned"
	ErrorTypeInsufficientPermission ErrorType = "insufficient_permission"
)

// AuthError represents authentication-specific errors with enhanced security context
type AuthError struct {
	*AppError
	// ShouldLog determines if this error should be logged.
	// Some auth errors (like invalid credentials) are expected and don't need error-level logging.
	ShouldLog bool
	// SecurityEvent indicates if this should be tracked as a security event
	SecurityEvent bool
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return e.AppError.Error()
}

// Unwrap allows errors.Is and errors.As to work correctly
func (e *AuthError) Unwrap() error {
	return e.AppError
}

// NewInvalidCredentialsError creates an error for invalid login credentials.
// The message never reveals whether the username or the password was wrong.
func NewInvalidCredentialsError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInvalidCredentials,
			Message: "Invalid username or password",
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: true,
	}
}

// NewAccountLockedError creates an error for temporarily locked accounts.
// remainingSeconds is surfaced to the client so it can display a countdown.
func NewAccountLockedError(remainingSeconds int64) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeAccountLocked,
			Message: fmt.Sprintf("Account is locked. Try again in %d seconds", remainingSeconds),
			Code:    http.StatusLocked,
			Details: fmt.Sprintf("%d", remainingSeconds),
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewAccountPermanentlyLockedError creates an error for permanently locked accounts.
// Only an explicit admin unlock clears this state.
func NewAccountPermanentlyLockedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeAccountPermanentLock,
			Message: "Your account is permanently locked",
			Code:    http.StatusForbidden,
			Details: "Contact an administrator to unlock the account",
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewAccountIneligibleError creates an error for principals that may not log in
// (login disabled, inactive, or blocked).
func NewAccountIneligibleError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeAccountIneligible,
			Message: "User is not allowed to login",
			Code:    http.StatusForbidden,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenExpiredError creates an error for expired tokens (access, refresh, reset)
func NewTokenExpiredError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: fmt.Sprintf("%s has expired", tokenType),
			Code:    http.StatusUnauthorized,
		},
		ShouldLog:     false,
		SecurityEvent: false,
	}
}

// NewTokenInvalidError creates an error for invalid or mismatched tokens
func NewTokenInvalidError(tokenType string) *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenInvalid,
			Message: fmt.Sprintf("Invalid %s", tokenType),
			Code:    http.StatusUnauthorized,
			Details: "Token is invalid or has been revoked",
		},
		ShouldLog:     true,
		SecurityEvent: true,
	}
}

// NewNoRoleAssignedError creates a deny for principals without a resolvable role.
// Kept distinct from insufficient permission so callers and clients can tell
// a configuration gap from an actual permission mismatch.
func NewNoRoleAssignedError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeNoRoleAssigned,
			Message: "No role assigned to user",
			Code:    http.StatusForbidden,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// NewInsufficientPermissionError creates a deny for a role that lacks the required codes
func NewInsufficientPermissionError(required ...string) *AuthError {
	detail := ""
	if len(required) > 0 {
		detail = "Required: " + strings.Join(required, ", ")
	}
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeInsufficientPermission,
			Message: "You don't have permission to perform this action",
			Code:    http.StatusForbidden,
			Details: detail,
		},
		ShouldLog:     true,
		SecurityEvent: false,
	}
}

// IsAuthError checks if the error is an AuthError (supports wrapped errors via errors.As)
func IsAuthError(err error) bool {
	var authErr *AuthError
	return stderrors.As(err, &authErr)
}

// GetAuthError extracts AuthError from error chain (supports wrapped errors via errors.As)
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}

// ShouldLogAuthError returns true if the authentication error should be logged.
// This helps reduce noise in logs from expected auth failures.
func ShouldLogAuthError(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.ShouldLog
	}
	return true
}

// IsSecurityEvent returns true if the error should be tracked as a security event
func IsSecurityEvent(err error) bool {
	if authErr := GetAuthError(err); authErr != nil {
		return authErr.SecurityEvent
	}
	return false
}
