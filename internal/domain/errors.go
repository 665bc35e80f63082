package domain

import (
	"fmt"
	"net/http"

	apperrors "github.com/DannyJSullivan/card-inventory-api/pkg/errors"
)

// Sentinels for the auth failure kinds. Each wraps the matching generic
// sentinel from pkg/errors so either can be used with errors.Is.
var (
	ErrDuplicateUsername  = fmt.Errorf("duplicate username: %w", apperrors.ErrAlreadyExists)
	ErrDuplicateEmail     = fmt.Errorf("duplicate email: %w", apperrors.ErrAlreadyExists)
	ErrConflict           = fmt.Errorf("user conflict: %w", apperrors.ErrAlreadyExists)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	ErrUnauthenticated    = fmt.Errorf("unauthenticated: %w", apperrors.ErrUnauthorized)
	ErrInactiveUser       = fmt.Errorf("inactive user: %w", apperrors.ErrUnauthorized)
)

// DuplicateUsername is returned when registering a username that is taken.
func DuplicateUsername() *apperrors.AppError {
	return apperrors.New("DUPLICATE_USERNAME", "Username already registered", http.StatusBadRequest, ErrDuplicateUsername)
}

// DuplicateEmail is returned when registering an email that is taken.
func DuplicateEmail() *apperrors.AppError {
	return apperrors.New("DUPLICATE_EMAIL", "Email already registered", http.StatusBadRequest, ErrDuplicateEmail)
}

// Conflict reports a uniqueness violation detected by the store after the
// pre-checks passed, i.e. a concurrent registration won.
func Conflict() *apperrors.AppError {
	return apperrors.New("CONFLICT", "User already exists", http.StatusBadRequest, ErrConflict)
}

// InvalidCredentials is returned for both unknown users and wrong passwords.
func InvalidCredentials() *apperrors.AppError {
	return apperrors.New("INVALID_CREDENTIALS", "Incorrect username or password", http.StatusUnauthorized, ErrInvalidCredentials)
}

// Unauthenticated is returned for missing, invalid or expired tokens and for
// tokens whose user no longer exists.
func Unauthenticated() *apperrors.AppError {
	return apperrors.New("UNAUTHENTICATED", "Could not validate credentials", http.StatusUnauthorized, ErrUnauthenticated)
}

// InactiveUser is returned when a valid token belongs to a deactivated user.
func InactiveUser() *apperrors.AppError {
	return apperrors.New("INACTIVE_USER", "Inactive user", http.StatusUnauthorized, ErrInactiveUser)
}
