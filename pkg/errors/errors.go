package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInternal      = errors.New("internal error")
)

// AppError is a client-facing error. Code is a stable machine-readable
// identifier, Message is safe to show to the caller and Status is the HTTP
// status the error maps to. Err carries the sentinel used with errors.Is.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError for a domain-specific failure kind.
func New(code, message string, status int, sentinel error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: sentinel}
}

// NotFound creates a 404 error.
func NotFound(resource, key string) *AppError {
	return New("NOT_FOUND", fmt.Sprintf("%s %s not found", resource, key), http.StatusNotFound, ErrNotFound)
}

// AlreadyExists creates a 409 error.
func AlreadyExists(resource, field, value string) *AppError {
	return New("ALREADY_EXISTS",
		fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		http.StatusConflict, ErrAlreadyExists)
}

// InvalidInput creates a 400 error.
func InvalidInput(message string) *AppError {
	return New("INVALID_INPUT", message, http.StatusBadRequest, ErrInvalidInput)
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return New("UNAUTHORIZED", message, http.StatusUnauthorized, ErrUnauthorized)
}

// Internal creates a 500 error that hides err from the caller.
func Internal(err error) *AppError {
	return New("INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError, err)
}

// HTTPStatus returns the HTTP status code for err.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
