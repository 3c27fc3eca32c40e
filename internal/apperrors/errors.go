package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the authenticated caller lacks the required role or
// relationship for the attempted action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates an optimistic-concurrency failure: the document changed
// between read and write. Callers should re-read and re-evaluate preconditions.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition indicates a job state change that the phase machine does not
// permit (self-handoff, handoff on a completed phase, stage regression).
var ErrInvalidTransition = errors.New("invalid transition")

// ErrOutOfScope indicates a direct-by-id fetch of a job outside the viewer's
// visibility scope. Always fatal to the request, never retried.
var ErrOutOfScope = errors.New("out of scope")

// ErrRefreshTokenExpired indicates the stored refresh token has passed its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a generic AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewConflictError creates an AppError that unwraps to ErrConflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewForbiddenError creates an AppError that unwraps to ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// NewValidationFailedError creates an AppError that unwraps to ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewInvalidTransitionError creates an AppError that unwraps to ErrInvalidTransition.
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrInvalidTransition}
}

// NewOutOfScopeError creates an AppError that unwraps to ErrOutOfScope.
func NewOutOfScopeError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrOutOfScope}
}

// StatusCode resolves the HTTP status to report for err, falling back to 500.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrRefreshTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrOutOfScope):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
