// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrConflict      = errors.New("concurrent modification")
	ErrInvalidInput  = errors.New("validation failed")
	ErrUnauthorized  = errors.New("not authenticated")
	ErrForbidden     = errors.New("insufficient privilege")
	ErrTokenInvalid  = errors.New("token invalid or expired")
	ErrRateLimited   = errors.New("rate limited")
	ErrInternalError = errors.New("internal error")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrAccountDeleted     = errors.New("account deleted")
	ErrSelfModification   = errors.New("self modification forbidden")
)

const (
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodeNotAuthenticated      = "NOT_AUTHENTICATED"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeAccountBlocked        = "ACCOUNT_BLOCKED"
	CodeInsufficientPrivilege = "INSUFFICIENT_PRIVILEGE"
	CodeSelfModification      = "SELF_MODIFICATION_FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicate             = "DUPLICATE"
	CodeConflict              = "CONFLICT"
	CodeTokenInvalid          = "TOKEN_INVALID_OR_EXPIRED"
	CodeRateLimited           = "RATE_LIMITED"
	CodeUnavailable           = "SERVICE_UNAVAILABLE"
	CodeInternal              = "INTERNAL_ERROR"
)

// AppError carries an HTTP status and a machine readable code alongside the
// sentinel it wraps, so errors.Is keeps working across the boundary.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
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

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

func ValidationError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, CodeValidationFailed)
}

func UnauthorizedError(message string) *AppError {
	if message == "" {
		message = "authentication required"
	}
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, CodeNotAuthenticated)
}

func InvalidCredentialsError() *AppError {
	return NewAppError(
		ErrInvalidCredentials,
		"invalid email or password",
		http.StatusUnauthorized,
		CodeInvalidCredentials,
	)
}

func AccountBlockedError() *AppError {
	return NewAppError(
		ErrAccountBlocked,
		"account has been blocked, contact support",
		http.StatusForbidden,
		CodeAccountBlocked,
	)
}

func ForbiddenError(message string) *AppError {
	if message == "" {
		message = "insufficient permissions"
	}
	return NewAppError(ErrForbidden, message, http.StatusForbidden, CodeInsufficientPrivilege)
}

func SelfModificationError(message string) *AppError {
	return NewAppError(ErrSelfModification, message, http.StatusBadRequest, CodeSelfModification)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		ErrNotFound,
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		CodeNotFound,
	)
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		ErrDuplicateKey,
		fmt.Sprintf("%s already in use", field),
		http.StatusConflict,
		CodeDuplicate,
	)
}

func ConflictError() *AppError {
	return NewAppError(
		ErrConflict,
		"resource was modified concurrently, retry the request",
		http.StatusConflict,
		CodeConflict,
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"invalid or expired token",
		http.StatusBadRequest,
		CodeTokenInvalid,
	)
}

func RateLimitedError(retryAfterSeconds int) *AppError {
	return NewAppError(
		ErrRateLimited,
		fmt.Sprintf("rate limit exceeded, retry after %d seconds", retryAfterSeconds),
		http.StatusTooManyRequests,
		CodeRateLimited,
	)
}

func InternalError(err error) *AppError {
	return NewAppError(err, "internal server error", http.StatusInternalServerError, CodeInternal)
}
