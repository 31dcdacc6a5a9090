package nokan

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrorCode is a machine-readable error code carried by every SDK error.
type ErrorCode string

const (
	ErrCodeAPI             ErrorCode = "API_ERROR"
	ErrCodeNotConnected    ErrorCode = "NOT_CONNECTED"
	ErrCodeAuthentication  ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodePermission      ErrorCode = "PERMISSION_DENIED"
	ErrCodeRateLimit       ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeTimeout         ErrorCode = "TIMEOUT"
	ErrCodeNetwork         ErrorCode = "NETWORK_ERROR"
	ErrCodeInvalidResponse ErrorCode = "INVALID_RESPONSE"
)

// ErrNotConnected is returned by every operation other than Connect until a
// discovery call has succeeded.
var ErrNotConnected = &APIError{
	Message: "client is not connected: call Connect first",
	Code:    ErrCodeNotConnected,
}

// APIError is the base error type. Every error returned by the SDK either is an
// *APIError or unwraps to one, so errors.As(err, &apiErr) always succeeds.
// StatusCode is zero for errors produced locally.
type APIError struct {
	Message    string
	StatusCode int
	Code       ErrorCode
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("nokan: %s (HTTP %d)", e.Message, e.StatusCode)
	}
	return "nokan: " + e.Message
}

// AuthenticationError reports an invalid or expired token (HTTP 401).
type AuthenticationError struct {
	APIError
}

func (e *AuthenticationError) Unwrap() error { return &e.APIError }

// PermissionError reports a missing capability. Permission names the flag
// that was required; it is empty when the server rejected the call without
// saying which one.
type PermissionError struct {
	APIError
	Permission Permission
}

func (e *PermissionError) Unwrap() error { return &e.APIError }

// RateLimitError reports HTTP 429. RetryAfter is the number of seconds from
// the Retry-After header (0 if absent) and ResetAt the derived absolute time.
type RateLimitError struct {
	APIError
	RetryAfter int
	ResetAt    time.Time
}

func (e *RateLimitError) Unwrap() error { return &e.APIError }

// RetryAfterDuration returns RetryAfter as a time.Duration.
func (e *RateLimitError) RetryAfterDuration() time.Duration {
	return time.Duration(e.RetryAfter) * time.Second
}

// NotFoundError reports a resource that does not exist or lies outside the
// token's board (HTTP 404).
type NotFoundError struct {
	APIError
}

func (e *NotFoundError) Unwrap() error { return &e.APIError }

// ValidationError reports malformed input, either rejected locally before any
// request was made or by the server with HTTP 400.
type ValidationError struct {
	APIError
	Field string
}

func (e *ValidationError) Unwrap() error { return &e.APIError }

// TimeoutError reports that a request exceeded its deadline. It also matches
// context.DeadlineExceeded with errors.Is.
type TimeoutError struct {
	APIError
	Timeout time.Duration
}

func (e *TimeoutError) Unwrap() []error {
	return []error{&e.APIError, context.DeadlineExceeded}
}

// NetworkError reports a transport failure: DNS, refused connection, TLS, or
// a request cancelled for any reason other than its deadline.
type NetworkError struct {
	APIError
	Err error
}

func (e *NetworkError) Unwrap() []error {
	return []error{&e.APIError, e.Err}
}

func newAuthenticationError(message string) *AuthenticationError {
	return &AuthenticationError{APIError{Message: message, StatusCode: 401, Code: ErrCodeAuthentication}}
}

func newPermissionError(message string, permission Permission, status int) *PermissionError {
	return &PermissionError{
		APIError:   APIError{Message: message, StatusCode: status, Code: ErrCodePermission},
		Permission: permission,
	}
}

// missingPermission builds the error returned by the local permission guard.
func missingPermission(permission Permission) *PermissionError {
	return newPermissionError(fmt.Sprintf("token does not have %s permission", permission), permission, 0)
}

func newRateLimitError(message string, retryAfter int, resetAt time.Time) *RateLimitError {
	return &RateLimitError{
		APIError:   APIError{Message: message, StatusCode: 429, Code: ErrCodeRateLimit},
		RetryAfter: retryAfter,
		ResetAt:    resetAt,
	}
}

func newNotFoundError(message string) *NotFoundError {
	return &NotFoundError{APIError{Message: message, StatusCode: 404, Code: ErrCodeNotFound}}
}

func newValidationError(message, field string, status int) *ValidationError {
	return &ValidationError{
		APIError: APIError{Message: message, StatusCode: status, Code: ErrCodeValidation},
		Field:    field,
	}
}

// invalidField builds a local validation error for a required field.
func invalidField(field, message string) *ValidationError {
	return newValidationError(message, field, 0)
}

func newTimeoutError(timeout time.Duration) *TimeoutError {
	return &TimeoutError{
		APIError: APIError{Message: fmt.Sprintf("request timed out after %s", timeout), Code: ErrCodeTimeout},
		Timeout:  timeout,
	}
}

func newNetworkError(err error) *NetworkError {
	return &NetworkError{
		APIError: APIError{Message: fmt.Sprintf("network error: %v", err), Code: ErrCodeNetwork},
		Err:      err,
	}
}

// IsNotConnected reports whether err is ErrNotConnected.
func IsNotConnected(err error) bool {
	return errors.Is(err, ErrNotConnected)
}

// IsAuthentication reports whether err is an *AuthenticationError.
func IsAuthentication(err error) bool {
	var target *AuthenticationError
	return errors.As(err, &target)
}

// IsPermissionDenied reports whether err is a *PermissionError.
func IsPermissionDenied(err error) bool {
	var target *PermissionError
	return errors.As(err, &target)
}

// IsRateLimited reports whether err is a *RateLimitError.
func IsRateLimited(err error) bool {
	var target *RateLimitError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is a *TimeoutError.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target)
}

// IsNetwork reports whether err is a *NetworkError.
func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}
