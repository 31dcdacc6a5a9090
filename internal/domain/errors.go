package domain

import (
	"fmt"

	"github.com/nokan/nokan/pkg/nokan"
)

// ErrorCode represents a domain error code. The values match the codes the
// public API reports in its error body.
type ErrorCode string

const (
	ErrCodeUnauthorized     ErrorCode = "AUTHENTICATION_ERROR"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_ERROR"
	ErrCodeRateLimited      ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error in the domain layer with context.
type DomainError struct {
	Code       ErrorCode
	Message    string
	Field      string
	Permission nokan.Permission
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewNotFoundError creates a not found error for a resource kind such as
// "Ticket".
func NewNotFoundError(resource, id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

// NewValidationError creates a validation error naming the offending field.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: message,
		Field:   field,
	}
}

// NewUnauthorizedError creates an authentication error.
func NewUnauthorizedError(message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	}
}

// NewPermissionDeniedError creates a permission error for a missing flag.
func NewPermissionDeniedError(permission nokan.Permission) *DomainError {
	return &DomainError{
		Code:       ErrCodePermissionDenied,
		Message:    fmt.Sprintf("Token does not have %s permission", permission),
		Permission: permission,
	}
}

// NewRateLimitedError creates a rate limit error.
func NewRateLimitedError() *DomainError {
	return &DomainError{
		Code:    ErrCodeRateLimited,
		Message: "Rate limit exceeded",
	}
}

// NewPayloadTooLargeError creates an upload size error.
func NewPayloadTooLargeError(limit int64) *DomainError {
	return &DomainError{
		Code:    ErrCodePayloadTooLarge,
		Message: fmt.Sprintf("File exceeds the %d MiB upload limit", limit>>20),
		Field:   "file",
	}
}

// NewInternalError creates an internal error. The cause is not exposed.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
	}
}
