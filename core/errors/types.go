// Package errors defines the standardized error model for the notification
// dispatch core.
package errors

import (
	"fmt"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Configuration errors
	CodeMissingAPIKey   ErrorCode = "MISSING_API_KEY"
	CodeMissingTemplate ErrorCode = "MISSING_TEMPLATE"
	CodeInvalidConfig   ErrorCode = "INVALID_CONFIG"

	// Recipient resolution errors
	CodeResolutionFailed ErrorCode = "RESOLUTION_FAILED"

	// Message errors
	CodeEmptyMessage ErrorCode = "EMPTY_MESSAGE"

	// Provider errors
	CodeTransportError   ErrorCode = "TRANSPORT_ERROR"
	CodeProviderRejected ErrorCode = "PROVIDER_REJECTED"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryConfig     ErrorCategory = "CONFIG"
	CategoryResolution ErrorCategory = "RESOLUTION"
	CategoryValidation ErrorCategory = "VALIDATION"
	CategoryTransport  ErrorCategory = "TRANSPORT"
	CategoryProvider   ErrorCategory = "PROVIDER"
)

// Error represents a standardized error with category and code
type Error struct {
	Code     ErrorCode     `json:"code"`
	Category ErrorCategory `json:"category"`
	Message  string        `json:"message"`
	Cause    error         `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by code and category
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code && e.Category == t.Category
	}
	return false
}

// New creates a new Error
func New(code ErrorCode, category ErrorCategory, message string) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  message,
	}
}

// Wrap wraps an existing error with code and category
func Wrap(code ErrorCode, category ErrorCategory, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}
