package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType is the category a client can branch on
type ErrorType string

const (
	// ErrorTypeInvalidRequest covers malformed or missing input
	ErrorTypeInvalidRequest ErrorType = "invalid_request"
	// ErrorTypeUnauthorized covers a missing or invalid credential
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden covers an authenticated caller acting on something it does not own
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeNotFound covers a referenced account or post that does not exist
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeInternal covers storage failures
	ErrorTypeInternal ErrorType = "internal"
)

// BaseError carries a type, a client-facing message and an optional cause
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

func NewInvalidRequest(message string) *BaseError {
	return NewBaseError(ErrorTypeInvalidRequest, message, nil)
}

func NewUnauthorized(message string) *BaseError {
	return NewBaseError(ErrorTypeUnauthorized, message, nil)
}

func NewForbidden(message string) *BaseError {
	return NewBaseError(ErrorTypeForbidden, message, nil)
}

func NewNotFound(message string) *BaseError {
	return NewBaseError(ErrorTypeNotFound, message, nil)
}

// NewInternal wraps a storage failure. The cause is kept for logs only.
func NewInternal(message string, err error) *BaseError {
	return NewBaseError(ErrorTypeInternal, message, err)
}

// TypeOf reports the type of the first BaseError in err's chain.
// Untyped errors are internal.
func TypeOf(err error) ErrorType {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		return baseErr.Type
	}
	return ErrorTypeInternal
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		return baseErr.Type == errType
	}
	return false
}

// MessageOf returns the client-facing message for err
func MessageOf(err error) string {
	var baseErr *BaseError
	if errors.As(err, &baseErr) {
		return baseErr.Message
	}
	return "Internal server error"
}
