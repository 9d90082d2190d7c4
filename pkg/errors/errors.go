package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of application errors
type ErrorType string

const (
	ErrorTypeValidation           ErrorType = "validation"
	ErrorTypeAuthentication       ErrorType = "authentication"
	ErrorTypeNotAuthorized        ErrorType = "not_authorized"
	ErrorTypeNotFound             ErrorType = "not_found"
	ErrorTypeVotingPeriodEnded    ErrorType = "voting_period_ended"
	ErrorTypeVotingPeriodNotEnded ErrorType = "voting_period_not_ended"
	ErrorTypeInvalidStatus        ErrorType = "invalid_status"
	ErrorTypeInvalidChoice        ErrorType = "invalid_choice"
	ErrorTypeInvalidAmount        ErrorType = "invalid_amount"
	ErrorTypeInsufficientBalance  ErrorType = "insufficient_balance"
	ErrorTypeOverflow             ErrorType = "overflow"
	ErrorTypeInternal             ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"-"`
	Internal   error                  `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Internal.Error())
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewInternalError creates a new internal server error
func NewInternalError(message string, internal error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Internal:   internal,
	}
}

// Mapping ties a sentinel error to its transport representation
type Mapping struct {
	Target     error
	Type       ErrorType
	StatusCode int
}

// FromError converts any error into an AppError. AppErrors pass through,
// errors matching a mapping take its type and status, and anything else
// becomes an internal error whose message does not leak the cause.
func FromError(err error, mappings []Mapping) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, m := range mappings {
		if errors.Is(err, m.Target) {
			return &AppError{
				Type:       m.Type,
				Message:    m.Target.Error(),
				StatusCode: m.StatusCode,
				Internal:   err,
			}
		}
	}

	return NewInternalError("internal server error", err)
}

// ErrorResponse represents the JSON error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   *AppError `json:"error"`
}
