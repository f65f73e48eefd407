// Package errors defines the application error taxonomy. Every policy
// denial the core can produce maps to exactly one of the errors below, so
// transport code never invents status codes and callers can distinguish,
// for example, a wrong role from a consent denial.
package errors

import (
	"net/http"

	"adaptiv/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code.
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// Is matches detail-carrying copies against the shared base values, so
// errors.Is(err, ErrAccountLocked) holds for WithDetails results too.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == other.errorCode
}

// WithDetails returns a copy of the error carrying detailed information.
// The base error values below are shared, so mutation is not an option.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Authentication errors.
var (
	// ErrInvalidCredentials deliberately covers both unknown-email and
	// wrong-password so callers cannot enumerate registered addresses.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid email or password",
		"",
	)

	ErrAccountInactive = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_INACTIVE",
		"Account is deactivated",
		"",
	)

	// ErrAccountLocked carries the remaining lockout duration in its
	// details via WithDetails.
	ErrAccountLocked = NewBaseError(
		http.StatusLocked,
		"ACCOUNT_LOCKED",
		"Account is temporarily locked due to failed login attempts",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Invalid or expired token",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Failed to process password",
		"",
	)
)

// Authorization errors. Admin exclusion is surfaced distinctly from the
// generic role denial so audit logs can tell an admin probing clinical
// endpoints apart from an ordinary wrong-role request.
var (
	ErrRoleForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN_ROLE",
		"Your role does not permit this operation",
		"",
	)

	ErrAdminExcluded = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN_ADMIN_EXCLUDED",
		"Administrative accounts cannot access clinical data",
		"",
	)

	ErrConsentDenied = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN_CONSENT",
		"The patient has disabled data sharing",
		"",
	)
)

// Consent workflow errors.
var (
	ErrConsentAlreadyPending = NewBaseError(
		http.StatusConflict,
		"CONSENT_ALREADY_PENDING",
		"A disable request is already pending review",
		"",
	)

	ErrConsentInvalidTransition = NewBaseError(
		http.StatusConflict,
		"CONSENT_INVALID_TRANSITION",
		"The requested consent transition is not allowed from the current state",
		"",
	)
)

// Account and validation errors.
var (
	ErrAccountExists = NewBaseError(
		http.StatusConflict,
		"ACCOUNT_EXISTS",
		"An account with this email already exists",
		"",
	)

	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Input validation failed",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// DatabaseExecuteError represents an infrastructure failure, kept on a
// separate channel from policy denials: it implements AppError with a 500
// and is never conflated with the taxonomy above.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error.
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface.
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code.
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code.
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message.
func (e *DatabaseExecuteError) Message() string {
	return "Database execution failed"
}

// Details returns detailed error information.
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
