package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrTokenExpired       = errors.New("token expired")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrFeatureDisabled  = errors.New("feature disabled")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// User errors
var (
	ErrUserNotFound            = errors.New("user not found")
	ErrMobileAlreadyRegistered = errors.New("mobile number already registered")
	ErrPasswordMismatch        = errors.New("passwords do not match")
	ErrPasswordTooShort        = errors.New("password too short")
	ErrIncorrectPassword       = errors.New("incorrect current password")
)

// Content errors
var (
	ErrContentNotFound   = errors.New("content not found")
	ErrPayloadTooLarge   = errors.New("payload too large")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// Password reset errors
var (
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
)

// NewValidationError creates a custom error for a failed validation with a
// message that can be shown to the user as is
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// IsNotFound reports whether err is any of the not found errors
func IsNotFound(err error) bool {
	return Is(err, ErrResourceNotFound, ErrContentNotFound, ErrUserNotFound)
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// UserMessage returns the message intended for the end user, or fallback when
// err carries none
func UserMessage(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
