package apperrors

import (
	"errors"
	"sort"
	"strings"
)

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthorized       = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrNoRole             = errors.New("account has no role")
	ErrAmbiguousRole      = errors.New("account owns both a teacher and a student profile")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")
	ErrRoleMismatch     = errors.New("role does not match endpoint")
	ErrNotOwner         = errors.New("resource is not owned by caller")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Domain errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDeptNotFound      = errors.New("department not found")
	ErrClassNotFound     = errors.New("class not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrTeacherNotFound   = errors.New("teacher not found")
	ErrStudentNotFound   = errors.New("student not found")
	ErrAssignNotFound    = errors.New("assignment not found")
	ErrSessionNotFound   = errors.New("attendance session not found")
	ErrComponentNotFound = errors.New("marks component not found")
	ErrSlotNotFound      = errors.New("timetable slot not found")
	ErrNotEnrolled       = errors.New("student is not enrolled in course")
	ErrSlotTaken         = errors.New("timetable slot already taken")
	ErrSessionNotHeld    = errors.New("attendance session is cancelled")
	ErrDuplicateID       = errors.New("identifier already exists")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrProfileKindClash  = errors.New("user already owns a profile of the other kind")
	ErrMarksOutOfRange   = errors.New("marks out of range")
	ErrInvalidDateRange  = errors.New("end date is before start date")
	ErrInvalidSlot       = errors.New("invalid day or period")
	ErrInvalidAttendance = errors.New("invalid attendance status")
)

var notFoundErrors = []error{
	ErrUserNotFound, ErrDeptNotFound, ErrClassNotFound, ErrCourseNotFound, ErrTeacherNotFound,
	ErrStudentNotFound, ErrAssignNotFound, ErrSessionNotFound, ErrComponentNotFound, ErrSlotNotFound,
}

// IsNotFound reports whether err is any of the not-found errors.
func IsNotFound(err error) bool {
	return Is(err, ErrResourceNotFound, notFoundErrors...)
}

// IsValidation reports whether err should surface to callers as a validation failure.
func IsValidation(err error) bool {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return true
	}
	return Is(err, ErrValidationFailed,
		ErrDuplicateID, ErrUsernameTaken, ErrProfileKindClash, ErrMarksOutOfRange,
		ErrInvalidDateRange, ErrInvalidSlot, ErrInvalidAttendance, ErrSessionNotHeld)
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
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
	Err       error
	Message   string
	StatusMsg string
	Code      string
	Details   map[string]interface{}
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// ValidationError carries per-field messages for create/update input.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
