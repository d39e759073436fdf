package users

import (
	"errors"
	"fmt"
)

// UserError represents business-rule failures on user records
type UserError struct {
	Type    string
	Key     string
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for %s: %s (caused by: %v)", e.Type, e.Key, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for %s: %s", e.Type, e.Key, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// User error types
const (
	UserErrorTypeAlreadyExists = "already_exists"
	UserErrorTypeNotFound      = "not_found"
)

// NewUserAlreadyExistsError creates an error for an email that is already registered
func NewUserAlreadyExistsError(email string, cause error) *UserError {
	return &UserError{
		Type:    UserErrorTypeAlreadyExists,
		Key:     email,
		Message: "email already registered",
		Cause:   cause,
	}
}

// NewUserNotFoundError creates an error for a user that does not exist
func NewUserNotFoundError(key string) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		Key:     key,
		Message: "user not found",
	}
}

// ValidationError represents errors in request validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error for field '%s' (value: %v): %s (caused by: %v)", e.Field, e.Value, e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewValidationErrorWithCause creates a new validation error with a cause
func NewValidationErrorWithCause(field string, value interface{}, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}

// StorageError represents errors related to storage operations
type StorageError struct {
	Type      string
	Operation string
	Message   string
	Cause     error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("storage error [%s] during %s: %s (caused by: %v)", e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("storage error [%s] during %s: %s", e.Type, e.Operation, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Storage error types
const (
	StorageErrorTypeConnectionFailed    = "connection_failed"
	StorageErrorTypeQueryFailed         = "query_failed"
	StorageErrorTypeConstraintViolation = "constraint_violation"
)

// NewStorageConnectionError creates an error for storage connection failures
func NewStorageConnectionError(operation string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeConnectionFailed,
		Operation: operation,
		Message:   "failed to connect to storage",
		Cause:     cause,
	}
}

// NewStorageQueryError creates an error for storage query failures
func NewStorageQueryError(operation string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeQueryFailed,
		Operation: operation,
		Message:   "storage query failed",
		Cause:     cause,
	}
}

// NewStorageConstraintError creates an error for constraint violations
func NewStorageConstraintError(operation string, cause error) *StorageError {
	return &StorageError{
		Type:      StorageErrorTypeConstraintViolation,
		Operation: operation,
		Message:   "storage constraint violation",
		Cause:     cause,
	}
}

// IsNotFound reports whether err is a not_found UserError
func IsNotFound(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr) && userErr.Type == UserErrorTypeNotFound
}

// IsAlreadyExists reports whether err is an already_exists UserError
func IsAlreadyExists(err error) bool {
	var userErr *UserError
	return errors.As(err, &userErr) && userErr.Type == UserErrorTypeAlreadyExists
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
