package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the failure categories magicmount distinguishes
const (
	ErrUnknown ErrorCode = "UNKNOWN"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Module enumeration errors: abort before any mount is attempted
	ErrModuleScan ErrorCode = "MODULE_SCAN"

	// Tree invariant violations: data-integrity errors, never expected
	// at runtime (synthetic node typed as file/symlink, replace flag
	// on a directory with no owning module)
	ErrTreeInvariant ErrorCode = "TREE_INVARIANT"

	// Mount-primitive failures during traversal
	ErrMountFailed  ErrorCode = "MOUNT_FAILED"
	ErrMirrorFailed ErrorCode = "MIRROR_FAILED"
	ErrLabelFailed  ErrorCode = "LABEL_FAILED"
)

// MountError represents a structured error with code and details
type MountError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MountError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MountError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MountError) Is(target error) bool {
	var targetErr *MountError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MountError with the given code and message
func New(code ErrorCode, message string) *MountError {
	return &MountError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MountError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MountError {
	return &MountError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MountError
func Wrap(err error, code ErrorCode, message string) *MountError {
	if err == nil {
		return nil
	}
	return &MountError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MountError {
	if err == nil {
		return nil
	}
	return &MountError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MountError) WithDetail(key string, value interface{}) *MountError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mountErr *MountError
	if errors.As(err, &mountErr) {
		return mountErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MountError
func GetErrorCode(err error) ErrorCode {
	var mountErr *MountError
	if errors.As(err, &mountErr) {
		return mountErr.Code
	}
	return ErrUnknown
}
