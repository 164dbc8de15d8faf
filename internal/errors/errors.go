// Package errors provides standardized error types for modsslctl.
//
// The errors package defines domain-specific error types that enable
// structured error handling and consistent error messages throughout
// the application.
//
// # Error Types
//
// ConfigError is the primary error type, containing:
//   - Code: Categorizes the error (UNSUPPORTED_PLATFORM, VALIDATION, etc.)
//   - Message: Human-readable error description
//   - Family: The OS family involved (if applicable)
//   - Param: The parameter the caller can supply to work around the error
//   - Err: The underlying wrapped error (if any)
//
// # Usage
//
// Creating domain-specific errors:
//
//	// OS family not covered by the default tables
//	return errors.UnsupportedPlatform("arch", "ssl-mutex")
//
//	// Validation error
//	return errors.Validation("apache version %q is not parseable", v)
//
//	// Wrapping an underlying error
//	return errors.Wrap(errors.ErrCodeManager, "failed to write config", err)
//
// # Error Checking
//
// Use errors.Is for sentinel error comparison:
//
//	if errors.Is(err, errors.ErrUnsupportedPlatform) {
//	    // Handle unsupported platform case
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM" // OS family not in the default tables
	ErrCodeValidation          ErrorCode = "VALIDATION"           // Input validation failed
	ErrCodePermission          ErrorCode = "PERMISSION"           // Permission denied
	ErrCodeParams              ErrorCode = "PARAMS"               // Parameter file error
	ErrCodeDetection           ErrorCode = "DETECTION"            // Ambient fact detection failed
	ErrCodeManager             ErrorCode = "MANAGER"              // Package/file manager error
	ErrCodeRender              ErrorCode = "RENDER"               // Template rendering error
	ErrCodeInternal            ErrorCode = "INTERNAL"             // Internal/unexpected error
)

// ConfigError represents a structured error with context about the operation.
type ConfigError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Family  string    // OS family (if applicable)
	Param   string    // Parameter that would resolve the error (if applicable)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Family != "" && e.Param != "" {
		return fmt.Sprintf("%s for os family %q: supply --%s explicitly to override", e.Message, e.Family, e.Param)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*ConfigError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for common error scenarios.
// Use these with errors.Is() for error checking.
var (
	// ErrUnsupportedPlatform indicates the OS family has no default table entry.
	ErrUnsupportedPlatform = &ConfigError{Code: ErrCodeUnsupportedPlatform, Message: "unsupported platform"}

	// ErrRootRequired indicates root privileges are required.
	ErrRootRequired = &ConfigError{Code: ErrCodePermission, Message: "root privileges required"}

	// ErrParamsInvalid indicates the parameter file is invalid or corrupt.
	ErrParamsInvalid = &ConfigError{Code: ErrCodeParams, Message: "invalid parameter file"}
)

// UnsupportedPlatform creates the fatal error raised when OS-family-keyed
// defaulting has no entry for the detected family and no explicit override
// was supplied. The param names the flag the caller should set.
func UnsupportedPlatform(family, param string) error {
	return &ConfigError{
		Code:    ErrCodeUnsupportedPlatform,
		Message: "no default available",
		Family:  family,
		Param:   param,
	}
}

// Validation creates a validation error with a formatted message.
func Validation(format string, args ...interface{}) error {
	return &ConfigError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &ConfigError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
