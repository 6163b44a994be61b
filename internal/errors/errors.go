// Package errors provides a structured error type hierarchy for tokentpl.
//
// This package defines base error types for common error conditions, wrapped error
// types that add contextual information, and helper functions for error wrapping
// and type checking.
//
// # Error Types
//
// Base errors (sentinel errors):
//   - ErrNotFound - resource not found
//   - ErrAlreadyExists - duplicate stored definition
//   - ErrInvalid - validation failed
//   - ErrInvalidPattern - placeholder pattern does not compile or has the wrong shape
//   - ErrInvalidConstraint - constraint fragment does not compile or captures
//   - ErrUnknownProperty - derived property lookup for an undefined name
//   - ErrIO - file I/O error
//   - ErrCanceled - user canceled operation
//
// Wrapped error types (add context):
//   - PatternError{Kind, Name, Pattern, Err} - configuration errors from the engine
//   - DefinitionError{Op, Path, Err} - template definition file errors
//   - ConfigError{Path, Err} - configuration errors
//
// # Usage
//
//	// Wrap with context using Wrap
//	return errors.Wrap(err, "loadDefinition")
//
//	// Use structured error types
//	return &errors.PatternError{Kind: "constraint", Name: "id", Pattern: `\d+(`, Err: err}
//
//	// Check error types
//	if errors.IsInvalidConstraint(err) {
//	    // handle bad constraint
//	}
package errors

import (
	"errors"
	"fmt"
)

// Base error types (sentinel errors).
var (
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = baseError("not found")

	// ErrInvalid indicates validation failed.
	ErrInvalid = baseError("invalid")

	// ErrAlreadyExists indicates a duplicate stored definition.
	ErrAlreadyExists = baseError("already exists")

	// ErrInvalidPattern indicates a placeholder pattern is malformed.
	ErrInvalidPattern = baseError("invalid placeholder pattern")

	// ErrInvalidConstraint indicates a constraint fragment is malformed.
	ErrInvalidConstraint = baseError("invalid constraint")

	// ErrUnknownProperty indicates a lookup of an undefined derived property.
	ErrUnknownProperty = baseError("unknown property")

	// ErrIO indicates a file I/O error.
	ErrIO = baseError("I/O error")

	// ErrCanceled indicates the user canceled an operation.
	ErrCanceled = baseError("canceled")
)

// baseError is a string that implements error.
type baseError string

func (e baseError) Error() string { return string(e) }

// PatternError represents a configuration error raised while setting a
// placeholder pattern or a constraint fragment.
type PatternError struct {
	// Kind is what was being configured ("pattern" or "constraint").
	Kind string
	// Name is the placeholder name the constraint belongs to (optional).
	Name string
	// Pattern is the offending regex source.
	Pattern string
	// Err is the underlying error.
	Err error
}

func (e *PatternError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s for %q %q: %s", e.Kind, e.Name, e.Pattern, e.Err)
	}
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// DefinitionError represents an error that occurred while handling a
// template definition file.
type DefinitionError struct {
	// Op is the operation being performed (e.g., "load", "build", "write").
	Op string
	// Err is the underlying error.
	Err error
	// Path is the definition file path (optional).
	Path string
}

func (e *DefinitionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("definition %s %q: %s", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("definition %s: %s", e.Op, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

// ConfigError represents an error related to configuration.
type ConfigError struct {
	// Path is the configuration file path (optional).
	Path string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("config %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("config: %s", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Wrap adds context to an error by wrapping it with an operation name.
// The returned error implements Unwrap() allowing errors.Is and errors.As
// to work with the wrapped error.
func Wrap(err error, op string) error {
	return &wrappedError{op: op, err: err}
}

// wrappedError is an error with an operation context.
type wrappedError struct {
	op  string
	err error
}

func (e *wrappedError) Error() string { return fmt.Sprintf("%s: %s", e.op, e.err) }
func (e *wrappedError) Unwrap() error { return e.err }

// IsNotFound reports whether err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalid reports whether err is or wraps ErrInvalid.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

// IsAlreadyExists reports whether err is or wraps ErrAlreadyExists.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsInvalidPattern reports whether err is or wraps ErrInvalidPattern.
func IsInvalidPattern(err error) bool {
	return errors.Is(err, ErrInvalidPattern)
}

// IsInvalidConstraint reports whether err is or wraps ErrInvalidConstraint.
func IsInvalidConstraint(err error) bool {
	return errors.Is(err, ErrInvalidConstraint)
}

// IsUnknownProperty reports whether err is or wraps ErrUnknownProperty.
func IsUnknownProperty(err error) bool {
	return errors.Is(err, ErrUnknownProperty)
}

// IsIO reports whether err is or wraps ErrIO.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsCanceled reports whether err is or wraps ErrCanceled.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// AsPatternError reports whether err can be typed as a *PatternError.
func AsPatternError(err error) (*PatternError, bool) {
	var pe *PatternError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// AsDefinitionError reports whether err can be typed as a *DefinitionError.
func AsDefinitionError(err error) (*DefinitionError, bool) {
	var de *DefinitionError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// AsConfigError reports whether err can be typed as a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
