// Package util provides logging helpers and common error types.
package util

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared across packages
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrZeroDeclared      = errors.New("declared prefix count is zero")
	ErrASNNotFound       = errors.New("ASN not found in registry")
	ErrRouterUnreachable = errors.New("router unreachable")
	ErrNoPrefixLimit     = errors.New("no prefix-limit configured")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// InputError reports malformed router data for a specific peer and family.
// Malformed input aborts the whole run rather than being papered over.
type InputError struct {
	ASN    uint32
	Family string
	Field  string
	Detail string
}

func (e *InputError) Error() string {
	msg := fmt.Sprintf("invalid %s for AS%d %s", e.Field, e.ASN, e.Family)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// NewInputError creates an input error for a peer/family
func NewInputError(asn uint32, family, field, detail string) *InputError {
	return &InputError{
		ASN:    asn,
		Family: family,
		Field:  field,
		Detail: detail,
	}
}

// ValidationError represents one or more validation failures
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return "validation failed: " + e.Errors[0]
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// ValidationBuilder helps accumulate validation errors
type ValidationBuilder struct {
	errors []string
}

// Add adds an error message if condition is false
func (v *ValidationBuilder) Add(condition bool, message string) *ValidationBuilder {
	if !condition {
		v.errors = append(v.errors, message)
	}
	return v
}

// AddErrorf adds a formatted error message
func (v *ValidationBuilder) AddErrorf(format string, args ...interface{}) *ValidationBuilder {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
	return v
}

// HasErrors returns true if there are validation errors
func (v *ValidationBuilder) HasErrors() bool {
	return len(v.errors) > 0
}

// Build returns the validation error or nil if no errors
func (v *ValidationBuilder) Build() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}
