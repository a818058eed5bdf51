package intercept

import (
	"errors"
	"fmt"

	"github.com/roach88/vvalues/internal/op"
)

// DispatchError is returned when an operator site cannot be dispatched.
//
// Errors raised by handlers or by native evaluation are never wrapped in a
// DispatchError; they propagate to the caller unchanged.
type DispatchError struct {
	// Code identifies the error category.
	Code DispatchErrorCode

	// Site is the kind of operator site that failed.
	Site Site

	// Operator is the operator symbol, or the site symbol for assign/branch.
	Operator op.Operator

	// Message is a human-readable description.
	Message string
}

// DispatchErrorCode categorizes dispatch errors.
type DispatchErrorCode string

const (
	// ErrCodeUnbranchable indicates Branch was called on an unwrapped condition.
	ErrCodeUnbranchable DispatchErrorCode = "UNBRANCHABLE"

	// ErrCodeMissingCapability indicates the handler lacks the capability the
	// site needs.
	ErrCodeMissingCapability DispatchErrorCode = "MISSING_CAPABILITY"
)

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %s (site=%s, operator=%q)", e.Code, e.Message, e.Site, e.Operator)
}

// IsUnbranchable checks if an error is an UNBRANCHABLE dispatch error.
func IsUnbranchable(err error) bool {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Code == ErrCodeUnbranchable
	}
	return false
}

// IsMissingCapability checks if an error is a MISSING_CAPABILITY dispatch error.
func IsMissingCapability(err error) bool {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Code == ErrCodeMissingCapability
	}
	return false
}

func missingCapability(site Site, o op.Operator, want Capabilities, have Capabilities) *DispatchError {
	return &DispatchError{
		Code:     ErrCodeMissingCapability,
		Site:     site,
		Operator: o,
		Message:  fmt.Sprintf("handler has no %s capability (has %s)", want, have),
	}
}
