package native

import (
	"errors"
	"fmt"

	"github.com/roach88/vvalues/internal/op"
)

// ErrorCode categorizes native evaluation failures.
type ErrorCode string

const (
	// ErrCodeUnknownOperator indicates a symbol outside the supported sets.
	ErrCodeUnknownOperator ErrorCode = "UNKNOWN_OPERATOR"

	// ErrCodeTypeError indicates an operand the operator cannot accept
	// (e.g. "in" against a primitive).
	ErrCodeTypeError ErrorCode = "TYPE_ERROR"
)

// Error reports a native evaluation failure.
type Error struct {
	Code     ErrorCode
	Operator op.Operator
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (operator=%q)", e.Code, e.Message, e.Operator)
}

// IsUnknownOperator returns true if err is an unknown-operator error.
// Uses errors.As to handle wrapped errors.
func IsUnknownOperator(err error) bool {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeUnknownOperator
	}
	return false
}

// IsTypeError returns true if err is a native type error.
func IsTypeError(err error) bool {
	var ne *Error
	if errors.As(err, &ne) {
		return ne.Code == ErrCodeTypeError
	}
	return false
}

func unknownOperator(o op.Operator, arity string) *Error {
	return &Error{
		Code:     ErrCodeUnknownOperator,
		Operator: o,
		Message:  fmt.Sprintf("no native %s operator", arity),
	}
}

func typeError(o op.Operator, format string, args ...any) *Error {
	return &Error{
		Code:     ErrCodeTypeError,
		Operator: o,
		Message:  fmt.Sprintf(format, args...),
	}
}
