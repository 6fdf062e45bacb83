package csp

import (
	"errors"
	"fmt"
)

// ConstraintError represents a failure in constraint construction or use.
//
// Two categories share this type, distinguished by code:
//   - Construction errors: the caller supplied bad data (unknown operator,
//     negative variable index). The constructor returns no Constraint.
//   - Usage errors: the caller misused a valid Constraint (reversed a
//     unary constraint, omitted the right-hand value for a binary one).
type ConstraintError struct {
	// Code identifies the error category.
	Code ConstraintErrorCode

	// Message is a human-readable description.
	Message string
}

// ConstraintErrorCode categorizes constraint errors.
type ConstraintErrorCode string

const (
	// ErrCodeInvalidOperator indicates an unknown operator token.
	ErrCodeInvalidOperator ConstraintErrorCode = "INVALID_OPERATOR"

	// ErrCodeNegativeVariable indicates a variable index below zero.
	ErrCodeNegativeVariable ConstraintErrorCode = "NEGATIVE_VARIABLE"

	// ErrCodeInvalidOperand indicates a right-hand operand that is neither
	// a variable index nor a time point. Constraint constructors are typed
	// and cannot hit this; the problem loader reports it for documents
	// whose right-hand field decodes to something unusable.
	ErrCodeInvalidOperand ConstraintErrorCode = "INVALID_OPERAND"

	// ErrCodeReverseUnary indicates Reverse was called on a unary constraint.
	ErrCodeReverseUnary ConstraintErrorCode = "REVERSE_UNARY"

	// ErrCodeMissingRightValue indicates a binary constraint was evaluated
	// by values without a right-hand time point.
	ErrCodeMissingRightValue ConstraintErrorCode = "MISSING_RIGHT_VALUE"
)

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsConstructionError returns true if the error reports invalid constraint
// data (as opposed to API misuse). Uses errors.As to handle wrapped errors.
func IsConstructionError(err error) bool {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		switch ce.Code {
		case ErrCodeInvalidOperator, ErrCodeNegativeVariable, ErrCodeInvalidOperand:
			return true
		}
	}
	return false
}

// IsUsageError returns true if the error reports misuse of a well-formed
// constraint. Uses errors.As to handle wrapped errors.
func IsUsageError(err error) bool {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		switch ce.Code {
		case ErrCodeReverseUnary, ErrCodeMissingRightValue:
			return true
		}
	}
	return false
}

func constructionError(code ConstraintErrorCode, format string, args ...any) error {
	return &ConstraintError{Code: code, Message: fmt.Sprintf(format, args...)}
}
