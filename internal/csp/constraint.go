package csp

import (
	"fmt"
	"time"
)

// Constraint is an immutable relation between one variable and either a
// literal time point (unary) or a second variable (binary).
//
// Constraints are comparable values: two constraints with the same
// (left, operator, right) are the same constraint, which is what lets
// ConstraintSet deduplicate them. All time literals are normalized at
// construction so value comparison is reliable.
type Constraint struct {
	left      int
	op        Operator
	rightVar  int       // -1 for unary constraints
	rightTime time.Time // zero value for binary constraints
}

// unaryRight marks the rightVar slot of a unary constraint.
const unaryRight = -1

// NewUnary constructs a constraint comparing variable left against a
// literal time point, e.g. "meeting 0 must be on 2023-01-03".
func NewUnary(left int, op Operator, right time.Time) (Constraint, error) {
	if !op.Valid() {
		return Constraint{}, constructionError(ErrCodeInvalidOperator, "operator %d out of range", int(op))
	}
	if left < 0 {
		return Constraint{}, constructionError(ErrCodeNegativeVariable, "left variable %d must be >= 0", left)
	}
	return Constraint{left: left, op: op, rightVar: unaryRight, rightTime: Normalize(right)}, nil
}

// NewBinary constructs a constraint relating two variables,
// e.g. "meeting 0 must be before meeting 1".
func NewBinary(left int, op Operator, right int) (Constraint, error) {
	if !op.Valid() {
		return Constraint{}, constructionError(ErrCodeInvalidOperator, "operator %d out of range", int(op))
	}
	if left < 0 {
		return Constraint{}, constructionError(ErrCodeNegativeVariable, "left variable %d must be >= 0", left)
	}
	if right < 0 {
		return Constraint{}, constructionError(ErrCodeNegativeVariable, "right variable %d must be >= 0", right)
	}
	return Constraint{left: left, op: op, rightVar: right}, nil
}

// Arity returns 1 for unary constraints and 2 for binary ones.
func (c Constraint) Arity() int {
	if c.rightVar == unaryRight {
		return 1
	}
	return 2
}

// Left returns the index of the constrained (left-hand) variable.
func (c Constraint) Left() int {
	return c.left
}

// Op returns the relational operator.
func (c Constraint) Op() Operator {
	return c.op
}

// RightVar returns the right-hand variable index.
// ok is false for unary constraints.
func (c Constraint) RightVar() (v int, ok bool) {
	if c.rightVar == unaryRight {
		return 0, false
	}
	return c.rightVar, true
}

// RightTime returns the right-hand literal time point.
// ok is false for binary constraints.
func (c Constraint) RightTime() (t time.Time, ok bool) {
	if c.rightVar != unaryRight {
		return time.Time{}, false
	}
	return c.rightTime, true
}

// SatisfiedByValues evaluates the operator over literal time points,
// ignoring the constraint's variable indices. The caller vouches that the
// values came from the right domains.
//
// For unary constraints the right value may be omitted, in which case the
// constraint's own literal is used. Omitting it for a binary constraint is
// a usage error.
func (c Constraint) SatisfiedByValues(left time.Time, right ...time.Time) (bool, error) {
	var r time.Time
	switch {
	case len(right) > 0:
		r = Normalize(right[0])
	case c.rightVar == unaryRight:
		r = c.rightTime
	default:
		return false, &ConstraintError{
			Code:    ErrCodeMissingRightValue,
			Message: fmt.Sprintf("constraint %s is binary; a right-hand value is required", c),
		}
	}
	return c.op.Eval(Normalize(left), r), nil
}

// SatisfiedByAssignment evaluates the constraint against a possibly
// partial assignment. A constraint only becomes binding once every
// variable it references is assigned: unassigned or out-of-range slots
// make it vacuously true. The search engine leans on this to consistency-
// check partial assignments without special-casing unbound variables.
func (c Constraint) SatisfiedByAssignment(a *Assignment) bool {
	left, ok := a.Value(c.left)
	if !ok {
		return true
	}
	right := c.rightTime
	if c.rightVar != unaryRight {
		right, ok = a.Value(c.rightVar)
		if !ok {
			return true
		}
	}
	return c.op.Eval(left, right)
}

// Reverse returns the logically equivalent constraint with its sides
// swapped and the operator replaced by its symmetric counterpart:
// (0 < 1).Reverse() == (1 > 0). Arc consistency uses this so that an
// arc's tail is always its constraint's left variable.
//
// Only defined for binary constraints; reversing a unary constraint is a
// usage error.
func (c Constraint) Reverse() (Constraint, error) {
	if c.rightVar == unaryRight {
		return Constraint{}, &ConstraintError{
			Code:    ErrCodeReverseUnary,
			Message: fmt.Sprintf("constraint %s is unary and cannot be reversed", c),
		}
	}
	return Constraint{left: c.rightVar, op: c.op.Symmetric(), rightVar: c.left}, nil
}

// String renders the constraint as "left op right".
func (c Constraint) String() string {
	if c.rightVar == unaryRight {
		return fmt.Sprintf("%d %s %s", c.left, c.op, c.rightTime.Format(time.RFC3339))
	}
	return fmt.Sprintf("%d %s %d", c.left, c.op, c.rightVar)
}
