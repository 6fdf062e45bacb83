// Package csp defines the constraint vocabulary for the calendar
// satisfaction problem: time points, relational operators, unary and
// binary constraints, assignments, and the directed arcs derived from
// constraints for propagation.
//
// Everything in this package is a value. Constraints are immutable once
// constructed and compare by (left, operator, right), so a ConstraintSet
// deduplicates structurally identical constraints. The solver packages
// consume these values; nothing here mutates solver state.
//
// ERROR TAXONOMY:
//
// Construction errors (invalid operator, negative variable index) are
// reported by the constructors - a malformed Constraint value is never
// handed to a caller. Usage errors (reversing a unary constraint,
// evaluating a binary constraint without a right-hand value) are
// reported at call time and indicate API misuse rather than bad input
// data. IsConstructionError and IsUsageError distinguish the two.
package csp
