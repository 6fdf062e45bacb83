package csp

import "time"

// Operator is the closed set of relational operators over time points.
//
// Operators dispatch through a function table rather than string
// comparison: parsing happens once at construction, evaluation is a
// table lookup.
type Operator int

const (
	// OpEq is exact equality (==).
	OpEq Operator = iota
	// OpNe is inequality (!=).
	OpNe
	// OpGt is strictly-after (>).
	OpGt
	// OpLt is strictly-before (<).
	OpLt
	// OpGe is at-or-after (>=).
	OpGe
	// OpLe is at-or-before (<=).
	OpLe

	numOperators
)

// operatorTokens maps operators to their canonical string form.
var operatorTokens = [numOperators]string{
	OpEq: "==",
	OpNe: "!=",
	OpGt: ">",
	OpLt: "<",
	OpGe: ">=",
	OpLe: "<=",
}

// operatorEval is the evaluation table. Equality and ordering are exact;
// inputs are normalized, so time.Time comparison methods are authoritative.
var operatorEval = [numOperators]func(left, right time.Time) bool{
	OpEq: func(l, r time.Time) bool { return l.Equal(r) },
	OpNe: func(l, r time.Time) bool { return !l.Equal(r) },
	OpGt: func(l, r time.Time) bool { return l.After(r) },
	OpLt: func(l, r time.Time) bool { return l.Before(r) },
	OpGe: func(l, r time.Time) bool { return !l.Before(r) },
	OpLe: func(l, r time.Time) bool { return !l.After(r) },
}

// operatorSymmetric maps each operator to the operator that preserves
// truth value when the operands are swapped.
var operatorSymmetric = [numOperators]Operator{
	OpEq: OpEq,
	OpNe: OpNe,
	OpGt: OpLt,
	OpLt: OpGt,
	OpGe: OpLe,
	OpLe: OpGe,
}

// ParseOperator converts an operator token to an Operator.
// Returns a construction error for unknown tokens.
func ParseOperator(token string) (Operator, error) {
	for op, tok := range operatorTokens {
		if tok == token {
			return Operator(op), nil
		}
	}
	return 0, constructionError(ErrCodeInvalidOperator, "unknown operator %q", token)
}

// Valid returns true if the operator is a member of the closed set.
func (op Operator) Valid() bool {
	return op >= 0 && op < numOperators
}

// Symmetric returns the operator that retains this operator's truth value
// when its operands are swapped: > and < exchange, >= and <= exchange,
// == and != are their own mirrors.
func (op Operator) Symmetric() Operator {
	return operatorSymmetric[op]
}

// Eval evaluates the operator over two literal time points.
func (op Operator) Eval(left, right time.Time) bool {
	return operatorEval[op](left, right)
}

// String returns the operator's canonical token.
func (op Operator) String() string {
	if !op.Valid() {
		return "invalid"
	}
	return operatorTokens[op]
}
