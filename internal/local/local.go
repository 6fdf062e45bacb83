// Package local implements an approximate, best-effort solver for
// calendar satisfaction problems using min-conflicts local search with
// random restarts.
//
// The local solver is fast but incomplete in both directions of the
// contract that the exact engine honors: it may fail to find an
// assignment that exists (bad luck across all restarts), and a nil
// result says nothing about unsatisfiability. It never returns an
// invalid assignment - a non-nil result satisfies every constraint.
// Use it for large satisfiable instances where the exact engine is too
// slow and a miss is acceptable; never as a correctness-bearing path.
package local

import (
	"math/rand"
	"time"

	"github.com/roach88/calsat/internal/csp"
)

// Search budget per attempt and number of random restarts before giving
// up. Tuned for day-granularity scheduling problems of a few dozen
// meetings.
const (
	MaxSteps    = 250
	MaxRestarts = 50
)

// Params controls the local search. The zero value is not useful; start
// from DefaultParams.
type Params struct {
	// Steps is the number of repair steps allowed from one random start.
	Steps int

	// Restarts is the number of random initial assignments tried.
	Restarts int

	// Rand drives every random choice. Inject a seeded source for
	// reproducible tests; nil selects a time-seeded source.
	Rand *rand.Rand
}

// DefaultParams is the production configuration.
var DefaultParams = Params{
	Steps:    MaxSteps,
	Restarts: MaxRestarts,
}

// Solve attempts to schedule n meetings within the candidate time points
// using DefaultParams. Returns nil when no solution was found within the
// budget - which is not evidence that none exists.
func Solve(n int, candidates []time.Time, constraints *csp.ConstraintSet) []time.Time {
	return SolveWith(DefaultParams, n, candidates, constraints)
}

// SolveWith runs min-conflicts with the given parameters.
func SolveWith(params Params, n int, candidates []time.Time, constraints *csp.ConstraintSet) []time.Time {
	if n == 0 {
		return []time.Time{}
	}
	if len(candidates) == 0 {
		return nil
	}
	rng := params.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	values := csp.NormalizeAll(candidates)

	for restart := 0; restart < params.Restarts; restart++ {
		assignment := randomAssignment(rng, n, values)
		for step := 0; step < params.Steps; step++ {
			violated := violatedConstraints(assignment, constraints)
			if len(violated) == 0 {
				return assignment.Values()
			}
			repair(rng, assignment, values, constraints, violated)
		}
		if len(violatedConstraints(assignment, constraints)) == 0 {
			return assignment.Values()
		}
	}
	return nil
}

// randomAssignment gives every variable a uniformly random candidate.
func randomAssignment(rng *rand.Rand, n int, values []time.Time) *csp.Assignment {
	assignment := csp.NewAssignment(n)
	for i := 0; i < n; i++ {
		assignment.Assign(i, values[rng.Intn(len(values))])
	}
	return assignment
}

// violatedConstraints returns the constraints the complete assignment
// breaks. The assignment is always complete here, so vacuous passes
// cannot hide violations.
func violatedConstraints(assignment *csp.Assignment, constraints *csp.ConstraintSet) []csp.Constraint {
	var violated []csp.Constraint
	for _, c := range constraints.All() {
		if !c.SatisfiedByAssignment(assignment) {
			violated = append(violated, c)
		}
	}
	return violated
}

// repair picks a random violated constraint, picks one of its variables,
// and moves that variable to the value with the fewest resulting
// conflicts (ties broken randomly - plateau moves included, which is
// what lets min-conflicts escape shallow local minima).
func repair(rng *rand.Rand, assignment *csp.Assignment, values []time.Time, constraints *csp.ConstraintSet, violated []csp.Constraint) {
	c := violated[rng.Intn(len(violated))]
	variable := c.Left()
	if r, ok := c.RightVar(); ok && rng.Intn(2) == 1 {
		variable = r
	}

	bestCount := -1
	var best []time.Time
	for _, v := range values {
		assignment.Assign(variable, v)
		count := len(violatedConstraints(assignment, constraints))
		switch {
		case bestCount == -1 || count < bestCount:
			bestCount = count
			best = best[:0]
			best = append(best, v)
		case count == bestCount:
			best = append(best, v)
		}
	}
	assignment.Assign(variable, best[rng.Intn(len(best))])
}
