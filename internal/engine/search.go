package engine

import (
	"context"

	"github.com/roach88/calsat/internal/csp"
)

// searcher carries the fixed inputs of one backtracking run so the
// recursion only threads the depth budget. ctx is nil for the
// deterministic sequential path and non-nil for parallel branches, which
// must stop promptly when a sibling wins.
type searcher struct {
	domains     []*Domain
	constraints *csp.ConstraintSet
	ctx         context.Context
	stats       *Stats
}

// Search runs backtracking over the given domains and returns the
// completed assignment, or nil if no assignment satisfies every
// constraint within the depth budget.
//
// The depth budget starts at len(domains) - one assignment per level is
// all a correct run ever needs - and exhausting it is a safety valve, not
// a proof of unsatisfiability; Stats.DepthExhausted records when it
// ended the search. Domains are read but never mutated, so a caller may
// run Search on the same pruned domains more than once.
func Search(domains []*Domain, constraints *csp.ConstraintSet, stats *Stats) *csp.Assignment {
	if stats == nil {
		stats = &Stats{}
	}
	s := &searcher{domains: domains, constraints: constraints, stats: stats}
	assignment := csp.NewAssignment(len(domains))
	if s.backtrack(assignment, len(domains)) {
		return assignment
	}
	return nil
}

// backtrack is the recursive core: assign on entry, undo on exit, so no
// partial state leaks across sibling branches.
func (s *searcher) backtrack(assignment *csp.Assignment, depth int) bool {
	if s.ctx != nil && s.ctx.Err() != nil {
		return false
	}
	if assignment.Complete() {
		return true
	}
	if depth <= 0 {
		s.stats.DepthExhausted = true
		return false
	}

	variable, ok := firstUnassigned(assignment)
	if !ok {
		// Complete() already covers this; unreachable for well-formed input.
		return false
	}

	for _, value := range s.domains[variable].Values() {
		s.stats.NodesVisited++
		assignment.Assign(variable, value)
		if s.consistent(assignment) && s.backtrack(assignment, depth-1) {
			return true
		}
		assignment.Unassign(variable)
	}
	return false
}

// consistent checks the partial assignment against every constraint.
// Constraints with unassigned variables pass vacuously (see
// csp.Constraint.SatisfiedByAssignment), so this prunes as early as the
// first binding that violates anything.
func (s *searcher) consistent(assignment *csp.Assignment) bool {
	for _, c := range s.constraints.All() {
		if !c.SatisfiedByAssignment(assignment) {
			return false
		}
	}
	return true
}

// firstUnassigned selects the lowest-indexed unassigned variable. No
// heuristic ordering: correctness does not need one, and index order
// keeps runs reproducible.
func firstUnassigned(assignment *csp.Assignment) (int, bool) {
	for i := 0; i < assignment.Len(); i++ {
		if !assignment.Assigned(i) {
			return i, true
		}
	}
	return 0, false
}
