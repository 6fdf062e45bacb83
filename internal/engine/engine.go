package engine

import (
	"log/slog"
	"time"

	"github.com/roach88/calsat/internal/csp"
)

// Stats records what one solve did. Counters cover the whole run;
// DepthExhausted notes that the search's depth budget - not an exhausted
// search space - ended a failed search, in which case a no-solution
// result is a limit, not a proof.
type Stats struct {
	// NodesVisited counts value assignments tried during search.
	NodesVisited int

	// PrunedNode counts domain values removed by node consistency.
	PrunedNode int

	// PrunedArc counts domain values removed by arc consistency.
	PrunedArc int

	// DepthExhausted is true if the depth budget cut a search short.
	DepthExhausted bool

	// Duration is the wall-clock time of the whole solve.
	Duration time.Duration
}

// Pruned returns the total values removed by propagation.
func (s Stats) Pruned() int {
	return s.PrunedNode + s.PrunedArc
}

// Result is the outcome of a solve. Solution is nil when no satisfying
// assignment was found; that is a normal outcome, never an error.
// A non-nil Solution always has one time point per variable and
// satisfies every constraint.
type Result struct {
	Solution []time.Time
	Stats    Stats
}

// Solved reports whether a satisfying assignment was found.
func (r Result) Solved() bool {
	return r.Solution != nil
}

// Solve schedules n meetings within the candidate time points subject to
// the given constraints.
//
// Each variable receives an independent copy of the candidate set, node
// and arc consistency prune the copies in place, and backtracking search
// with depth budget n runs over whatever remains. If propagation empties
// any domain the search is skipped - no assignment can exist.
//
// Solve never fails on well-formed input; malformed constraints are
// rejected earlier, at construction time.
func Solve(n int, candidates []time.Time, constraints *csp.ConstraintSet) Result {
	start := time.Now()
	domains := NewDomains(n, candidates)

	before := countValues(domains)
	NodeConsistency(domains, constraints)
	afterNode := countValues(domains)
	ArcConsistency(domains, constraints)
	afterArc := countValues(domains)

	stats := Stats{
		PrunedNode: before - afterNode,
		PrunedArc:  afterNode - afterArc,
	}
	slog.Debug("propagation finished",
		"variables", n,
		"pruned_node", stats.PrunedNode,
		"pruned_arc", stats.PrunedArc)

	result := Result{Stats: stats}
	if wipedOut(domains) {
		result.Stats.Duration = time.Since(start)
		slog.Debug("unsatisfiable after propagation", "variables", n)
		return result
	}

	if assignment := Search(domains, constraints, &result.Stats); assignment != nil {
		result.Solution = assignment.Values()
	}
	result.Stats.Duration = time.Since(start)
	slog.Debug("search finished",
		"solved", result.Solved(),
		"nodes", result.Stats.NodesVisited,
		"duration", result.Stats.Duration)
	return result
}

// wipedOut reports whether any domain is empty.
func wipedOut(domains []*Domain) bool {
	for _, d := range domains {
		if d.Empty() {
			return true
		}
	}
	return false
}

func countValues(domains []*Domain) int {
	total := 0
	for _, d := range domains {
		total += d.Len()
	}
	return total
}
