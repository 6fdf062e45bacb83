package engine

import (
	"context"
	"sync"
	"time"

	"github.com/roach88/calsat/internal/csp"
)

// SolveParallel is Solve with the first level of the search tree split
// across worker goroutines: after propagation, each candidate value for
// variable 0 seeds its own branch, every branch searches a private copy
// of the domains and its own assignment, and the first branch to find a
// solution cancels the rest.
//
// The existence answer always matches Solve; which of several valid
// assignments comes back depends on branch timing, so callers needing a
// reproducible assignment should use Solve. Stats are aggregated across
// branches (durations wall-clock, node counts summed).
func SolveParallel(ctx context.Context, n int, candidates []time.Time, constraints *csp.ConstraintSet, workers int) Result {
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	domains := NewDomains(n, candidates)

	before := countValues(domains)
	NodeConsistency(domains, constraints)
	afterNode := countValues(domains)
	ArcConsistency(domains, constraints)
	afterArc := countValues(domains)

	result := Result{Stats: Stats{
		PrunedNode: before - afterNode,
		PrunedArc:  afterNode - afterArc,
	}}
	if wipedOut(domains) {
		result.Stats.Duration = time.Since(start)
		return result
	}
	if n == 0 {
		result.Solution = []time.Time{}
		result.Stats.Duration = time.Since(start)
		return result
	}

	branchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	values := domains[0].Values()
	jobs := make(chan time.Time)
	solutions := make(chan []time.Time, 1)
	var branchStats sync.Mutex
	var wg sync.WaitGroup

	aggregate := func(s Stats) {
		branchStats.Lock()
		defer branchStats.Unlock()
		result.Stats.NodesVisited += s.NodesVisited
		result.Stats.DepthExhausted = result.Stats.DepthExhausted || s.DepthExhausted
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for value := range jobs {
				if branchCtx.Err() != nil {
					return
				}
				stats := Stats{}
				if solution := searchBranch(branchCtx, domains, constraints, value, &stats); solution != nil {
					select {
					case solutions <- solution:
						cancel() // first success wins; stop the siblings
					default:
					}
				}
				aggregate(stats)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, v := range values {
			select {
			case jobs <- v:
			case <-branchCtx.Done():
				return
			}
		}
	}()

	wg.Wait()
	select {
	case solution := <-solutions:
		result.Solution = solution
	default:
	}
	result.Stats.Duration = time.Since(start)
	return result
}

// searchBranch explores the subtree rooted at variable 0 = value. The
// branch clones the shared pruned domains so sibling branches never see
// each other's state, and narrows its own copy of domain 0 to the seed
// value so recursion inside the subtree cannot wander back out of it.
func searchBranch(ctx context.Context, domains []*Domain, constraints *csp.ConstraintSet, value time.Time, stats *Stats) []time.Time {
	private := CloneDomains(domains)
	for _, other := range private[0].Values() {
		if !other.Equal(value) {
			private[0].Remove(other)
		}
	}

	s := &searcher{domains: private, constraints: constraints, ctx: ctx, stats: stats}
	assignment := csp.NewAssignment(len(private))
	assignment.Assign(0, value)
	if !s.consistent(assignment) {
		return nil
	}
	if s.backtrack(assignment, len(private)-1) {
		return assignment.Values()
	}
	return nil
}
