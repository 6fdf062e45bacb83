package engine

import (
	"log/slog"
	"time"

	"github.com/roach88/calsat/internal/csp"
)

// NodeConsistency prunes each variable's domain against the unary
// constraints on that variable: every value that fails a unary constraint
// is removed in place. One pass suffices - unary constraints do not
// interact - and re-running after a run that removed nothing changes
// nothing (idempotent).
func NodeConsistency(domains []*Domain, constraints *csp.ConstraintSet) {
	for _, c := range constraints.All() {
		if c.Arity() != 1 {
			continue
		}
		domain := domains[c.Left()]
		for _, v := range domain.Values() {
			ok, _ := c.SatisfiedByValues(v)
			if !ok {
				domain.Remove(v)
			}
		}
	}
}

// ArcConsistency enforces arc consistency (AC-3) on the domains in place.
//
// The worklist is seeded with every derivable arc: forward and reversed
// arcs for each binary constraint, a headless arc for each unary one.
// Revising an arc removes tail values with no supporting head value; any
// removal re-enqueues every arc whose head is the shrunk variable, since
// each such arc's tail may have just lost its only support (standard
// AC-3 neighbor propagation). Arcs out of the shrunk variable need no
// recheck - removing tail values cannot invalidate the support of the
// values that remain.
//
// Terminates because domains only shrink and are finite, and the fixed
// point reached does not depend on processing order. A domain reaching
// empty is valid output meaning the problem is locally unsatisfiable;
// callers must check before iterating.
func ArcConsistency(domains []*Domain, constraints *csp.ConstraintSet) {
	index := csp.BuildArcIndex(constraints)
	work := newArcWorklist(csp.InitArcs(constraints))

	for {
		arc, ok := work.pop()
		if !ok {
			return
		}
		if revise(domains, arc) {
			for _, next := range index.Into(arc.Tail) {
				work.push(next)
			}
		}
	}
}

// revise removes from the tail's domain every value with no supporting
// head value, returning true if anything was removed. For headless
// (unary) arcs the value's own satisfaction is the support.
func revise(domains []*Domain, arc csp.Arc) bool {
	tail := domains[arc.Tail]
	removed := false
	for _, tailVal := range tail.Values() {
		if !hasSupport(domains, arc, tailVal) {
			tail.Remove(tailVal)
			removed = true
		}
	}
	if removed && tail.Empty() {
		slog.Debug("domain wiped out during arc consistency", "variable", arc.Tail, "arc", arc.String())
	}
	return removed
}

// hasSupport reports whether some head value satisfies the arc's
// constraint with tailVal on the left.
func hasSupport(domains []*Domain, arc csp.Arc, tailVal time.Time) bool {
	if arc.Head == csp.NoHead {
		ok, _ := arc.Constraint.SatisfiedByValues(tailVal)
		return ok
	}
	for _, headVal := range domains[arc.Head].Values() {
		ok, _ := arc.Constraint.SatisfiedByValues(tailVal, headVal)
		if ok {
			return true
		}
	}
	return false
}

// arcWorklist is a FIFO agenda with set semantics: an arc already pending
// is not enqueued twice. Processing order does not affect the fixed point
// reached, only how fast it is reached.
type arcWorklist struct {
	pending []csp.Arc
	member  map[csp.Arc]struct{}
}

func newArcWorklist(arcs []csp.Arc) *arcWorklist {
	w := &arcWorklist{
		pending: make([]csp.Arc, 0, len(arcs)),
		member:  make(map[csp.Arc]struct{}, len(arcs)),
	}
	for _, a := range arcs {
		w.push(a)
	}
	return w
}

// push enqueues an arc unless it is already pending.
func (w *arcWorklist) push(a csp.Arc) {
	if _, dup := w.member[a]; dup {
		return
	}
	w.member[a] = struct{}{}
	w.pending = append(w.pending, a)
}

// pop dequeues the front arc. ok is false when the agenda is empty.
func (w *arcWorklist) pop() (a csp.Arc, ok bool) {
	if len(w.pending) == 0 {
		return csp.Arc{}, false
	}
	a = w.pending[0]
	// Zero the slot so the backing array does not retain the arc.
	w.pending[0] = csp.Arc{}
	if len(w.pending) == 1 {
		w.pending = w.pending[:0]
	} else {
		w.pending = w.pending[1:]
	}
	delete(w.member, a)
	return a, true
}

func (w *arcWorklist) len() int {
	return len(w.pending)
}
