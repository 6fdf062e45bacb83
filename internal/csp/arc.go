package csp

import "fmt"

// NoHead marks the head of an arc derived from a unary constraint.
const NoHead = -1

// Arc is a directed view of one constraint for AC-3 propagation: the tail
// is the constraint's left variable, the head its right variable (NoHead
// for unary constraints). Arcs compare by (constraint, tail, head), so a
// worklist keyed by Arc gets set semantics for free.
type Arc struct {
	Constraint Constraint
	Tail       int
	Head       int
}

// NewArc derives the arc for a constraint.
func NewArc(c Constraint) Arc {
	head := NoHead
	if r, ok := c.RightVar(); ok {
		head = r
	}
	return Arc{Constraint: c, Tail: c.Left(), Head: head}
}

// String renders the arc for diagnostics.
func (a Arc) String() string {
	if a.Head == NoHead {
		return fmt.Sprintf("Arc[%s, (%d -> ·)]", a.Constraint, a.Tail)
	}
	return fmt.Sprintf("Arc[%s, (%d -> %d)]", a.Constraint, a.Tail, a.Head)
}

// InitArcs derives the full directed arc set for propagation: for every
// binary constraint both its forward arc and its reversed arc (so each
// side of the relation gets revised), and for every unary constraint a
// single headless arc. The result is deduplicated and in deterministic
// order.
func InitArcs(constraints *ConstraintSet) []Arc {
	seen := make(map[Arc]struct{}, constraints.Len()*2)
	arcs := make([]Arc, 0, constraints.Len()*2)
	add := func(a Arc) {
		if _, dup := seen[a]; dup {
			return
		}
		seen[a] = struct{}{}
		arcs = append(arcs, a)
	}
	for _, c := range constraints.All() {
		add(NewArc(c))
		if c.Arity() == 2 {
			// Reverse cannot fail for a binary constraint.
			rev, err := c.Reverse()
			if err != nil {
				panic(fmt.Sprintf("reverse of binary constraint %s: %v", c, err))
			}
			add(NewArc(rev))
		}
	}
	return arcs
}

// ArcIndex maps a variable to every arc whose head is that variable.
// AC-3 consults it after shrinking a domain: when variable v loses
// values, each neighbor z with an arc (z -> v) may have lost the
// support for some of its own values, so those arcs must be revised
// again. Re-enqueueing by head is what makes the fixed point
// independent of processing order.
type ArcIndex map[int][]Arc

// BuildArcIndex constructs the head lookup over the full derived arc
// set (forward and reversed). Headless arcs are not indexed - a unary
// constraint's truth never depends on another domain.
func BuildArcIndex(constraints *ConstraintSet) ArcIndex {
	idx := make(ArcIndex)
	for _, a := range InitArcs(constraints) {
		if a.Head != NoHead {
			idx[a.Head] = append(idx[a.Head], a)
		}
	}
	return idx
}

// Into returns the arcs whose head is v.
// The returned slice must not be modified.
func (idx ArcIndex) Into(v int) []Arc {
	return idx[v]
}
