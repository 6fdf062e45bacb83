package csp

// ConstraintSet holds constraints deduplicated by value. Iteration order
// is insertion order, which keeps propagation and search deterministic
// across runs (same worklist seeding, same consistency-check order).
type ConstraintSet struct {
	members map[Constraint]struct{}
	order   []Constraint
}

// NewConstraintSet creates a set containing the given constraints,
// deduplicated by (left, operator, right).
func NewConstraintSet(constraints ...Constraint) *ConstraintSet {
	s := &ConstraintSet{members: make(map[Constraint]struct{}, len(constraints))}
	for _, c := range constraints {
		s.Add(c)
	}
	return s
}

// Add inserts a constraint. Returns false if an equal constraint was
// already present.
func (s *ConstraintSet) Add(c Constraint) bool {
	if _, dup := s.members[c]; dup {
		return false
	}
	s.members[c] = struct{}{}
	s.order = append(s.order, c)
	return true
}

// Contains reports whether an equal constraint is in the set.
func (s *ConstraintSet) Contains(c Constraint) bool {
	_, ok := s.members[c]
	return ok
}

// Len returns the number of distinct constraints.
func (s *ConstraintSet) Len() int {
	return len(s.order)
}

// All returns the constraints in insertion order.
// The returned slice must not be modified.
func (s *ConstraintSet) All() []Constraint {
	return s.order
}

// MaxVariable returns the largest variable index referenced by any
// constraint, or -1 for an empty set. The problem loader uses this to
// reject constraints that reference meetings beyond the declared count.
func (s *ConstraintSet) MaxVariable() int {
	max := -1
	for _, c := range s.order {
		if c.Left() > max {
			max = c.Left()
		}
		if r, ok := c.RightVar(); ok && r > max {
			max = r
		}
	}
	return max
}
