package csp

import (
	"strings"
	"time"
)

// Assignment maps variable indices to time points. Slots start unassigned;
// the search engine assigns on entering a branch and unassigns on leaving
// it, so a single Assignment is reused across the whole search.
//
// An Assignment is owned by one solve attempt and is not safe for
// concurrent mutation.
type Assignment struct {
	values   []time.Time
	assigned []bool
}

// NewAssignment creates an assignment of n unassigned slots.
func NewAssignment(n int) *Assignment {
	return &Assignment{
		values:   make([]time.Time, n),
		assigned: make([]bool, n),
	}
}

// Len returns the number of slots.
func (a *Assignment) Len() int {
	return len(a.values)
}

// Assign binds variable i to the given time point.
func (a *Assignment) Assign(i int, t time.Time) {
	a.values[i] = Normalize(t)
	a.assigned[i] = true
}

// Unassign clears variable i's slot.
func (a *Assignment) Unassign(i int) {
	a.values[i] = time.Time{}
	a.assigned[i] = false
}

// Value returns the time point bound to variable i.
// ok is false when i is unassigned or out of range.
func (a *Assignment) Value(i int) (t time.Time, ok bool) {
	if i < 0 || i >= len(a.values) || !a.assigned[i] {
		return time.Time{}, false
	}
	return a.values[i], true
}

// Assigned returns true if variable i holds a value.
func (a *Assignment) Assigned(i int) bool {
	return i >= 0 && i < len(a.assigned) && a.assigned[i]
}

// Complete returns true if every slot holds a value.
func (a *Assignment) Complete() bool {
	for _, ok := range a.assigned {
		if !ok {
			return false
		}
	}
	return true
}

// Values returns the assigned time points in variable order.
// Only meaningful for complete assignments; unassigned slots are zero.
func (a *Assignment) Values() []time.Time {
	out := make([]time.Time, len(a.values))
	copy(out, a.values)
	return out
}

// String renders the assignment for diagnostics, one slot per entry.
func (a *Assignment) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := range a.values {
		if i > 0 {
			b.WriteString(", ")
		}
		if a.assigned[i] {
			b.WriteString(a.values[i].Format(time.RFC3339))
		} else {
			b.WriteString("·")
		}
	}
	b.WriteByte(']')
	return b.String()
}
