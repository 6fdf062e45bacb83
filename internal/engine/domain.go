package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/roach88/calsat/internal/csp"
)

// Domain is the mutable set of time points currently considered possible
// for one variable. Propagation removes values in place; search only
// reads.
//
// Values are normalized on entry (see csp.Normalize), so map-key equality
// matches time.Time.Equal. Iteration through Values is in ascending time
// order to keep pruning and search deterministic.
type Domain struct {
	members map[time.Time]struct{}
}

// NewDomain creates a domain holding a copy of the candidate time points.
func NewDomain(candidates []time.Time) *Domain {
	d := &Domain{members: make(map[time.Time]struct{}, len(candidates))}
	for _, t := range candidates {
		d.members[csp.Normalize(t)] = struct{}{}
	}
	return d
}

// NewDomains creates one domain per variable, each an independent copy of
// the candidate set. The copies are the aliasing guard: removing a value
// from one variable's domain must never affect another's.
func NewDomains(n int, candidates []time.Time) []*Domain {
	domains := make([]*Domain, n)
	for i := range domains {
		domains[i] = NewDomain(candidates)
	}
	return domains
}

// Has reports whether the domain contains the given time point.
func (d *Domain) Has(t time.Time) bool {
	_, ok := d.members[csp.Normalize(t)]
	return ok
}

// Remove deletes a time point from the domain.
// Returns true if the value was present.
func (d *Domain) Remove(t time.Time) bool {
	key := csp.Normalize(t)
	if _, ok := d.members[key]; !ok {
		return false
	}
	delete(d.members, key)
	return true
}

// Len returns the number of values remaining.
func (d *Domain) Len() int {
	return len(d.members)
}

// Empty reports whether no values remain. An empty domain after
// propagation signals local unsatisfiability.
func (d *Domain) Empty() bool {
	return len(d.members) == 0
}

// Values returns the remaining time points in ascending order.
func (d *Domain) Values() []time.Time {
	out := make([]time.Time, 0, len(d.members))
	for t := range d.members {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Clone returns an independent copy of the domain.
func (d *Domain) Clone() *Domain {
	c := &Domain{members: make(map[time.Time]struct{}, len(d.members))}
	for t := range d.members {
		c.members[t] = struct{}{}
	}
	return c
}

// CloneDomains returns independent copies of every domain. Parallel
// search hands each branch its own copy so branches never share mutable
// state.
func CloneDomains(domains []*Domain) []*Domain {
	out := make([]*Domain, len(domains))
	for i, d := range domains {
		out[i] = d.Clone()
	}
	return out
}

// String renders the domain for diagnostics.
func (d *Domain) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, t := range d.Values() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.Format(time.RFC3339))
	}
	b.WriteByte('}')
	return b.String()
}
