package csp

import "time"

// Normalize strips the monotonic clock reading and converts to UTC so that
// Go's == on time.Time coincides with time.Time.Equal for every time point
// the solver touches. Domains and constraint sets key maps by time.Time;
// without this normalization two Equal instants could occupy distinct map
// slots and propagation would silently miss supports.
//
// Every time point entering the package (constraint literals, candidate
// sets, assignment values) passes through Normalize exactly once, at the
// boundary.
func Normalize(t time.Time) time.Time {
	return t.Round(0).UTC()
}

// NormalizeAll returns a normalized copy of the given time points,
// preserving order. The input slice is not modified.
func NormalizeAll(ts []time.Time) []time.Time {
	out := make([]time.Time, len(ts))
	for i, t := range ts {
		out[i] = Normalize(t)
	}
	return out
}
