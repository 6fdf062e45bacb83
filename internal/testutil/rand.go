// Package testutil provides deterministic test doubles shared across
// packages.
package testutil

import "math/rand"

// SeededRand returns a rand.Rand with a fixed seed so tests that drive
// the local solver (or any other randomized component) are reproducible.
// Each call returns an independent generator; reusing one across
// subtests couples their random streams.
func SeededRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
