package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number streams so that a fit run is
// reproducible: walker initialization, proposal draws, and synthetic noise
// all derive from named streams of one base seed.
type RNGPort interface {
	// SeededStream creates a deterministic generator for a named operation.
	// The same (name, seed) pair always yields the same stream.
	SeededStream(name string, seed int64) *rand.Rand

	// WalkerStream creates the per-walker stream used for proposal and
	// acceptance draws, so chains are identical for a fixed seed regardless
	// of how walker evaluations are scheduled.
	WalkerStream(name string, seed int64, walker int) *rand.Rand
}
