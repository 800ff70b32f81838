package mcmc

import (
	"hash/fnv"
	"math/rand"

	"photoeccentric/ports"
)

// SeededRNG derives independent deterministic streams from a base seed by
// hashing the stream name into the seed. Same name + seed, same stream.
type SeededRNG struct{}

// NewSeededRNG creates the default RNG adapter.
func NewSeededRNG() *SeededRNG {
	return &SeededRNG{}
}

// SeededStream implements ports.RNGPort.
func (r *SeededRNG) SeededStream(name string, seed int64) *rand.Rand {
	return rand.New(rand.NewSource(mixSeed(name, seed)))
}

// WalkerStream implements ports.RNGPort. Each walker gets its own stream so
// draws stay deterministic no matter how evaluations are scheduled across
// workers.
func (r *SeededRNG) WalkerStream(name string, seed int64, walker int) *rand.Rand {
	return rand.New(rand.NewSource(mixSeed(name, seed) + int64(walker)*0x9e3779b9))
}

func mixSeed(name string, seed int64) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return seed ^ int64(h.Sum64())
}

var _ ports.RNGPort = (*SeededRNG)(nil)
