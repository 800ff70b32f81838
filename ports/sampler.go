package ports

import (
	"context"

	"photoeccentric/domain/fit"
)

// LogProbFunc evaluates the log posterior density at a parameter vector.
// It must be pure: no shared mutable state, safe for parallel evaluation
// across walkers. Out-of-support draws return -Inf (zero probability, not
// an error); implementations treat NaN as -Inf so a failed forward-model
// evaluation degrades instead of aborting the chain.
type LogProbFunc func(theta []float64) float64

// EnsembleSamplerPort runs an ensemble MCMC chain: given initial walker
// positions (walkers x dims) it produces a chain of shape
// (steps, walkers, dims). Within a run, steps are strictly sequential;
// evaluations within a step are unordered and may run in parallel.
type EnsembleSamplerPort interface {
	Run(ctx context.Context, logProb LogProbFunc, initial [][]float64, steps int) (*fit.Chain, error)
}
