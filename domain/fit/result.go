// Package fit holds the value types produced by MCMC runs: the raw chain,
// its flattened burn-in-discarded view, and the percentile summary handed
// back to callers.
package fit

import (
	"time"

	"github.com/google/uuid"

	"photoeccentric/internal/distribution"
	"photoeccentric/internal/errors"
)

// Chain is the raw output of an ensemble run: steps x walkers x dims
// parameter vectors. It is owned by the driver for the duration of a run
// and exposed to callers only through FlatSamples.
type Chain struct {
	steps, walkers, dims int
	data                 []float64
}

// NewChain allocates a zeroed chain.
func NewChain(steps, walkers, dims int) (*Chain, error) {
	if steps <= 0 || walkers <= 0 || dims <= 0 {
		return nil, errors.InvalidInputf("chain shape must be positive: steps=%d walkers=%d dims=%d", steps, walkers, dims)
	}
	return &Chain{
		steps:   steps,
		walkers: walkers,
		dims:    dims,
		data:    make([]float64, steps*walkers*dims),
	}, nil
}

// Steps returns the number of recorded steps.
func (c *Chain) Steps() int { return c.steps }

// Walkers returns the ensemble size.
func (c *Chain) Walkers() int { return c.walkers }

// Dims returns the number of free parameters.
func (c *Chain) Dims() int { return c.dims }

// At returns the parameter value at (step, walker, dim).
func (c *Chain) At(step, walker, dim int) float64 {
	return c.data[(step*c.walkers+walker)*c.dims+dim]
}

// SetWalker records a walker's full position at one step.
func (c *Chain) SetWalker(step, walker int, position []float64) {
	copy(c.data[(step*c.walkers+walker)*c.dims:], position[:c.dims])
}

// Flatten discards the first `discard` steps as burn-in and collapses the
// walker dimension, leaving one sample column per free parameter. The
// flattened sample size is (steps-discard)*walkers; downstream per-sample
// consumers must be sized against it, so an impossible discard is a
// fail-fast caller error rather than a silent truncation.
func (c *Chain) Flatten(discard int) (*FlatSamples, error) {
	if discard < 0 || discard >= c.steps {
		return nil, errors.InvalidInputf("discard %d incompatible with chain of %d steps", discard, c.steps)
	}

	n := (c.steps - discard) * c.walkers
	cols := make([][]float64, c.dims)
	for d := 0; d < c.dims; d++ {
		col := make([]float64, 0, n)
		for s := discard; s < c.steps; s++ {
			for w := 0; w < c.walkers; w++ {
				col = append(col, c.At(s, w, d))
			}
		}
		cols[d] = col
	}
	return &FlatSamples{cols: cols}, nil
}

// FlatSamples is the burn-in-discarded, walker-collapsed view of a chain,
// the only chain artifact exposed outside the driver.
type FlatSamples struct {
	cols [][]float64
}

// Len returns the per-parameter sample count.
func (f *FlatSamples) Len() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// Dims returns the number of parameter columns.
func (f *FlatSamples) Dims() int { return len(f.cols) }

// Column returns the flattened sample for one parameter. The returned slice
// is the backing storage; callers must not modify it.
func (f *FlatSamples) Column(dim int) []float64 { return f.cols[dim] }

// Result summarizes one MCMC run. Immutable once created.
//
// Uncertainties keeps the asymmetric (minus, plus) percentile-gap
// convention; Sigma derives the single averaged value when a scalar
// uncertainty is wanted.
type Result struct {
	Labels        []string
	Estimates     map[string]float64                  // 50th percentile per parameter
	Uncertainties map[string]distribution.SigmaBounds // (50th-16th, 84th-50th)
	Samples       map[string][]float64                // flattened marginal posteriors
}

// Sigma returns the averaged single-valued uncertainty for a parameter:
// mean of the (50th-16th, 84th-50th) percentile gaps.
func (r *Result) Sigma(label string) float64 {
	return r.Uncertainties[label].Mean()
}

// SampleCount returns the flattened sample size behind the result.
func (r *Result) SampleCount() int {
	for _, s := range r.Samples {
		return len(s)
	}
	return 0
}

// Stage labels for persisted runs.
const (
	StageTransit      = "transit"
	StageEccentricity = "eccentricity"
)

// Run is the durable record of a fit: which target, which stage, the
// sampler geometry, and the summarized result.
type Run struct {
	ID        uuid.UUID
	TargetID  string
	Stage     string
	Walkers   int
	Steps     int
	Discard   int
	Seed      int64
	Result    *Result
	CreatedAt time.Time
}
