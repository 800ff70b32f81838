// Package mcmc implements the ensemble MCMC capability consumed by the fit
// driver: an affine-invariant stretch-move sampler (Goodman & Weare 2010,
// the algorithm behind the emcee ensemble sampler). Walkers evolve in two
// half-ensembles; within a step, posterior evaluations are embarrassingly
// parallel and fan out over a bounded worker pool, while all random draws
// stay on per-walker seeded streams so a run is reproducible for a fixed
// seed regardless of scheduling.
package mcmc

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"photoeccentric/domain/fit"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// EnsembleSampler implements ports.EnsembleSamplerPort.
type EnsembleSampler struct {
	rng     ports.RNGPort
	stretch float64 // stretch scale a; proposals draw z in [1/a, a]
	workers int
	seed    int64
}

// Option configures an EnsembleSampler.
type Option func(*EnsembleSampler)

// WithStretchScale overrides the stretch scale (default 2.0).
func WithStretchScale(a float64) Option {
	return func(s *EnsembleSampler) { s.stretch = a }
}

// WithWorkers bounds the posterior-evaluation worker pool (default
// GOMAXPROCS).
func WithWorkers(n int) Option {
	return func(s *EnsembleSampler) { s.workers = n }
}

// WithSeed sets the base seed for all proposal streams (default 42).
func WithSeed(seed int64) Option {
	return func(s *EnsembleSampler) { s.seed = seed }
}

// NewEnsembleSampler creates a stretch-move sampler drawing from rng.
func NewEnsembleSampler(rng ports.RNGPort, opts ...Option) *EnsembleSampler {
	s := &EnsembleSampler{
		rng:     rng,
		stretch: 2.0,
		workers: runtime.GOMAXPROCS(0),
		seed:    42,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run evolves the ensemble for `steps` steps from the given initial
// positions (walkers x dims) and returns the raw chain. The walker count
// must be even and exceed twice the dimension count for the stretch move
// to span parameter space.
func (s *EnsembleSampler) Run(ctx context.Context, logProb ports.LogProbFunc, initial [][]float64, steps int) (*fit.Chain, error) {
	nWalkers := len(initial)
	if nWalkers == 0 {
		return nil, errors.Sampler("no initial walker positions")
	}
	nDims := len(initial[0])
	if nWalkers%2 != 0 || nWalkers <= 2*nDims {
		return nil, errors.Sampler("walker count must be even and exceed twice the parameter count")
	}
	for _, pos := range initial {
		if len(pos) != nDims {
			return nil, errors.Sampler("initial walker positions must share one dimension count")
		}
	}
	if steps <= 0 {
		return nil, errors.Sampler("step count must be positive")
	}

	chain, err := fit.NewChain(steps, nWalkers, nDims)
	if err != nil {
		return nil, err
	}

	// Working state: current positions and log probabilities.
	pos := make([][]float64, nWalkers)
	for w := range pos {
		pos[w] = append([]float64(nil), initial[w]...)
	}
	lnp := make([]float64, nWalkers)
	if err := s.evaluate(ctx, logProb, pos, lnp, allWalkers(nWalkers)); err != nil {
		return nil, err
	}

	streams := make([]*rand.Rand, nWalkers)
	for w := range streams {
		streams[w] = s.rng.WalkerStream("stretch-move", s.seed, w)
	}

	half := nWalkers / 2
	proposals := make([][]float64, nWalkers)
	zs := make([]float64, nWalkers)
	accepts := make([]float64, nWalkers)
	propLnp := make([]float64, nWalkers)

	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "sampler run canceled")
		}

		// Update each half-ensemble against the other. Draws happen
		// serially on the walkers' own streams; only the posterior
		// evaluations run in parallel.
		for _, split := range [][2]int{{0, half}, {half, nWalkers}} {
			lo, hi := split[0], split[1]
			otherLo := (lo + half) % nWalkers

			active := make([]int, 0, hi-lo)
			for w := lo; w < hi; w++ {
				str := streams[w]
				z := s.drawStretch(str)
				partner := pos[otherLo+str.Intn(half)]

				prop := make([]float64, nDims)
				for d := 0; d < nDims; d++ {
					prop[d] = partner[d] + z*(pos[w][d]-partner[d])
				}
				proposals[w] = prop
				zs[w] = z
				accepts[w] = str.Float64()
				active = append(active, w)
			}

			if err := s.evaluate(ctx, logProb, proposals, propLnp, active); err != nil {
				return nil, err
			}

			for _, w := range active {
				logRatio := float64(nDims-1)*math.Log(zs[w]) + propLnp[w] - lnp[w]
				if math.Log(accepts[w]) < logRatio {
					pos[w] = proposals[w]
					lnp[w] = propLnp[w]
				}
			}
		}

		for w := 0; w < nWalkers; w++ {
			chain.SetWalker(step, w, pos[w])
		}
	}
	return chain, nil
}

// drawStretch samples z with density proportional to 1/sqrt(z) on
// [1/a, a].
func (s *EnsembleSampler) drawStretch(r *rand.Rand) float64 {
	u := r.Float64()
	x := (s.stretch-1)*u + 1
	return x * x / s.stretch
}

// evaluate computes logProb for the listed walkers in parallel. A NaN
// result degrades to -Inf so one bad forward-model evaluation loses a
// sample, not the chain.
func (s *EnsembleSampler) evaluate(ctx context.Context, logProb ports.LogProbFunc, positions [][]float64, out []float64, walkers []int) error {
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, w := range walkers {
		w := w
		g.Go(func() error {
			v := logProb(positions[w])
			if math.IsNaN(v) {
				v = math.Inf(-1)
			}
			out[w] = v
			return nil
		})
	}
	return g.Wait()
}

func allWalkers(n int) []int {
	ws := make([]int, n)
	for i := range ws {
		ws[i] = i
	}
	return ws
}

var _ ports.EnsembleSamplerPort = (*EnsembleSampler)(nil)
