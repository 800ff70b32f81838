package fit

import (
	"context"

	"photoeccentric/domain/fit"
	"photoeccentric/internal"
	"photoeccentric/internal/distribution"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// jitterSigma is the scale of the Gaussian scatter applied to the initial
// guess when seeding walkers.
const jitterSigma = 1e-4

// RunSpec describes one MCMC fit: the posterior, where to start, and the
// sampler geometry. (Steps-Discard)*Walkers is the flattened sample count
// handed to downstream per-sample consumers, so the caller must size it
// against them.
type RunSpec struct {
	Labels  []string
	Initial []float64
	LogProb ports.LogProbFunc
	Walkers int
	Steps   int
	Discard int
	Seed    int64
}

// FlatCount returns the flattened sample size this spec will produce.
func (s RunSpec) FlatCount() int {
	return (s.Steps - s.Discard) * s.Walkers
}

func (s RunSpec) validate() error {
	if len(s.Labels) == 0 || len(s.Initial) != len(s.Labels) {
		return errors.InvalidInputf("fit spec needs matching labels and initial guess: labels=%d initial=%d",
			len(s.Labels), len(s.Initial))
	}
	if s.LogProb == nil {
		return errors.InvalidInput("fit spec needs a posterior function")
	}
	if s.Walkers <= 0 || s.Steps <= 0 {
		return errors.InvalidInputf("walker and step counts must be positive: walkers=%d steps=%d", s.Walkers, s.Steps)
	}
	if s.Discard < 0 || s.Discard >= s.Steps {
		return errors.InvalidInputf("discard %d incompatible with %d steps", s.Discard, s.Steps)
	}
	return nil
}

// Driver orchestrates ensemble sampling for either posterior: walker
// initialization, the chain run, burn-in discard, flattening, and the
// percentile summary. Convergence is not detected automatically: there is
// no acceptance-rate or autocorrelation check; the burn-in trace written
// through the diagnostics port is the only convergence signal.
type Driver struct {
	sampler     ports.EnsembleSamplerPort
	rng         ports.RNGPort
	diagnostics ports.DiagnosticsPort // optional
	log         *internal.Logger
}

// NewDriver creates a fit driver. diagnostics may be nil to skip trace and
// corner artifacts.
func NewDriver(sampler ports.EnsembleSamplerPort, rng ports.RNGPort, diagnostics ports.DiagnosticsPort) *Driver {
	return &Driver{
		sampler:     sampler,
		rng:         rng,
		diagnostics: diagnostics,
		log:         internal.DefaultLogger,
	}
}

// Run executes one MCMC fit and summarizes it. runID names the diagnostic
// artifacts; it has no statistical meaning.
func (d *Driver) Run(ctx context.Context, runID string, spec RunSpec) (*fit.Result, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	nDims := len(spec.Initial)
	jitter := d.rng.SeededStream("walker-init", spec.Seed)
	initial := make([][]float64, spec.Walkers)
	for w := range initial {
		pos := make([]float64, nDims)
		for dim := range pos {
			pos[dim] = spec.Initial[dim] + jitterSigma*jitter.NormFloat64()
		}
		initial[w] = pos
	}

	d.log.Debug("starting %s: %d walkers x %d steps (%d discard)", runID, spec.Walkers, spec.Steps, spec.Discard)
	chain, err := d.sampler.Run(ctx, spec.LogProb, initial, spec.Steps)
	if err != nil {
		return nil, errors.Wrapf(err, "ensemble run %s failed", runID)
	}

	if d.diagnostics != nil {
		// Diagnostic byproducts only; a failed write never fails the fit.
		if derr := d.diagnostics.WriteBurnInTrace(runID, spec.Labels, chain); derr != nil {
			d.log.Warn("burn-in trace for %s not written: %v", runID, derr)
		}
	}

	flat, err := chain.Flatten(spec.Discard)
	if err != nil {
		return nil, err
	}

	if d.diagnostics != nil {
		if derr := d.diagnostics.WriteCornerMatrix(runID, spec.Labels, flat); derr != nil {
			d.log.Warn("corner matrix for %s not written: %v", runID, derr)
		}
	}

	result := &fit.Result{
		Labels:        append([]string(nil), spec.Labels...),
		Estimates:     make(map[string]float64, nDims),
		Uncertainties: make(map[string]distribution.SigmaBounds, nDims),
		Samples:       make(map[string][]float64, nDims),
	}
	for dim, label := range spec.Labels {
		col := flat.Column(dim)
		result.Estimates[label] = distribution.Median(col)
		result.Uncertainties[label] = distribution.SigmaOf(col)
		result.Samples[label] = col
	}
	return result, nil
}
