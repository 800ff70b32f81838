package fit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoeccentric/adapters/mcmc"
	"photoeccentric/domain/fit"
	"photoeccentric/internal/distribution"
	"photoeccentric/internal/testkit"
)

// failingDiagnostics always errors; the driver must treat that as a warning.
type failingDiagnostics struct {
	traceCalls  int
	cornerCalls int
}

func (d *failingDiagnostics) WriteBurnInTrace(string, []string, *fit.Chain) error {
	d.traceCalls++
	return assert.AnError
}

func (d *failingDiagnostics) WriteCornerMatrix(string, []string, *fit.FlatSamples) error {
	d.cornerCalls++
	return assert.AnError
}

func gaussianSpec(walkers, steps, discard int) RunSpec {
	return RunSpec{
		Labels:  []string{"x"},
		Initial: []float64{0},
		LogProb: func(theta []float64) float64 { return -0.5 * theta[0] * theta[0] },
		Walkers: walkers,
		Steps:   steps,
		Discard: discard,
		Seed:    42,
	}
}

func newTestDriver(diag *failingDiagnostics) *Driver {
	rng := mcmc.NewSeededRNG()
	sampler := mcmc.NewEnsembleSampler(rng, mcmc.WithSeed(42))
	if diag == nil {
		return NewDriver(sampler, rng, nil)
	}
	return NewDriver(sampler, rng, diag)
}

func TestDriverRunSummarizesGaussian(t *testing.T) {
	driver := newTestDriver(nil)
	result, err := driver.Run(context.Background(), "gauss", gaussianSpec(16, 1500, 500))
	require.NoError(t, err)

	assert.Equal(t, []string{"x"}, result.Labels)
	assert.InDelta(t, 0.0, result.Estimates["x"], 0.2)

	bounds := result.Uncertainties["x"]
	assert.InDelta(t, 1.0, bounds.Minus, 0.3)
	assert.InDelta(t, 1.0, bounds.Plus, 0.3)
	assert.InDelta(t, 1.0, result.Sigma("x"), 0.3)

	// (steps - discard) * walkers samples per parameter.
	assert.Equal(t, 1000*16, result.SampleCount())
	assert.Len(t, result.Samples["x"], 1000*16)
}

func TestDriverRunDeterministic(t *testing.T) {
	first, err := newTestDriver(nil).Run(context.Background(), "a", gaussianSpec(8, 100, 20))
	require.NoError(t, err)
	second, err := newTestDriver(nil).Run(context.Background(), "b", gaussianSpec(8, 100, 20))
	require.NoError(t, err)
	assert.Equal(t, first.Samples["x"], second.Samples["x"])
}

func TestDriverDiagnosticsFailureDoesNotFailRun(t *testing.T) {
	diag := &failingDiagnostics{}
	result, err := newTestDriver(diag).Run(context.Background(), "diag", gaussianSpec(8, 100, 20))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, diag.traceCalls)
	assert.Equal(t, 1, diag.cornerCalls)
}

func TestDriverSpecValidation(t *testing.T) {
	driver := newTestDriver(nil)

	spec := gaussianSpec(8, 100, 20)
	spec.LogProb = nil
	_, err := driver.Run(context.Background(), "bad", spec)
	require.Error(t, err)

	spec = gaussianSpec(8, 100, 100)
	_, err = driver.Run(context.Background(), "bad", spec)
	require.Error(t, err, "discard equal to steps leaves no samples")

	spec = gaussianSpec(8, 100, 20)
	spec.Initial = []float64{0, 0}
	_, err = driver.Run(context.Background(), "bad", spec)
	require.Error(t, err)

	spec = gaussianSpec(0, 100, 20)
	_, err = driver.Run(context.Background(), "bad", spec)
	require.Error(t, err)
}

func TestRunSpecFlatCount(t *testing.T) {
	assert.Equal(t, 48000, gaussianSpec(32, 2000, 500).FlatCount())
}

func TestDriverRecoversEccentricityFromG(t *testing.T) {
	if testing.Short() {
		t.Skip("full-geometry MCMC run")
	}

	// A noisy g distribution around g(e=0.3, w=45 deg).
	gs := testkit.GenerateGSamples(0.3, 45, 0.02, 4800, 42)
	_, gErr := distribution.MeanStdDev(gs)
	require.Greater(t, gErr, 0.0)

	posterior, err := NewEccentricityPosterior(gs, gErr)
	require.NoError(t, err)

	// g(e, w) is constant along a ridge in the (w, e) plane, so the
	// walkers must start near the ridge segment containing the truth. A
	// start on a distant segment, e.g. (90, 0.1), converges tightly to a
	// different (w, e) with the same g.
	result, err := newTestDriver(nil).Run(context.Background(), "ecc-recovery", RunSpec{
		Labels:  EccentricityLabels,
		Initial: []float64{45, 0.25},
		LogProb: posterior.LogProb,
		Walkers: 32,
		Steps:   2000,
		Discard: 500,
		Seed:    42,
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.3, result.Estimates["e"], 0.07)
	assert.InDelta(t, 45.0, result.Estimates["w"], 20.0)
	assert.Greater(t, result.Sigma("e"), 0.0)
	assert.Greater(t, result.Sigma("w"), 0.0)
	assert.Equal(t, (2000-500)*32, result.SampleCount())
}
