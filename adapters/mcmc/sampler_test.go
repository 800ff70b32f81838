package mcmc

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoeccentric/internal/distribution"
	"photoeccentric/internal/errors"
)

// standardNormalLogProb is an analytically known target for recovery tests.
func standardNormalLogProb(theta []float64) float64 {
	return -0.5 * theta[0] * theta[0]
}

func initialCloud(walkers, dims int, spread float64) [][]float64 {
	pos := make([][]float64, walkers)
	for w := range pos {
		p := make([]float64, dims)
		for d := range p {
			p[d] = spread * float64(w-walkers/2) / float64(walkers)
		}
		pos[w] = p
	}
	return pos
}

func TestRunRecoversStandardNormal(t *testing.T) {
	sampler := NewEnsembleSampler(NewSeededRNG(), WithSeed(7))
	chain, err := sampler.Run(context.Background(), standardNormalLogProb, initialCloud(16, 1, 1), 2000)
	require.NoError(t, err)

	flat, err := chain.Flatten(500)
	require.NoError(t, err)
	col := flat.Column(0)

	mean, std := distribution.MeanStdDev(col)
	assert.InDelta(t, 0.0, mean, 0.15)
	assert.InDelta(t, 1.0, std, 0.15)
}

func TestRunDeterministicForFixedSeed(t *testing.T) {
	run := func(seed int64) []float64 {
		sampler := NewEnsembleSampler(NewSeededRNG(), WithSeed(seed), WithWorkers(4))
		chain, err := sampler.Run(context.Background(), standardNormalLogProb, initialCloud(8, 1, 1), 50)
		require.NoError(t, err)
		out := make([]float64, 0, 50*8)
		for s := 0; s < chain.Steps(); s++ {
			for w := 0; w < chain.Walkers(); w++ {
				out = append(out, chain.At(s, w, 0))
			}
		}
		return out
	}

	first := run(42)
	second := run(42)
	assert.Equal(t, first, second)

	other := run(43)
	assert.NotEqual(t, first, other)
}

func TestRunNaNPosteriorDegradesToRejection(t *testing.T) {
	// A posterior that goes NaN off the right half-line must not kill the
	// chain; those proposals are simply rejected.
	logProb := func(theta []float64) float64 {
		if theta[0] < 0 {
			return math.NaN()
		}
		return -0.5 * theta[0] * theta[0]
	}

	sampler := NewEnsembleSampler(NewSeededRNG(), WithSeed(11))
	initial := make([][]float64, 8)
	for w := range initial {
		initial[w] = []float64{0.5 + 0.01*float64(w)}
	}
	chain, err := sampler.Run(context.Background(), logProb, initial, 300)
	require.NoError(t, err)

	flat, err := chain.Flatten(50)
	require.NoError(t, err)
	for _, v := range flat.Column(0) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
}

func TestRunValidatesEnsembleShape(t *testing.T) {
	sampler := NewEnsembleSampler(NewSeededRNG())

	// Odd walker count.
	_, err := sampler.Run(context.Background(), standardNormalLogProb, initialCloud(7, 1, 1), 10)
	require.Error(t, err)
	assert.Equal(t, errors.CodeSamplerError, errors.GetCode(err))

	// Too few walkers for the dimension count.
	_, err = sampler.Run(context.Background(), standardNormalLogProb, initialCloud(4, 2, 1), 10)
	require.Error(t, err)

	// Ragged positions.
	ragged := [][]float64{{0, 0}, {0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}}
	_, err = sampler.Run(context.Background(), func([]float64) float64 { return 0 }, ragged, 10)
	require.Error(t, err)

	// No steps.
	_, err = sampler.Run(context.Background(), standardNormalLogProb, initialCloud(8, 1, 1), 0)
	require.Error(t, err)
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sampler := NewEnsembleSampler(NewSeededRNG())
	_, err := sampler.Run(ctx, standardNormalLogProb, initialCloud(8, 1, 1), 1000)
	require.Error(t, err)
}

func TestSeededRNGStreams(t *testing.T) {
	rng := NewSeededRNG()

	a := rng.SeededStream("walker-init", 42).Float64()
	b := rng.SeededStream("walker-init", 42).Float64()
	assert.Equal(t, a, b)

	c := rng.SeededStream("stretch-move", 42).Float64()
	assert.NotEqual(t, a, c)

	w0 := rng.WalkerStream("stretch-move", 42, 0).Float64()
	w1 := rng.WalkerStream("stretch-move", 42, 1).Float64()
	assert.NotEqual(t, w0, w1)
}
