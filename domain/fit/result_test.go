package fit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoeccentric/internal/distribution"
)

func TestChainShapeValidation(t *testing.T) {
	_, err := NewChain(0, 8, 2)
	require.Error(t, err)
	_, err = NewChain(10, 0, 2)
	require.Error(t, err)
	_, err = NewChain(10, 8, 0)
	require.Error(t, err)
}

func TestChainRoundTrip(t *testing.T) {
	chain, err := NewChain(2, 3, 2)
	require.NoError(t, err)

	chain.SetWalker(0, 1, []float64{1.5, -2.5})
	assert.Equal(t, 1.5, chain.At(0, 1, 0))
	assert.Equal(t, -2.5, chain.At(0, 1, 1))
	assert.Equal(t, 0.0, chain.At(1, 1, 0))
}

func TestFlattenDiscardsBurnIn(t *testing.T) {
	chain, err := NewChain(4, 2, 1)
	require.NoError(t, err)
	for s := 0; s < 4; s++ {
		for w := 0; w < 2; w++ {
			chain.SetWalker(s, w, []float64{float64(10*s + w)})
		}
	}

	flat, err := chain.Flatten(2)
	require.NoError(t, err)
	assert.Equal(t, 4, flat.Len())
	assert.Equal(t, 1, flat.Dims())
	// Steps 2 and 3 survive, walker-major within each step.
	assert.Equal(t, []float64{20, 21, 30, 31}, flat.Column(0))
}

func TestFlattenRejectsImpossibleDiscard(t *testing.T) {
	chain, err := NewChain(4, 2, 1)
	require.NoError(t, err)

	_, err = chain.Flatten(4)
	require.Error(t, err)
	_, err = chain.Flatten(-1)
	require.Error(t, err)
}

func TestResultSigmaAveragesBounds(t *testing.T) {
	r := &Result{
		Labels:    []string{"e"},
		Estimates: map[string]float64{"e": 0.3},
		Uncertainties: map[string]distribution.SigmaBounds{
			"e": {Minus: 0.1, Plus: 0.3},
		},
		Samples: map[string][]float64{"e": {0.2, 0.3, 0.4}},
	}
	assert.InDelta(t, 0.2, r.Sigma("e"), 1e-12)
	assert.Equal(t, 3, r.SampleCount())
}
