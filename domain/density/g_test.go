package density

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoeccentric/domain/orbit"
	"photoeccentric/internal/errors"
)

func TestCircularDensityRecoversStellarDensity(t *testing.T) {
	// An exactly circular edge-on transit implies the true stellar density.
	periodSec := orbit.DaysToSeconds(365.25)
	aRs := orbit.SemimajorAxisFromPeriod(periodSec, orbit.SolarMassKg, orbit.SolarRadiusM)

	t14, err := orbit.TransitDurationTotal([]float64{periodSec}, []float64{0.1}, []float64{aRs}, []float64{90})
	require.NoError(t, err)
	t23, err := orbit.TransitDurationFull([]float64{periodSec}, []float64{0.1}, []float64{aRs}, []float64{90})
	require.NoError(t, err)

	rhoSun := orbit.SolarMassKg / (4.0 / 3.0 * math.Pi * math.Pow(orbit.SolarRadiusM, 3))
	rhoCirc := CircularDensity(0.1, t14[0], t23[0], periodSec)
	assert.InEpsilon(t, rhoSun, rhoCirc, 0.001)
}

func TestFromScaledSemimajorAxis(t *testing.T) {
	// a/Rs=15 at P=10 d implies ~638 kg/m^3.
	assert.InDelta(t, 638.4, FromScaledSemimajorAxis(orbit.DaysToSeconds(10), 15), 0.5)

	// The Earth-Sun geometry implies the solar density.
	periodSec := orbit.DaysToSeconds(365.25)
	aRs := orbit.SemimajorAxisFromPeriod(periodSec, orbit.SolarMassKg, orbit.SolarRadiusM)
	rhoSun := orbit.SolarMassKg / (4.0 / 3.0 * math.Pi * math.Pow(orbit.SolarRadiusM, 3))
	assert.InEpsilon(t, rhoSun, FromScaledSemimajorAxis(periodSec, aRs), 1e-6)
}

func TestCircularDensityInvertedDurationsAreNaN(t *testing.T) {
	assert.True(t, math.IsNaN(CircularDensity(0.1, 100, 200, 86400)))
}

func TestGFromOrbitCircularIsExactlyOne(t *testing.T) {
	for _, w := range []float64{-90, 0, 45, 90, 300} {
		assert.Equal(t, 1.0, GFromOrbit(0, w))
	}
}

func TestGFromOrbitKnownValues(t *testing.T) {
	assert.InDelta(t, 1.27066, GFromOrbit(0.3, 45), 1e-4)
	assert.InDelta(t, 1.36277, GFromOrbit(0.3, 90), 1e-4)
	// Transit near apoastron depresses g below 1.
	assert.Less(t, GFromOrbit(0.3, -90), 1.0)
}

func TestEccentricityFromG(t *testing.T) {
	// The inversion follows the quadratic-solution branch, not the direct
	// algebraic inverse of GFromOrbit.
	assert.InDelta(t, 0.54772, EccentricityFromG(GFromOrbit(0.3, 90), 90), 1e-4)
	assert.InDelta(t, 0.49429, EccentricityFromG(GFromOrbit(0.3, 45), 45), 1e-4)

	// Negative radicand: no physical eccentricity for this (g, w).
	assert.True(t, math.IsNaN(EccentricityFromG(0.5, 90)))
}

func TestGFromDensities(t *testing.T) {
	assert.InDelta(t, 2.0, GFromDensities(8, 1), 1e-12)
	assert.InDelta(t, 1.0, GFromDensities(1410, 1410), 1e-12)
}

func TestGDistributionPropagatesNaN(t *testing.T) {
	periodSec := orbit.DaysToSeconds(10)
	rhoTrue := []float64{1400, 1400}
	// First sample has T14 < T23; the NaN must flow into g without
	// disturbing the second sample.
	gs, rhoCirc, err := GDistribution(
		rhoTrue,
		[]float64{periodSec, periodSec},
		[]float64{0.1, 0.1},
		[]float64{100, 20000},
		[]float64{200, 16000},
	)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rhoCirc[0]))
	assert.True(t, math.IsNaN(gs[0]))
	assert.False(t, math.IsNaN(gs[1]))
}

func TestGDistributionLengthMismatch(t *testing.T) {
	_, _, err := GDistribution(
		[]float64{1400},
		[]float64{864000, 864000},
		[]float64{0.1, 0.1},
		[]float64{20000, 20000},
		[]float64{16000, 16000},
	)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
