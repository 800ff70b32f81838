package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photoeccentric/internal/errors"
)

func TestTransitDurationsEdgeOnSun(t *testing.T) {
	// Earth-like orbit, edge on, k=0.1: T14 ~ 14.27 h, T23 ~ 11.68 h.
	periodSec := DaysToSeconds(365.25)
	aRs := SemimajorAxisFromPeriod(periodSec, SolarMassKg, SolarRadiusM)

	t14, err := TransitDurationTotal([]float64{periodSec}, []float64{0.1}, []float64{aRs}, []float64{90})
	require.NoError(t, err)
	t23, err := TransitDurationFull([]float64{periodSec}, []float64{0.1}, []float64{aRs}, []float64{90})
	require.NoError(t, err)

	assert.InDelta(t, 14.27, t14[0]/HoursToSeconds(1), 0.05)
	assert.InDelta(t, 11.68, t23[0]/HoursToSeconds(1), 0.05)
	assert.Greater(t, t14[0], t23[0])
}

func TestTransitDurationsNearEdgeOn(t *testing.T) {
	periodSec := DaysToSeconds(10)
	t14, err := TransitDurationTotal([]float64{periodSec}, []float64{0.1}, []float64{15}, []float64{89})
	require.NoError(t, err)
	t23, err := TransitDurationFull([]float64{periodSec}, []float64{0.1}, []float64{15}, []float64{89})
	require.NoError(t, err)

	assert.InDelta(t, 5.447, t14[0]/HoursToSeconds(1), 0.01)
	assert.InDelta(t, 4.389, t23[0]/HoursToSeconds(1), 0.01)
}

func TestTransitDurationGrazingIsNaN(t *testing.T) {
	// a/Rs=15 at i=80 puts the impact parameter at ~2.6, outside the disk.
	periodSec := DaysToSeconds(10)
	t14, err := TransitDurationTotal([]float64{periodSec}, []float64{0.1}, []float64{15}, []float64{80})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(t14[0]))

	// Element-wise: one grazing sample does not poison its neighbors.
	t14s, err := TransitDurationTotal(
		[]float64{periodSec, periodSec},
		[]float64{0.1, 0.1},
		[]float64{15, 15},
		[]float64{80, 89},
	)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(t14s[0]))
	assert.False(t, math.IsNaN(t14s[1]))
}

func TestTransitDurationLengthMismatch(t *testing.T) {
	_, err := TransitDurationTotal([]float64{1, 2}, []float64{0.1}, []float64{15}, []float64{89})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestTransitDurationInputsNotModified(t *testing.T) {
	periodSec := []float64{DaysToSeconds(10)}
	orig := periodSec[0]
	_, err := TransitDurationTotal(periodSec, []float64{0.1}, []float64{15}, []float64{89})
	require.NoError(t, err)
	assert.Equal(t, orig, periodSec[0])
}

func TestEccentricityCorrectedDurations(t *testing.T) {
	periodSec := DaysToSeconds(10)

	circular, err := TransitDurationTotal([]float64{periodSec}, []float64{0.1}, []float64{15}, []float64{89})
	require.NoError(t, err)

	// e=0 reduces to the circular duration.
	assert.InDelta(t, circular[0], TransitDurationTotalEcc(periodSec, 0.1, 15, 89, 0, 90), 1e-9)

	// Transit near periastron (w=90) is shorter than circular.
	ecc := TransitDurationTotalEcc(periodSec, 0.1, 15, 89, 0.3, 90)
	assert.Less(t, ecc, circular[0])

	// chi = sqrt(1-e^2)/(1+e sin w) exactly.
	chi := math.Sqrt(1-0.3*0.3) / (1 + 0.3)
	assert.InDelta(t, circular[0]*chi, ecc, 1e-6)

	full := TransitDurationFullEcc(periodSec, 0.1, 15, 89, 0.3, 90)
	assert.Less(t, full, ecc)
}
