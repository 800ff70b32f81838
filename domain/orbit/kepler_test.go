package orbit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemimajorAxisFromPeriodEarthSun(t *testing.T) {
	aRs := SemimajorAxisFromPeriod(DaysToSeconds(365.25), SolarMassKg, SolarRadiusM)
	assert.InDelta(t, 215.0, aRs, 0.5)
}

func TestSemimajorAxisScalesWithPeriod(t *testing.T) {
	// Kepler III: a ~ P^(2/3).
	a1 := SemimajorAxisFromPeriod(DaysToSeconds(10), SolarMassKg, SolarRadiusM)
	a8 := SemimajorAxisFromPeriod(DaysToSeconds(80), SolarMassKg, SolarRadiusM)
	assert.InDelta(t, 4.0, a8/a1, 1e-9)
}

func TestInclinationFromImpactParameter(t *testing.T) {
	assert.InDelta(t, 90.0, InclinationFromImpactParameter(0, 15), 1e-9)

	// b = a cos i round-trips.
	inc := InclinationFromImpactParameter(0.5, 15)
	assert.Greater(t, inc, 0.0)
	assert.Less(t, inc, 90.0)
	assert.InDelta(t, 0.5, 15*math.Cos(degToRad(inc)), 1e-9)
}

func TestUnitConversions(t *testing.T) {
	assert.Equal(t, 86400.0, DaysToSeconds(1))
	assert.Equal(t, 1.0, SecondsToDays(86400))
	assert.Equal(t, 3600.0, HoursToSeconds(1))

	days := []float64{1, 2}
	secs := DaysToSecondsSlice(days)
	assert.Equal(t, []float64{86400, 172800}, secs)
	assert.Equal(t, []float64{1, 2}, days)
}
