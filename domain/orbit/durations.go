package orbit

import (
	"math"

	"photoeccentric/internal/errors"
)

// TransitDurationTotal computes T14 (first to fourth contact, seconds) for
// each element of the equal-length input slices, assuming a circular orbit.
//
//	T14 = (P/pi) * asin[(Rs/a) * sqrt((1+k)^2 - b^2) / sin i],  b = (a/Rs) cos i
//
// Periods are in seconds (convert with DaysToSeconds), inclinations in
// degrees. A grazing or non-transiting geometry pushes the asin argument
// past 1 and yields NaN for that element; callers must treat NaN as
// "undefined for this sample", not a failure. Inputs are never modified.
func TransitDurationTotal(periodSec, radiusRatio, scaledA, inclination []float64) ([]float64, error) {
	return transitDuration(periodSec, radiusRatio, scaledA, inclination, +1)
}

// TransitDurationFull computes T23 (second to third contact, seconds): the
// same expression as TransitDurationTotal with (1-k)^2 in place of (1+k)^2,
// excluding ingress and egress.
func TransitDurationFull(periodSec, radiusRatio, scaledA, inclination []float64) ([]float64, error) {
	return transitDuration(periodSec, radiusRatio, scaledA, inclination, -1)
}

func transitDuration(periodSec, radiusRatio, scaledA, inclination []float64, contactSign float64) ([]float64, error) {
	n := len(periodSec)
	if len(radiusRatio) != n || len(scaledA) != n || len(inclination) != n {
		return nil, errors.InvalidInput("transit duration inputs must have equal lengths")
	}

	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = durationScalar(periodSec[j], radiusRatio[j], scaledA[j], inclination[j], contactSign)
	}
	return out, nil
}

func durationScalar(periodSec, radiusRatio, scaledA, inclination, contactSign float64) float64 {
	incRad := degToRad(inclination)
	b := scaledA * math.Cos(incRad)
	edge := 1 + contactSign*radiusRatio

	// sqrt and asin both go NaN outside the transiting domain, which is
	// exactly the missing-value propagation the callers rely on.
	arg := (1.0 / scaledA) * math.Sqrt(edge*edge-b*b) / math.Sin(incRad)
	return (periodSec / math.Pi) * math.Asin(arg)
}

// TransitDurationTotalEcc is the eccentricity-corrected T14 for a single
// sample: the circular duration scaled by chi = sqrt(1-e^2)/(1+e sin w).
// The corrected form is deliberately scalar-only; the vectorized functions
// above never apply the correction.
func TransitDurationTotalEcc(periodSec, radiusRatio, scaledA, inclination, e, wDeg float64) float64 {
	return durationScalar(periodSec, radiusRatio, scaledA, inclination, +1) * eccFactor(e, wDeg)
}

// TransitDurationFullEcc is the eccentricity-corrected T23 for a single
// sample.
func TransitDurationFullEcc(periodSec, radiusRatio, scaledA, inclination, e, wDeg float64) float64 {
	return durationScalar(periodSec, radiusRatio, scaledA, inclination, -1) * eccFactor(e, wDeg)
}

func eccFactor(e, wDeg float64) float64 {
	return math.Sqrt(1-e*e) / (1 + e*math.Sin(degToRad(wDeg)))
}
