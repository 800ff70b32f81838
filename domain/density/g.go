// Package density implements the photoeccentric density-ratio statistic:
// the cube root of the ratio between the stellar density implied by a
// circular-orbit transit fit and the independently known true density, and
// its algebraic relationship to (eccentricity, longitude of periastron).
package density

import (
	"math"

	"photoeccentric/domain/orbit"
	"photoeccentric/internal/errors"
)

// CircularDensity returns the stellar density (kg/m^3) implied by transit
// observables under a perfectly circular orbit:
//
//	rho_circ = (2 sqrt(k) / sqrt(T14^2 - T23^2))^3 * 3P / (G pi^2)
//
// Durations and period are in seconds. When T14 < T23 the geometry is
// unphysical and the result is NaN, a missing value rather than an error,
// since bulk distributions must tolerate undefined samples.
func CircularDensity(radiusRatio, t14, t23, periodSec float64) float64 {
	if t14 < t23 {
		return math.NaN()
	}
	delta := radiusRatio * radiusRatio
	base := 2 * math.Pow(delta, 0.25) / math.Sqrt(t14*t14-t23*t23)
	return base * base * base * (3 * periodSec / (orbit.G * math.Pi * math.Pi))
}

// FromScaledSemimajorAxis returns the stellar density (kg/m^3) implied by
// Kepler's third law for a known period and a/Rs:
//
//	rho = 3 pi (a/Rs)^3 / (G P^2)
//
// This is the density a circular-orbit fit recovers when the geometry is
// exact, so it anchors g at 1 for circular injections.
func FromScaledSemimajorAxis(periodSec, scaledA float64) float64 {
	return 3 * math.Pi * scaledA * scaledA * scaledA / (orbit.G * periodSec * periodSec)
}

// GFromDensities returns g = cbrt(rho_circ / rho_true).
func GFromDensities(rhoCirc, rhoTrue float64) float64 {
	return math.Cbrt(rhoCirc / rhoTrue)
}

// GFromOrbit returns the closed-form g implied by an orbit:
//
//	g(e, w) = (1 + e sin w) / sqrt(1 - e^2)
//
// w is in degrees. A circular orbit gives exactly 1.
func GFromOrbit(e, wDeg float64) float64 {
	if e == 0 {
		return 1.0
	}
	w := wDeg * (math.Pi / 180.0)
	return (1 + e*math.Sin(w)) / math.Sqrt(1-e*e)
}

// EccentricityFromG inverts GFromOrbit for a known longitude of periastron:
//
//	e = sqrt(2) * sqrt(2g^4 - g^2 cos 2w - g^2 - 2 sin w) / (2 (g^2 + sin^2 w))
//
// The inversion is two-valued and ill-conditioned near the domain edge;
// when the radicand is negative the (g, w) pair is outside the physical
// domain and the result is NaN. NaN propagates, it is never raised.
func EccentricityFromG(g, wDeg float64) float64 {
	w := wDeg * (math.Pi / 180.0)
	sinW := math.Sin(w)
	g2 := g * g
	radicand := 2*g2*g2 - g2*math.Cos(2*w) - g2 - 2*sinW
	if radicand < 0 {
		return math.NaN()
	}
	return math.Sqrt2 * math.Sqrt(radicand) / (2 * (g2 + sinW*sinW))
}

// GDistribution bridges per-sample posterior draws of transit observables
// and true-density draws into a per-sample g draw. All five inputs are
// parallel sequences of equal length; a mismatch is a caller error. The
// returned rho_circ samples carry NaN wherever T14 < T23, and those NaNs
// flow into the g samples.
func GDistribution(rhoTrue, periodSec, radiusRatio, t14, t23 []float64) (gs, rhoCirc []float64, err error) {
	n := len(rhoTrue)
	if len(periodSec) != n || len(radiusRatio) != n || len(t14) != n || len(t23) != n {
		return nil, nil, errors.InvalidInputf(
			"g distribution inputs must have equal lengths: rho=%d period=%d rprs=%d t14=%d t23=%d",
			n, len(periodSec), len(radiusRatio), len(t14), len(t23))
	}

	gs = make([]float64, n)
	rhoCirc = make([]float64, n)
	for j := 0; j < n; j++ {
		rhoCirc[j] = CircularDensity(radiusRatio[j], t14[j], t23[j], periodSec[j])
		gs[j] = GFromDensities(rhoCirc[j], rhoTrue[j])
	}
	return gs, rhoCirc, nil
}
