// Package transit implements the transit-model capability: analytic
// synthesis of a normalized light curve for a uniform stellar disk occulted
// by an opaque planetary disk, with full Keplerian projected-separation
// geometry. The circular-orbit Stage 1 fit always calls it with
// eccentricity 0, but the adapter supports e != 0 so eccentricity-corrected
// curves can be injected in tests.
package transit

import (
	"context"
	"math"

	"photoeccentric/domain/orbit"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// Model is a stateless uniform-disk occultation synthesizer. It holds no
// per-call state and is safe for concurrent use from multiple walkers.
type Model struct{}

// NewModel creates the forward model adapter.
func NewModel() *Model {
	return &Model{}
}

// Synthesize returns the normalized flux at each time (same unit as
// params.PeriodDays, inferior conjunction at t=0). Only the "uniform"
// limb-darkening law is supported; any other law is a descriptive error,
// never a silent fallback.
func (m *Model) Synthesize(_ context.Context, time []float64, params ports.TransitParams) ([]float64, error) {
	if params.LimbDarkening.Law != orbit.LimbDarkeningUniform {
		return nil, errors.InvalidInputf("unsupported limb darkening law %q (supported: %q)",
			params.LimbDarkening.Law, orbit.LimbDarkeningUniform)
	}
	if params.PeriodDays <= 0 {
		return nil, errors.InvalidInput("transit model requires a positive period")
	}
	if params.Eccentricity < 0 || params.Eccentricity >= 1 {
		return nil, errors.InvalidInputf("transit model requires eccentricity in [0,1), got %g", params.Eccentricity)
	}

	k := params.RadiusRatio
	geo := newOrbitGeometry(params)

	flux := make([]float64, len(time))
	for i, t := range time {
		z, inFront := geo.projectedSeparation(t)
		if !inFront {
			// Near secondary conjunction the planet is behind the star;
			// the planetary occultation is not modeled.
			flux[i] = 1
			continue
		}
		flux[i] = 1 - uniformObscuration(z, k)
	}
	return flux, nil
}

// uniformObscuration is the fractional flux blocked by an opaque disk of
// radius ratio k at projected center separation z (stellar radii), for a
// uniformly bright star: the circle-overlap area over pi.
func uniformObscuration(z, k float64) float64 {
	switch {
	case math.IsNaN(z) || z >= 1+k:
		return 0
	case z <= 1-k:
		return k * k
	case z <= k-1:
		// Planet disk covers the star entirely (k > 1; not physical for
		// the sampled priors but kept for completeness).
		return 1
	}
	k2, z2 := k*k, z*z
	kap0 := math.Acos((k2 + z2 - 1) / (2 * k * z))
	kap1 := math.Acos((1 - k2 + z2) / (2 * z))
	half := (1 + z2 - k2) / 2
	area := k2*kap0 + kap1 - math.Sqrt(z2-half*half)
	return area / math.Pi
}

// orbitGeometry precomputes the orbit-wide quantities for projected
// separation as a function of time.
type orbitGeometry struct {
	period   float64
	a        float64 // a/Rs
	e        float64
	sinI     float64
	wRad     float64
	meanConj float64 // mean anomaly at inferior conjunction
	circular bool
}

func newOrbitGeometry(p ports.TransitParams) orbitGeometry {
	g := orbitGeometry{
		period:   p.PeriodDays,
		a:        p.ScaledSemimajorAxis,
		e:        p.Eccentricity,
		sinI:     math.Sin(p.Inclination * (math.Pi / 180)),
		wRad:     p.LongitudeOfPeriastron * (math.Pi / 180),
		circular: p.Eccentricity == 0,
	}
	if !g.circular {
		// True anomaly at inferior conjunction is 90deg - w; convert
		// through the eccentric anomaly to the mean anomaly so t=0 lands
		// on conjunction.
		nuConj := math.Pi/2 - g.wRad
		eConj := 2 * math.Atan(math.Sqrt((1-g.e)/(1+g.e))*math.Tan(nuConj/2))
		g.meanConj = eConj - g.e*math.Sin(eConj)
	}
	return g
}

// projectedSeparation returns the planet-star center distance in stellar
// radii at time t, and whether the planet is on the near side of the star.
func (g orbitGeometry) projectedSeparation(t float64) (z float64, inFront bool) {
	if g.circular {
		// theta is the angle from inferior conjunction.
		theta := 2 * math.Pi * t / g.period
		sinT, cosT := math.Sincos(theta)
		z = g.a * math.Sqrt(sinT*sinT+cosT*cosT*(1-g.sinI*g.sinI))
		// Wrap |theta| mod 2pi into (-pi, pi]; the planet is in front for
		// the half-orbit centered on conjunction.
		phase := math.Mod(theta, 2*math.Pi)
		if phase > math.Pi {
			phase -= 2 * math.Pi
		} else if phase < -math.Pi {
			phase += 2 * math.Pi
		}
		return z, math.Abs(phase) < math.Pi/2
	}

	mean := g.meanConj + 2*math.Pi*t/g.period
	ecc := solveKepler(mean, g.e)
	// True anomaly and separation from the eccentric anomaly.
	nu := 2 * math.Atan2(math.Sqrt(1+g.e)*math.Sin(ecc/2), math.Sqrt(1-g.e)*math.Cos(ecc/2))
	r := g.a * (1 - g.e*math.Cos(ecc))
	sinNW := math.Sin(nu + g.wRad)
	z = r * math.Sqrt(1-g.sinI*g.sinI*sinNW*sinNW)
	return z, sinNW > 0
}

// solveKepler inverts M = E - e sin E by Newton iteration. Converges in a
// handful of steps for e < 1.
func solveKepler(mean, e float64) float64 {
	ecc := mean
	for i := 0; i < 30; i++ {
		delta := (ecc - e*math.Sin(ecc) - mean) / (1 - e*math.Cos(ecc))
		ecc -= delta
		if math.Abs(delta) < 1e-12 {
			break
		}
	}
	return ecc
}

var _ ports.TransitModelPort = (*Model)(nil)
