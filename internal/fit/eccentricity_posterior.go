package fit

import (
	"math"

	"photoeccentric/domain/density"
	"photoeccentric/internal/errors"
)

// EccentricityLabels are the Stage 2 free parameters, in theta order:
// longitude of periastron first, eccentricity second.
var EccentricityLabels = []string{"w", "e"}

// EccentricityPosterior fits (w, e) to the empirical g distribution from
// Stage 1. The likelihood compares each g sample against the closed form
// g(e, w); NaN g samples (undefined geometry for that draw) are skipped.
type EccentricityPosterior struct {
	g    []float64
	gErr float64
}

// NewEccentricityPosterior binds the per-sample g distribution and its
// scalar spread.
func NewEccentricityPosterior(g []float64, gErr float64) (*EccentricityPosterior, error) {
	if len(g) == 0 {
		return nil, errors.InvalidInput("eccentricity posterior requires a non-empty g distribution")
	}
	if !(gErr > 0) {
		return nil, errors.InvalidInputf("g distribution spread must be positive, got %g", gErr)
	}
	return &EccentricityPosterior{g: g, gErr: gErr}, nil
}

// LogPrior is uniform: finite only for e in (0,1) and w in (-90,300)
// degrees.
func (p *EccentricityPosterior) LogPrior(theta []float64) float64 {
	w, e := theta[0], theta[1]
	if 0 < e && e < 1 && -90 < w && w < 300 {
		return 0
	}
	return math.Inf(-1)
}

// LogLikelihood is the Gaussian log-likelihood of the g samples against
// g(e, w).
func (p *EccentricityPosterior) LogLikelihood(theta []float64) float64 {
	w, e := theta[0], theta[1]
	model := density.GFromOrbit(e, w)
	sigma2 := p.gErr * p.gErr
	logSigma2 := math.Log(sigma2)

	var sum float64
	for _, g := range p.g {
		if math.IsNaN(g) {
			continue
		}
		diff := g - model
		sum += diff*diff/sigma2 + logSigma2
	}
	return -0.5 * sum
}

// LogProb is the log posterior with the same prior short-circuit as the
// transit fit.
func (p *EccentricityPosterior) LogProb(theta []float64) float64 {
	lp := p.LogPrior(theta)
	if math.IsInf(lp, -1) {
		return lp
	}
	return lp + p.LogLikelihood(theta)
}
