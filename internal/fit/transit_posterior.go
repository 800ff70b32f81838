// Package fit defines the two log-posteriors of the photoeccentric
// pipeline and the driver that runs ensemble MCMC against them.
package fit

import (
	"context"
	"math"

	"photoeccentric/domain/orbit"
	"photoeccentric/internal/errors"
	"photoeccentric/ports"
)

// TransitLabels are the Stage 1 free parameters, in theta order.
var TransitLabels = []string{"period", "rprs", "a_rs", "i"}

// TransitPosterior fits (period, Rp/Rs, a/Rs, i) to an observed light
// curve under the circular-orbit assumption: every forward-model call
// fixes eccentricity at 0. Instances are immutable after construction and
// safe for concurrent evaluation.
type TransitPosterior struct {
	model   ports.TransitModelPort
	time    []float64
	flux    []float64
	fluxErr []float64
	limb    orbit.LimbDarkening
}

// NewTransitPosterior validates the light curve arrays and binds them to
// the forward model.
func NewTransitPosterior(model ports.TransitModelPort, time, flux, fluxErr []float64, limb orbit.LimbDarkening) (*TransitPosterior, error) {
	if len(time) == 0 {
		return nil, errors.InvalidInput("transit posterior requires a non-empty light curve")
	}
	if len(flux) != len(time) || len(fluxErr) != len(time) {
		return nil, errors.InvalidInputf("light curve arrays must have equal lengths: time=%d flux=%d err=%d",
			len(time), len(flux), len(fluxErr))
	}
	return &TransitPosterior{model: model, time: time, flux: flux, fluxErr: fluxErr, limb: limb}, nil
}

// LogPrior is uniform: finite only for rprs in (0,1) and inclination in
// (0,90) degrees. Period and a/Rs are left unconstrained; the likelihood
// alone localizes them.
func (p *TransitPosterior) LogPrior(theta []float64) float64 {
	rprs, inc := theta[1], theta[3]
	if 0 < rprs && rprs < 1 && 0 < inc && inc < 90 {
		return 0
	}
	return math.Inf(-1)
}

// LogLikelihood is the per-point Gaussian log-likelihood of the observed
// flux against the circular-orbit model curve.
func (p *TransitPosterior) LogLikelihood(theta []float64) float64 {
	model, err := p.model.Synthesize(context.Background(), p.time, ports.TransitParams{
		PeriodDays:            theta[0],
		RadiusRatio:           theta[1],
		ScaledSemimajorAxis:   theta[2],
		Inclination:           theta[3],
		Eccentricity:          0,
		LongitudeOfPeriastron: 0,
		LimbDarkening:         p.limb,
	})
	if err != nil {
		// A failed synthesis loses this sample, never the chain.
		return math.Inf(-1)
	}

	var sum float64
	for i := range p.flux {
		sigma2 := p.fluxErr[i] * p.fluxErr[i]
		diff := p.flux[i] - model[i]
		sum += diff*diff/sigma2 + math.Log(sigma2)
	}
	return -0.5 * sum
}

// LogProb is the log posterior. An out-of-support draw short-circuits
// before the forward model is synthesized.
func (p *TransitPosterior) LogProb(theta []float64) float64 {
	lp := p.LogPrior(theta)
	if math.IsInf(lp, -1) {
		return lp
	}
	return lp + p.LogLikelihood(theta)
}
