// Package app orchestrates the two-stage photoeccentric pipeline: a
// circular-orbit transit fit, the per-sample bridge from posterior draws to
// the empirical g distribution, and the (w, e) fit against an independent
// stellar-density distribution.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"photoeccentric/domain/density"
	domfit "photoeccentric/domain/fit"
	"photoeccentric/domain/orbit"
	"photoeccentric/internal"
	"photoeccentric/internal/distribution"
	"photoeccentric/internal/errors"
	"photoeccentric/internal/fit"
	"photoeccentric/ports"
)

// SamplerGeometry is the ensemble shape of one MCMC stage.
type SamplerGeometry struct {
	Walkers int
	Steps   int
	Discard int
	Seed    int64
}

// FlatCount is the flattened sample size the geometry produces.
func (g SamplerGeometry) FlatCount() int {
	return (g.Steps - g.Discard) * g.Walkers
}

// TransitFitRequest fits (period, Rp/Rs, a/Rs, i) to a light curve. Period
// and time share the day unit; the initial guess follows the theta order
// of fit.TransitLabels.
type TransitFitRequest struct {
	TargetID string
	Time     []float64
	Flux     []float64
	FluxErr  []float64
	Initial  orbit.OrbitalParameters
	Geometry SamplerGeometry
}

// EccentricityFitRequest propagates a completed transit fit and an
// independently supplied true-density distribution (kg/m^3) into a (w, e)
// posterior. RhoStar must have exactly the transit fit's flattened sample
// count: one density draw per posterior draw.
type EccentricityFitRequest struct {
	TargetID   string
	TransitFit *domfit.Result
	RhoStar    []float64
	InitialW   float64 // degrees
	InitialE   float64
	Geometry   SamplerGeometry
}

// EccentricityOutcome carries the Stage 2 result together with the
// intermediate per-sample distributions.
type EccentricityOutcome struct {
	Fit      *domfit.Result
	GSamples []float64
	RhoCirc  []float64
	GErr     float64
}

// Service wires the fit driver, forward model, and optional persistence
// into the two-stage pipeline.
type Service struct {
	model   ports.TransitModelPort
	driver  *fit.Driver
	results ports.FitResultRepository // optional
	log     *internal.Logger
}

// NewService creates the pipeline service. results may be nil to skip
// persistence.
func NewService(model ports.TransitModelPort, driver *fit.Driver, results ports.FitResultRepository) *Service {
	return &Service{
		model:   model,
		driver:  driver,
		results: results,
		log:     internal.DefaultLogger,
	}
}

// FitTransit runs Stage 1: the circular-orbit light-curve fit.
func (s *Service) FitTransit(ctx context.Context, req TransitFitRequest) (*domfit.Result, error) {
	posterior, err := fit.NewTransitPosterior(s.model, req.Time, req.Flux, req.FluxErr, orbit.UniformLimbDarkening())
	if err != nil {
		return nil, err
	}

	run := &domfit.Run{
		ID:       uuid.New(),
		TargetID: req.TargetID,
		Stage:    domfit.StageTransit,
		Walkers:  req.Geometry.Walkers,
		Steps:    req.Geometry.Steps,
		Discard:  req.Geometry.Discard,
		Seed:     req.Geometry.Seed,
	}

	result, err := s.driver.Run(ctx, run.ID.String(), fit.RunSpec{
		Labels: fit.TransitLabels,
		Initial: []float64{
			req.Initial.Period,
			req.Initial.RadiusRatio,
			req.Initial.ScaledSemimajorAxis,
			req.Initial.Inclination,
		},
		LogProb: posterior.LogProb,
		Walkers: req.Geometry.Walkers,
		Steps:   req.Geometry.Steps,
		Discard: req.Geometry.Discard,
		Seed:    req.Geometry.Seed,
	})
	if err != nil {
		return nil, err
	}

	run.Result = result
	run.CreatedAt = time.Now().UTC()
	s.persist(ctx, run)
	return result, nil
}

// GDistribution bridges Stage 1 posterior draws and true-density draws
// into the empirical g distribution: per draw, the durations implied by
// (period, rprs, a/Rs, i), the circular density, and g. The density draw
// count must match the fit's flattened sample count exactly; mismatches
// fail fast rather than truncate.
func (s *Service) GDistribution(transitFit *domfit.Result, rhoStar []float64) (gs, rhoCirc []float64, err error) {
	if transitFit == nil {
		return nil, nil, errors.InvalidInput("g distribution requires a transit fit result")
	}
	perDays := transitFit.Samples["period"]
	rprs := transitFit.Samples["rprs"]
	ars := transitFit.Samples["a_rs"]
	inc := transitFit.Samples["i"]
	if len(perDays) == 0 {
		return nil, nil, errors.InvalidInput("transit fit result carries no period samples")
	}
	if len(rhoStar) != len(perDays) {
		return nil, nil, errors.InvalidInputf(
			"stellar density draws (%d) must match the flattened transit sample count (%d)",
			len(rhoStar), len(perDays))
	}

	perSec := orbit.DaysToSecondsSlice(perDays)
	t14, err := orbit.TransitDurationTotal(perSec, rprs, ars, inc)
	if err != nil {
		return nil, nil, err
	}
	t23, err := orbit.TransitDurationFull(perSec, rprs, ars, inc)
	if err != nil {
		return nil, nil, err
	}
	return density.GDistribution(rhoStar, perSec, rprs, t14, t23)
}

// FitEccentricity runs Stage 2: g distribution construction and the (w, e)
// fit against it.
func (s *Service) FitEccentricity(ctx context.Context, req EccentricityFitRequest) (*EccentricityOutcome, error) {
	gs, rhoCirc, err := s.GDistribution(req.TransitFit, req.RhoStar)
	if err != nil {
		return nil, err
	}

	_, gErr := distribution.MeanStdDev(gs)
	if !(gErr > 0) {
		return nil, errors.Sampler("g distribution has no finite spread; transit fit may not cover a transiting geometry")
	}
	posterior, err := fit.NewEccentricityPosterior(gs, gErr)
	if err != nil {
		return nil, err
	}

	run := &domfit.Run{
		ID:       uuid.New(),
		TargetID: req.TargetID,
		Stage:    domfit.StageEccentricity,
		Walkers:  req.Geometry.Walkers,
		Steps:    req.Geometry.Steps,
		Discard:  req.Geometry.Discard,
		Seed:     req.Geometry.Seed,
	}

	result, err := s.driver.Run(ctx, run.ID.String(), fit.RunSpec{
		Labels:  fit.EccentricityLabels,
		Initial: []float64{req.InitialW, req.InitialE},
		LogProb: posterior.LogProb,
		Walkers: req.Geometry.Walkers,
		Steps:   req.Geometry.Steps,
		Discard: req.Geometry.Discard,
		Seed:    req.Geometry.Seed,
	})
	if err != nil {
		return nil, err
	}

	run.Result = result
	run.CreatedAt = time.Now().UTC()
	s.persist(ctx, run)

	return &EccentricityOutcome{
		Fit:      result,
		GSamples: gs,
		RhoCirc:  rhoCirc,
		GErr:     gErr,
	}, nil
}

// persist saves a run when a repository is configured. Persistence is a
// side effect; a failed save is logged, not returned.
func (s *Service) persist(ctx context.Context, run *domfit.Run) {
	if s.results == nil {
		return
	}
	if err := s.results.SaveRun(ctx, run); err != nil {
		s.log.Warn("run %s not persisted: %v", run.ID, err)
	}
}
