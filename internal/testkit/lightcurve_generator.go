// Package testkit provides deterministic fixtures for the pipeline tests:
// a seeded synthetic light-curve generator, a g-distribution generator, and
// an in-memory run repository.
package testkit

import (
	"context"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"photoeccentric/adapters/transit"
	"photoeccentric/domain/density"
	"photoeccentric/domain/orbit"
	"photoeccentric/ports"
)

// LightCurveConfig configures the synthetic light-curve generator.
type LightCurveConfig struct {
	PeriodDays          float64
	RadiusRatio         float64
	ScaledSemimajorAxis float64
	Inclination         float64 // degrees
	Eccentricity        float64
	LongitudeDeg        float64
	CadenceDays         float64
	SpanDays            float64
	NoiseSigma          float64
	Seed                uint64
}

// DefaultLightCurveConfig returns a clean hot-Jupiter-like configuration:
// a deep transit, near-edge-on, with photon noise well below the depth.
func DefaultLightCurveConfig() LightCurveConfig {
	return LightCurveConfig{
		PeriodDays:          10.0,
		RadiusRatio:         0.1,
		ScaledSemimajorAxis: 15.0,
		Inclination:         89.0,
		Eccentricity:        0.0,
		LongitudeDeg:        90.0,
		CadenceDays:         0.0007, // ~1 minute
		SpanDays:            0.6,    // one transit window centered on mid-transit
		NoiseSigma:          1e-4,
		Seed:                42,
	}
}

// LightCurve is a synthetic observation with known ground truth.
type LightCurve struct {
	Time    []float64
	Flux    []float64
	FluxErr []float64
	Truth   orbit.OrbitalParameters
}

// GenerateLightCurve synthesizes a noisy light curve from the analytic
// transit model. The time axis is centered on zero orbital phase so a
// single transit sits mid-window.
func GenerateLightCurve(cfg LightCurveConfig) (*LightCurve, error) {
	n := int(cfg.SpanDays/cfg.CadenceDays) + 1
	time := make([]float64, n)
	for i := range time {
		time[i] = -cfg.SpanDays/2 + float64(i)*cfg.CadenceDays
	}

	truth := orbit.OrbitalParameters{
		Period:                cfg.PeriodDays,
		RadiusRatio:           cfg.RadiusRatio,
		ScaledSemimajorAxis:   cfg.ScaledSemimajorAxis,
		Inclination:           cfg.Inclination,
		Eccentricity:          cfg.Eccentricity,
		LongitudeOfPeriastron: cfg.LongitudeDeg,
	}

	model := transit.NewModel()
	flux, err := model.Synthesize(context.Background(), time, ports.TransitParams{
		PeriodDays:            truth.Period,
		RadiusRatio:           truth.RadiusRatio,
		ScaledSemimajorAxis:   truth.ScaledSemimajorAxis,
		Inclination:           truth.Inclination,
		Eccentricity:          truth.Eccentricity,
		LongitudeOfPeriastron: truth.LongitudeOfPeriastron,
		LimbDarkening:         orbit.UniformLimbDarkening(),
	})
	if err != nil {
		return nil, err
	}

	noise := distuv.Normal{
		Mu:    0,
		Sigma: cfg.NoiseSigma,
		Src:   rand.NewSource(cfg.Seed),
	}
	fluxErr := make([]float64, n)
	for i := range flux {
		flux[i] += noise.Rand()
		fluxErr[i] = cfg.NoiseSigma
	}

	return &LightCurve{Time: time, Flux: flux, FluxErr: fluxErr, Truth: truth}, nil
}

// GenerateGSamples draws a Gaussian scatter around the closed-form g(e, w).
// Tests use it to check (w, e) recovery without running the transit stage.
func GenerateGSamples(e, wDeg, sigma float64, n int, seed uint64) []float64 {
	center := density.GFromOrbit(e, wDeg)
	noise := distuv.Normal{
		Mu:    center,
		Sigma: sigma,
		Src:   rand.NewSource(seed),
	}
	gs := make([]float64, n)
	for i := range gs {
		gs[i] = noise.Rand()
	}
	return gs
}

// GenerateDensitySamples draws a Gaussian true-density distribution in
// kg/m^3, sized to match a flattened posterior.
func GenerateDensitySamples(mean, sigma float64, n int, seed uint64) []float64 {
	noise := distuv.Normal{
		Mu:    mean,
		Sigma: sigma,
		Src:   rand.NewSource(seed),
	}
	rho := make([]float64, n)
	for i := range rho {
		rho[i] = noise.Rand()
	}
	return rho
}
