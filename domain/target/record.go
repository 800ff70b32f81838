// Package target defines the typed catalog record for a transiting
// planet and its host star. Archive values are parsed into named fields
// once at load time; there is no per-access string column lookup.
package target

import (
	"photoeccentric/domain/orbit"
	"photoeccentric/internal/errors"
)

// ID identifies a target in the catalog (e.g. a Kepler name).
type ID string

// Value is a catalog point value with asymmetric errors. ErrMinus is
// stored as a magnitude even when the archive quotes it negative.
type Value struct {
	Value    float64
	ErrMinus float64
	ErrPlus  float64
}

// Record is one catalog row, validated at load time.
type Record struct {
	ID ID

	// Planet parameters.
	PeriodDays            Value // orbital period (days)
	RadiusRatio           Value // Rp/Rs
	ScaledSemimajorAxis   Value // a/Rs
	Inclination           float64
	Eccentricity          float64
	LongitudeOfPeriastron float64

	// Stellar parameters (solar units; convert with orbit constants).
	StellarMass   Value // solar masses
	StellarRadius Value // solar radii

	LimbDarkening orbit.LimbDarkening
}

// StellarMassKg returns the stellar mass in kg.
func (r *Record) StellarMassKg() float64 {
	return r.StellarMass.Value * orbit.SolarMassKg
}

// StellarRadiusM returns the stellar radius in meters.
func (r *Record) StellarRadiusM() float64 {
	return r.StellarRadius.Value * orbit.SolarRadiusM
}

// Orbital assembles the record's point values into orbital parameters with
// the period in days.
func (r *Record) Orbital() orbit.OrbitalParameters {
	return orbit.OrbitalParameters{
		Period:                r.PeriodDays.Value,
		RadiusRatio:           r.RadiusRatio.Value,
		ScaledSemimajorAxis:   r.ScaledSemimajorAxis.Value,
		Inclination:           r.Inclination,
		Eccentricity:          r.Eccentricity,
		LongitudeOfPeriastron: r.LongitudeOfPeriastron,
	}
}

// Validate checks the physical plausibility constraints a loaded record
// must satisfy before it can seed a fit.
func (r *Record) Validate() error {
	if r.ID == "" {
		return errors.InvalidInput("target record has empty id")
	}
	if r.PeriodDays.Value <= 0 {
		return errors.InvalidInputf("target %s: period must be positive, got %g", r.ID, r.PeriodDays.Value)
	}
	if r.RadiusRatio.Value <= 0 || r.RadiusRatio.Value >= 1 {
		return errors.InvalidInputf("target %s: radius ratio must be in (0,1), got %g", r.ID, r.RadiusRatio.Value)
	}
	if r.ScaledSemimajorAxis.Value <= 1 {
		return errors.InvalidInputf("target %s: a/Rs must exceed 1, got %g", r.ID, r.ScaledSemimajorAxis.Value)
	}
	if r.Inclination <= 0 || r.Inclination > 90 {
		return errors.InvalidInputf("target %s: inclination must be in (0,90], got %g", r.ID, r.Inclination)
	}
	if r.StellarMass.Value <= 0 || r.StellarRadius.Value <= 0 {
		return errors.InvalidInputf("target %s: stellar mass and radius must be positive", r.ID)
	}
	return nil
}
