package ports

import (
	"context"

	"photoeccentric/domain/orbit"
)

// TransitParams is the full forward-model input for one synthesis call.
// Time of inferior conjunction is fixed at 0. Limb darkening is explicit
// per call; implementations must not keep a process-wide default.
type TransitParams struct {
	PeriodDays            float64
	RadiusRatio           float64
	ScaledSemimajorAxis   float64
	Inclination           float64 // degrees
	Eccentricity          float64
	LongitudeOfPeriastron float64 // degrees
	LimbDarkening         orbit.LimbDarkening
}

// TransitModelPort synthesizes a normalized flux array for a time array
// (same unit as PeriodDays) under the given orbital parameters.
//
// Implementations must be safe to invoke concurrently from multiple
// walkers: no shared mutable state per call. The "uniform" limb-darkening
// law must be supported at minimum; unsupported laws return a descriptive
// error.
type TransitModelPort interface {
	Synthesize(ctx context.Context, time []float64, params TransitParams) ([]float64, error)
}
