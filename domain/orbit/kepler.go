package orbit

import "math"

// SemimajorAxisFromPeriod derives a/Rs from Kepler's third law:
//
//	a/Rs = cbrt(P^2 G M / (4 pi^2 Rs^3))
//
// Period in seconds, stellar mass in kg, stellar radius in meters. For
// Earth-Sun inputs this is ~215.
func SemimajorAxisFromPeriod(periodSec, stellarMassKg, stellarRadiusM float64) float64 {
	r3 := stellarRadiusM * stellarRadiusM * stellarRadiusM
	return math.Cbrt((periodSec * periodSec * G * stellarMassKg) / (4 * math.Pi * math.Pi * r3))
}

// InclinationFromImpactParameter converts an impact parameter b and scaled
// semi-major axis a/Rs to an inclination in degrees: i = acos(b / (a/Rs)).
func InclinationFromImpactParameter(b, scaledA float64) float64 {
	return radToDeg(math.Acos(b / scaledA))
}
