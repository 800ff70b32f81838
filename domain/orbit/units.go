package orbit

import "math"

// Physical constants (SI).
const (
	// G is the Newtonian gravitational constant (m^3 kg^-1 s^-2).
	G = 6.67430e-11

	// SolarMassKg and SolarRadiusM convert catalog values quoted in solar
	// units into SI before they reach Kepler's third law.
	SolarMassKg  = 1.98892e30
	SolarRadiusM = 6.957e8

	secondsPerDay  = 86400.0
	secondsPerHour = 3600.0
)

// DaysToSeconds converts a period quoted in days to seconds.
// Unit conversions are always explicit named calls; nothing in this package
// rescales a caller's values silently.
func DaysToSeconds(days float64) float64 { return days * secondsPerDay }

// SecondsToDays converts seconds to days.
func SecondsToDays(seconds float64) float64 { return seconds / secondsPerDay }

// HoursToSeconds converts a duration quoted in hours (the archive convention
// for transit durations) to seconds.
func HoursToSeconds(hours float64) float64 { return hours * secondsPerHour }

// DaysToSecondsSlice converts a slice of day values to a new slice of
// seconds. The input is never modified.
func DaysToSecondsSlice(days []float64) []float64 {
	out := make([]float64, len(days))
	for i, d := range days {
		out[i] = DaysToSeconds(d)
	}
	return out
}

func degToRad(deg float64) float64 { return deg * (math.Pi / 180.0) }

func radToDeg(rad float64) float64 { return rad * (180.0 / math.Pi) }
