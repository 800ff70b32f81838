package orbit

// OrbitalParameters describes a single transiting companion. Angles are in
// degrees at this boundary; trigonometry converts to radians internally.
// Values are plain data; validity (rprs in (0,1), inclination in (0,90])
// is enforced by sampling priors, not by this struct.
type OrbitalParameters struct {
	Period                float64 // caller tracks the unit (days or seconds)
	RadiusRatio           float64 // Rp/Rs
	ScaledSemimajorAxis   float64 // a/Rs
	Inclination           float64 // degrees
	Eccentricity          float64 // [0,1)
	LongitudeOfPeriastron float64 // degrees
}

// TransitDurations holds the two duration observables, both in seconds.
// T14 >= T23 is required for a real-valued circular density; below that the
// implied density is NaN by policy, not an error.
type TransitDurations struct {
	T14 float64 // total duration, first to fourth contact
	T23 float64 // full duration, second to third contact
}

// LimbDarkening configures the stellar intensity profile for flux synthesis.
// It is passed explicitly on every forward-model call; there is no
// process-wide default.
type LimbDarkening struct {
	Law          string
	Coefficients []float64
}

// Limb darkening laws understood by the forward model. Uniform is the only
// law the core pipeline requires.
const (
	LimbDarkeningUniform = "uniform"
)

// UniformLimbDarkening returns the no-limb-darkening configuration used by
// the circular-orbit transit fit.
func UniformLimbDarkening() LimbDarkening {
	return LimbDarkening{Law: LimbDarkeningUniform}
}
