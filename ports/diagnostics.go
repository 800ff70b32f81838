package ports

import (
	"photoeccentric/domain/fit"
)

// DiagnosticsPort writes burn-in traces and corner-style pairwise sample
// sheets for a run. These are diagnostic byproducts saved to a
// caller-specified output directory, the only convergence signal the
// pipeline produces, and are not part of the statistical contract. A
// failed write must not fail the run.
type DiagnosticsPort interface {
	WriteBurnInTrace(runID string, labels []string, chain *fit.Chain) error
	WriteCornerMatrix(runID string, labels []string, flat *fit.FlatSamples) error
}
