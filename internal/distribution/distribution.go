// Package distribution provides percentile-based summaries of posterior
// sample arrays. Every operation tolerates missing values: NaN entries are
// ignored, and a sample with no finite entries summarizes to NaN instead of
// failing, so domain-edge NaNs can flow through bulk summaries.
package distribution

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// SigmaBounds is the asymmetric 16/84 percentile spread around the median.
type SigmaBounds struct {
	Minus float64 // 50th - 16th percentile
	Plus  float64 // 84th - 50th percentile
}

// Mean collapses the asymmetric bounds into a single averaged uncertainty
// for callers that want a scalar error bar.
func (b SigmaBounds) Mean() float64 {
	return (b.Minus + b.Plus) / 2
}

// Finite returns a new slice holding only the finite entries of sample.
// The input is never modified.
func Finite(sample []float64) []float64 {
	out := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Percentile returns the p-th percentile of the finite entries of sample,
// or NaN when no finite entries exist.
func Percentile(sample []float64, p float64) float64 {
	finite := Finite(sample)
	if len(finite) == 0 {
		return math.NaN()
	}
	v, err := stats.Percentile(finite, p)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Median is the 50th percentile, NaN-tolerant.
func Median(sample []float64) float64 {
	return Percentile(sample, 50)
}

// SigmaOf computes the asymmetric error bars of a distribution, gaussian or
// not, ignoring NaN values. An all-NaN sample yields NaN bounds without
// failing.
func SigmaOf(sample []float64) SigmaBounds {
	p16 := Percentile(sample, 16)
	p50 := Percentile(sample, 50)
	p84 := Percentile(sample, 84)
	return SigmaBounds{Minus: p50 - p16, Plus: p84 - p50}
}

// MeanStdDev returns the mean and sample standard deviation of the finite
// entries, or (NaN, NaN) when none exist.
func MeanStdDev(sample []float64) (mean, stddev float64) {
	finite := Finite(sample)
	if len(finite) == 0 {
		return math.NaN(), math.NaN()
	}
	mean = stat.Mean(finite, nil)
	stddev = stat.StdDev(finite, nil)
	return mean, stddev
}
