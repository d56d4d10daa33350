package statistics

import (
	"sort"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary of a sample of capacities over repeated drops
type Summary struct {
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stdDev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	P5     float64 `yaml:"p5"`
	P50    float64 `yaml:"p50"`
	P95    float64 `yaml:"p95"`
}

// Mean of the values, 0 for an empty sample
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// Percentile returns the empirical p-quantile, p in [0, 1]
func Percentile(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.NewInvalid("empty sample")
	}
	if p < 0 || p > 1 {
		return 0, errors.NewInvalid("percentile out of range: %v", p)
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil), nil
}

// Summarize computes the summary statistics of a non empty sample
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, errors.NewInvalid("empty sample")
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(sorted),
		Min:   floats.Min(sorted),
		Max:   floats.Max(sorted),
		P5:    stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if len(sorted) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	return s, nil
}

// CDF returns the sorted sample and the empirical cumulative probability of
// each point
func CDF(values []float64) ([]float64, []float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	probs := make([]float64, len(sorted))
	for i, v := range sorted {
		probs[i] = stat.CDF(v, stat.Empirical, sorted, nil)
	}
	return sorted, probs
}
