// Package summary computes descriptive statistics over record sets.
package summary

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/aneurisk/internal/common"
)

// Mean returns the arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: mean of no values", common.ErrEmptyDataset)
	}
	return stat.Mean(values, nil), nil
}

// Median returns the middle value, averaging the two middle values when the
// count is even.
func Median(values []float64) (float64, error) {
	return Quantile(values, 0.5)
}

// Quantile returns the q-th quantile using linear interpolation between
// closest ranks, the convention the tutorials' describe() output uses.
func Quantile(values []float64, q float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: quantile of no values", common.ErrEmptyDataset)
	}
	if q < 0 || q > 1 || math.IsNaN(q) {
		return 0, fmt.Errorf("%w: quantile %v", common.ErrValueOutOfRange, q)
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac, nil
}

// StdDev returns the sample standard deviation, NaN for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil)
}

// Numeric is the descriptive summary of one numeric sample.
type Numeric struct {
	Count   int
	Missing int
	Mean    float64
	Std     float64
	Min     float64
	Q25     float64
	Median  float64
	Q75     float64
	Max     float64
}

// Summarize describes a sample. An empty sample reports NaN statistics.
func Summarize(values []float64, missing int) Numeric {
	n := Numeric{Count: len(values), Missing: missing}
	if len(values) == 0 {
		nan := math.NaN()
		n.Mean, n.Std, n.Min, n.Q25, n.Median, n.Q75, n.Max = nan, nan, nan, nan, nan, nan, nan
		return n
	}
	n.Mean = stat.Mean(values, nil)
	n.Std = StdDev(values)
	n.Min = floats.Min(values)
	n.Max = floats.Max(values)
	n.Q25, _ = Quantile(values, 0.25)
	n.Median, _ = Quantile(values, 0.5)
	n.Q75, _ = Quantile(values, 0.75)
	return n
}
