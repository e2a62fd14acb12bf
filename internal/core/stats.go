package core

import (
	"math"
	"sort"
)

// Stats holds the descriptive summary of a numeric column: the same eight
// figures the dashboard shows for a filtered Datos column.
type Stats struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Describe computes descriptive statistics over values. The standard
// deviation is the sample definition (n-1 denominator) and quartiles use
// linear interpolation between order statistics. An empty input returns
// ErrEmptySeries; callers must guard.
func Describe(values []float64) (Stats, error) {
	if len(values) == 0 {
		return Stats{}, ErrEmptySeries
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	if len(values) > 1 {
		for _, v := range values {
			d := v - mean
			variance += d * d
		}
		variance /= float64(len(values) - 1)
	}

	return Stats{
		Count: len(values),
		Mean:  mean,
		Std:   math.Sqrt(variance),
		Min:   sorted[0],
		Q25:   quantile(sorted, 0.25),
		Q50:   quantile(sorted, 0.50),
		Q75:   quantile(sorted, 0.75),
		Max:   sorted[len(sorted)-1],
	}, nil
}

// quantile interpolates linearly between order statistics of a sorted slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
