package analysis

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// RadialHistogram counts radii into bins equal-width shells over [0, rmax].
// Radii beyond rmax fall into the last shell.
func RadialHistogram(radii []float64, bins int, rmax float64) (counts, edges []float64) {
	if bins < 1 || rmax <= 0 {
		return nil, nil
	}

	edges = make([]float64, bins+1)
	floats.Span(edges, 0, rmax)

	x := make([]float64, len(radii))
	for i, r := range radii {
		switch {
		case r < 0:
			x[i] = 0
		case r >= rmax:
			// stat.Histogram excludes the upper divider.
			x[i] = edges[bins-1]
		default:
			x[i] = r
		}
	}
	sort.Float64s(x)

	// stat.Histogram needs the last divider strictly above every value.
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	dividers[bins] = rmax * (1 + 1e-12)

	counts = stat.Histogram(nil, dividers, x, nil)
	return counts, edges
}

// RadialStats returns the mean and standard deviation of the radii.
func RadialStats(radii []float64) (mean, std float64) {
	if len(radii) == 0 {
		return 0, 0
	}
	if len(radii) == 1 {
		return radii[0], 0
	}
	return stat.MeanStdDev(radii, nil)
}

// Peaks returns the centres of histogram bins that are strict local maxima
// and hold at least minCount particles.
func Peaks(counts, edges []float64, minCount float64) []float64 {
	peaks := make([]float64, 0)
	for i := range counts {
		if counts[i] < minCount {
			continue
		}
		left := i == 0 || counts[i] > counts[i-1]
		right := i == len(counts)-1 || counts[i] >= counts[i+1]
		if left && right {
			peaks = append(peaks, 0.5*(edges[i]+edges[i+1]))
		}
	}
	return peaks
}
