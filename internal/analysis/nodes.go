package analysis

import (
	"math"
	"sort"
)

// Amplituder is satisfied by *field.Evaluator.
type Amplituder interface {
	Amplitude(r float64) float64
}

const bisectIters = 60

// Nodes scans (0, rmax] with the given number of samples and refines every
// sign change of the amplitude by bisection. Samples that are exactly zero
// count as a node only when the amplitude has opposite signs on either side
// of them, so an identically zero field has no nodes. The result is sorted.
func Nodes(f Amplituder, rmax float64, samples int) []float64 {
	if samples < 2 || rmax <= 0 {
		return nil
	}

	h := rmax / float64(samples)
	nodes := make([]float64, 0)

	// lo, flo is the last nonzero sample; zlo..zhi the run of exact zeros after it.
	var lo, flo float64
	zlo, zhi := -1.0, -1.0

	for i := 1; i <= samples; i++ {
		r := float64(i) * h
		a := f.Amplitude(r)

		if a == 0 {
			if zlo < 0 {
				zlo = r
			}
			zhi = r
			continue
		}

		if flo*a < 0 {
			if zlo >= 0 {
				nodes = append(nodes, 0.5*(zlo+zhi))
			} else {
				nodes = append(nodes, bisect(f, lo, r, flo))
			}
		}

		lo, flo = r, a
		zlo, zhi = -1, -1
	}

	return nodes
}

func bisect(f Amplituder, lo, hi, flo float64) float64 {
	for i := 0; i < bisectIters; i++ {
		mid := 0.5 * (lo + hi)
		fm := f.Amplitude(mid)
		if fm == 0 {
			return mid
		}
		if flo*fm < 0 {
			hi = mid
		} else {
			lo, flo = mid, fm
		}
	}
	return 0.5 * (lo + hi)
}

// NearestNode returns the node closest to r and its distance. nodes must be
// sorted; with no nodes the distance is +Inf.
func NearestNode(nodes []float64, r float64) (float64, float64) {
	if len(nodes) == 0 {
		return math.NaN(), math.Inf(1)
	}
	i := sort.SearchFloat64s(nodes, r)
	best, dist := math.NaN(), math.Inf(1)
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= len(nodes) {
			continue
		}
		if d := math.Abs(nodes[j] - r); d < dist {
			best, dist = nodes[j], d
		}
	}
	return best, dist
}

// MeanNodeDistance averages NearestNode distances over radii.
func MeanNodeDistance(nodes, radii []float64) float64 {
	if len(radii) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range radii {
		_, d := NearestNode(nodes, r)
		sum += d
	}
	return sum / float64(len(radii))
}
