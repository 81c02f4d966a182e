package metrics

import (
	"math"

	"github.com/san-kum/zetafield/internal/dynamo"
)

// BoundaryFraction reports the share of particles with at least one
// coordinate pinned at ±bound after the last observed step.
type BoundaryFraction struct {
	name   string
	bound  float64
	pinned int
	total  int
}

func NewBoundaryFraction(bound float64) *BoundaryFraction {
	return &BoundaryFraction{name: "boundary_fraction", bound: bound}
}

func (b *BoundaryFraction) Name() string { return b.name }

func (b *BoundaryFraction) Observe(s *dynamo.State, step int) {
	b.pinned, b.total = 0, s.Len()
	for _, p := range s.Positions {
		if math.Abs(p.X) >= b.bound || math.Abs(p.Y) >= b.bound {
			b.pinned++
		}
	}
}

func (b *BoundaryFraction) Value() float64 {
	if b.total == 0 {
		return 0
	}
	return float64(b.pinned) / float64(b.total)
}

func (b *BoundaryFraction) Reset() {
	b.pinned = 0
	b.total = 0
}
