package dynamo

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// State holds particle positions and velocities. Index i refers to the same
// particle for the whole run.
type State struct {
	Positions  []r2.Vec
	Velocities []r2.Vec
}

// NewState places n particles uniformly at random in [-bound, bound]^2 with
// zero velocity. The same seed always yields the same placement.
func NewState(n int, bound float64, seed int64) *State {
	rng := rand.New(rand.NewSource(seed))
	s := &State{
		Positions:  make([]r2.Vec, n),
		Velocities: make([]r2.Vec, n),
	}
	for i := range s.Positions {
		s.Positions[i] = r2.Vec{
			X: (2*rng.Float64() - 1) * bound,
			Y: (2*rng.Float64() - 1) * bound,
		}
	}
	return s
}

// StateFromPositions builds a state at rest from explicit positions.
func StateFromPositions(ps []r2.Vec) *State {
	s := &State{
		Positions:  make([]r2.Vec, len(ps)),
		Velocities: make([]r2.Vec, len(ps)),
	}
	copy(s.Positions, ps)
	return s
}

func (s *State) Len() int { return len(s.Positions) }

func (s *State) Clone() *State {
	c := &State{
		Positions:  make([]r2.Vec, len(s.Positions)),
		Velocities: make([]r2.Vec, len(s.Velocities)),
	}
	copy(c.Positions, s.Positions)
	copy(c.Velocities, s.Velocities)
	return c
}

// Check reports a malformed state: mismatched lengths or non-finite values.
func (s *State) Check() error {
	if len(s.Positions) != len(s.Velocities) {
		return ErrDimensionMismatch
	}
	if !s.IsValid() {
		return ErrInvalidState
	}
	return nil
}

func (s *State) IsValid() bool {
	for i := range s.Positions {
		if !finite(s.Positions[i]) {
			return false
		}
	}
	for i := range s.Velocities {
		if !finite(s.Velocities[i]) {
			return false
		}
	}
	return true
}

func finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Radii returns the unfloored distance of every particle from the origin.
func (s *State) Radii() []float64 {
	out := make([]float64, len(s.Positions))
	for i, p := range s.Positions {
		out[i] = math.Hypot(p.X, p.Y)
	}
	return out
}

func (s *State) MeanRadius() float64 {
	if len(s.Positions) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Positions {
		sum += math.Hypot(p.X, p.Y)
	}
	return sum / float64(len(s.Positions))
}

func (s *State) MaxSpeed() float64 {
	m := 0.0
	for _, v := range s.Velocities {
		if sp := math.Hypot(v.X, v.Y); sp > m {
			m = sp
		}
	}
	return m
}

// InBounds reports whether every coordinate lies in [-bound, bound].
func (s *State) InBounds(bound float64) bool {
	for _, p := range s.Positions {
		if math.Abs(p.X) > bound || math.Abs(p.Y) > bound {
			return false
		}
	}
	return true
}
