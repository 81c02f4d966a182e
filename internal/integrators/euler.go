package integrators

import (
	"math"

	"github.com/san-kum/zetafield/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// minChunk keeps tiny particle sets on the calling goroutine.
const minChunk = 256

// DampedEuler is the reference first-order integrator. Per particle:
//
//	v += -g(r)·û·dt   (kick)
//	v *= friction     (damp)
//	p += v·dt         (drift)
//	p  = clamp(p, -B, B)
//
// The clamp leaves velocity untouched, so particles pushed outward keep
// pressing against the wall.
type DampedEuler struct{}

func NewDampedEuler() *DampedEuler {
	return &DampedEuler{}
}

func (e *DampedEuler) Step(f dynamo.Field, s *dynamo.State, p dynamo.Params) {
	dynamo.ParallelFor(s.Len(), p.Workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			pos, vel := s.Positions[i], s.Velocities[i]

			if p.Order == dynamo.DampThenKick {
				vel = r2.Scale(p.Friction, vel)
				vel = r2.Add(vel, kick(f, pos, p.Dt))
			} else {
				vel = r2.Add(vel, kick(f, pos, p.Dt))
				vel = r2.Scale(p.Friction, vel)
			}

			s.Velocities[i] = vel
			s.Positions[i] = clamp(r2.Add(pos, r2.Scale(p.Dt, vel)), p.Bound)
		}
	})
}

// kick returns F·û·dt with F = -Σ d/dr J0(k_i r)².
func kick(f dynamo.Field, pos r2.Vec, dt float64) r2.Vec {
	r, ok := f.Radius(pos)
	if !ok {
		return r2.Vec{}
	}
	force := -f.Gradient(r)
	return r2.Vec{X: force * pos.X / r * dt, Y: force * pos.Y / r * dt}
}

func clamp(p r2.Vec, bound float64) r2.Vec {
	return r2.Vec{X: clamp1(p.X, bound), Y: clamp1(p.Y, bound)}
}

// clamp1 propagates NaN rather than pinning it to a wall.
func clamp1(x, bound float64) float64 {
	return math.Max(-bound, math.Min(bound, x))
}
