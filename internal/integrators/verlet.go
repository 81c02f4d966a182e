package integrators

import (
	"github.com/san-kum/zetafield/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Leapfrog splits the kick around the drift (kick-drift-kick) and applies
// friction once per step after the second half kick. It is second order in
// the undamped limit and is offered for comparison with DampedEuler.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(f dynamo.Field, s *dynamo.State, p dynamo.Params) {
	halfDt := p.Dt * 0.5

	dynamo.ParallelFor(s.Len(), p.Workers, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			vel := r2.Add(s.Velocities[i], kick(f, s.Positions[i], halfDt))
			pos := clamp(r2.Add(s.Positions[i], r2.Scale(p.Dt, vel)), p.Bound)
			vel = r2.Add(vel, kick(f, pos, halfDt))

			s.Positions[i] = pos
			s.Velocities[i] = r2.Scale(p.Friction, vel)
		}
	})
}
