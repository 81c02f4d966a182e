package analysis

import (
	"math"

	"github.com/san-kum/zetafield/internal/dynamo"
)

// PhasePoint is a particle's radius and radial velocity.
type PhasePoint struct {
	R, Vr float64
}

// RadialPhase projects every particle onto the (r, dr/dt) plane.
// Particles at the origin report zero radial velocity.
func RadialPhase(s *dynamo.State) []PhasePoint {
	pts := make([]PhasePoint, s.Len())
	for i, p := range s.Positions {
		r := math.Hypot(p.X, p.Y)
		pts[i].R = r
		if r > 0 {
			v := s.Velocities[i]
			pts[i].Vr = (p.X*v.X + p.Y*v.Y) / r
		}
	}
	return pts
}
