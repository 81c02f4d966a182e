package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/zetafield/internal/dynamo"
)

// RingPoint records where rings formed for one parameter value.
type RingPoint struct {
	Param float64
	Rings []float64
}

// RingDiagram runs once per value of one run parameter, in the given order,
// and records the radial density peaks of each settled state. All runs start from the same
// seeded placement so only the parameter differs.
//
// Recognised parameters: "friction", "dt", "steps".
func RingDiagram(
	ctx context.Context,
	f dynamo.Field,
	integ dynamo.Integrator,
	base dynamo.Params,
	param string,
	values []float64,
	bins int,
) ([]RingPoint, error) {
	rmax := base.Bound * math.Sqrt2
	x0 := dynamo.NewState(base.Particles, base.Bound, base.Seed)

	results := make([]RingPoint, 0, len(values))
	for _, v := range values {
		p := base
		switch param {
		case "friction":
			p.Friction = v
		case "dt":
			p.Dt = v
		case "steps":
			p.Steps = int(v)
		default:
			return nil, fmt.Errorf("unknown sweep parameter: %s", param)
		}

		sim, err := dynamo.New(f, integ, p)
		if err != nil {
			return results, err
		}
		res, err := sim.Run(ctx, x0)
		if err != nil {
			return results, err
		}

		counts, edges := RadialHistogram(res.Final.Radii(), bins, rmax)
		minCount := float64(res.Final.Len()) / float64(bins)
		results = append(results, RingPoint{Param: v, Rings: Peaks(counts, edges, minCount)})
	}
	return results, nil
}
