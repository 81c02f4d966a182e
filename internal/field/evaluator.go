// Package field evaluates the superposed radial Bessel field
//
//	A(r) = Σ J0(k_i r)
//
// and the per-term energy gradient
//
//	G(r) = Σ d/dr J0(k_i r)^2 = Σ 2·J0(k_i r)·(−k_i·J1(k_i r))
//
// which the integrators use as the force-generating quantity. G omits the
// cross terms of d/dr A(r)^2, so the two agree only for a single wavenumber.
//
// The unit vector p/|p| is undefined at the origin. Radii below the
// evaluator's floor (DefaultRadiusFloor unless overridden) are replaced by
// the floor before both the Bessel evaluation and the unit-vector division.
// This is an approximation with no physical meaning; it only keeps the
// origin finite.
package field

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultRadiusFloor is the smallest radius the evaluator works with.
const DefaultRadiusFloor = 1e-4

// SingularityPolicy decides what happens to particles below the radius floor.
type SingularityPolicy int

const (
	// FloorRadius evaluates the field at the floor radius. Reference behaviour.
	FloorRadius SingularityPolicy = iota
	// ZeroForceAtOrigin applies no force below the floor.
	ZeroForceAtOrigin
)

func (p SingularityPolicy) String() string {
	switch p {
	case FloorRadius:
		return "floor"
	case ZeroForceAtOrigin:
		return "zero-force"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config name to a policy. Unknown names yield FloorRadius.
func ParsePolicy(name string) SingularityPolicy {
	if name == ZeroForceAtOrigin.String() {
		return ZeroForceAtOrigin
	}
	return FloorRadius
}

type Option func(*Evaluator)

func WithRadiusFloor(floor float64) Option {
	return func(e *Evaluator) {
		if floor > 0 {
			e.floor = floor
		}
	}
}

func WithPolicy(p SingularityPolicy) Option {
	return func(e *Evaluator) { e.policy = p }
}

// Evaluator is stateless after construction and safe for concurrent use.
type Evaluator struct {
	spec   Spec
	floor  float64
	policy SingularityPolicy
}

func NewEvaluator(spec Spec, opts ...Option) *Evaluator {
	e := &Evaluator{spec: spec, floor: DefaultRadiusFloor, policy: FloorRadius}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Evaluator) Spec() Spec                { return e.spec }
func (e *Evaluator) Floor() float64            { return e.floor }
func (e *Evaluator) Policy() SingularityPolicy { return e.policy }

func (e *Evaluator) clampRadius(r float64) float64 {
	if r < e.floor {
		return e.floor
	}
	return r
}

// Radius returns the floored distance of p from the origin and whether a
// force should be applied there.
func (e *Evaluator) Radius(p r2.Vec) (float64, bool) {
	r := math.Hypot(p.X, p.Y)
	if r < e.floor {
		return e.floor, e.policy == FloorRadius
	}
	return r, true
}

func (e *Evaluator) Amplitude(r float64) float64 {
	a, _ := e.Evaluate(r)
	return a
}

func (e *Evaluator) Gradient(r float64) float64 {
	_, g := e.Evaluate(r)
	return g
}

// Evaluate returns A(r) and G(r) in a single pass over the wavenumbers.
// The gradient is accumulated term by term, 2·J0(kr)·(−k·J1(kr)).
func (e *Evaluator) Evaluate(r float64) (amplitude, gradient float64) {
	r = e.clampRadius(r)
	for _, k := range e.spec.ks {
		kr := k * r
		j0 := math.J0(kr)
		amplitude += j0
		gradient += 2 * j0 * (-k * math.J1(kr))
	}
	return amplitude, gradient
}

// EvaluateBatch fills amp and grad for every radius. Either output may be nil.
func (e *Evaluator) EvaluateBatch(radii, amp, grad []float64) {
	for i, r := range radii {
		a, g := e.Evaluate(r)
		if amp != nil {
			amp[i] = a
		}
		if grad != nil {
			grad[i] = g
		}
	}
}
