package dynamo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Field is the radial force field particles move in.
type Field interface {
	// Radius returns the floored distance of p from the origin and whether
	// a force applies at p.
	Radius(p r2.Vec) (float64, bool)
	// Gradient returns the radial energy gradient that drives the force at r.
	Gradient(r float64) float64
}

// Integrator advances s by one step in place.
type Integrator interface {
	Step(f Field, s *State, p Params)
}

type Metric interface {
	Name() string
	Observe(s *State, step int)
	Value() float64
	Reset()
}

// Observer receives read-only snapshots at the configured stride.
type Observer interface {
	OnSnapshot(snap Snapshot)
}

type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnSnapshot(snap Snapshot) { f(snap) }

// DampOrder selects where friction is applied relative to the force kick.
type DampOrder int

const (
	// KickThenDamp applies the force, then friction. Reference behaviour.
	KickThenDamp DampOrder = iota
	// DampThenKick applies friction before the force.
	DampThenKick
)

func (o DampOrder) String() string {
	if o == DampThenKick {
		return "damp-kick"
	}
	return "kick-damp"
}

// Params are fixed for the duration of a run.
type Params struct {
	Dt        float64
	Friction  float64
	Steps     int
	Bound     float64
	Particles int
	Seed      int64

	// SnapshotStride emits a snapshot every n steps; 0 disables snapshots.
	SnapshotStride int
	// SettleTolerance stops the run early once the fastest particle is
	// slower than it; 0 runs the full step count.
	SettleTolerance float64
	Order           DampOrder
	// Workers shards the per-particle update; values <= 1 run serially.
	Workers int
}

func DefaultParams() Params {
	return Params{
		Dt:        0.005,
		Friction:  0.90,
		Steps:     200,
		Bound:     1.0,
		Particles: 2000,
		Seed:      42,
	}
}

func (p Params) Validate() error {
	switch {
	case !(p.Dt > 0) || math.IsInf(p.Dt, 0):
		return configError("dt must be positive, got %v", p.Dt)
	case !(p.Friction > 0 && p.Friction <= 1):
		return configError("friction must be in (0,1], got %v", p.Friction)
	case p.Steps < 0:
		return configError("steps must be non-negative, got %d", p.Steps)
	case !(p.Bound > 0) || math.IsInf(p.Bound, 0):
		return configError("bound must be positive, got %v", p.Bound)
	case p.Particles < 0:
		return configError("particles must be non-negative, got %d", p.Particles)
	case p.SnapshotStride < 0:
		return configError("snapshot stride must be non-negative, got %d", p.SnapshotStride)
	case p.SettleTolerance < 0 || math.IsNaN(p.SettleTolerance):
		return configError("settle tolerance must be non-negative, got %v", p.SettleTolerance)
	case p.Order != KickThenDamp && p.Order != DampThenKick:
		return configError("unknown damping order %d", p.Order)
	}
	return nil
}

// Phase is the driver's two-state lifecycle.
type Phase int

const (
	Running Phase = iota
	Settled
)

func (p Phase) String() string {
	if p == Settled {
		return "settled"
	}
	return "running"
}

type Snapshot struct {
	Step  int
	State *State
}

type Result struct {
	Final      *State
	Snapshots  []Snapshot
	MeanRadius []float64
	Metrics    map[string]float64
	StepsTaken int
	// EarlyStop is set when SettleTolerance ended the run before Steps.
	EarlyStop bool
}
