package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	field      Field
	integrator Integrator
	params     Params
	metrics    []Metric
	observers  []Observer
	phase      Phase
}

// New validates p and returns a simulator ready to run. Invalid parameters
// are rejected here rather than discovered mid-run.
func New(f Field, integrator Integrator, p Params) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if f == nil || integrator == nil {
		return nil, configError("field and integrator are required")
	}
	return &Simulator{
		field:      f,
		integrator: integrator,
		params:     p,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() Params { return s.params }
func (s *Simulator) Phase() Phase   { return s.phase }

// Run advances a copy of x0 exactly Params.Steps times, unless the context
// is canceled or the settle tolerance is reached first. x0 is left untouched.
func (s *Simulator) Run(ctx context.Context, x0 *State) (*Result, error) {
	if err := x0.Check(); err != nil {
		return nil, fmt.Errorf("initial state: %w", err)
	}

	p := s.params
	x := x0.Clone()
	s.phase = Running

	result := &Result{
		MeanRadius: make([]float64, 0, p.Steps+1),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
		m.Observe(x, 0)
	}

	result.MeanRadius = append(result.MeanRadius, x.MeanRadius())
	s.snapshot(result, 0, x)

	step := 0
	for step < p.Steps {
		select {
		case <-ctx.Done():
			result.Final = x
			return result, fmt.Errorf("%w: %w", ErrContextCanceled, &SimulationError{Step: step, Wrapped: ctx.Err()})
		default:
		}

		s.integrator.Step(s.field, x, p)
		step++
		result.StepsTaken = step

		result.MeanRadius = append(result.MeanRadius, x.MeanRadius())
		for _, m := range s.metrics {
			m.Observe(x, step)
		}

		if p.SnapshotStride > 0 && step%p.SnapshotStride == 0 {
			s.snapshot(result, step, x)
		}

		if p.SettleTolerance > 0 && x.MaxSpeed() < p.SettleTolerance {
			result.EarlyStop = step < p.Steps
			break
		}
	}

	if p.SnapshotStride > 0 && step%p.SnapshotStride != 0 {
		s.snapshot(result, step, x)
	}

	s.phase = Settled
	result.Final = x
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) snapshot(result *Result, step int, x *State) {
	if s.params.SnapshotStride <= 0 {
		return
	}
	snap := Snapshot{Step: step, State: x.Clone()}
	result.Snapshots = append(result.Snapshots, snap)
	for _, o := range s.observers {
		o.OnSnapshot(snap)
	}
}

// Step advances x by a single step outside of Run, for interactive drivers.
func (s *Simulator) Step(x *State) {
	s.integrator.Step(s.field, x, s.params)
}
