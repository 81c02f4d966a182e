package experiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/field"
	"github.com/san-kum/zetafield/internal/metrics"
)

// Experiment is one fully wired run: field, integrator, simulator and the
// default metrics, all derived from a config.
type Experiment struct {
	cfg       *config.Config
	evaluator *field.Evaluator
	simulator *dynamo.Simulator
	nodes     []float64
}

func New(cfg *config.Config) (*Experiment, error) {
	return NewWithRegistry(cfg, NewRegistry())
}

func NewWithRegistry(cfg *config.Config, reg *Registry) (*Experiment, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", cfg.Name, err)
	}

	ev, err := cfg.Evaluator()
	if err != nil {
		return nil, err
	}

	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s, err := dynamo.New(ev, integ, cfg.Params())
	if err != nil {
		return nil, err
	}

	e := &Experiment{cfg: cfg, evaluator: ev, simulator: s}
	for _, m := range reg.DefaultMetrics(ev, cfg.Sim.Bound) {
		if nd, ok := m.(*metrics.NodeDistance); ok {
			e.nodes = nd.Nodes()
		}
		s.AddMetric(m)
	}
	return e, nil
}

// InitialState draws the seeded uniform scatter the run starts from.
func (e *Experiment) InitialState() *dynamo.State {
	return dynamo.NewState(e.cfg.Sim.Particles, e.cfg.Sim.Bound, e.cfg.Sim.Seed)
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	return e.simulator.Run(ctx, e.InitialState())
}

func (e *Experiment) Config() *config.Config        { return e.cfg.Clone() }
func (e *Experiment) Evaluator() *field.Evaluator   { return e.evaluator }
func (e *Experiment) Simulator() *dynamo.Simulator  { return e.simulator }
func (e *Experiment) AddObserver(o dynamo.Observer) { e.simulator.AddObserver(o) }
func (e *Experiment) Nodes() []float64              { return append([]float64(nil), e.nodes...) }

// Tunable lists the names SetParam accepts.
var Tunable = []string{"bound", "dt", "friction", "particles", "scale", "seed", "settle_tolerance", "steps"}

// SetParam sets one numeric config value by name.
func SetParam(cfg *config.Config, name string, v float64) error {
	switch strings.ToLower(name) {
	case "dt":
		cfg.Sim.Dt = v
	case "friction":
		cfg.Sim.Friction = v
	case "steps":
		cfg.Sim.Steps = int(v)
	case "bound":
		cfg.Sim.Bound = v
	case "particles":
		cfg.Sim.Particles = int(v)
	case "seed":
		cfg.Sim.Seed = int64(v)
	case "settle_tolerance":
		cfg.Sim.SettleTolerance = v
	case "scale":
		cfg.Field.Scale = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
