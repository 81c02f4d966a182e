package config

import (
	"fmt"
	"os"

	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/field"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIntegrator = "euler"
	DefaultZeros      = 30
	DefaultScale      = 1.0
	DefaultDt         = 0.005
	DefaultFriction   = 0.90
	DefaultSteps      = 200
	DefaultBound      = 1.0
	DefaultParticles  = 2000
	DefaultSeed       = 42
	DefaultStride     = 50
)

type Config struct {
	Name       string      `yaml:"name"`
	Integrator string      `yaml:"integrator"`
	Field      FieldConfig `yaml:"field"`
	Sim        SimConfig   `yaml:"sim"`
}

// FieldConfig selects the wavenumbers. Explicit wavenumbers win over Zeros,
// which takes that many leading Riemann zeros.
type FieldConfig struct {
	Zeros       int       `yaml:"zeros"`
	Wavenumbers []float64 `yaml:"wavenumbers,omitempty"`
	Scale       float64   `yaml:"scale"`
	RadiusFloor float64   `yaml:"radius_floor"`
	Singularity string    `yaml:"singularity"`
}

type SimConfig struct {
	Dt              float64 `yaml:"dt"`
	Friction        float64 `yaml:"friction"`
	Steps           int     `yaml:"steps"`
	Bound           float64 `yaml:"bound"`
	Particles       int     `yaml:"particles"`
	Seed            int64   `yaml:"seed"`
	SnapshotStride  int     `yaml:"snapshot_stride"`
	SettleTolerance float64 `yaml:"settle_tolerance"`
	Order           string  `yaml:"order"`
	Workers         int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "genesis",
		Integrator: DefaultIntegrator,
		Field: FieldConfig{
			Zeros:       DefaultZeros,
			Scale:       DefaultScale,
			RadiusFloor: field.DefaultRadiusFloor,
			Singularity: field.FloorRadius.String(),
		},
		Sim: SimConfig{
			Dt:             DefaultDt,
			Friction:       DefaultFriction,
			Steps:          DefaultSteps,
			Bound:          DefaultBound,
			Particles:      DefaultParticles,
			Seed:           DefaultSeed,
			SnapshotStride: DefaultStride,
			Order:          dynamo.KickThenDamp.String(),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be tweaked safely.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Field.Wavenumbers != nil {
		cp.Field.Wavenumbers = append([]float64(nil), c.Field.Wavenumbers...)
	}
	return &cp
}

// Wavenumbers returns the unscaled wavenumbers the config describes.
func (c *Config) Wavenumbers() []float64 {
	if len(c.Field.Wavenumbers) > 0 {
		return append([]float64(nil), c.Field.Wavenumbers...)
	}
	return field.FirstZeros(c.Field.Zeros)
}

func (c *Config) FieldSpec() (field.Spec, error) {
	return field.NewSpec(c.Field.Scale, c.Wavenumbers()...)
}

func (c *Config) Evaluator() (*field.Evaluator, error) {
	spec, err := c.FieldSpec()
	if err != nil {
		return nil, err
	}
	return field.NewEvaluator(spec,
		field.WithRadiusFloor(c.Field.RadiusFloor),
		field.WithPolicy(field.ParsePolicy(c.Field.Singularity)),
	), nil
}

func (c *Config) Params() dynamo.Params {
	order := dynamo.KickThenDamp
	if c.Sim.Order == dynamo.DampThenKick.String() {
		order = dynamo.DampThenKick
	}
	return dynamo.Params{
		Dt:              c.Sim.Dt,
		Friction:        c.Sim.Friction,
		Steps:           c.Sim.Steps,
		Bound:           c.Sim.Bound,
		Particles:       c.Sim.Particles,
		Seed:            c.Sim.Seed,
		SnapshotStride:  c.Sim.SnapshotStride,
		SettleTolerance: c.Sim.SettleTolerance,
		Order:           order,
		Workers:         c.Sim.Workers,
	}
}

// Validate checks everything a run would reject, before any work starts.
func (c *Config) Validate() error {
	if !(c.Field.Scale > 0) {
		return fmt.Errorf("%w: scale must be positive, got %v", dynamo.ErrInvalidConfig, c.Field.Scale)
	}
	if len(c.Field.Wavenumbers) == 0 && (c.Field.Zeros < 0 || c.Field.Zeros > len(field.RiemannZeros)) {
		return fmt.Errorf("%w: zeros must be in [0, %d], got %d", dynamo.ErrInvalidConfig, len(field.RiemannZeros), c.Field.Zeros)
	}
	if _, err := c.FieldSpec(); err != nil {
		return err
	}
	switch c.Field.Singularity {
	case "", field.FloorRadius.String(), field.ZeroForceAtOrigin.String():
	default:
		return fmt.Errorf("%w: unknown singularity policy %q", dynamo.ErrInvalidConfig, c.Field.Singularity)
	}
	switch c.Sim.Order {
	case "", dynamo.KickThenDamp.String(), dynamo.DampThenKick.String():
	default:
		return fmt.Errorf("%w: unknown damping order %q", dynamo.ErrInvalidConfig, c.Sim.Order)
	}
	return c.Params().Validate()
}
