package automation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/experiment"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset and applies numeric overrides by name.
type ScenarioStep struct {
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config builds the run configuration of one step.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "genesis"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}

	// sorted so a bad name is reported deterministically
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := experiment.SetParam(cfg, k, s.Params[k]); err != nil {
			return nil, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, nil
}

// StepResult pairs a scenario step with its outcome.
type StepResult struct {
	Config *config.Config
	Result *dynamo.Result
}

// RunScenario executes the steps in order and stops at the first failure.
func RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Name)

		exp, err := experiment.New(cfg)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Config: exp.Config(), Result: result})
	}

	return results, nil
}

// EnsembleConfig repeats one configuration over consecutive seeds.
type EnsembleConfig struct {
	Base      *config.Config
	NumTrials int
	SeedStart int64
	Workers   int
}

// TrialResult holds the metrics of one seed.
type TrialResult struct {
	Seed    int64
	Metrics map[string]float64
	Settled bool
}

// RunEnsemble runs NumTrials seeds concurrently.
func RunEnsemble(ctx context.Context, cfg *EnsembleConfig) ([]TrialResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("ensemble needs at least one trial, got %d", cfg.NumTrials)
	}

	seeds := make([]float64, cfg.NumTrials)
	for i := range seeds {
		seeds[i] = float64(cfg.SeedStart + int64(i))
	}
	variants, err := experiment.Vary(cfg.Base, "seed", seeds)
	if err != nil {
		return nil, err
	}

	outcomes, err := experiment.Sweep(ctx, variants, cfg.Workers)
	if err != nil {
		return nil, err
	}

	results := make([]TrialResult, len(outcomes))
	for i, o := range outcomes {
		results[i] = TrialResult{
			Seed:    o.Config.Sim.Seed,
			Metrics: o.Result.Metrics,
			Settled: o.Result.Final.IsValid() && o.Result.Final.InBounds(o.Config.Sim.Bound),
		}
	}
	return results, nil
}

// Summary is the spread of one metric across an ensemble.
type Summary struct {
	Metric   string
	Mean     float64
	Std      float64
	Min, Max float64
}

// Summarize computes per-metric statistics over the trials.
func Summarize(results []TrialResult) []Summary {
	if len(results) == 0 {
		return nil
	}
	names := make([]string, 0, len(results[0].Metrics))
	for name := range results[0].Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Summary, 0, len(names))
	for _, name := range names {
		vals := make([]float64, len(results))
		for i, r := range results {
			vals[i] = r.Metrics[name]
		}
		s := Summary{Metric: name, Min: vals[0], Max: vals[0]}
		if len(vals) > 1 {
			s.Mean, s.Std = stat.MeanStdDev(vals, nil)
		} else {
			s.Mean = vals[0]
		}
		for _, v := range vals {
			s.Min = min(s.Min, v)
			s.Max = max(s.Max, v)
		}
		out = append(out, s)
	}
	return out
}
