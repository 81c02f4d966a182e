package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/zetafield/internal/config"
)

const scenarioYAML = `name: friction ladder
description: the pair field at two frictions
steps:
  - preset: pair
    params:
      friction: 0.8
      particles: 40
      steps: 20
    save_as: loose
  - preset: pair
    integrator: leapfrog
    params:
      particles: 40
      steps: 20
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "friction ladder" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}

	results, err := RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Config.Name != "loose" || results[0].Config.Sim.Friction != 0.8 {
		t.Errorf("step 1 config not applied: %+v", results[0].Config.Sim)
	}
	if results[1].Config.Integrator != "leapfrog" || results[1].Result.StepsTaken != 20 {
		t.Errorf("step 2 not applied: %s, %d steps", results[1].Config.Integrator, results[1].Result.StepsTaken)
	}
}

func TestScenarioErrors(t *testing.T) {
	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := &Scenario{Steps: []ScenarioStep{{Preset: "pair", Params: map[string]float64{"mass": 1}}}}
	if _, err := RunScenario(context.Background(), bad); err == nil {
		t.Error("expected error for unknown parameter")
	}

	unknown := &Scenario{Steps: []ScenarioStep{{Preset: "nope"}}}
	if _, err := RunScenario(context.Background(), unknown); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestRunEnsemble(t *testing.T) {
	base := config.GetPreset("pair")
	base.Sim.Particles = 50
	base.Sim.Steps = 30

	results, err := RunEnsemble(context.Background(), &EnsembleConfig{Base: base, NumTrials: 4, SeedStart: 10, Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(results))
	}
	for i, r := range results {
		if r.Seed != int64(10+i) {
			t.Errorf("trial %d has seed %d", i, r.Seed)
		}
		if !r.Settled {
			t.Errorf("trial %d left the box", i)
		}
	}

	summary := Summarize(results)
	found := false
	for _, s := range summary {
		if s.Metric != "node_distance" {
			continue
		}
		found = true
		if s.Min > s.Mean || s.Mean > s.Max || s.Std < 0 || math.IsNaN(s.Std) {
			t.Errorf("inconsistent summary %+v", s)
		}
	}
	if !found {
		t.Error("node_distance missing from summary")
	}

	if _, err := RunEnsemble(context.Background(), &EnsembleConfig{Base: base}); err == nil {
		t.Error("expected error for zero trials")
	}
}

func TestSummarizeSingle(t *testing.T) {
	s := Summarize([]TrialResult{{Metrics: map[string]float64{"a": 2}}})
	if len(s) != 1 || s[0].Mean != 2 || s[0].Std != 0 || s[0].Min != 2 || s[0].Max != 2 {
		t.Errorf("unexpected summary %+v", s)
	}
	if Summarize(nil) != nil {
		t.Error("empty input should give nil")
	}
}
