package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/storage"
	"github.com/spf13/cobra"
)

func TestParseFloats(t *testing.T) {
	tests := []struct {
		in      string
		want    []float64
		wantErr bool
	}{
		{"0.8,0.9", []float64{0.8, 0.9}, false},
		{" 1 , 2 ,", []float64{1, 2}, false},
		{"0:1:3", []float64{0, 0.5, 1}, false},
		{"2:5:1", []float64{2}, false},
		{"a,b", nil, true},
		{"0:1:0", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := parseFloats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFloats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseFloats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseFloats(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	return cmd
}

func TestResolveConfigPresetAndFlags(t *testing.T) {
	cmd := newConfigCmd()
	cmd.Flags().Set("preset", "pair")
	cmd.Flags().Set("friction", "0.5")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sim.Friction != 0.5 {
		t.Errorf("flag should override preset, got friction %v", cfg.Sim.Friction)
	}
	if cfg.Sim.Particles != 500 || len(cfg.Wavenumbers()) != 2 {
		t.Errorf("unchanged flags should keep preset values: %+v", cfg.Sim)
	}
}

func TestResolveConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	file := config.GetPreset("pair")
	file.Sim.Steps = 17
	if err := config.Save(path, file); err != nil {
		t.Fatal(err)
	}

	cmd := newConfigCmd()
	cmd.Flags().Set("config", path)
	cmd.Flags().Set("zeros", "5")

	cfg, err := resolveConfig(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sim.Steps != 17 {
		t.Errorf("expected steps from file, got %d", cfg.Sim.Steps)
	}
	if len(cfg.Wavenumbers()) != 5 {
		t.Errorf("--zeros should replace explicit wavenumbers, got %v", cfg.Wavenumbers())
	}
}

func TestResolveConfigRejectsInvalid(t *testing.T) {
	cmd := newConfigCmd()
	cmd.Flags().Set("dt", "-1")
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected validation error")
	}

	cmd = newConfigCmd()
	cmd.Flags().Set("preset", "nope")
	if _, err := resolveConfig(cmd); err == nil {
		t.Error("expected unknown preset error")
	}
}

// silenced runs fn with stdout discarded.
func silenced(fn func() error) error {
	stdout := os.Stdout
	os.Stdout, _ = os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	defer func() { os.Stdout = stdout }()
	return fn()
}

// storedRun runs a short pair simulation into a fresh data dir and returns
// its id. Snapshots land at steps 0, 5 and 10.
func storedRun(t *testing.T) string {
	t.Helper()
	dataDir = t.TempDir()
	quiet = true
	cmd := newConfigCmd()
	cmd.Flags().Set("preset", "pair")
	cmd.Flags().Set("particles", "20")
	cmd.Flags().Set("steps", "10")
	cmd.Flags().Set("stride", "5")
	cmd.Flags().Set("singularity", "zero-force")

	if err := silenced(func() error { return runSimulation(cmd, nil) }); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one stored run, got %v (%v)", entries, err)
	}
	return entries[0].Name()
}

func TestRunWritesStore(t *testing.T) {
	runID := storedRun(t)

	meta, err := storage.New(dataDir).Load(runID)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Singularity != "zero-force" || meta.Scale != 1 || meta.RadiusFloor != 1e-4 {
		t.Errorf("field options not stored: %+v", meta)
	}
}

func TestLoadState(t *testing.T) {
	runID := storedRun(t)
	st := storage.New(dataDir)

	final, err := loadState(st, runID, -1)
	if err != nil || final.Len() != 20 {
		t.Fatalf("final state: %v, %v", final, err)
	}
	snap, err := loadState(st, runID, 5)
	if err != nil || snap.Len() != 20 {
		t.Fatalf("snapshot at step 5: %v, %v", snap, err)
	}
	if _, err := loadState(st, runID, 7); err == nil || !strings.Contains(err.Error(), "0, 5, 10") {
		t.Errorf("expected missing snapshot error listing steps, got %v", err)
	}
}

func TestExportSVGKinds(t *testing.T) {
	runID := storedRun(t)
	svgSize = 160
	svgStep = -1
	showRings = true

	for _, kind := range []string{"particles", "braille", "series"} {
		t.Run(kind, func(t *testing.T) {
			svgKind = kind
			svgOut = filepath.Join(t.TempDir(), kind+".svg")
			if err := silenced(func() error { return exportSVG(nil, []string{runID}) }); err != nil {
				t.Fatal(err)
			}
			data, err := os.ReadFile(svgOut)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(string(data), "<?xml") || !strings.HasSuffix(string(data), "</svg>") {
				t.Errorf("%s export is not a complete svg document", kind)
			}
		})
	}

	svgKind = "mesh"
	if err := exportSVG(nil, []string{runID}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPlotSnapshot(t *testing.T) {
	runID := storedRun(t)
	plotBins = 20

	plotStep = 5
	if err := silenced(func() error { return plotRun(nil, []string{runID}) }); err != nil {
		t.Errorf("plot at stored step: %v", err)
	}
	plotStep = 3
	if err := silenced(func() error { return plotRun(nil, []string{runID}) }); err == nil {
		t.Error("expected error for a step without snapshot")
	}
	plotStep = -1
}

func TestRadialProfile(t *testing.T) {
	ev, err := config.GetPreset("pair").Evaluator()
	if err != nil {
		t.Fatal(err)
	}
	out := radialProfile(ev, 1, 80)
	if !strings.Contains(out, "amplitude") || !strings.Contains(out, "energy gradient") {
		t.Errorf("profile missing captions:\n%s", out)
	}
}
