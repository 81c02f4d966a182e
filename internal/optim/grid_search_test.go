package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/zetafield/internal/config"
)

func smallPair() *config.Config {
	cfg := config.GetPreset("pair")
	cfg.Sim.Particles = 60
	cfg.Sim.Steps = 40
	return cfg
}

func TestGridSearchFindsMinimum(t *testing.T) {
	g := NewGridSearch([]string{"friction", "dt"}, [][]float64{{0.5, 0.9}, {0.001, 0.005}})
	params, best, trials, err := g.Search(context.Background(), ConfigBuilder(smallPair()), "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(trials) != 4 {
		t.Fatalf("expected 4 trials, got %d", len(trials))
	}

	for _, tr := range trials {
		if tr.Err != nil {
			t.Errorf("trial %v failed: %v", tr.Params, tr.Err)
		}
		if tr.Value < best {
			t.Errorf("trial %v beat reported best %v", tr.Params, best)
		}
	}
	if _, ok := params["friction"]; !ok {
		t.Errorf("best params missing friction: %v", params)
	}
}

func TestGridSearchSkipsInvalid(t *testing.T) {
	g := NewGridSearch([]string{"friction"}, [][]float64{{2, 0.9}})
	params, _, trials, err := g.Search(context.Background(), ConfigBuilder(smallPair()), "mean_radius")
	if err != nil {
		t.Fatal(err)
	}
	if params["friction"] != 0.9 {
		t.Errorf("expected the valid friction to win, got %v", params)
	}
	if trials[0].Err == nil {
		t.Error("invalid friction should be recorded as failed")
	}
}

func TestGridSearchNoResult(t *testing.T) {
	g := NewGridSearch([]string{"friction"}, [][]float64{{0.9}})
	_, _, _, err := g.Search(context.Background(), ConfigBuilder(smallPair()), "no_such_metric")
	if !errors.Is(err, ErrNoResult) {
		t.Errorf("expected ErrNoResult, got %v", err)
	}
}

func TestGridSearchMismatchedRanges(t *testing.T) {
	g := NewGridSearch([]string{"friction", "dt"}, [][]float64{{0.9}})
	if _, _, _, err := g.Search(context.Background(), ConfigBuilder(smallPair()), ""); err == nil {
		t.Error("expected error for mismatched ranges")
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"friction"}, [][]float64{{0.9}})
	if _, _, _, err := g.Search(ctx, ConfigBuilder(smallPair()), ""); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(0.5, 1, 3)
	want := []float64{0.5, 0.75, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(Linspace(1, 2, 1)) != 1 {
		t.Error("n=1 should give a single value")
	}
}
