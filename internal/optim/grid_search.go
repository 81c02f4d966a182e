package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/experiment"
)

// DefaultMetric is minimized when no metric is named.
const DefaultMetric = "node_distance"

var ErrNoResult = errors.New("optim: no parameter combination produced a result")

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type Builder func(params map[string]float64) (*experiment.Experiment, error)

// ConfigBuilder applies each grid point to a copy of base.
func ConfigBuilder(base *config.Config) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for name, v := range params {
			if err := experiment.SetParam(cfg, name, v); err != nil {
				return nil, err
			}
		}
		return experiment.New(cfg)
	}
}

// Search runs every combination and returns the one with the smallest
// metric value. Combinations that fail to build or run are skipped and
// recorded in the trials.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, []Trial, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	if metricName == "" {
		metricName = DefaultMetric
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	trials := make([]Trial, 0)

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams, &trials)
	if err != nil {
		return bestParams, best, trials, err
	}
	if bestParams == nil {
		return nil, best, trials, ErrNoResult
	}
	return bestParams, best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		trial := Trial{Params: current}
		defer func() { *trials = append(*trials, trial) }()

		exp, err := build(current)
		if err != nil {
			trial.Err = err
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			trial.Err = err
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			trial.Err = fmt.Errorf("unknown metric: %s", metricName)
			return nil
		}
		trial.Value = val
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams, trials); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
