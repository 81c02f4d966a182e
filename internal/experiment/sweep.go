package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

type Outcome struct {
	Config *config.Config
	Result *dynamo.Result
}

// Vary returns one copy of base per value, with param set to that value.
func Vary(base *config.Config, param string, values []float64) ([]*config.Config, error) {
	out := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := SetParam(cfg, param, v); err != nil {
			return nil, err
		}
		cfg.Name = fmt.Sprintf("%s_%s_%g", base.Name, param, v)
		out[i] = cfg
	}
	return out, nil
}

// Sweep runs each config as an independent experiment, at most workers at a
// time. Outcomes keep the order of variants. The first failure cancels the
// remaining runs.
func Sweep(ctx context.Context, variants []*config.Config, workers int) ([]Outcome, error) {
	outcomes := make([]Outcome, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, cfg := range variants {
		i, cfg := i, cfg
		g.Go(func() error {
			exp, err := New(cfg)
			if err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("%s: %w", cfg.Name, err)
			}
			outcomes[i] = Outcome{Config: exp.Config(), Result: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
