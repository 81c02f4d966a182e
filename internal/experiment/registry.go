package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/field"
	"github.com/san-kum/zetafield/internal/integrators"
	"github.com/san-kum/zetafield/internal/metrics"
)

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}
	for _, name := range integrators.Names() {
		name := name
		r.integrators[name] = func() dynamo.Integrator {
			integ, _ := integrators.Get(name)
			return integ
		}
	}
	return r
}

// RegisterIntegrator adds or replaces a named integrator factory.
func (r *Registry) RegisterIntegrator(name string, fn func() dynamo.Integrator) {
	r.integrators[name] = fn
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(ev *field.Evaluator, bound float64) []dynamo.Metric {
	return metrics.Default(ev, bound)
}
