package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/zetafield/internal/dynamo"
)

var factories = map[string]func() dynamo.Integrator{
	"euler":    func() dynamo.Integrator { return NewDampedEuler() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
}

// Get returns a fresh integrator by name.
func Get(name string) (dynamo.Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
