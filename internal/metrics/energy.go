package metrics

import (
	"math"

	"github.com/san-kum/zetafield/internal/dynamo"
)

// KineticEnergy reports the mean ½|v|² per particle at the last observed step.
type KineticEnergy struct {
	name  string
	value float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s *dynamo.State, step int) {
	if s.Len() == 0 {
		k.value = 0
		return
	}
	sum := 0.0
	for _, v := range s.Velocities {
		sum += 0.5 * (v.X*v.X + v.Y*v.Y)
	}
	k.value = sum / float64(s.Len())
}

func (k *KineticEnergy) Value() float64 { return k.value }
func (k *KineticEnergy) Reset()         { k.value = 0 }

// Amplituder is satisfied by *field.Evaluator.
type Amplituder interface {
	Amplitude(r float64) float64
}

// FieldEnergy reports the mean energy density A(r)² at the particles'
// positions. It falls as particles gather on nodes.
type FieldEnergy struct {
	name  string
	field Amplituder
	value float64
}

func NewFieldEnergy(f Amplituder) *FieldEnergy {
	return &FieldEnergy{name: "field_energy", field: f}
}

func (e *FieldEnergy) Name() string { return e.name }

func (e *FieldEnergy) Observe(s *dynamo.State, step int) {
	e.value = MeanFieldEnergy(e.field, s)
}

func (e *FieldEnergy) Value() float64 { return e.value }
func (e *FieldEnergy) Reset()         { e.value = 0 }

// MeanFieldEnergy is the one-shot form of FieldEnergy.
func MeanFieldEnergy(f Amplituder, s *dynamo.State) float64 {
	if s.Len() == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Positions {
		a := f.Amplitude(math.Hypot(p.X, p.Y))
		sum += a * a
	}
	return sum / float64(s.Len())
}
