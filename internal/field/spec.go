package field

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWavenumber is returned when a spec is built from a wavenumber
// that is not a finite positive real.
var ErrInvalidWavenumber = errors.New("field: wavenumber must be finite and positive")

// RiemannZeros holds the imaginary parts of the first 30 non-trivial zeros
// of the zeta function, rounded to four decimals.
var RiemannZeros = [...]float64{
	14.1347, 21.0220, 25.0108, 30.4248, 32.9350, 37.5861, 40.9187, 43.3270, 48.0051, 49.7738,
	52.9703, 56.4462, 59.3470, 60.8317, 65.1125, 67.0798, 69.5464, 72.0671, 75.7046, 77.1448,
	79.3373, 82.9103, 84.7354, 87.4252, 88.8091, 92.4918, 94.6513, 95.8706, 98.8311, 101.3178,
}

// FirstZeros returns a copy of the first n entries of RiemannZeros.
// n is clamped to the table size.
func FirstZeros(n int) []float64 {
	if n < 0 {
		n = 0
	}
	if n > len(RiemannZeros) {
		n = len(RiemannZeros)
	}
	out := make([]float64, n)
	copy(out, RiemannZeros[:n])
	return out
}

// Spec is the immutable, ordered set of wavenumbers driving the radial field.
type Spec struct {
	ks []float64
}

// NewSpec scales every value by scale and returns the resulting spec.
// An empty spec is valid and describes a zero field.
func NewSpec(scale float64, ks ...float64) (Spec, error) {
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return Spec{}, fmt.Errorf("%w: scale %v", ErrInvalidWavenumber, scale)
	}
	out := make([]float64, len(ks))
	for i, k := range ks {
		v := k * scale
		if !(v > 0) || math.IsInf(v, 0) {
			return Spec{}, fmt.Errorf("%w: index %d = %v", ErrInvalidWavenumber, i, k)
		}
		out[i] = v
	}
	return Spec{ks: out}, nil
}

func (s Spec) Len() int { return len(s.ks) }

func (s Spec) At(i int) float64 { return s.ks[i] }

// Wavenumbers returns a copy of the wavenumbers in construction order.
func (s Spec) Wavenumbers() []float64 {
	out := make([]float64, len(s.ks))
	copy(out, s.ks)
	return out
}
