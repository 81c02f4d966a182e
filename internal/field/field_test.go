package field

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

// First two zeros of J0.
const (
	j01 = 2.404825557695773
	j02 = 5.520078110286311
)

func TestNewSpec(t *testing.T) {
	tests := []struct {
		name    string
		scale   float64
		ks      []float64
		wantErr bool
	}{
		{"empty", 1, nil, false},
		{"riemann pair", 1, []float64{14.1347, 21.0220}, false},
		{"scaled", 0.5, []float64{2, 4}, false},
		{"zero", 1, []float64{0}, true},
		{"negative", 1, []float64{3, -1}, true},
		{"nan", 1, []float64{math.NaN()}, true},
		{"inf", 1, []float64{math.Inf(1)}, true},
		{"bad scale", 0, []float64{1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSpec(tt.scale, tt.ks...)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidWavenumber) {
					t.Fatalf("expected ErrInvalidWavenumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Len() != len(tt.ks) {
				t.Errorf("Len() = %d, want %d", s.Len(), len(tt.ks))
			}
			for i, k := range tt.ks {
				if s.At(i) != k*tt.scale {
					t.Errorf("At(%d) = %v, want %v", i, s.At(i), k*tt.scale)
				}
			}
		})
	}
}

func TestSpecIsImmutable(t *testing.T) {
	in := []float64{1, 2, 3}
	s, err := NewSpec(1, in...)
	if err != nil {
		t.Fatal(err)
	}
	in[0] = 99
	ks := s.Wavenumbers()
	ks[1] = 99
	if s.At(0) != 1 || s.At(1) != 2 {
		t.Errorf("spec mutated through caller slices: %v", s.Wavenumbers())
	}
}

func TestFirstZeros(t *testing.T) {
	if got := FirstZeros(2); len(got) != 2 || got[0] != 14.1347 || got[1] != 21.0220 {
		t.Errorf("FirstZeros(2) = %v", got)
	}
	if got := FirstZeros(100); len(got) != len(RiemannZeros) {
		t.Errorf("expected clamp to %d, got %d", len(RiemannZeros), len(got))
	}
	if got := FirstZeros(-1); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestAmplitudeSuperposition(t *testing.T) {
	s, _ := NewSpec(1, 3, 7)
	e := NewEvaluator(s)

	r := 0.37
	want := math.J0(3*r) + math.J0(7*r)
	if got := e.Amplitude(r); math.Abs(got-want) > 1e-15 {
		t.Errorf("Amplitude(%v) = %v, want %v", r, got, want)
	}
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	ks := []float64{14.1347, 21.0220, 25.0108}
	s, _ := NewSpec(1, ks...)
	e := NewEvaluator(s)

	energy := func(r float64) float64 {
		var sum float64
		for _, k := range ks {
			j := math.J0(k * r)
			sum += j * j
		}
		return sum
	}

	h := 1e-6
	for _, r := range []float64{0.05, 0.2, 0.5, 0.81, 1.3} {
		fd := (energy(r+h) - energy(r-h)) / (2 * h)
		if got := e.Gradient(r); math.Abs(got-fd) > 1e-5*math.Max(1, math.Abs(fd)) {
			t.Errorf("Gradient(%v) = %v, finite difference %v", r, got, fd)
		}
	}
}

func TestGradientSingleWavenumberIsSquaredAmplitude(t *testing.T) {
	s, _ := NewSpec(1, 14.1347)
	e := NewEvaluator(s)

	h := 1e-6
	for _, r := range []float64{0.05, 0.3, 0.9} {
		ap := e.Amplitude(r + h)
		am := e.Amplitude(r - h)
		fd := (ap*ap - am*am) / (2 * h)
		if got := e.Gradient(r); math.Abs(got-fd) > 1e-5*math.Max(1, math.Abs(fd)) {
			t.Errorf("Gradient(%v) = %v, finite difference %v", r, got, fd)
		}
	}
}

func TestEvaluateEmptySpec(t *testing.T) {
	s, _ := NewSpec(1)
	e := NewEvaluator(s)
	a, g := e.Evaluate(0.5)
	if a != 0 || g != 0 {
		t.Errorf("empty spec should be a zero field, got amp=%v grad=%v", a, g)
	}
}

func TestGradientVanishesAtCommonNode(t *testing.T) {
	// Both terms share a node at r = 0.5.
	s, _ := NewSpec(1, 2*j01, 2*j02)
	e := NewEvaluator(s)

	a, g := e.Evaluate(0.5)
	if math.Abs(a) > 1e-14 {
		t.Errorf("amplitude at node = %v", a)
	}
	if math.Abs(g) > 1e-12 {
		t.Errorf("gradient at node = %v", g)
	}
}

func TestRadiusFloor(t *testing.T) {
	s, _ := NewSpec(1, 14.1347)

	tests := []struct {
		name   string
		policy SingularityPolicy
		p      r2.Vec
		wantR  float64
		wantOK bool
	}{
		{"origin floor", FloorRadius, r2.Vec{}, DefaultRadiusFloor, true},
		{"origin zero force", ZeroForceAtOrigin, r2.Vec{}, DefaultRadiusFloor, false},
		{"below floor", FloorRadius, r2.Vec{X: 1e-6}, DefaultRadiusFloor, true},
		{"regular", ZeroForceAtOrigin, r2.Vec{X: 0.3, Y: 0.4}, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(s, WithPolicy(tt.policy))
			r, ok := e.Radius(tt.p)
			if math.Abs(r-tt.wantR) > 1e-15 || ok != tt.wantOK {
				t.Errorf("Radius(%v) = (%v, %v), want (%v, %v)", tt.p, r, ok, tt.wantR, tt.wantOK)
			}
		})
	}

	e := NewEvaluator(s)
	a0, g0 := e.Evaluate(0)
	af, gf := e.Evaluate(DefaultRadiusFloor)
	if a0 != af || g0 != gf {
		t.Error("evaluation below the floor should match evaluation at the floor")
	}
	if math.IsNaN(g0) || math.IsInf(g0, 0) {
		t.Errorf("gradient at origin not finite: %v", g0)
	}
}

func TestWithRadiusFloor(t *testing.T) {
	s, _ := NewSpec(1, 1)
	e := NewEvaluator(s, WithRadiusFloor(1e-2))
	if e.Floor() != 1e-2 {
		t.Errorf("Floor() = %v", e.Floor())
	}
	e = NewEvaluator(s, WithRadiusFloor(-1))
	if e.Floor() != DefaultRadiusFloor {
		t.Errorf("non-positive floor should be ignored, got %v", e.Floor())
	}
}

func TestEvaluateBatch(t *testing.T) {
	s, _ := NewSpec(1, 14.1347, 21.0220)
	e := NewEvaluator(s)

	radii := []float64{0, 0.1, 0.4, 0.9}
	amp := make([]float64, len(radii))
	grad := make([]float64, len(radii))
	e.EvaluateBatch(radii, amp, grad)

	for i, r := range radii {
		a, g := e.Evaluate(r)
		if amp[i] != a || grad[i] != g {
			t.Errorf("batch[%d] = (%v, %v), want (%v, %v)", i, amp[i], grad[i], a, g)
		}
	}

	e.EvaluateBatch(radii, nil, grad)
}

func TestParsePolicy(t *testing.T) {
	if ParsePolicy("zero-force") != ZeroForceAtOrigin {
		t.Error("expected zero-force policy")
	}
	if ParsePolicy("") != FloorRadius || ParsePolicy("bogus") != FloorRadius {
		t.Error("expected floor policy as default")
	}
}

func BenchmarkEvaluate30(b *testing.B) {
	s, _ := NewSpec(1, FirstZeros(30)...)
	e := NewEvaluator(s)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Evaluate(0.5)
	}
}
