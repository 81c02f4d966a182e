package analysis

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Grid is a row-major square sample of the field, row 0 at y = -HalfWidth.
type Grid struct {
	Resolution int
	HalfWidth  float64
	Values     []float64
}

func (g *Grid) At(row, col int) float64 { return g.Values[row*g.Resolution+col] }

// Coord returns the plane coordinate of a grid cell.
func (g *Grid) Coord(row, col int) r2.Vec {
	step := 2 * g.HalfWidth / float64(g.Resolution-1)
	return r2.Vec{X: -g.HalfWidth + float64(col)*step, Y: -g.HalfWidth + float64(row)*step}
}

// SampleGrid evaluates the radial field at every grid point.
func SampleGrid(f Amplituder, resolution int, halfWidth float64) *Grid {
	return sample(resolution, halfWidth, func(p r2.Vec) float64 {
		return f.Amplitude(math.Hypot(p.X, p.Y))
	})
}

// SampleTwoSource superposes two copies of the radial field centred at a and
// b, producing the interference pattern of two point sources.
func SampleTwoSource(f Amplituder, resolution int, halfWidth float64, a, b r2.Vec) *Grid {
	return sample(resolution, halfWidth, func(p r2.Vec) float64 {
		da, db := r2.Sub(p, a), r2.Sub(p, b)
		return f.Amplitude(math.Hypot(da.X, da.Y)) + f.Amplitude(math.Hypot(db.X, db.Y))
	})
}

func sample(resolution int, halfWidth float64, fn func(r2.Vec) float64) *Grid {
	if resolution < 2 {
		resolution = 2
	}
	g := &Grid{
		Resolution: resolution,
		HalfWidth:  halfWidth,
		Values:     make([]float64, resolution*resolution),
	}
	for row := 0; row < resolution; row++ {
		for col := 0; col < resolution; col++ {
			g.Values[row*resolution+col] = fn(g.Coord(row, col))
		}
	}
	return g
}

// MaxAbs returns the largest |value| on the grid.
func (g *Grid) MaxAbs() float64 {
	m := 0.0
	for _, v := range g.Values {
		m = math.Max(m, math.Abs(v))
	}
	return m
}
