package viz

import (
	"math"
	"strings"

	"github.com/san-kum/zetafield/internal/analysis"
	"github.com/san-kum/zetafield/internal/dynamo"
)

// Scatter draws every particle of s onto a fresh canvas covering
// [-bound, bound]², with optional node rings underneath.
func Scatter(s *dynamo.State, bound float64, w, h int, rings []float64) *Canvas {
	c := NewCanvas(w, h)
	for _, r := range rings {
		if r <= bound*math.Sqrt2 {
			c.DrawCircle(r, bound)
		}
	}
	for _, p := range s.Positions {
		c.Plot(p.X, p.Y, bound)
	}
	return c
}

var shades = []rune{' ', '░', '▒', '▓', '█'}

// NodeMap renders |amplitude| of a sampled grid as block shades. Nodal
// lines come out blank.
func NodeMap(g *analysis.Grid, w, h int) string {
	if g == nil || w <= 0 || h <= 0 {
		return ""
	}
	peak := g.MaxAbs()
	if peak == 0 {
		peak = 1
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		// row 0 of the grid is the bottom edge
		row := (h - 1 - y) * (g.Resolution - 1) / max(h-1, 1)
		for x := 0; x < w; x++ {
			col := x * (g.Resolution - 1) / max(w-1, 1)
			norm := math.Abs(g.At(row, col)) / peak
			if math.IsNaN(norm) {
				norm = 1
			}
			idx := int(norm * float64(len(shades)))
			if idx >= len(shades) {
				idx = len(shades) - 1
			}
			b.WriteRune(shades[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
