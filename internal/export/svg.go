package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/viz"
)

// SVGOptions controls the particle scatter rendering.
type SVGOptions struct {
	Size       int
	DotRadius  float64
	Background string
	Dot        string
	Centre     string
	// Rings are node radii drawn as thin circles behind the particles.
	Rings []float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Size:       800,
		DotRadius:  1.2,
		Background: "#000000",
		Dot:        "#00ffff",
		Centre:     "#ffff00",
	}
}

// ParticlesToSVG draws the positions of s on the square [-bound, bound]²,
// y up, with the field centre marked.
func ParticlesToSVG(s *dynamo.State, bound float64, opts SVGOptions) string {
	if s == nil || bound <= 0 {
		return ""
	}
	size := float64(opts.Size)
	scale := size / (2 * bound)
	toX := func(x float64) float64 { return (x + bound) * scale }
	toY := func(y float64) float64 { return (bound - y) * scale }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Size, opts.Size, opts.Size, opts.Size, opts.Background))

	if len(opts.Rings) > 0 {
		sb.WriteString(`<g fill="none" stroke="#333355" stroke-width="1">` + "\n")
		for _, r := range opts.Rings {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.2f"/>`+"\n", toX(0), toY(0), r*scale))
		}
		sb.WriteString("</g>\n")
	}

	sb.WriteString(fmt.Sprintf(`<g fill="%s">`+"\n", opts.Dot))
	for _, p := range s.Positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.1f"/>`+"\n", toX(p.X), toY(p.Y), opts.DotRadius))
	}
	sb.WriteString("</g>\n")

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", toX(0), toY(0), opts.DotRadius*3, opts.Centre))
	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.PixelWidth()) * scale
	height := float64(canvas.PixelHeight()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ffff">
`, width, height, width, height))

	dotRadius := scale * 0.4
	for y := 0; y < canvas.PixelHeight(); y++ {
		for x := 0; x < canvas.PixelWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n", cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// RadiusSeriesToSVG plots the mean radius history as a polyline.
func RadiusSeriesToSVG(series []float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	lo -= rng * 0.1
	rng *= 1.2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	last := float64(len(series) - 1)
	for i, v := range series {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/rng*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
