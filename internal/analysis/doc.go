// Package analysis provides tools for inspecting a settled particle field.
//
//   - [Nodes]: radii where the superposed amplitude crosses zero
//   - [RadialHistogram]: particle density per radial shell
//   - [PowerSpectrum]: spectrum of a radial profile, for ring spacing
//   - [RingDiagram]: parameter sweep recording where rings form
//   - [RadialPhase]: (r, dr/dt) portrait of a state
//   - [SampleGrid]: amplitude sampled on a square grid
//
// # Settling check
//
// A settled state sits closer to the field's nodes than a uniform scatter:
//
//	nodes := analysis.Nodes(ev, math.Sqrt2, 4096)
//	before := analysis.MeanNodeDistance(nodes, initial.Radii())
//	after := analysis.MeanNodeDistance(nodes, res.Final.Radii())
package analysis
