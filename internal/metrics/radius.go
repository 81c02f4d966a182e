package metrics

import (
	"math"

	"github.com/san-kum/zetafield/internal/analysis"
	"github.com/san-kum/zetafield/internal/dynamo"
)

type MeanRadius struct {
	name  string
	value float64
}

func NewMeanRadius() *MeanRadius {
	return &MeanRadius{name: "mean_radius"}
}

func (m *MeanRadius) Name() string                      { return m.name }
func (m *MeanRadius) Observe(s *dynamo.State, step int) { m.value = s.MeanRadius() }
func (m *MeanRadius) Value() float64                    { return m.value }
func (m *MeanRadius) Reset()                            { m.value = 0 }

// NodeDistance reports the mean distance from each particle's radius to the
// nearest node of the field. Nodes are located once, at construction.
type NodeDistance struct {
	name  string
	nodes []float64
	value float64
}

// NodeScanSamples is the sign-change scan resolution used by NewNodeDistance.
const NodeScanSamples = 4096

func NewNodeDistance(f analysis.Amplituder, bound float64) *NodeDistance {
	return &NodeDistance{
		name:  "node_distance",
		nodes: analysis.Nodes(f, bound*math.Sqrt2, NodeScanSamples),
	}
}

func (n *NodeDistance) Name() string { return n.name }

func (n *NodeDistance) Observe(s *dynamo.State, step int) {
	n.value = analysis.MeanNodeDistance(n.nodes, s.Radii())
}

func (n *NodeDistance) Value() float64   { return n.value }
func (n *NodeDistance) Reset()           { n.value = 0 }
func (n *NodeDistance) Nodes() []float64 { return n.nodes }

// Default returns the metric set recorded for every run.
func Default(f analysis.Amplituder, bound float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewMeanRadius(),
		NewKineticEnergy(),
		NewFieldEnergy(f),
		NewNodeDistance(f, bound),
		NewBoundaryFraction(bound),
	}
}
