package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/storage"
)

type Particle struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	VX float64 `json:"vx"`
	VY float64 `json:"vy"`
}

type ExportData struct {
	Run        storage.RunMetadata `json:"run"`
	MeanRadius []float64           `json:"mean_radius,omitempty"`
	Particles  []Particle          `json:"particles"`
}

func NewExportData(meta storage.RunMetadata, final *dynamo.State, series []float64) ExportData {
	data := ExportData{
		Run:        meta,
		MeanRadius: series,
		Particles:  make([]Particle, final.Len()),
	}
	for i := range final.Positions {
		p, v := final.Positions[i], final.Velocities[i]
		data.Particles[i] = Particle{X: p.X, Y: p.Y, VX: v.X, VY: v.Y}
	}
	return data
}

// WriteJSON encodes data as indented JSON to w.
func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteJSONFile writes to path, or to stdout when path is "-" or empty.
func WriteJSONFile(path string, data ExportData) error {
	if path == "" || path == "-" {
		return WriteJSON(os.Stdout, data)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(f, data)
}
