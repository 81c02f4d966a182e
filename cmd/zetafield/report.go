package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/zetafield/internal/analysis"
	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/export"
	"github.com/san-kum/zetafield/internal/metrics"
	"github.com/san-kum/zetafield/internal/storage"
	"github.com/san-kum/zetafield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	svgOut      string
	jsonOut     string
	plotBins    int
	analyzeBins int
	showRings   bool
	svgSize     int
	svgKind     string
	plotStep    int
	svgStep     int
)

func reportCommands() []*cobra.Command {
	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot the mean radius, radial histogram and final scatter of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBins, "bins", 60, "radial histogram bins")
	plotCmd.Flags().IntVar(&plotStep, "step", -1, "replay a stored snapshot instead of the final state")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "compare density rings with field nodes",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&analyzeBins, "bins", 128, "radial histogram bins")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run as SVG: particle scatter, braille canvas or mean radius curve",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&showRings, "rings", false, "draw field nodes behind the particles")
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "particles", "particles, braille or series")
	exportSVGCmd.Flags().IntVar(&svgStep, "step", -1, "use a stored snapshot instead of the final state")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and particles as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&jsonOut, "out", "o", "-", "output file, - for stdout")

	return []*cobra.Command{plotCmd, analyzeCmd, exportSVGCmd, exportJSONCmd}
}

// loadState returns the final state of a run, or the snapshot taken at step
// when step is not negative.
func loadState(st *storage.Store, runID string, step int) (*dynamo.State, error) {
	if step < 0 {
		return st.LoadParticles(runID)
	}
	snaps, err := st.LoadSnapshots(runID)
	if err != nil {
		return nil, err
	}
	steps := make([]string, len(snaps))
	for i, snap := range snaps {
		if snap.Step == step {
			return snap.State, nil
		}
		steps[i] = strconv.Itoa(snap.Step)
	}
	return nil, fmt.Errorf("run %s has no snapshot at step %d (have %s)", runID, step, strings.Join(steps, ", "))
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	state, err := loadState(st, runID, plotStep)
	if err != nil {
		return err
	}
	series, err := st.LoadMeanRadius(runID)
	if err != nil {
		return err
	}
	ev, err := meta.Evaluator()
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("particles: %d  steps: %d\n", meta.Particles, meta.StepsTaken)
	if plotStep >= 0 {
		fmt.Printf("snapshot: step %d\n", plotStep)
	}
	fmt.Println()

	if len(series) > 1 {
		fmt.Println(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean radius vs step"),
		))
		fmt.Println()
	}

	rmax := meta.Bound * math.Sqrt2
	counts, _ := analysis.RadialHistogram(state.Radii(), plotBins, rmax)
	if len(counts) > 1 {
		fmt.Println(asciigraph.Plot(counts,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("particles per radial shell, 0..%.2f", rmax)),
		))
		fmt.Println()
	}

	nodes := analysis.Nodes(ev, rmax, metrics.NodeScanSamples)
	canvas := viz.Scatter(state, meta.Bound, 40, 20, nodes)
	fmt.Println(viz.ParticleStyle.Render(canvas.String()))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	ev, err := meta.Evaluator()
	if err != nil {
		return err
	}

	radii := final.Radii()
	rmax := meta.Bound * math.Sqrt2
	mean, std := analysis.RadialStats(radii)
	fmt.Printf("ring analysis: %s\n\n", meta.ID)
	fmt.Printf("radius: mean %.4f  std %.4f\n", mean, std)

	bins := analyzeBins
	counts, edges := analysis.RadialHistogram(radii, bins, rmax)
	nodes := analysis.Nodes(ev, rmax, metrics.NodeScanSamples)
	peaks := analysis.Peaks(counts, edges, float64(len(radii))/float64(bins))

	fmt.Printf("\n%-10s  %-10s  %-10s\n", "peak", "node", "offset")
	for _, p := range peaks {
		node, d := analysis.NearestNode(nodes, p)
		fmt.Printf("%-10.4f  %-10.4f  %-10.4f\n", p, node, d)
	}
	fmt.Printf("\nmean node distance: %.4f\n", analysis.MeanNodeDistance(nodes, radii))

	ps := analysis.PowerSpectrum(counts)
	if period := analysis.DominantPeriod(ps, len(counts), rmax/float64(bins)); period > 0 {
		fmt.Printf("dominant ring spacing: %.4f\n", period)
	}

	phase := analysis.RadialPhase(final)
	inward := 0
	for _, pt := range phase {
		if pt.Vr < 0 {
			inward++
		}
	}
	fmt.Printf("moving inward: %d/%d\n", inward, len(phase))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	var out string
	switch svgKind {
	case "series":
		series, err := st.LoadMeanRadius(runID)
		if err != nil {
			return err
		}
		if len(series) < 2 {
			return fmt.Errorf("run %s has no mean radius history", runID)
		}
		out = export.RadiusSeriesToSVG(series, svgSize, svgSize/2, "#00ffff")
	case "braille", "particles":
		state, err := loadState(st, runID, svgStep)
		if err != nil {
			return err
		}
		var rings []float64
		if showRings {
			ev, err := meta.Evaluator()
			if err != nil {
				return err
			}
			rings = analysis.Nodes(ev, meta.Bound*math.Sqrt2, metrics.NodeScanSamples)
		}
		if svgKind == "braille" {
			// a braille cell is 2x4 dots, each dot 4 svg units
			canvas := viz.Scatter(state, meta.Bound, max(1, svgSize/8), max(1, svgSize/16), rings)
			out = export.CanvasToSVG(canvas, 4)
		} else {
			opts := export.DefaultSVGOptions()
			opts.Size = svgSize
			opts.Rings = rings
			out = export.ParticlesToSVG(state, meta.Bound, opts)
		}
	default:
		return fmt.Errorf("unknown svg kind %q (want particles, braille or series)", svgKind)
	}

	path := svgOut
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	final, err := st.LoadParticles(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadMeanRadius(runID)
	if err != nil {
		return err
	}
	return export.WriteJSONFile(jsonOut, export.NewExportData(*meta, final, series))
}
