package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/zetafield/internal/analysis"
	"github.com/san-kum/zetafield/internal/automation"
	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/experiment"
	"github.com/san-kum/zetafield/internal/field"
	"github.com/san-kum/zetafield/internal/integrators"
	"github.com/san-kum/zetafield/internal/metrics"
	"github.com/san-kum/zetafield/internal/optim"
	"github.com/san-kum/zetafield/internal/viz"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	rmax        float64
	resolution  int
	profile     bool
	twoSource   bool
	separation  float64
	sweepParam  string
	sweepValues string
	sweepJobs   int
	searchGrid  []string
	metricName  string
	ringParam   string
	ringValues  string
	ringBins    int
	trials      int
	seedStart   int64
)

func studyCommands() []*cobra.Command {
	nodesCmd := &cobra.Command{
		Use:   "nodes",
		Short: "list the nodal radii of the configured field",
		Args:  cobra.NoArgs,
		RunE:  listNodes,
	}
	addConfigFlags(nodesCmd)
	nodesCmd.Flags().Float64Var(&rmax, "rmax", 0, "largest radius to scan (default the box corner)")
	nodesCmd.Flags().BoolVar(&profile, "profile", false, "also plot amplitude and energy gradient against radius")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "render |amplitude| of the field, nodes blank",
		Args:  cobra.NoArgs,
		RunE:  showField,
	}
	addConfigFlags(fieldCmd)
	fieldCmd.Flags().IntVar(&resolution, "res", 201, "grid resolution")
	fieldCmd.Flags().BoolVar(&twoSource, "two-source", false, "superpose two sources on the x axis")
	fieldCmd.Flags().Float64Var(&separation, "separation", 0.6, "distance between the two sources")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one experiment per parameter value, concurrently",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "friction", "parameter to vary ("+strings.Join(experiment.Tunable, ", ")+")")
	sweepCmd.Flags().StringVar(&sweepValues, "values", "0.8,0.85,0.9,0.95", "comma separated values or lo:hi:n")
	sweepCmd.Flags().IntVar(&sweepJobs, "jobs", 4, "experiments run at once")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search for the parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	addConfigFlags(searchCmd)
	searchCmd.Flags().StringArrayVar(&searchGrid, "grid", []string{"friction=0.8:0.95:4", "dt=0.002:0.008:4"}, "name=values, repeatable")
	searchCmd.Flags().StringVar(&metricName, "metric", optim.DefaultMetric, "metric to minimize")

	ringsCmd := &cobra.Command{
		Use:   "rings",
		Short: "track where density rings form as a parameter varies",
		Args:  cobra.NoArgs,
		RunE:  runRings,
	}
	addConfigFlags(ringsCmd)
	ringsCmd.Flags().StringVar(&ringParam, "param", "friction", "parameter to vary (friction, dt, steps)")
	ringsCmd.Flags().StringVar(&ringValues, "values", "0.5:0.99:8", "comma separated values or lo:hi:n")
	ringsCmd.Flags().IntVar(&ringBins, "bins", 128, "radial histogram bins")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "measure particle steps per second",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of configurations",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "repeat a configuration over consecutive seeds",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	addConfigFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&trials, "trials", 8, "number of seeds")
	ensembleCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "first seed")
	ensembleCmd.Flags().IntVar(&sweepJobs, "jobs", 4, "experiments run at once")

	return []*cobra.Command{nodesCmd, fieldCmd, sweepCmd, searchCmd, ringsCmd, benchCmd, scenarioCmd, ensembleCmd}
}

func listNodes(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ev, err := cfg.Evaluator()
	if err != nil {
		return err
	}

	limit := rmax
	if limit <= 0 {
		limit = cfg.Sim.Bound * math.Sqrt2
	}
	nodes := analysis.Nodes(ev, limit, metrics.NodeScanSamples)
	fmt.Printf("%d nodes in (0, %.4f]\n", len(nodes), limit)
	for i, r := range nodes {
		fmt.Printf("  %3d  %.6f\n", i+1, r)
	}
	if profile {
		fmt.Println()
		fmt.Print(radialProfile(ev, limit, 160))
	}
	return nil
}

// radialProfile plots A(r) and the energy gradient over (0, limit].
func radialProfile(ev *field.Evaluator, limit float64, samples int) string {
	radii := make([]float64, samples)
	for i := range radii {
		radii[i] = limit * float64(i+1) / float64(samples)
	}
	amp := make([]float64, samples)
	grad := make([]float64, samples)
	ev.EvaluateBatch(radii, amp, grad)

	return asciigraph.Plot(amp, asciigraph.Height(10), asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("amplitude, r in (0, %.3f]", limit))) +
		"\n\n" +
		asciigraph.Plot(grad, asciigraph.Height(10), asciigraph.Width(80),
			asciigraph.Caption("energy gradient")) + "\n"
}

func showField(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	ev, err := cfg.Evaluator()
	if err != nil {
		return err
	}

	var g *analysis.Grid
	if twoSource {
		half := separation / 2
		g = analysis.SampleTwoSource(ev, resolution, cfg.Sim.Bound, r2.Vec{X: -half}, r2.Vec{X: half})
	} else {
		g = analysis.SampleGrid(ev, resolution, cfg.Sim.Bound)
	}
	fmt.Print(viz.NodeMap(g, 80, 40))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	values, err := parseFloats(sweepValues)
	if err != nil {
		return err
	}
	variants, err := experiment.Vary(cfg, sweepParam, values)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %d values\n", sweepParam, len(values))
	start := time.Now()
	outcomes, err := experiment.Sweep(context.Background(), variants, sweepJobs)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tNODE DIST\tFIELD ENERGY\tMEAN RADIUS\tAT BOUNDARY\n", strings.ToUpper(sweepParam))
	for i, o := range outcomes {
		m := o.Result.Metrics
		fmt.Fprintf(w, "%g\t%.5f\t%.5f\t%.4f\t%.3f\n",
			values[i], m["node_distance"], m["field_energy"], m["mean_radius"], m["boundary_fraction"])
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(searchGrid))
	ranges := make([][]float64, 0, len(searchGrid))
	for _, spec := range searchGrid {
		name, vals, ok := strings.Cut(spec, "=")
		if !ok {
			return fmt.Errorf("invalid grid %q, want name=values", spec)
		}
		values, err := parseFloats(vals)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}

	g := optim.NewGridSearch(names, ranges)
	best, value, trials, err := g.Search(context.Background(), optim.ConfigBuilder(cfg), metricName)
	if err != nil {
		return err
	}

	failed := 0
	for _, t := range trials {
		if t.Err != nil {
			failed++
		}
	}
	fmt.Printf("evaluated %d combinations (%d failed)\n", len(trials), failed)
	fmt.Printf("best %s: %.6f\n", metricName, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

func runRings(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	values, err := parseFloats(ringValues)
	if err != nil {
		return err
	}
	ev, err := cfg.Evaluator()
	if err != nil {
		return err
	}
	integ, err := integrators.Get(cfg.Integrator)
	if err != nil {
		return err
	}

	points, err := analysis.RingDiagram(context.Background(), ev, integ, cfg.Params(), ringParam, values, ringBins)
	if err != nil {
		return err
	}

	counts := make([]float64, len(points))
	for i, pt := range points {
		counts[i] = float64(len(pt.Rings))
		rings := make([]string, len(pt.Rings))
		for j, r := range pt.Rings {
			rings[j] = fmt.Sprintf("%.3f", r)
		}
		fmt.Printf("%s=%-8.4g %s\n", ringParam, pt.Param, strings.Join(rings, " "))
	}
	if len(counts) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(counts, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("rings found")))
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	base := config.GetPreset("pair")
	fmt.Println("benchmarking damped euler on the pair field")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLES\tWORKERS\tSTEPS\tTIME\tPARTICLE-STEPS/SEC")
	for _, n := range []int{500, 2000, 10000} {
		for _, wk := range []int{1, 4} {
			cfg := base.Clone()
			cfg.Sim.Particles = n
			cfg.Sim.Workers = wk
			cfg.Sim.SnapshotStride = 0

			exp, err := experiment.New(cfg)
			if err != nil {
				return err
			}
			start := time.Now()
			result, err := exp.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)
			rate := float64(n*result.StepsTaken) / elapsed.Seconds()
			fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%.0f\n", n, wk, result.StepsTaken, elapsed, rate)
		}
	}
	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	results, err := automation.RunScenario(context.Background(), sc)
	for i, r := range results {
		fmt.Printf("  %d %-16s steps %-5d node distance %.5f\n",
			i+1, r.Config.Name, r.Result.StepsTaken, r.Result.Metrics["node_distance"])
	}
	return err
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunEnsemble(context.Background(), &automation.EnsembleConfig{
		Base:      cfg,
		NumTrials: trials,
		SeedStart: seedStart,
		Workers:   sweepJobs,
	})
	if err != nil {
		return err
	}

	settled := 0
	for _, r := range results {
		if r.Settled {
			settled++
		}
	}
	fmt.Printf("%d/%d trials stayed finite and in bounds\n\n", settled, len(results))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTD\tMIN\tMAX")
	for _, s := range automation.Summarize(results) {
		fmt.Fprintf(w, "%s\t%.5f\t%.5f\t%.5f\t%.5f\n", s.Metric, s.Mean, s.Std, s.Min, s.Max)
	}
	return w.Flush()
}
