package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/experiment"
	"github.com/san-kum/zetafield/internal/optim"
	"github.com/san-kum/zetafield/internal/storage"
	"github.com/san-kum/zetafield/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir     string
	preset      string
	configFile  string
	integrator  string
	zeros       int
	scale       float64
	dt          float64
	friction    float64
	steps       int
	bound       float64
	particles   int
	seed        int64
	stride      int
	tolerance   float64
	order       string
	workers     int
	singularity string
	quiet       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "zetafield",
		Short: "particles settling on the nodes of a Riemann-zero Bessel field",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".zetafield", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store the result",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "watch particles settle in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tWAVENUMBERS\tPARTICLES\tSTEPS\tDT\tFRICTION")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%g\t%.2f\n",
					name, len(p.Wavenumbers()), p.Sim.Particles, p.Sim.Steps, p.Sim.Dt, p.Sim.Friction)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, presetsCmd)
	rootCmd.AddCommand(reportCommands()...)
	rootCmd.AddCommand(studyCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "genesis", "preset configuration")
	f.StringVar(&configFile, "config", "", "config file path (yaml), overrides the preset")
	f.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (euler, leapfrog)")
	f.IntVar(&zeros, "zeros", config.DefaultZeros, "number of leading zeta zeros used as wavenumbers")
	f.Float64Var(&scale, "scale", config.DefaultScale, "wavenumber scale factor")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&friction, "friction", config.DefaultFriction, "velocity retained per step, in (0,1]")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.Float64Var(&bound, "bound", config.DefaultBound, "half width of the box")
	f.IntVar(&particles, "particles", config.DefaultParticles, "number of particles")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed for the initial scatter")
	f.IntVar(&stride, "stride", config.DefaultStride, "snapshot stride, 0 disables snapshots")
	f.Float64Var(&tolerance, "tolerance", 0, "stop once every particle is slower than this, 0 disables")
	f.StringVar(&order, "order", dynamo.KickThenDamp.String(), "damping order (kick-damp, damp-kick)")
	f.IntVar(&workers, "workers", 0, "goroutines per step, <= 1 runs serially")
	f.StringVar(&singularity, "singularity", "floor", "origin handling (floor, zero-force)")
}

// resolveConfig layers preset, config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("zeros") {
		cfg.Field.Zeros = zeros
		cfg.Field.Wavenumbers = nil
	}
	if flags.Changed("scale") {
		cfg.Field.Scale = scale
	}
	if flags.Changed("singularity") {
		cfg.Field.Singularity = singularity
	}
	if flags.Changed("dt") {
		cfg.Sim.Dt = dt
	}
	if flags.Changed("friction") {
		cfg.Sim.Friction = friction
	}
	if flags.Changed("steps") {
		cfg.Sim.Steps = steps
	}
	if flags.Changed("bound") {
		cfg.Sim.Bound = bound
	}
	if flags.Changed("particles") {
		cfg.Sim.Particles = particles
	}
	if flags.Changed("seed") {
		cfg.Sim.Seed = seed
	}
	if flags.Changed("stride") {
		cfg.Sim.SnapshotStride = stride
	}
	if flags.Changed("tolerance") {
		cfg.Sim.SettleTolerance = tolerance
	}
	if flags.Changed("order") {
		cfg.Sim.Order = order
	}
	if flags.Changed("workers") {
		cfg.Sim.Workers = workers
	}

	return cfg, cfg.Validate()
}

func progressObserver(total int) dynamo.Observer {
	return dynamo.ObserverFunc(func(snap dynamo.Snapshot) {
		fmt.Printf("step %d/%d  mean radius %.4f  max speed %.3g\n",
			snap.Step, total, snap.State.MeanRadius(), snap.State.MaxSpeed())
	})
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	if !quiet {
		exp.AddObserver(progressObserver(cfg.Sim.Steps))
	}

	fmt.Printf("running %s: %d particles, %d wavenumbers, %d steps\n",
		cfg.Name, cfg.Sim.Particles, len(cfg.Wavenumbers()), cfg.Sim.Steps)
	start := time.Now()
	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	meta := storage.NewMetadata(exp.Config(), exp.Evaluator(), result)
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d", result.StepsTaken)
	if result.EarlyStop {
		fmt.Print(" (settled early)")
	}
	fmt.Println()
	printMetrics(result.Metrics)
	return nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}

	model := viz.NewModel(exp.Simulator(), exp.InitialState(), exp.Nodes(), cfg.Name)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tPARTICLES\tSTEPS\tDT\tFRICTION\tNODE DIST")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.4f\t%.2f\t%.4f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Particles,
			run.StepsTaken,
			run.Dt,
			run.Friction,
			run.Metrics["node_distance"],
		)
	}
	return w.Flush()
}

// parseFloats reads a comma separated list, or lo:hi:n for an even range.
func parseFloats(s string) ([]float64, error) {
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || err3 != nil || n < 1 {
			return nil, fmt.Errorf("invalid range %q, want lo:hi:n", s)
		}
		return optim.Linspace(lo, hi, n), nil
	}

	out := make([]float64, 0)
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", field, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", s)
	}
	return out, nil
}
