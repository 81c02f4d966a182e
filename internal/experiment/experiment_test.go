package experiment_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/zetafield/internal/analysis"
	"github.com/san-kum/zetafield/internal/config"
	"github.com/san-kum/zetafield/internal/dynamo"
	"github.com/san-kum/zetafield/internal/experiment"
	"github.com/san-kum/zetafield/internal/integrators"
	"github.com/san-kum/zetafield/internal/metrics"
)

func run(cfg *config.Config) (*experiment.Experiment, *dynamo.Result) {
	exp, err := experiment.New(cfg)
	Expect(err).NotTo(HaveOccurred())
	res, err := exp.Run(context.Background())
	Expect(err).NotTo(HaveOccurred())
	return exp, res
}

var _ = Describe("Experiment", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.GetPreset("pair")
		Expect(cfg).NotTo(BeNil())
	})

	Describe("the two-zero settling scenario", func() {
		var (
			exp *experiment.Experiment
			res *dynamo.Result
		)

		BeforeEach(func() {
			exp, res = run(cfg)
		})

		It("runs exactly the configured steps", func() {
			Expect(res.StepsTaken).To(Equal(200))
			Expect(res.EarlyStop).To(BeFalse())
			Expect(res.Final.Len()).To(Equal(500))
			Expect(exp.Simulator().Phase()).To(Equal(dynamo.Settled))
		})

		It("keeps every particle inside the box", func() {
			Expect(res.Final.InBounds(1)).To(BeTrue())
			Expect(res.Final.IsValid()).To(BeTrue())
		})

		It("moves particles toward the nodal rings", func() {
			initial := metrics.NewNodeDistance(exp.Evaluator(), 1)
			initial.Observe(exp.InitialState(), 0)

			Expect(exp.Nodes()).NotTo(BeEmpty())
			Expect(res.Metrics["node_distance"]).To(BeNumerically("<", initial.Value()))
		})

		It("moves the mean radius toward its nearest node", func() {
			_, before := analysis.NearestNode(exp.Nodes(), res.MeanRadius[0])
			_, after := analysis.NearestNode(exp.Nodes(), res.Final.MeanRadius())
			Expect(after).To(BeNumerically("<", before))
		})

		It("lowers the mean field energy", func() {
			before := metrics.MeanFieldEnergy(exp.Evaluator(), exp.InitialState())
			after := metrics.MeanFieldEnergy(exp.Evaluator(), res.Final)
			Expect(after).To(BeNumerically("<", before))
			Expect(res.Metrics["field_energy"]).To(BeNumerically("~", after, 1e-12))
		})

		It("snapshots every stride and the final step", func() {
			steps := make([]int, len(res.Snapshots))
			for i, s := range res.Snapshots {
				steps[i] = s.Step
			}
			Expect(steps).To(Equal([]int{0, 50, 100, 150, 200}))
		})

		It("records the mean radius before and after every step", func() {
			Expect(res.MeanRadius).To(HaveLen(201))
			Expect(res.MeanRadius[200]).To(BeNumerically("~", res.Final.MeanRadius(), 1e-12))
		})
	})

	Describe("reproducibility", func() {
		It("gives identical results for the same seed", func() {
			_, a := run(cfg)
			_, b := run(cfg)
			Expect(a.Final.Positions).To(Equal(b.Final.Positions))
			Expect(a.Final.Velocities).To(Equal(b.Final.Velocities))
		})

		It("gives different results for a different seed", func() {
			_, a := run(cfg)
			cfg.Sim.Seed = 43
			_, b := run(cfg)
			Expect(a.Final.Positions).NotTo(Equal(b.Final.Positions))
		})

		It("is unaffected by worker sharding", func() {
			_, serial := run(cfg)
			cfg.Sim.Workers = 4
			_, sharded := run(cfg)
			Expect(sharded.Final.Positions).To(Equal(serial.Final.Positions))
		})

		It("is sensitive to the damping order", func() {
			_, canonical := run(cfg)
			cfg.Sim.Order = dynamo.DampThenKick.String()
			_, swapped := run(cfg)
			Expect(swapped.Final.Positions).NotTo(Equal(canonical.Final.Positions))
		})
	})

	Describe("construction", func() {
		It("rejects invalid parameters before running", func() {
			cfg.Sim.Friction = 1.5
			_, err := experiment.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects a non-positive scale", func() {
			Expect(experiment.SetParam(cfg, "scale", 0)).To(Succeed())
			_, err := experiment.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects more zeros than the table holds", func() {
			cfg.Field.Wavenumbers = nil
			cfg.Field.Zeros = 50
			_, err := experiment.New(cfg)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("finds no nodes in an empty field", func() {
			cfg.Field.Wavenumbers = nil
			cfg.Field.Zeros = 0
			exp, err := experiment.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(exp.Nodes()).To(BeEmpty())
		})

		It("rejects unknown integrators", func() {
			cfg.Integrator = "rk9"
			_, err := experiment.New(cfg)
			Expect(err).To(MatchError(ContainSubstring("unknown integrator")))
		})

		It("does not share the caller's config", func() {
			exp, err := experiment.New(cfg)
			Expect(err).NotTo(HaveOccurred())
			cfg.Sim.Particles = 1
			Expect(exp.Config().Sim.Particles).To(Equal(500))
		})

		It("accepts integrators registered at runtime", func() {
			reg := experiment.NewRegistry()
			reg.RegisterIntegrator("custom", func() dynamo.Integrator { return integrators.NewDampedEuler() })
			Expect(reg.ListIntegrators()).To(ContainElements("custom", "euler", "leapfrog"))

			cfg.Integrator = "custom"
			_, err := experiment.NewWithRegistry(cfg, reg)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("SetParam", func() {
		It("sets known parameters", func() {
			Expect(experiment.SetParam(cfg, "friction", 0.8)).To(Succeed())
			Expect(experiment.SetParam(cfg, "steps", 10)).To(Succeed())
			Expect(experiment.SetParam(cfg, "scale", 0.5)).To(Succeed())
			Expect(cfg.Sim.Friction).To(Equal(0.8))
			Expect(cfg.Sim.Steps).To(Equal(10))
			Expect(cfg.Field.Scale).To(Equal(0.5))
		})

		It("rejects unknown parameters", func() {
			Expect(experiment.SetParam(cfg, "mass", 1)).To(HaveOccurred())
		})
	})

	Describe("Sweep", func() {
		BeforeEach(func() {
			cfg.Sim.Particles = 100
			cfg.Sim.Steps = 50
		})

		It("runs every variant and keeps their order", func() {
			variants, err := experiment.Vary(cfg, "friction", []float64{0.8, 0.9, 0.95})
			Expect(err).NotTo(HaveOccurred())

			outcomes, err := experiment.Sweep(context.Background(), variants, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcomes).To(HaveLen(3))
			for i, f := range []float64{0.8, 0.9, 0.95} {
				Expect(outcomes[i].Config.Sim.Friction).To(Equal(f))
				Expect(outcomes[i].Result.StepsTaken).To(Equal(50))
				Expect(outcomes[i].Result.Metrics).To(HaveKey("node_distance"))
			}
		})

		It("matches a standalone run", func() {
			variants, _ := experiment.Vary(cfg, "seed", []float64{42})
			outcomes, err := experiment.Sweep(context.Background(), variants, 0)
			Expect(err).NotTo(HaveOccurred())

			_, alone := run(cfg)
			Expect(outcomes[0].Result.Final.Positions).To(Equal(alone.Final.Positions))
		})

		It("fails when any variant is invalid", func() {
			variants, _ := experiment.Vary(cfg, "dt", []float64{0.005, -1})
			_, err := experiment.Sweep(context.Background(), variants, 2)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("rejects unknown sweep parameters", func() {
			_, err := experiment.Vary(cfg, "mass", []float64{1})
			Expect(err).To(HaveOccurred())
		})

		It("stops on cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			variants, _ := experiment.Vary(cfg, "friction", []float64{0.9})
			_, err := experiment.Sweep(ctx, variants, 1)
			Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		})
	})
})
