package sweep_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/logger"
	"github.com/san-kum/cablesim/internal/sim"
	"github.com/san-kum/cablesim/internal/sweep"
)

var _ = Describe("Linspace", func() {
	It("includes both endpoints", func() {
		xs := sweep.Linspace(0, 0.5, 15)
		Expect(xs).To(HaveLen(15))
		Expect(xs[0]).To(Equal(0.0))
		Expect(xs[14]).To(BeNumerically("~", 0.5, 1e-15))
		Expect(xs[1]).To(BeNumerically("~", 0.5/14, 1e-15))
	})

	It("handles degenerate counts", func() {
		Expect(sweep.Linspace(0.2, 0.4, 1)).To(Equal([]float64{0.2}))
		Expect(sweep.Linspace(0, 1, 0)).To(BeEmpty())
	})
})

var _ = Describe("Sweeper", func() {
	var (
		cfg    dynamo.Config
		opts   sim.Options
		alphas []float64
	)

	BeforeEach(func() {
		cfg = dynamo.DefaultConfig()
		cfg.Duration = 12.0
		opts = sim.DefaultOptions()
		alphas = []float64{0.25, 0.05, 0.5, 0.15}
	})

	newSweeper := func(workers int) *sweep.Sweeper {
		s := sweep.New(cfg, opts).WithWorkers(workers)
		s.SetLogger(logger.Discard())
		return s
	}

	It("returns one result per alpha in input order", func() {
		results, err := newSweeper(1).Run(context.Background(), alphas)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(len(alphas)))
		for i, r := range results {
			Expect(r.Alpha).To(Equal(alphas[i]))
		}
	})

	It("tracks theory below the critical threshold", func() {
		results, err := newSweeper(1).Run(context.Background(), alphas)
		Expect(err).NotTo(HaveOccurred())

		for _, r := range results {
			if r.Alpha >= 0.5 {
				Expect(r.Simulated).To(Equal(0.0))
				Expect(r.Propagated).To(BeFalse())
				continue
			}
			Expect(r.Propagated).To(BeTrue())
			Expect(r.Simulated).To(BeNumerically("~", r.Theoretical, 0.1*r.Theoretical))
		}
		Expect(sweep.MaxRelativeError(results, 0, 0.3)).To(BeNumerically("<", 0.1))
	})

	It("gives identical results in parallel", func() {
		serial, err := newSweeper(1).Run(context.Background(), alphas)
		Expect(err).NotTo(HaveOccurred())
		parallel, err := newSweeper(4).Run(context.Background(), alphas)
		Expect(err).NotTo(HaveOccurred())
		Expect(parallel).To(Equal(serial))
	})

	It("rejects an unstable discretization before any run", func() {
		cfg.Dt = 0.002
		results, err := newSweeper(2).Run(context.Background(), alphas)
		Expect(err).To(MatchError(dynamo.ErrStability))
		Expect(results).To(BeNil())
	})

	It("rejects non-finite thresholds", func() {
		_, err := newSweeper(1).Run(context.Background(), []float64{0.1, math.NaN()})
		Expect(err).To(MatchError(dynamo.ErrConfig))
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newSweeper(2).Run(ctx, alphas)
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		Expect(err).To(MatchError(context.Canceled))
	})

	It("returns an empty sweep for no thresholds", func() {
		results, err := newSweeper(3).Run(context.Background(), nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(BeEmpty())
	})
})

var _ = Describe("Series", func() {
	It("splits results into parallel arrays", func() {
		results := []sweep.Result{
			{Alpha: 0.1, Simulated: 1.5, Theoretical: 1.6},
			{Alpha: 0.2, Simulated: 1.1, Theoretical: 1.2},
		}
		a, s, th := sweep.Series(results)
		Expect(a).To(Equal([]float64{0.1, 0.2}))
		Expect(s).To(Equal([]float64{1.5, 1.1}))
		Expect(th).To(Equal([]float64{1.6, 1.2}))
	})
})

var _ = Describe("MaxRelativeError", func() {
	It("ignores failed points and points outside the window", func() {
		results := []sweep.Result{
			{Alpha: 0.1, Simulated: 1.5, Theoretical: 1.6, Propagated: true},
			{Alpha: 0.2, Simulated: 1.0, Theoretical: 1.2, Propagated: true},
			{Alpha: 0.45, Simulated: 0, Theoretical: 0.2, Propagated: false},
		}
		Expect(sweep.MaxRelativeError(results, 0, 0.15)).To(BeNumerically("~", 0.1/1.6, 1e-12))
		Expect(sweep.MaxRelativeError(results, 0, 0.5)).To(BeNumerically("~", 0.2/1.2, 1e-12))
		Expect(sweep.MaxRelativeError(nil, 0, 1)).To(Equal(0.0))
	})
})
