// Package sweep runs the cable solver over a range of thresholds and lines
// the measured velocities up against the travelling-wave formula.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/logger"
	"github.com/san-kum/cablesim/internal/sim"
)

// Result is one point of a sweep.
type Result struct {
	Alpha       float64 `json:"alpha"`
	Simulated   float64 `json:"simulated"`
	Theoretical float64 `json:"theoretical"`
	Samples     int     `json:"samples"`
	Propagated  bool    `json:"propagated"`
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n < 1 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

type Sweeper struct {
	cfg     dynamo.Config
	opts    sim.Options
	workers int
	logger  *slog.Logger
}

func New(cfg dynamo.Config, opts sim.Options) *Sweeper {
	return &Sweeper{cfg: cfg, opts: opts, workers: 1, logger: logger.Default}
}

// WithWorkers sets how many thresholds run at once. Values below 1 mean serial.
func (s *Sweeper) WithWorkers(n int) *Sweeper {
	if n < 1 {
		n = 1
	}
	s.workers = n
	return s
}

func (s *Sweeper) SetLogger(l *slog.Logger) { s.logger = l }

// Run simulates every alpha and returns results in input order. The base
// configuration is checked once; a rejected configuration aborts the sweep
// before any stepping happens.
func (s *Sweeper) Run(ctx context.Context, alphas []float64) ([]Result, error) {
	for i, a := range alphas {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return nil, fmt.Errorf("alpha[%d]: %w", i, &dynamo.ConfigError{Field: "Alpha", Value: a, Reason: "must be finite"})
		}
	}
	grid, err := dynamo.NewGrid(s.cfg)
	if err != nil {
		return nil, err
	}
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	s.logger.Info("sweep started",
		"points", len(alphas),
		"workers", s.workers,
		"nx", grid.Nx(),
		"nt", grid.Nt())

	results := make([]Result, len(alphas))
	runOne := func(ctx context.Context, i int) error {
		sm := sim.New(s.cfg, s.opts)
		sm.SetLogger(s.logger)
		r, err := sm.RunOnGrid(ctx, grid, alphas[i])
		if err != nil {
			return fmt.Errorf("alpha=%g: %w", alphas[i], err)
		}
		results[i] = Result{
			Alpha:       r.Alpha,
			Simulated:   r.Velocity,
			Theoretical: r.Theoretical,
			Samples:     len(r.Samples),
			Propagated:  r.Propagated,
		}
		return nil
	}

	if s.workers == 1 {
		for i := range alphas {
			if err := runOne(ctx, i); err != nil {
				s.logger.Error("sweep aborted", "error", err)
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i := range alphas {
			i := i
			g.Go(func() error { return runOne(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			s.logger.Error("sweep aborted", "error", err)
			return nil, err
		}
	}

	s.logger.Info("sweep completed",
		"points", len(alphas),
		"max_rel_error", MaxRelativeError(results, 0, analysis.CriticalThreshold),
		"elapsed", time.Since(start))
	return results, nil
}

// Series splits results into parallel arrays for plotting.
func Series(results []Result) (alphas, simulated, theoretical []float64) {
	alphas = make([]float64, len(results))
	simulated = make([]float64, len(results))
	theoretical = make([]float64, len(results))
	for i, r := range results {
		alphas[i] = r.Alpha
		simulated[i] = r.Simulated
		theoretical[i] = r.Theoretical
	}
	return alphas, simulated, theoretical
}

// MaxRelativeError is the worst disagreement among propagating points with
// lo <= alpha <= hi. It is 0 when no point qualifies.
func MaxRelativeError(results []Result, lo, hi float64) float64 {
	worst := 0.0
	for _, r := range results {
		if !r.Propagated || r.Alpha < lo || r.Alpha > hi {
			continue
		}
		worst = math.Max(worst, analysis.RelativeError(r.Simulated, r.Theoretical))
	}
	return worst
}
