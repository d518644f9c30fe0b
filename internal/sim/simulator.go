package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/logger"
	"github.com/san-kum/cablesim/internal/physics"
)

// Simulator runs the cable model for one threshold at a time. Each Run owns
// a fresh field pair; nothing carries over between runs except the state of
// attached metrics, which are reset at the start of every run. A Simulator
// with metrics must not Run concurrently.
type Simulator struct {
	cfg       dynamo.Config
	opts      Options
	observers []Observer
	metrics   []Metric
	logger    *slog.Logger
}

func New(cfg dynamo.Config, opts Options) *Simulator {
	return &Simulator{
		cfg:       cfg,
		opts:      opts,
		observers: make([]Observer, 0),
		metrics:   make([]Metric, 0),
		logger:    logger.Default,
	}
}

func (s *Simulator) AddObserver(o Observer)   { s.observers = append(s.observers, o) }
func (s *Simulator) AddMetric(m Metric)       { s.metrics = append(s.metrics, m) }
func (s *Simulator) SetLogger(l *slog.Logger) { s.logger = l }
func (s *Simulator) Config() dynamo.Config    { return s.cfg }
func (s *Simulator) Options() Options         { return s.opts }

// Run validates the configuration with alpha substituted and, only if it
// passes, steps the cable to the end of the simulated time.
func (s *Simulator) Run(ctx context.Context, alpha float64) (*Result, error) {
	cfg := s.cfg.WithAlpha(alpha)
	grid, err := dynamo.NewGrid(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.opts.Validate(); err != nil {
		return nil, err
	}
	return s.run(ctx, cfg, grid)
}

// RunOnGrid skips validation and steps on a grid already built from the
// simulator's configuration. Only alpha may differ from that configuration.
func (s *Simulator) RunOnGrid(ctx context.Context, grid dynamo.Grid, alpha float64) (*Result, error) {
	return s.run(ctx, s.cfg.WithAlpha(alpha), grid)
}

func (s *Simulator) run(ctx context.Context, cfg dynamo.Config, grid dynamo.Grid) (*Result, error) {
	start := time.Now()
	log := s.logger.With("alpha", cfg.Alpha)

	cable := physics.NewCable(grid, cfg.D, physics.NewCubic(cfg.K, cfg.Alpha))
	cable.SetParallelThreshold(s.opts.ParallelThreshold)
	cable.Stimulate(s.opts.StimulusPoints, s.opts.StimulusValue)

	tracker := analysis.NewTracker(grid.X(), grid.Length(), s.opts.trackerOptions())
	for _, m := range s.metrics {
		m.Reset()
	}

	log.Debug("run started",
		"nx", grid.Nx(),
		"nt", grid.Nt(),
		"sigma", cfg.Sigma(),
		"stimulus_points", s.opts.StimulusPoints)

	nt := grid.Nt()
	for n := 1; n <= nt; n++ {
		cable.Step()
		if n%s.opts.SampleEvery != 0 {
			continue
		}

		select {
		case <-ctx.Done():
			log.Info("run canceled", "step", n)
			return nil, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		u, t := cable.Field(), cable.Time()
		if s.opts.ValidateState && !u.IsValid() {
			log.Error("field diverged", "step", n, "time", t)
			return nil, &dynamo.SimulationError{Step: n, Time: t, Wrapped: dynamo.ErrUnstable}
		}

		tracker.Observe(t, u)
		if err := tracker.Err(); err != nil {
			log.Error("front tracking failed", "step", n, "error", err)
			return nil, &dynamo.SimulationError{Step: n, Time: t, Wrapped: err}
		}

		for _, m := range s.metrics {
			m.Observe(t, u)
		}
		for _, obs := range s.observers {
			obs.OnSample(t, u)
		}
	}

	samples := tracker.Samples()
	result := &Result{
		Alpha:       cfg.Alpha,
		Velocity:    analysis.EstimateVelocity(samples, s.opts.MinSamples),
		Theoretical: analysis.TheoreticalVelocity(cfg.D, cfg.K, cfg.Alpha),
		Propagated:  len(samples) >= s.opts.MinSamples,
		Fit:         analysis.FitFront(samples),
		Samples:     samples,
		MultiFront:  tracker.MultiFront(),
		StepsTaken:  cable.Steps(),
		Final:       cable.Snapshot(),
		Metrics:     make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Elapsed = time.Since(start)

	if result.MultiFront > 0 {
		log.Warn("skipped samples with several fronts", "count", result.MultiFront)
	}
	log.Info("run completed",
		"velocity", result.Velocity,
		"theoretical", result.Theoretical,
		"samples", len(samples),
		"propagated", result.Propagated,
		"elapsed", result.Elapsed)

	return result, nil
}
