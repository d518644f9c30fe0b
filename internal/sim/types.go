package sim

import (
	"math"
	"time"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/physics"
)

// Observer is notified at every sampling point of a run.
type Observer interface {
	OnSample(t float64, u dynamo.Field)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(t float64, u dynamo.Field)

func (f ObserverFunc) OnSample(t float64, u dynamo.Field) { f(t, u) }

// Metric accumulates a scalar diagnostic over the sampling points of a run.
type Metric interface {
	Name() string
	Observe(t float64, u dynamo.Field)
	Value() float64
	Reset()
}

// Options controls stimulation and front sampling for a run.
type Options struct {
	SampleEvery       int     // steps between front observations
	StimulusPoints    int     // leftmost nodes raised at t=0
	StimulusValue     float64 // voltage of the stimulated nodes
	FrontLevel        float64
	Margin            float64
	MinSamples        int
	ParallelThreshold int
	ValidateState     bool
	MultiFront        analysis.MultiFrontPolicy
}

func DefaultOptions() Options {
	return Options{
		SampleEvery:       500,
		StimulusPoints:    10,
		StimulusValue:     1.0,
		FrontLevel:        0.5,
		Margin:            1.0,
		MinSamples:        analysis.DefaultMinSamples,
		ParallelThreshold: physics.DefaultParallelThreshold,
		ValidateState:     true,
		MultiFront:        analysis.MultiFrontSkip,
	}
}

func (o Options) Validate() error {
	switch {
	case o.SampleEvery < 1:
		return &dynamo.ConfigError{Field: "SampleEvery", Value: float64(o.SampleEvery), Reason: "must be positive"}
	case o.StimulusPoints < 0:
		return &dynamo.ConfigError{Field: "StimulusPoints", Value: float64(o.StimulusPoints), Reason: "must not be negative"}
	case math.IsNaN(o.StimulusValue) || math.IsInf(o.StimulusValue, 0):
		return &dynamo.ConfigError{Field: "StimulusValue", Value: o.StimulusValue, Reason: "must be finite"}
	case math.IsNaN(o.FrontLevel) || math.IsInf(o.FrontLevel, 0):
		return &dynamo.ConfigError{Field: "FrontLevel", Value: o.FrontLevel, Reason: "must be finite"}
	case !(o.Margin >= 0):
		return &dynamo.ConfigError{Field: "Margin", Value: o.Margin, Reason: "must not be negative"}
	case o.MinSamples < 2:
		return &dynamo.ConfigError{Field: "MinSamples", Value: float64(o.MinSamples), Reason: "a line fit needs at least 2 samples"}
	}
	return nil
}

func (o Options) trackerOptions() analysis.TrackerOptions {
	return analysis.TrackerOptions{
		Level:  o.FrontLevel,
		Margin: o.Margin,
		Policy: o.MultiFront,
	}
}

// Result describes one run at a fixed threshold.
type Result struct {
	Alpha       float64
	Velocity    float64 // measured conduction velocity, 0 when the wave failed
	Theoretical float64
	Propagated  bool
	Fit         analysis.LineFit
	Samples     []dynamo.FrontSample
	MultiFront  int
	StepsTaken  int
	Elapsed     time.Duration
	Final       dynamo.Field
	Metrics     map[string]float64
}

// RelativeError compares the measured velocity with theory.
func (r *Result) RelativeError() float64 {
	return analysis.RelativeError(r.Velocity, r.Theoretical)
}
