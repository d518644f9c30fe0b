package metrics

import (
	"math"

	"github.com/san-kum/cablesim/internal/analysis"
	"github.com/san-kum/cablesim/internal/dynamo"
)

// Activation records, for every node, the first sample time at which u
// exceeded the level. Its value is the conduction velocity fitted to the
// activation map over the interior window, an estimate independent of the
// front tracker.
type Activation struct {
	name   string
	x      []float64
	times  []float64
	level  float64
	lo, hi float64
}

func NewActivation(x []float64, length, level, margin float64) *Activation {
	a := &Activation{
		name:  "activation_velocity",
		x:     x,
		times: make([]float64, len(x)),
		level: level,
		lo:    margin,
		hi:    length - margin,
	}
	a.Reset()
	return a
}

func (a *Activation) Name() string { return a.name }

func (a *Activation) Observe(t float64, u dynamo.Field) {
	for i := range a.times {
		if math.IsNaN(a.times[i]) && i < len(u) && u[i] > a.level {
			a.times[i] = t
		}
	}
}

// Times returns a copy of the activation map. Nodes never activated are NaN.
func (a *Activation) Times() []float64 {
	out := make([]float64, len(a.times))
	copy(out, a.times)
	return out
}

// Fraction is the share of nodes activated so far.
func (a *Activation) Fraction() float64 {
	if len(a.times) == 0 {
		return 0
	}
	n := 0
	for _, t := range a.times {
		if !math.IsNaN(t) {
			n++
		}
	}
	return float64(n) / float64(len(a.times))
}

func (a *Activation) Value() float64 {
	samples := make([]dynamo.FrontSample, 0, len(a.times))
	for i, t := range a.times {
		if math.IsNaN(t) || a.x[i] <= a.lo || a.x[i] >= a.hi {
			continue
		}
		samples = append(samples, dynamo.FrontSample{Time: t, Position: a.x[i]})
	}
	return analysis.EstimateVelocity(samples, analysis.DefaultMinSamples)
}

func (a *Activation) Reset() {
	for i := range a.times {
		a.times[i] = math.NaN()
	}
}
