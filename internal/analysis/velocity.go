package analysis

import (
	"math"

	"github.com/san-kum/cablesim/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

// DefaultMinSamples is the fewest front samples accepted as sustained
// propagation.
const DefaultMinSamples = 6

// LineFit is a least-squares line position = Velocity*time + Intercept.
type LineFit struct {
	Velocity  float64
	Intercept float64
	RSquared  float64
}

// FitFront fits a line through samples. It needs at least two samples with
// distinct times; otherwise the zero LineFit is returned.
func FitFront(samples []dynamo.FrontSample) LineFit {
	if len(samples) < 2 {
		return LineFit{}
	}

	ts := make([]float64, len(samples))
	xs := make([]float64, len(samples))
	for i, s := range samples {
		ts[i] = s.Time
		xs[i] = s.Position
	}

	intercept, slope := stat.LinearRegression(ts, xs, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return LineFit{}
	}

	fit := LineFit{Velocity: slope, Intercept: intercept}
	if r2 := stat.RSquared(ts, xs, nil, intercept, slope); !math.IsNaN(r2) {
		fit.RSquared = r2
	}
	return fit
}

// EstimateVelocity returns the front speed in cm/ms, or 0 when fewer than
// minSamples samples were recorded.
func EstimateVelocity(samples []dynamo.FrontSample, minSamples int) float64 {
	if minSamples < 2 {
		minSamples = 2
	}
	if len(samples) < minSamples {
		return 0
	}
	return FitFront(samples).Velocity
}
