package analysis

import (
	"errors"
	"fmt"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// ErrMultipleFronts is reported by a failing Tracker when the field holds
// more than one super-threshold region.
var ErrMultipleFronts = errors.New("analysis: more than one excitation front")

// MultiFrontPolicy selects what a Tracker does when the single-front
// assumption breaks.
type MultiFrontPolicy int

const (
	// MultiFrontSkip drops the sample and counts it.
	MultiFrontSkip MultiFrontPolicy = iota
	// MultiFrontFail stops the tracker with ErrMultipleFronts.
	MultiFrontFail
	// MultiFrontIgnore takes the rightmost region as the front.
	MultiFrontIgnore
)

func (p MultiFrontPolicy) String() string {
	switch p {
	case MultiFrontSkip:
		return "skip"
	case MultiFrontFail:
		return "fail"
	case MultiFrontIgnore:
		return "ignore"
	}
	return fmt.Sprintf("MultiFrontPolicy(%d)", int(p))
}

// ParseMultiFrontPolicy maps a config string to a policy. Empty means skip.
func ParseMultiFrontPolicy(s string) (MultiFrontPolicy, error) {
	switch s {
	case "", "skip":
		return MultiFrontSkip, nil
	case "fail":
		return MultiFrontFail, nil
	case "ignore":
		return MultiFrontIgnore, nil
	}
	return MultiFrontSkip, fmt.Errorf("unknown multi-front policy: %s", s)
}

// FrontPosition returns the coordinate of the rightmost node where u exceeds
// level. ok is false when no node does.
func FrontPosition(u dynamo.Field, x []float64, level float64) (pos float64, ok bool) {
	for i := len(u) - 1; i >= 0; i-- {
		if u[i] > level {
			return x[i], true
		}
	}
	return 0, false
}

// CountFronts returns the number of disjoint runs of nodes above level.
func CountFronts(u dynamo.Field, level float64) int {
	n := 0
	for i, v := range u {
		if v > level && (i == 0 || u[i-1] <= level) {
			n++
		}
	}
	return n
}

type TrackerOptions struct {
	Level  float64          // detection level for the front
	Margin float64          // excluded width at each end of the cable
	Policy MultiFrontPolicy // handling of fields with several fronts
}

func DefaultTrackerOptions() TrackerOptions {
	return TrackerOptions{
		Level:  0.5,
		Margin: 1.0,
		Policy: MultiFrontSkip,
	}
}

// Tracker records front samples while the front lies strictly inside
// (Margin, length-Margin). Once a front that was inside leaves the window,
// the tracker closes.
type Tracker struct {
	x      []float64
	lo, hi float64
	opts   TrackerOptions

	samples    []dynamo.FrontSample
	entered    bool
	closed     bool
	multiFront int
	err        error
}

func NewTracker(x []float64, length float64, opts TrackerOptions) *Tracker {
	return &Tracker{
		x:       x,
		lo:      opts.Margin,
		hi:      length - opts.Margin,
		opts:    opts,
		samples: make([]dynamo.FrontSample, 0, 64),
	}
}

// Observe inspects u at time t and reports whether a sample was recorded.
func (tr *Tracker) Observe(t float64, u dynamo.Field) bool {
	if tr.closed || tr.err != nil {
		return false
	}

	if tr.opts.Policy != MultiFrontIgnore && CountFronts(u, tr.opts.Level) > 1 {
		tr.multiFront++
		if tr.opts.Policy == MultiFrontFail {
			tr.err = fmt.Errorf("%w at t=%.4f", ErrMultipleFronts, t)
		}
		return false
	}

	pos, ok := FrontPosition(u, tr.x, tr.opts.Level)
	if !ok || pos <= tr.lo || pos >= tr.hi {
		if tr.entered {
			tr.closed = true
		}
		return false
	}

	tr.entered = true
	tr.samples = append(tr.samples, dynamo.FrontSample{Time: t, Position: pos})
	return true
}

// Samples returns a copy of the recorded samples in time order.
func (tr *Tracker) Samples() []dynamo.FrontSample {
	c := make([]dynamo.FrontSample, len(tr.samples))
	copy(c, tr.samples)
	return c
}

func (tr *Tracker) Len() int        { return len(tr.samples) }
func (tr *Tracker) Closed() bool    { return tr.closed }
func (tr *Tracker) MultiFront() int { return tr.multiFront }
func (tr *Tracker) Err() error      { return tr.err }
