package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Bounds is the fraction of samples whose whole field stays in [lo, hi].
type Bounds struct {
	name       string
	lo, hi     float64
	violations int
	samples    int
}

func NewBounds(lo, hi float64) *Bounds {
	return &Bounds{
		name: "bounded",
		lo:   lo,
		hi:   hi,
	}
}

func (b *Bounds) Name() string {
	return b.name
}

func (b *Bounds) Observe(t float64, u dynamo.Field) {
	if len(u) == 0 {
		return
	}
	b.samples++
	if floats.Min(u) < b.lo || floats.Max(u) > b.hi || !u.IsValid() {
		b.violations++
	}
}

func (b *Bounds) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounds) Reset() {
	b.violations = 0
	b.samples = 0
}
