package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// Charge is the trapezoid integral of u over the cable at the latest sample.
// A fully excited cable carries a charge equal to its length.
type Charge struct {
	name  string
	dx    float64
	value float64
}

func NewCharge(dx float64) *Charge {
	return &Charge{
		name: "charge",
		dx:   dx,
	}
}

func (c *Charge) Name() string { return c.name }

func (c *Charge) Observe(t float64, u dynamo.Field) {
	c.value = Integrate(u, c.dx)
}

func (c *Charge) Value() float64 { return c.value }

func (c *Charge) Reset() { c.value = 0 }

// Integrate is the trapezoid rule on a uniform grid.
func Integrate(u []float64, dx float64) float64 {
	n := len(u)
	if n < 2 {
		return 0
	}
	return dx * (floats.Sum(u) - 0.5*(u[0]+u[n-1]))
}
