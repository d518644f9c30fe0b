package physics

import (
	"fmt"

	"github.com/san-kum/cablesim/internal/dynamo"
)

// DefaultParallelThreshold is the node count from which a step is split
// across goroutines.
const DefaultParallelThreshold = 2000

const parallelChunk = 512

// Laplacian returns the second difference of u at node i. Both ends use the
// reflective one-sided form, which enforces zero flux without ghost nodes.
func Laplacian(u dynamo.Field, i int, dx2 float64) float64 {
	n := len(u)
	switch i {
	case 0:
		return (2*u[1] - 2*u[0]) / dx2
	case n - 1:
		return (2*u[n-2] - 2*u[n-1]) / dx2
	default:
		return (u[i+1] - 2*u[i] + u[i-1]) / dx2
	}
}

// StepInto advances src by one explicit Euler step of size grid.Dt() and
// writes the result into dst. Every node is computed from src alone, so dst
// must be a distinct buffer.
func StepInto(dst, src dynamo.Field, grid dynamo.Grid, d float64, kin dynamo.Kinetics) {
	checkBuffers(dst, src, grid.Nx())
	stepRange(dst, src, d, grid.Dt(), grid.Dx()*grid.Dx(), kin, 0, len(src))
}

func stepRange(dst, src dynamo.Field, d, dt, dx2 float64, kin dynamo.Kinetics, start, end int) {
	for i := start; i < end; i++ {
		dst[i] = src[i] + dt*(d*Laplacian(src, i, dx2)+kin.Rate(src[i]))
	}
}

func checkBuffers(dst, src dynamo.Field, nx int) {
	if len(src) != nx || len(dst) != nx {
		panic(fmt.Sprintf("physics: field length %d/%d does not match grid Nx=%d", len(src), len(dst), nx))
	}
	if nx > 0 && &dst[0] == &src[0] {
		panic("physics: source and destination fields alias")
	}
}

// Cable holds the live field and one scratch buffer. Each Step reads the
// live buffer, fills the scratch buffer and swaps the two.
type Cable struct {
	grid dynamo.Grid
	d    float64
	dx2  float64
	kin  dynamo.Kinetics

	cur, next dynamo.Field
	steps     int

	parallelMin int
}

func NewCable(grid dynamo.Grid, d float64, kin dynamo.Kinetics) *Cable {
	return &Cable{
		grid:        grid,
		d:           d,
		dx2:         grid.Dx() * grid.Dx(),
		kin:         kin,
		cur:         dynamo.NewField(grid.Nx()),
		next:        dynamo.NewField(grid.Nx()),
		parallelMin: DefaultParallelThreshold,
	}
}

// SetParallelThreshold sets the node count from which Step fans out.
// Values below 1 disable the parallel path.
func (c *Cable) SetParallelThreshold(n int) {
	c.parallelMin = n
}

// Stimulate resets the field to rest and raises the leftmost points nodes to
// value. The step counter restarts at zero.
func (c *Cable) Stimulate(points int, value float64) {
	c.cur.Zero()
	c.next.Zero()
	if points > len(c.cur) {
		points = len(c.cur)
	}
	for i := 0; i < points; i++ {
		c.cur[i] = value
	}
	c.steps = 0
}

// Step advances the field by one time step.
func (c *Cable) Step() {
	src, dst := c.cur, c.next
	dt := c.grid.Dt()

	if c.parallelMin > 0 && len(src) >= c.parallelMin {
		dynamo.ParallelFor(len(src), parallelChunk, func(start, end int) {
			stepRange(dst, src, c.d, dt, c.dx2, c.kin, start, end)
		})
	} else {
		stepRange(dst, src, c.d, dt, c.dx2, c.kin, 0, len(src))
	}

	c.cur, c.next = dst, src
	c.steps++
}

// Field returns the live buffer. It is overwritten by the next Step.
func (c *Cable) Field() dynamo.Field { return c.cur }

func (c *Cable) Snapshot() dynamo.Field { return c.cur.Clone() }
func (c *Cable) Steps() int             { return c.steps }
func (c *Cable) Time() float64          { return float64(c.steps) * c.grid.Dt() }
func (c *Cable) Grid() dynamo.Grid      { return c.grid }
