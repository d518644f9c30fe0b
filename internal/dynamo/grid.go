package dynamo

import "gonum.org/v1/gonum/floats"

// Grid is the discretization of a Config. It is immutable once built.
type Grid struct {
	nx, nt   int
	dx, dt   float64
	length   float64
	duration float64
	x        []float64
}

// NewGrid validates cfg and derives the grid. It returns a *ConfigError or a
// *StabilityError and never adjusts the inputs.
func NewGrid(cfg Config) (Grid, error) {
	if err := cfg.Validate(); err != nil {
		return Grid{}, err
	}

	nx := floorCount(cfg.Length/cfg.Dx) + 1
	nt := floorCount(cfg.Duration / cfg.Dt)

	x := floats.Span(make([]float64, nx), 0, float64(nx-1)*cfg.Dx)

	return Grid{
		nx:       nx,
		nt:       nt,
		dx:       cfg.Dx,
		dt:       cfg.Dt,
		length:   cfg.Length,
		duration: cfg.Duration,
		x:        x,
	}, nil
}

func (g Grid) Nx() int             { return g.nx }
func (g Grid) Nt() int             { return g.nt }
func (g Grid) Dx() float64         { return g.dx }
func (g Grid) Dt() float64         { return g.dt }
func (g Grid) Length() float64     { return g.length }
func (g Grid) Duration() float64   { return g.duration }
func (g Grid) Coord(i int) float64 { return g.x[i] }

// X returns a copy of the node coordinates.
func (g Grid) X() []float64 {
	c := make([]float64, len(g.x))
	copy(c, g.x)
	return c
}
