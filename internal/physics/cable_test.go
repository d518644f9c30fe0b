package physics

import (
	"math"
	"testing"

	"github.com/san-kum/cablesim/internal/dynamo"
)

type noReaction struct{}

func (noReaction) Rate(float64) float64 { return 0 }

func mustGrid(t *testing.T, cfg dynamo.Config) dynamo.Grid {
	t.Helper()
	g, err := dynamo.NewGrid(cfg)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	return g
}

func TestLaplacianBoundaries(t *testing.T) {
	u := dynamo.Field{1.0, 0.5, 0.25, 0.0}
	dx2 := 0.01

	if got, want := Laplacian(u, 0, dx2), (2*0.5-2*1.0)/dx2; got != want {
		t.Errorf("left boundary: got %v, want %v", got, want)
	}
	if got, want := Laplacian(u, 1, dx2), (0.25-2*0.5+1.0)/dx2; got != want {
		t.Errorf("interior: got %v, want %v", got, want)
	}
	if got, want := Laplacian(u, 3, dx2), (2*0.25-2*0.0)/dx2; got != want {
		t.Errorf("right boundary: got %v, want %v", got, want)
	}
}

func TestZeroFieldStaysZero(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Duration = 1.0
	grid := mustGrid(t, cfg)

	cable := NewCable(grid, cfg.D, NewCubic(cfg.K, cfg.Alpha))
	cable.Stimulate(0, 1.0)

	for i := 0; i < grid.Nt(); i++ {
		cable.Step()
	}

	for i, v := range cable.Field() {
		if v != 0 {
			t.Fatalf("node %d left rest: u=%v", i, v)
		}
	}
	if cable.Steps() != grid.Nt() {
		t.Errorf("expected %d steps, got %d", grid.Nt(), cable.Steps())
	}
}

func TestNoFluxConservesIntegral(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Duration = 0.5
	grid := mustGrid(t, cfg)

	cable := NewCable(grid, cfg.D, noReaction{})
	cable.Stimulate(10, 1.0)

	trapezoid := func(u dynamo.Field) float64 {
		s := 0.5 * (u[0] + u[len(u)-1])
		for _, v := range u[1 : len(u)-1] {
			s += v
		}
		return s * grid.Dx()
	}

	before := trapezoid(cable.Field())
	for i := 0; i < grid.Nt(); i++ {
		cable.Step()
	}
	after := trapezoid(cable.Field())

	if math.Abs(after-before) > 1e-9 {
		t.Errorf("integral drifted from %v to %v", before, after)
	}
	if cable.Field()[15] <= 0 {
		t.Error("diffusion did not spread the stimulus")
	}
}

func TestStepIntoReadsOnlySource(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Length = 0.2 // 5 nodes
	grid := mustGrid(t, cfg)
	kin := NewCubic(cfg.K, cfg.Alpha)

	src := dynamo.Field{1.0, 1.0, 0.0, 0.0, 0.0}
	dst := dynamo.NewField(grid.Nx())
	StepInto(dst, src, grid, cfg.D, kin)

	dx2 := cfg.Dx * cfg.Dx
	for i := range src {
		want := src[i] + cfg.Dt*(cfg.D*Laplacian(src, i, dx2)+kin.Rate(src[i]))
		if dst[i] != want {
			t.Errorf("node %d: got %v, want %v", i, dst[i], want)
		}
	}
	if src[2] != 0.0 {
		t.Error("StepInto modified its source")
	}
}

func TestStepIntoPanicsOnAlias(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	grid := mustGrid(t, cfg)
	u := dynamo.NewField(grid.Nx())

	defer func() {
		if recover() == nil {
			t.Error("expected panic for aliased buffers")
		}
	}()
	StepInto(u, u, grid, cfg.D, NewCubic(cfg.K, cfg.Alpha))
}

func TestCableStepMatchesStepInto(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	grid := mustGrid(t, cfg)
	kin := NewCubic(cfg.K, cfg.Alpha)

	cable := NewCable(grid, cfg.D, kin)
	cable.Stimulate(10, 1.0)

	ref := cable.Snapshot()
	scratch := dynamo.NewField(grid.Nx())
	for i := 0; i < 250; i++ {
		StepInto(scratch, ref, grid, cfg.D, kin)
		ref, scratch = scratch, ref
		cable.Step()
	}

	for i, v := range cable.Field() {
		if v != ref[i] {
			t.Fatalf("node %d: cable %v, reference %v", i, v, ref[i])
		}
	}
	if math.Abs(cable.Time()-250*cfg.Dt) > 1e-15 {
		t.Errorf("expected time %v, got %v", 250*cfg.Dt, cable.Time())
	}
}

func TestParallelStepIsBitIdentical(t *testing.T) {
	cfg := dynamo.Config{
		D: 1.0, K: 8.0, Alpha: 0.15,
		Length: 10.0, Duration: 0.002,
		Dx: 0.0025, Dt: 0.000002,
	}
	grid := mustGrid(t, cfg)
	kin := NewCubic(cfg.K, cfg.Alpha)

	serial := NewCable(grid, cfg.D, kin)
	serial.SetParallelThreshold(0)
	serial.Stimulate(400, 1.0)

	parallel := NewCable(grid, cfg.D, kin)
	parallel.SetParallelThreshold(1)
	parallel.Stimulate(400, 1.0)

	for i := 0; i < 200; i++ {
		serial.Step()
		parallel.Step()
	}

	a, b := serial.Field(), parallel.Field()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("node %d: serial %v, parallel %v", i, a[i], b[i])
		}
	}
}

func TestStimulateClampsAndResets(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.Length = 0.2
	grid := mustGrid(t, cfg)

	cable := NewCable(grid, cfg.D, NewCubic(cfg.K, cfg.Alpha))
	cable.Stimulate(100, 1.0)
	for i, v := range cable.Field() {
		if v != 1.0 {
			t.Errorf("node %d: expected 1.0, got %v", i, v)
		}
	}

	cable.Step()
	cable.Stimulate(2, 0.8)
	want := dynamo.Field{0.8, 0.8, 0, 0, 0}
	for i, v := range cable.Field() {
		if v != want[i] {
			t.Errorf("node %d: expected %v, got %v", i, want[i], v)
		}
	}
	if cable.Steps() != 0 {
		t.Errorf("expected step counter reset, got %d", cable.Steps())
	}
}
