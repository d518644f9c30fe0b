package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/cablesim/internal/dynamo"
	"github.com/san-kum/cablesim/internal/logger"
	"github.com/san-kum/cablesim/internal/sim"
)

func TestIntegrate(t *testing.T) {
	tests := []struct {
		name string
		u    []float64
		dx   float64
		want float64
	}{
		{"constant", []float64{1, 1, 1, 1, 1}, 0.25, 1.0},
		{"ramp", []float64{0, 1, 2}, 1, 2.0},
		{"single node", []float64{3}, 1, 0},
		{"empty", nil, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Integrate(tt.u, tt.dx); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestChargeKeepsLatest(t *testing.T) {
	c := NewCharge(0.5)
	c.Observe(0.1, dynamo.Field{1, 1, 1})
	c.Observe(0.2, dynamo.Field{0, 0, 0})

	if c.Value() != 0 {
		t.Errorf("expected latest charge 0, got %v", c.Value())
	}
	c.Observe(0.3, dynamo.Field{1, 1, 1})
	if c.Value() != 1 {
		t.Errorf("expected charge 1, got %v", c.Value())
	}
	c.Reset()
	if c.Value() != 0 {
		t.Error("reset did not clear charge")
	}
}

func TestBounds(t *testing.T) {
	b := NewBounds(0, 1)
	if b.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %v", b.Value())
	}

	b.Observe(0, dynamo.Field{0, 0.5, 1})
	b.Observe(1, dynamo.Field{0, 1.2, 1})
	b.Observe(2, dynamo.Field{math.NaN(), 0.5})
	b.Observe(3, dynamo.Field{0.2, 0.3})

	if got := b.Value(); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %v", got)
	}

	b.Reset()
	if b.Value() != 1 {
		t.Error("reset did not clear violations")
	}
}

func TestActivationMap(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	a := NewActivation(x, 10, 0.5, 1)

	// A front moving at 2 units per time unit starting at the left end.
	for step := 1; step <= 6; step++ {
		tm := float64(step)
		u := make(dynamo.Field, len(x))
		for i, xi := range x {
			if xi <= 2*tm {
				u[i] = 1
			}
		}
		a.Observe(tm, u)
	}

	times := a.Times()
	if times[0] != 1 || times[2] != 1 || times[3] != 2 || times[10] != 5 {
		t.Errorf("unexpected activation times %v", times)
	}
	if a.Fraction() != 1 {
		t.Errorf("expected every node activated, got %v", a.Fraction())
	}

	// Interior nodes 2..8 are activated at ceil(x/2), a staircase whose
	// least-squares slope is close to 2.
	if v := a.Value(); math.Abs(v-2) > 0.3 {
		t.Errorf("expected velocity near 2, got %v", v)
	}

	a.Reset()
	if a.Fraction() != 0 || !math.IsNaN(a.Times()[0]) {
		t.Error("reset did not clear the map")
	}
	if a.Value() != 0 {
		t.Errorf("expected sentinel 0 without activations, got %v", a.Value())
	}
}

func TestMetricsInSimulation(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	grid, err := dynamo.NewGrid(cfg)
	if err != nil {
		t.Fatal(err)
	}

	opts := sim.DefaultOptions()
	s := sim.New(cfg, opts)
	s.SetLogger(logger.Discard())

	activation := NewActivation(grid.X(), cfg.Length, opts.FrontLevel, opts.Margin)
	s.AddMetric(NewCharge(cfg.Dx))
	s.AddMetric(NewBounds(-1e-9, 1+1e-9))
	s.AddMetric(activation)

	result, err := s.Run(context.Background(), 0.15)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := result.Metrics["charge"]; math.Abs(got-cfg.Length) > 0.01 {
		t.Errorf("expected a fully excited cable, charge=%v", got)
	}
	if got := result.Metrics["bounded"]; got != 1 {
		t.Errorf("expected u to stay in [0, 1], got %v", got)
	}
	if got := result.Metrics["activation_velocity"]; math.Abs(got-result.Velocity) > 0.05*result.Velocity {
		t.Errorf("activation velocity %v disagrees with tracked velocity %v", got, result.Velocity)
	}
	if activation.Fraction() != 1 {
		t.Errorf("expected every node activated, got %v", activation.Fraction())
	}
}
