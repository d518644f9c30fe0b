package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestNewGrid_Default(t *testing.T) {
	g, err := NewGrid(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	if g.Nx() != 201 {
		t.Errorf("expected Nx=201, got %d", g.Nx())
	}
	if g.Nt() != 400000 {
		t.Errorf("expected Nt=400000, got %d", g.Nt())
	}

	x := g.X()
	if len(x) != g.Nx() {
		t.Fatalf("expected %d coordinates, got %d", g.Nx(), len(x))
	}
	if x[0] != 0 {
		t.Errorf("expected x[0]=0, got %v", x[0])
	}
	if math.Abs(x[len(x)-1]-10.0) > 1e-12 {
		t.Errorf("expected x[last]=10, got %v", x[len(x)-1])
	}
	if math.Abs(x[20]-1.0) > 1e-12 {
		t.Errorf("expected x[20]=1, got %v", x[20])
	}
}

func TestNewGrid_NonIntegralLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 1.03
	cfg.Dx = 0.1

	g, err := NewGrid(cfg)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	if g.Nx() != 11 {
		t.Errorf("expected Nx=11, got %d", g.Nx())
	}
	// Coordinates follow the step, not the nominal length.
	if math.Abs(g.Coord(10)-1.0) > 1e-12 {
		t.Errorf("expected last node at 1.0, got %v", g.Coord(10))
	}
}

func TestNewGrid_CoordinatesAreCopied(t *testing.T) {
	g, err := NewGrid(DefaultConfig())
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	x := g.X()
	x[1] = 42
	if g.Coord(1) == 42 {
		t.Error("X() exposed the grid's internal slice")
	}
}

func TestNewGrid_StabilityGate(t *testing.T) {
	tests := []struct {
		name     string
		d, dx    float64
		dt       float64
		unstable bool
	}{
		{"default", 1.0, 0.05, 0.0001, false},
		{"exactly at limit", 1.0, 0.5, 0.125, false},
		{"just above limit", 1.0, 0.5, 0.1251, true},
		{"large dt", 1.0, 0.05, 0.002, true},
		{"strong diffusion", 50.0, 0.05, 0.0001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.D, cfg.Dx, cfg.Dt = tt.d, tt.dx, tt.dt

			_, err := NewGrid(cfg)
			if !tt.unstable {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}

			if !errors.Is(err, ErrStability) {
				t.Fatalf("expected ErrStability, got %v", err)
			}
			var se *StabilityError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StabilityError, got %T", err)
			}
			if se.Sigma <= StabilityLimit {
				t.Errorf("reported sigma %v should exceed %v", se.Sigma, StabilityLimit)
			}
		})
	}
}

func TestNewGrid_ConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		field string
		mut   func(*Config)
	}{
		{"zero D", "D", func(c *Config) { c.D = 0 }},
		{"negative K", "K", func(c *Config) { c.K = -8 }},
		{"zero length", "Length", func(c *Config) { c.Length = 0 }},
		{"negative duration", "Duration", func(c *Config) { c.Duration = -1 }},
		{"zero dx", "Dx", func(c *Config) { c.Dx = 0 }},
		{"negative dt", "Dt", func(c *Config) { c.Dt = -0.0001 }},
		{"NaN dt", "Dt", func(c *Config) { c.Dt = math.NaN() }},
		{"Inf length", "Length", func(c *Config) { c.Length = math.Inf(1) }},
		{"NaN alpha", "Alpha", func(c *Config) { c.Alpha = math.NaN() }},
		{"dx above length", "Dx", func(c *Config) { c.Length = 0.01 }},
		{"dt above duration", "Dt", func(c *Config) { c.Duration = 0.00001 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)

			_, err := NewGrid(cfg)
			if !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
			if ce.Field != tt.field {
				t.Errorf("expected field %s, got %s", tt.field, ce.Field)
			}
		})
	}
}

func TestNewGrid_ConfigCheckedBeforeStability(t *testing.T) {
	cfg := DefaultConfig()
	cfg.K = 0
	cfg.Dt = 1.0 // would also violate the stability bound

	_, err := NewGrid(cfg)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig first, got %v", err)
	}
}
