package physics

import (
	"math"
	"testing"
)

func TestCubicRestStates(t *testing.T) {
	c := NewCubic(8.0, 0.15)

	for _, u := range []float64{0, 0.15, 1} {
		if r := c.Rate(u); math.Abs(r) > 1e-15 {
			t.Errorf("expected zero rate at u=%v, got %v", u, r)
		}
	}
}

func TestCubicRate(t *testing.T) {
	c := NewCubic(8.0, 0.15)

	tests := []struct {
		u, expected float64
	}{
		{0.5, 8 * 0.5 * 0.5 * 0.35},
		{0.1, 8 * 0.1 * 0.9 * -0.05},
		{2.0, 8 * 2.0 * -1.0 * 1.85},
		{-0.5, 8 * -0.5 * 1.5 * -0.65},
	}

	for _, tt := range tests {
		if got := c.Rate(tt.u); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("Rate(%v) = %v, want %v", tt.u, got, tt.expected)
		}
	}
}

func TestCubicSign(t *testing.T) {
	c := NewCubic(8.0, 0.3)

	if c.Rate(0.2) >= 0 {
		t.Error("sub-threshold voltage should decay toward rest")
	}
	if c.Rate(0.6) <= 0 {
		t.Error("supra-threshold voltage should grow toward excitation")
	}
}
