package dynamo

import "math"

// Field is the voltage u sampled on every grid node at one instant.
type Field []float64

func NewField(n int) Field {
	return make(Field, n)
}

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (f Field) Max() float64 {
	if len(f) == 0 {
		return 0
	}
	m := f[0]
	for _, v := range f[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func (f Field) Zero() {
	for i := range f {
		f[i] = 0
	}
}

// FrontSample is one observation of the leading edge of the excitation.
type FrontSample struct {
	Time     float64 `json:"time"`
	Position float64 `json:"position"`
}

// Kinetics is the local reaction term of the cable equation.
type Kinetics interface {
	Rate(u float64) float64
}

// Config holds the parameters of one simulation run.
//
//	du/dt = D * d2u/dx2 + k * u * (1 - u) * (u - alpha)
//
// Lengths are in cm, times in ms.
type Config struct {
	D        float64 // diffusion coefficient, cm^2/ms
	K        float64 // reaction rate scale, 1/ms
	Alpha    float64 // excitation threshold
	Length   float64 // cable length L, cm
	Duration float64 // simulated time T_max, ms
	Dx       float64 // spatial step, cm
	Dt       float64 // time step, ms
}

// DefaultConfig returns the validated canine-myocardium scenario.
func DefaultConfig() Config {
	return Config{
		D:        1.0,
		K:        8.0,
		Alpha:    0.15,
		Length:   10.0,
		Duration: 40.0,
		Dx:       0.05,
		Dt:       0.0001,
	}
}

// Sigma returns the diffusion number D*dt/dx^2.
func (c Config) Sigma() float64 {
	return c.D * c.Dt / (c.Dx * c.Dx)
}

func (c Config) WithAlpha(alpha float64) Config {
	c.Alpha = alpha
	return c
}

// Validate runs the same checks as NewGrid without building coordinates.
func (c Config) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"D", c.D},
		{"K", c.K},
		{"Length", c.Length},
		{"Duration", c.Duration},
		{"Dx", c.Dx},
		{"Dt", c.Dt},
	}
	for _, p := range positive {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return &ConfigError{Field: p.name, Value: p.v, Reason: "must be finite"}
		}
		if p.v <= 0 {
			return &ConfigError{Field: p.name, Value: p.v, Reason: "must be positive"}
		}
	}
	if math.IsNaN(c.Alpha) || math.IsInf(c.Alpha, 0) {
		return &ConfigError{Field: "Alpha", Value: c.Alpha, Reason: "must be finite"}
	}
	if floorCount(c.Length/c.Dx) < 1 {
		return &ConfigError{Field: "Dx", Value: c.Dx, Reason: "must not exceed Length"}
	}
	if floorCount(c.Duration/c.Dt) < 1 {
		return &ConfigError{Field: "Dt", Value: c.Dt, Reason: "must not exceed Duration"}
	}

	if sigma := c.Sigma(); sigma > StabilityLimit {
		return &StabilityError{Sigma: sigma, Limit: StabilityLimit}
	}
	return nil
}

// floorCount floors a ratio of two step sizes, absorbing the representation
// error of decimal inputs (10/0.05 must count 200 intervals, not 199).
func floorCount(ratio float64) int {
	return int(math.Floor(ratio * (1 + 1e-12)))
}
