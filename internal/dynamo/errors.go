package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfig indicates a structurally invalid configuration value.
	ErrConfig = errors.New("dynamo: invalid configuration")

	// ErrStability indicates the explicit diffusion bound D*dt/dx^2 <= 0.5 is violated.
	ErrStability = errors.New("dynamo: explicit diffusion stability bound violated")

	// ErrUnstable indicates the field became non-finite during stepping.
	ErrUnstable = errors.New("dynamo: simulation unstable (field diverged)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// StabilityLimit is the largest diffusion number the explicit scheme accepts.
const StabilityLimit = 0.5

// ConfigError reports the offending field of a rejected configuration.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("dynamo: invalid %s=%g: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfig
}

// StabilityError carries the diffusion number that failed the gate.
type StabilityError struct {
	Sigma float64
	Limit float64
}

func (e *StabilityError) Error() string {
	return fmt.Sprintf("dynamo: D*dt/dx^2 = %.6g exceeds %.2g", e.Sigma, e.Limit)
}

func (e *StabilityError) Unwrap() error {
	return ErrStability
}

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
