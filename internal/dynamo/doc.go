// Package dynamo provides the core value types for simulating a 1D excitable
// cable.
//
// The package defines the pieces every other package passes around:
//
//   - [Config]: physical and numerical parameters of one run
//   - [Grid]: spatial and temporal discretization derived from a Config
//   - [Field]: voltage sampled on the grid at one instant
//   - [FrontSample]: one (time, position) observation of the wavefront
//   - [Kinetics]: local reaction term driving the field
//
// # Validation
//
// [NewGrid] is the single entry point that turns a Config into a Grid. It
// rejects structurally invalid values with a [ConfigError] and configurations
// violating the explicit diffusion bound D*dt/dx^2 <= 0.5 with a
// [StabilityError]. Nothing is ever clamped.
//
//	grid, err := dynamo.NewGrid(cfg)
//	if errors.Is(err, dynamo.ErrStability) {
//	    // reduce dt or coarsen dx
//	}
//
// # Thread Safety
//
// Config and Grid are values and safe to share. A Field is owned by exactly
// one stepper at a time.
package dynamo
