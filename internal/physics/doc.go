// Package physics implements the reaction-diffusion cable model.
//
// The cable obeys
//
//	du/dt = D * d2u/dx2 + k * u * (1 - u) * (u - alpha)
//
// discretized with a 3-point Laplacian and explicit Euler in time:
//
//   - [Cubic]: the reduced Aliev–Panfilov reaction term (no recovery variable)
//   - [Laplacian]: second difference with reflective (no-flux) ends
//   - [StepInto]: one time step from a source field into a destination field
//   - [Cable]: double-buffered stepper that owns the live field
//
// # Example
//
//	grid, _ := dynamo.NewGrid(cfg)
//	cable := physics.NewCable(grid, cfg.D, physics.NewCubic(cfg.K, cfg.Alpha))
//	cable.Stimulate(10, 1.0)
//	for i := 0; i < grid.Nt(); i++ {
//	    cable.Step()
//	}
package physics
