// Package analysis measures conduction in a simulated cable.
//
// The package turns a sequence of voltage fields into a conduction velocity:
//
//   - [FrontPosition]: rightmost node above the detection level
//   - [Tracker]: samples the front while it crosses the interior window
//   - [EstimateVelocity]: least-squares slope of position against time
//   - [TheoreticalVelocity]: closed-form planar wave speed of the cubic model
//
// # Propagation Failure
//
// A wave that dies at the stimulus, or never reaches the interior window,
// leaves fewer than [DefaultMinSamples] samples. EstimateVelocity reports 0
// in that case; it is a measurement, not an error:
//
//	v := analysis.EstimateVelocity(tracker.Samples(), analysis.DefaultMinSamples)
//	if v == 0 {
//	    // no sustained propagation
//	}
package analysis
