// Package viz renders cable runs and threshold sweeps in the terminal.
//
//   - [PlotSweep]: simulated and theoretical velocity against alpha
//   - [PlotProfile], [PlotFronts]: one snapshot, one trajectory
//   - [Kymograph]: Braille space-time picture of the excited region
//   - [SweepTable], [RunSummary]: styled text reports
package viz
