// Package analysis reduces recorded observable series to summary numbers.
//
//   - [Trend]: least squares rate of change, e.g. filament elongation
//   - [PowerSpectrum] and [DominantPeriod]: periodic components, e.g.
//     kinesin stepping or microtubule growth and shrinkage cycles
//   - [Summarize]: all of the above for one column
//
// Series are expected on a uniform time grid, as the engine records them.
package analysis
