// Package viz renders benchmark reports for the terminal.
//
// The package provides:
//
//   - [RenderReport]: a themed table of every case with a summary line
//   - [PlotSpeedups], [PlotThroughput] and [PlotSeries]: asciigraph charts
//   - [Live]: a Bubble Tea model that shows cases as they finish
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
// The live view accepts:
//
//	Q     - Stop the run and quit
//	T     - Cycle color themes
//	?     - Show help overlay
//
// Colors follow the terminal's capabilities via termenv. NO_COLOR and
// non-terminal outputs get plain text.
package viz
