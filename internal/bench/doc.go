// Package bench times accelerated and reference implementations side by side.
//
// The package is built from two pieces:
//
//   - [Benchmark]: runs a thunk a fixed number of times and reports a [Timing]
//   - [Runner]: drives a whole [suite.Suite], timing both sides of every case
//     and attaching a compatibility verdict
//
// # Example
//
//	runner := bench.NewRunner(bench.Config{Scale: 1, Warmup: 10}, log.Logger)
//	report, err := runner.RunAll(ctx, suites, "nightly")
//	fmt.Println(bench.FormatSpeedup(report.Results[0].Speedup()))
//
// # Thread Safety
//
// A Runner runs cases one at a time so timings do not contend for CPU. Only
// the compatibility checks run in parallel.
package bench
