package plan

import (
	"context"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/suite"
)

// Sweep reruns one suite across a range of iteration counts to show how
// speedup changes as fixed costs amortize.
type Sweep struct {
	Suite    string
	MinIters int
	MaxIters int
	NumSteps int
}

type SweepPoint struct {
	Iterations int
	Speedup    float64
	// OpsPerSec is the mean accelerated throughput over the suite's cases with a measurable time.
	OpsPerSec float64
}

func (sw *Sweep) points() ([]int, error) {
	switch {
	case sw.NumSteps < 2:
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sw.NumSteps)
	case sw.MinIters < 1 || sw.MaxIters <= sw.MinIters:
		return nil, fmt.Errorf("invalid iteration range [%d, %d]", sw.MinIters, sw.MaxIters)
	}
	step := float64(sw.MaxIters-sw.MinIters) / float64(sw.NumSteps-1)
	out := make([]int, sw.NumSteps)
	for i := range out {
		out[i] = sw.MinIters + int(float64(i)*step+0.5)
	}
	return lo.Uniq(out), nil
}

func RunSweep(ctx context.Context, sw *Sweep, registry *suite.Registry, runner *bench.Runner) ([]SweepPoint, error) {
	s, err := registry.Get(sw.Suite)
	if err != nil {
		return nil, err
	}
	iters, err := sw.points()
	if err != nil {
		return nil, err
	}

	results := make([]SweepPoint, 0, len(iters))
	for _, n := range iters {
		caseResults, err := runner.WithIterations(n).RunSuite(ctx, s)
		if err != nil {
			return results, fmt.Errorf("iterations %d: %w", n, err)
		}
		report := bench.Report{Results: caseResults}
		results = append(results, SweepPoint{
			Iterations: n,
			Speedup:    report.Summary().GeoMeanSpeedup,
			OpsPerSec: lo.MeanBy(finite(caseResults), func(r bench.CaseResult) float64 {
				return r.Fast.OpsPerSec
			}),
		})
	}
	return results, nil
}

func finite(rs []bench.CaseResult) []bench.CaseResult {
	return lo.Filter(rs, func(r bench.CaseResult, _ int) bool {
		return !math.IsInf(r.Fast.OpsPerSec, 0)
	})
}
