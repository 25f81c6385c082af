package bench

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/san-kum/speedlab/internal/suite"
)

// Repeat runs s rounds times and returns one result slice per round.
// Rounds run one after another so they never compete for the CPU.
func (r *Runner) Repeat(ctx context.Context, s suite.Suite, rounds int) ([][]CaseResult, error) {
	if rounds < 1 {
		return nil, fmt.Errorf("rounds must be positive, got %d", rounds)
	}
	out := make([][]CaseResult, 0, rounds)
	for i := 0; i < rounds; i++ {
		results, err := r.RunSuite(ctx, s)
		if err != nil {
			return out, fmt.Errorf("round %d: %w", i, err)
		}
		out = append(out, results)
	}
	return out, nil
}

// Median folds repeated rounds into one result per case, keeping the round
// whose accelerated time is the median for that case. Cases are matched by
// position, so every round must come from the same suite.
func Median(rounds [][]CaseResult) []CaseResult {
	if len(rounds) == 0 {
		return nil
	}
	out := make([]CaseResult, len(rounds[0]))
	for i := range out {
		col := make([]CaseResult, 0, len(rounds))
		for _, round := range rounds {
			if i < len(round) {
				col = append(col, round[i])
			}
		}
		slices.SortFunc(col, func(a, b CaseResult) int {
			return cmp.Compare(a.Fast.Elapsed, b.Fast.Elapsed)
		})
		out[i] = col[len(col)/2]
	}
	return out
}
