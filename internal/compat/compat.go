// Package compat checks that an accelerated implementation produces the same
// result as its reference.
package compat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/speedlab/internal/suite"
)

// ErrMismatch is returned by Outcome.AsError for a failed comparison.
var ErrMismatch = errors.New("compat: outputs differ")

// FloatTolerance is the relative tolerance for float comparisons.
const FloatTolerance = 1e-9

// Outcome is the verdict for one case. Skipped is set when the case has no
// reference to compare against.
type Outcome struct {
	Case    string
	Match   bool
	Skipped bool
	Diff    string
	Err     error
}

// AsError folds a failed outcome into a single error.
func (o Outcome) AsError() error {
	switch {
	case o.Err != nil:
		return fmt.Errorf("%s: %w", o.Case, o.Err)
	case !o.Match:
		return fmt.Errorf("%s: %w\n%s", o.Case, ErrMismatch, o.Diff)
	}
	return nil
}

var options = cmp.Options{
	cmpopts.EquateEmpty(),
	cmpopts.EquateApprox(FloatTolerance, 0),
	cmpopts.EquateNaNs(),
}

// Check runs both sides of c once and compares their normalized outputs.
// When both sides fail the case matches, since rejecting the same input is
// compatible behavior.
func Check(c suite.Case) Outcome {
	out := Outcome{Case: c.Name}
	if c.Fast == nil {
		out.Err = errors.New("compat: case has no accelerated implementation")
		return out
	}
	if c.Reference == nil {
		out.Skipped, out.Match = true, true
		return out
	}

	got, fastErr := c.Fast()
	want, refErr := c.Reference()
	switch {
	case fastErr != nil && refErr != nil:
		out.Match = true
		return out
	case fastErr != nil:
		out.Diff = fmt.Sprintf("accelerated failed: %v", fastErr)
		return out
	case refErr != nil:
		out.Diff = fmt.Sprintf("reference failed: %v", refErr)
		return out
	}

	if c.Normalize != nil {
		got, want = c.Normalize(got), c.Normalize(want)
	}
	out.Diff = Diff(want, got)
	out.Match = out.Diff == ""
	return out
}

// Diff reports differences as "-reference +accelerated".
func Diff(want, got any) (diff string) {
	defer func() {
		if r := recover(); r != nil {
			diff = fmt.Sprintf("values are not comparable: %v", r)
		}
	}()
	return cmp.Diff(want, got, options)
}

// CheckAll runs Check over cases with at most parallel in flight. Outcomes
// keep the order of cases. Cases not started before ctx is done carry
// ctx.Err().
func CheckAll(ctx context.Context, cases []suite.Case, parallel int) []Outcome {
	outcomes := make([]Outcome, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, parallel))

	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{Case: c.Name, Err: err}
				return nil
			}
			outcomes[i] = Check(c)
			return nil
		})
	}
	g.Wait()
	return outcomes
}

// Summary counts matched, mismatched and skipped outcomes.
func Summary(outcomes []Outcome) (matched, failed, skipped int) {
	for _, o := range outcomes {
		switch {
		case o.Skipped:
			skipped++
		case o.Match && o.Err == nil:
			matched++
		default:
			failed++
		}
	}
	return matched, failed, skipped
}
