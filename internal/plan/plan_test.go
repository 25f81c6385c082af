package plan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/jsonschema"
	"github.com/san-kum/speedlab/internal/suite"
)

func constant(v any) func() (any, error) {
	return func() (any, error) { return v, nil }
}

func slow(v any) func() (any, error) {
	return func() (any, error) {
		time.Sleep(50 * time.Microsecond)
		return v, nil
	}
}

func testRegistry() *suite.Registry {
	r := suite.NewRegistry()
	r.Register("fast", func() suite.Suite {
		return suite.Suite{Name: "fast", Cases: []suite.Case{
			{Name: "a", Iterations: 20, Fast: constant(1), Reference: slow(1)},
			{Name: "b", Iterations: 20, Fast: constant(2), Reference: slow(2)},
		}}
	})
	r.Register("broken", func() suite.Suite {
		return suite.Suite{Name: "broken", Cases: []suite.Case{
			{Name: "differs", Iterations: 5, Fast: constant(1), Reference: constant(2)},
		}}
	})
	r.Register("slow", func() suite.Suite {
		return suite.Suite{Name: "slow", Cases: []suite.Case{
			{Name: "lags", Iterations: 5, Fast: slow(1), Reference: constant(1)},
		}}
	})
	return r
}

func testRunner() *bench.Runner {
	return bench.NewRunner(bench.Config{Scale: 1, Parallel: 2}, zerolog.Nop())
}

func TestParse(t *testing.T) {
	data := []byte(`
name: nightly
steps:
  - suite: fast
    expect_speedup: 1.5
  - suite: broken
    cases: [differs]
    iterations: 3
    allow_mismatch: true
`)
	p, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	want := &Plan{Name: "nightly", Steps: []Step{
		{Suite: "fast", ExpectSpeedup: 1.5},
		{Suite: "broken", Cases: []string{"differs"}, Iterations: 3, AllowMismatch: true},
	}}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no steps", "name: x\n"},
		{"empty steps", "name: x\nsteps: []\n"},
		{"missing suite", "name: x\nsteps:\n  - iterations: 3\n"},
		{"zero iterations", "name: x\nsteps:\n  - suite: fast\n    iterations: 0\n"},
		{"unknown key", "name: x\nsteps:\n  - suite: fast\n    model: pendulum\n"},
		{"negative speedup", "name: x\nsteps:\n  - suite: fast\n    expect_speedup: -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			var verr *jsonschema.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}

	if _, err := Parse([]byte("name: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte("name: smoke\nsteps:\n  - suite: fast\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPlan(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "smoke" || len(p.Steps) != 1 {
		t.Errorf("unexpected plan %+v", p)
	}
	if _, err := LoadPlan(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRunPlan(t *testing.T) {
	p := &Plan{Name: "ok", Steps: []Step{
		{Suite: "fast"},
		{Suite: "fast", Cases: []string{"b"}, Iterations: 4},
		{Suite: "broken", AllowMismatch: true},
	}}
	results, err := RunPlan(context.Background(), p, testRegistry(), testRunner())
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 step results, got %d", len(results))
	}
	if n := len(results[1].Results); n != 1 {
		t.Errorf("expected filtered step to run 1 case, got %d", n)
	}
	if it := results[1].Results[0].Fast.Iterations; it != 4 {
		t.Errorf("expected iteration override 4, got %d", it)
	}
	if results[2].Summary.Failed != 1 {
		t.Errorf("expected mismatch to be counted, got %+v", results[2].Summary)
	}
}

func TestRunPlanErrors(t *testing.T) {
	tests := []struct {
		name    string
		steps   []Step
		wantErr error
		wantMsg string
		ran     int
	}{
		{"unknown suite", []Step{{Suite: "fast"}, {Suite: "nope"}}, nil, "step 2: unknown suite: nope", 1},
		{"no matching cases", []Step{{Suite: "fast", Cases: []string{"zzz"}}}, nil, "step 1: no cases", 0},
		{"mismatch", []Step{{Suite: "broken"}}, ErrIncompatible, "step 1", 1},
		{"too slow", []Step{{Suite: "slow", ExpectSpeedup: 2}}, ErrSpeedupNotMet, "step 1", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := RunPlan(context.Background(), &Plan{Name: tt.name, Steps: tt.steps}, testRegistry(), testRunner())
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("expected message starting %q, got %q", tt.wantMsg, err)
			}
			if len(results) != tt.ran {
				t.Errorf("expected %d step results, got %d", tt.ran, len(results))
			}
		})
	}
}

func TestRunSweep(t *testing.T) {
	sw := &Sweep{Suite: "fast", MinIters: 1, MaxIters: 9, NumSteps: 3}
	points, err := RunSweep(context.Background(), sw, testRegistry(), testRunner())
	if err != nil {
		t.Fatal(err)
	}
	var iters []int
	for _, p := range points {
		iters = append(iters, p.Iterations)
		if p.Speedup <= 0 {
			t.Errorf("iterations %d: expected positive speedup, got %f", p.Iterations, p.Speedup)
		}
	}
	if diff := cmp.Diff([]int{1, 5, 9}, iters); diff != "" {
		t.Errorf("iterations mismatch (-want +got):\n%s", diff)
	}
}

func TestSweepValidation(t *testing.T) {
	bad := []*Sweep{
		{Suite: "fast", MinIters: 1, MaxIters: 10, NumSteps: 1},
		{Suite: "fast", MinIters: 0, MaxIters: 10, NumSteps: 3},
		{Suite: "fast", MinIters: 10, MaxIters: 10, NumSteps: 3},
		{Suite: "nope", MinIters: 1, MaxIters: 10, NumSteps: 3},
	}
	for _, sw := range bad {
		if _, err := RunSweep(context.Background(), sw, testRegistry(), testRunner()); err == nil {
			t.Errorf("%+v: expected error", sw)
		}
	}
}
