// Package plan runs scripted sequences of benchmark suites from YAML files.
//
// A plan lists steps. Each step names a suite, optionally a subset of its
// cases, an iteration override, and the minimum geometric-mean speedup the
// step must reach:
//
//	name: nightly
//	steps:
//	  - suite: toml
//	    expect_speedup: 2
//	  - suite: version
//	    cases: [sort]
//	    iterations: 500
package plan

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/speedlab/internal/bench"
	"github.com/san-kum/speedlab/internal/jsonschema"
	"github.com/san-kum/speedlab/internal/suite"
)

var (
	ErrSpeedupNotMet = errors.New("speedup below expectation")
	ErrIncompatible  = errors.New("accelerated output differs from reference")
)

type Plan struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

type Step struct {
	Suite         string   `yaml:"suite"`
	Cases         []string `yaml:"cases,omitempty"`
	Iterations    int      `yaml:"iterations,omitempty"`
	ExpectSpeedup float64  `yaml:"expect_speedup,omitempty"`
	// AllowMismatch keeps a step passing when outputs differ.
	AllowMismatch bool `yaml:"allow_mismatch,omitempty"`
}

type StepResult struct {
	Step    Step
	Results []bench.CaseResult
	Summary bench.Summary
}

var planSchema = jsonschema.MustCompile(map[string]any{
	"type":     "object",
	"required": []any{"name", "steps"},
	"properties": map[string]any{
		"name":        map[string]any{"type": "string", "minLength": 1},
		"description": map[string]any{"type": "string"},
		"steps": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":                 "object",
				"required":             []any{"suite"},
				"additionalProperties": false,
				"properties": map[string]any{
					"suite":          map[string]any{"type": "string", "minLength": 1},
					"cases":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"iterations":     map[string]any{"type": "integer", "minimum": 1},
					"expect_speedup": map[string]any{"type": "number", "exclusiveMinimum": 0},
					"allow_mismatch": map[string]any{"type": "boolean"},
				},
			},
		},
	},
})

// Parse validates data against the plan schema and decodes it.
func Parse(data []byte) (*Plan, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if err := planSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// RunPlan executes steps in order and stops at the first failing one. The
// results of steps that already ran are returned alongside the error.
func RunPlan(ctx context.Context, p *Plan, registry *suite.Registry, runner *bench.Runner) ([]StepResult, error) {
	results := make([]StepResult, 0, len(p.Steps))

	for i, step := range p.Steps {
		s, err := registry.Get(step.Suite)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if len(step.Cases) > 0 {
			s = s.Filter(step.Cases...)
			if len(s.Cases) == 0 {
				return results, fmt.Errorf("step %d: no cases of %s match %v", i+1, step.Suite, step.Cases)
			}
		}

		r := runner
		if step.Iterations > 0 {
			r = runner.WithIterations(step.Iterations)
		}

		caseResults, err := r.RunSuite(ctx, s)
		report := bench.Report{Results: caseResults}
		sr := StepResult{Step: step, Results: caseResults, Summary: report.Summary()}
		results = append(results, sr)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := sr.check(); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
	}

	return results, nil
}

func (sr StepResult) check() error {
	if sr.Summary.Failed > 0 && !sr.Step.AllowMismatch {
		return fmt.Errorf("%s: %d of %d cases: %w", sr.Step.Suite, sr.Summary.Failed, sr.Summary.Cases, ErrIncompatible)
	}
	if want := sr.Step.ExpectSpeedup; want > 0 && sr.Summary.GeoMeanSpeedup < want {
		return fmt.Errorf("%s: %s, want %.1fx: %w", sr.Step.Suite,
			bench.FormatSpeedup(sr.Summary.GeoMeanSpeedup), want, ErrSpeedupNotMet)
	}
	return nil
}
