package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/speedlab/internal/compat"
	"github.com/san-kum/speedlab/internal/metrics"
	"github.com/san-kum/speedlab/internal/suite"
)

type Config struct {
	// Scale multiplies every case's iteration count.
	Scale    float64
	Warmup   int
	Parallel int
	// Iterations, when positive, replaces every case's iteration count.
	Iterations int
}

type CaseResult struct {
	Suite     string             `json:"suite" bson:"suite"`
	Library   string             `json:"library" bson:"library"`
	Case      string             `json:"case" bson:"case"`
	Fast      Timing             `json:"fast" bson:"fast"`
	Reference *Timing            `json:"reference,omitempty" bson:"reference,omitempty"`
	Match     bool               `json:"match" bson:"match"`
	Skipped   bool               `json:"skipped,omitempty" bson:"skipped,omitempty"`
	Diff      string             `json:"diff,omitempty" bson:"diff,omitempty"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty" bson:"metrics,omitempty"`
}

// Speedup is reference time over accelerated time, 0 without a reference.
func (r CaseResult) Speedup() float64 {
	if r.Reference == nil {
		return 0
	}
	return metrics.Speedup(r.Reference.Elapsed, r.Fast.Elapsed)
}

func (r CaseResult) Passed() bool { return r.Error == "" && r.Match }

type Report struct {
	Label    string       `json:"label" bson:"label"`
	Started  time.Time    `json:"started" bson:"started"`
	Finished time.Time    `json:"finished" bson:"finished"`
	Results  []CaseResult `json:"results" bson:"results"`
}

type Summary struct {
	Cases   int
	Passed  int
	Failed  int
	Skipped int
	// GeoMeanSpeedup is the geometric mean over finite, positive speedups.
	GeoMeanSpeedup float64
}

func (r *Report) Summary() Summary {
	var s Summary
	var logSum float64
	var n int
	for _, res := range r.Results {
		s.Cases++
		switch {
		case res.Skipped && res.Error == "":
			s.Skipped++
		case res.Passed():
			s.Passed++
		default:
			s.Failed++
		}
		if sp := res.Speedup(); sp > 0 && !math.IsInf(sp, 0) {
			logSum += math.Log(sp)
			n++
		}
	}
	if n > 0 {
		s.GeoMeanSpeedup = math.Exp(logSum / float64(n))
	}
	return s
}

// Observer is notified as each case finishes.
type Observer interface {
	OnCase(CaseResult)
}

type ObserverFunc func(CaseResult)

func (f ObserverFunc) OnCase(r CaseResult) { f(r) }

type Runner struct {
	cfg       Config
	log       zerolog.Logger
	observers []Observer
}

func NewRunner(cfg Config, logger zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, log: logger}
}

func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Config() Config { return r.cfg }

// WithIterations returns a copy of r that runs every case n times.
func (r *Runner) WithIterations(n int) *Runner {
	c := *r
	c.cfg.Iterations = n
	c.observers = append([]Observer(nil), r.observers...)
	return &c
}

func (r *Runner) validateConfig() error {
	if r.cfg.Iterations <= 0 && r.cfg.Scale <= 0 {
		return fmt.Errorf("scale must be positive, got %f", r.cfg.Scale)
	}
	if r.cfg.Warmup < 0 {
		return fmt.Errorf("warmup must not be negative, got %d", r.cfg.Warmup)
	}
	return nil
}

func (r *Runner) iterations(c suite.Case) int {
	if r.cfg.Iterations > 0 {
		return r.cfg.Iterations
	}
	return max(1, int(math.Round(float64(c.Iterations)*r.cfg.Scale)))
}

func thunk(f func() (any, error), expectError bool) func() error {
	return func() error {
		_, err := f()
		if expectError {
			return nil
		}
		return err
	}
}

func (r *Runner) warmup(ctx context.Context, c suite.Case) error {
	for i := 0; i < r.cfg.Warmup; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.Fast()
		if c.Reference != nil {
			c.Reference()
		}
	}
	return nil
}

// RunSuite times every case of s. A failing case is recorded and the run
// continues; only cancellation stops it early.
func (r *Runner) RunSuite(ctx context.Context, s suite.Suite) ([]CaseResult, error) {
	if err := r.validateConfig(); err != nil {
		return nil, err
	}

	outcomes := compat.CheckAll(ctx, s.Cases, r.cfg.Parallel)
	results := make([]CaseResult, 0, len(s.Cases))

	for i, c := range s.Cases {
		if err := r.warmup(ctx, c); err != nil {
			return results, err
		}

		res := CaseResult{Suite: s.Name, Library: s.Library, Case: c.Name}
		n := r.iterations(c)
		ms := metrics.Default()

		fast, err := Benchmark(ctx, s.Name+"/"+c.Name, thunk(c.Fast, c.ExpectError), n, ms...)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return results, err
			}
			res.Error = err.Error()
		}
		res.Fast = fast
		res.Metrics = metrics.Collect(ms)

		if c.Reference != nil && res.Error == "" {
			ref, err := Benchmark(ctx, s.Name+"/"+c.Name+" (reference)", thunk(c.Reference, c.ExpectError), n)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return results, err
				}
				res.Error = err.Error()
			} else {
				res.Reference = &ref
			}
		}

		o := outcomes[i]
		res.Match, res.Skipped, res.Diff = o.Match, o.Skipped, o.Diff
		if o.Err != nil && res.Error == "" {
			res.Error = o.Err.Error()
		}

		ev := r.log.Info()
		if !res.Passed() {
			ev = r.log.Warn().Str("diff", res.Diff).Str("error", res.Error)
		}
		ev.Str("suite", s.Name).
			Str("case", c.Name).
			Int("iterations", n).
			Float64("ops_per_sec", res.Fast.OpsPerSec).
			Str("speedup", FormatSpeedup(res.Speedup())).
			Bool("match", res.Match).
			Msg("case finished")

		results = append(results, res)
		for _, obs := range r.observers {
			obs.OnCase(res)
		}
	}
	return results, nil
}

// RunAll runs suites in order and collects every result into one report.
func (r *Runner) RunAll(ctx context.Context, suites []suite.Suite, label string) (*Report, error) {
	report := &Report{Label: label, Started: time.Now()}
	for _, s := range suites {
		r.log.Debug().Str("suite", s.Name).Int("cases", len(s.Cases)).Msg("running suite")
		results, err := r.RunSuite(ctx, s)
		report.Results = append(report.Results, results...)
		if err != nil {
			report.Finished = time.Now()
			return report, fmt.Errorf("suite %s: %w", s.Name, err)
		}
	}
	report.Finished = time.Now()
	return report, nil
}

// Total returns the number of cases across suites, scaled or not.
func Total(suites []suite.Suite) int {
	n := 0
	for _, s := range suites {
		n += len(s.Cases)
	}
	return n
}
