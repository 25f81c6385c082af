package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/speedlab/internal/metrics"
)

// ErrIterations is returned for a non-positive iteration count.
var ErrIterations = errors.New("bench: iterations must be positive")

// batch is how many iterations run between context checks.
const batch = 64

type Timing struct {
	Elapsed    time.Duration `json:"elapsed_ns" bson:"elapsed_ns"`
	OpsPerSec  float64       `json:"-" bson:"-"`
	Iterations int           `json:"iterations" bson:"iterations"`
}

// NewTiming derives OpsPerSec from elapsed. A zero elapsed time gives +Inf.
func NewTiming(elapsed time.Duration, iterations int) Timing {
	t := Timing{Elapsed: elapsed, Iterations: iterations}
	if elapsed > 0 {
		t.OpsPerSec = float64(iterations) / elapsed.Seconds()
	} else {
		t.OpsPerSec = math.Inf(1)
	}
	return t
}

// Benchmark calls thunk iterations times. When observers are given each call
// is timed individually and fed to them; otherwise only the total is taken.
func Benchmark(ctx context.Context, name string, thunk func() error, iterations int, observers ...metrics.Metric) (Timing, error) {
	if iterations <= 0 {
		return Timing{}, fmt.Errorf("%s: %w", name, ErrIterations)
	}

	var elapsed time.Duration
	for done := 0; done < iterations; {
		select {
		case <-ctx.Done():
			return NewTiming(elapsed, done), ctx.Err()
		default:
		}

		n := min(batch, iterations-done)
		if len(observers) == 0 {
			start := time.Now()
			for i := 0; i < n; i++ {
				if err := thunk(); err != nil {
					return Timing{}, fmt.Errorf("%s: iteration %d: %w", name, done+i, err)
				}
			}
			elapsed += time.Since(start)
		} else {
			for i := 0; i < n; i++ {
				start := time.Now()
				err := thunk()
				d := time.Since(start)
				if err != nil {
					return Timing{}, fmt.Errorf("%s: iteration %d: %w", name, done+i, err)
				}
				elapsed += d
				for _, o := range observers {
					o.Observe(d)
				}
			}
		}
		done += n
	}
	return NewTiming(elapsed, iterations), nil
}

// FormatSpeedup renders a reference/accelerated time ratio.
func FormatSpeedup(ratio float64) string {
	switch {
	case math.IsInf(ratio, 1):
		return "∞x faster"
	case math.IsNaN(ratio) || ratio <= 0:
		return "n/a"
	case ratio >= 1:
		return fmt.Sprintf("%.1fx faster", ratio)
	}
	return fmt.Sprintf("%.1fx slower", 1/ratio)
}
