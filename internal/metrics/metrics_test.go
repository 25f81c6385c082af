package metrics

import (
	"math"
	"testing"
	"time"
)

func TestThroughput(t *testing.T) {
	m := NewThroughput()
	for i := 0; i < 4; i++ {
		m.Observe(250 * time.Millisecond)
	}
	if v := m.Value(); math.Abs(v-4) > 1e-9 {
		t.Errorf("expected 4 ops/sec, got %f", v)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero throughput after reset")
	}
}

func TestMeanLatency(t *testing.T) {
	m := NewMeanLatency()
	m.Observe(10 * time.Nanosecond)
	m.Observe(30 * time.Nanosecond)
	if v := m.Value(); v != 20 {
		t.Errorf("expected 20ns, got %f", v)
	}
}

func TestPercentile(t *testing.T) {
	m := NewPercentile(95)
	if m.Name() != "p95_ns" {
		t.Errorf("unexpected name %s", m.Name())
	}
	for i := 100; i >= 1; i-- {
		m.Observe(time.Duration(i))
	}
	if v := m.Value(); v != 95 {
		t.Errorf("expected 95, got %f", v)
	}

	m.Reset()
	m.Observe(7)
	if v := m.Value(); v != 7 {
		t.Errorf("single sample: expected 7, got %f", v)
	}
	if NewPercentile(99.9).Name() != "p99.9_ns" {
		t.Error("fractional percentile name")
	}
}

func TestSpeedup(t *testing.T) {
	tests := []struct {
		ref, fast time.Duration
		want      float64
	}{
		{10 * time.Second, 2 * time.Second, 5},
		{time.Second, 4 * time.Second, 0.25},
		{time.Second, 0, math.Inf(1)},
		{0, time.Second, 0},
	}
	for _, tt := range tests {
		if got := Speedup(tt.ref, tt.fast); got != tt.want {
			t.Errorf("Speedup(%v, %v): expected %f, got %f", tt.ref, tt.fast, tt.want, got)
		}
	}
}

func TestCollect(t *testing.T) {
	ms := Default()
	for _, m := range ms {
		m.Observe(time.Millisecond)
	}
	got := Collect(ms)
	for _, name := range []string{"throughput", "mean_ns", "p95_ns"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if got["mean_ns"] != float64(time.Millisecond) {
		t.Errorf("unexpected mean %f", got["mean_ns"])
	}
}
