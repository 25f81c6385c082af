package metrics

import (
	"math"
	"slices"
	"strconv"
	"time"
)

// Metric accumulates per-iteration latencies for one benchmark case.
type Metric interface {
	Name() string
	Observe(d time.Duration)
	Value() float64
	Reset()
}

// Default returns a fresh throughput, mean and p95 set.
func Default() []Metric {
	return []Metric{NewThroughput(), NewMeanLatency(), NewPercentile(95)}
}

type Throughput struct {
	name    string
	total   time.Duration
	samples int
}

func NewThroughput() *Throughput {
	return &Throughput{name: "throughput"}
}

func (t *Throughput) Name() string { return t.name }

func (t *Throughput) Observe(d time.Duration) {
	t.total += d
	t.samples++
}

// Value is operations per second. A zero total reports zero rather than
// infinity so results stay serializable.
func (t *Throughput) Value() float64 {
	if t.total <= 0 {
		return 0
	}
	return float64(t.samples) / t.total.Seconds()
}

func (t *Throughput) Reset() {
	t.total = 0
	t.samples = 0
}

type MeanLatency struct {
	name    string
	sum     time.Duration
	samples int
}

func NewMeanLatency() *MeanLatency {
	return &MeanLatency{name: "mean_ns"}
}

func (m *MeanLatency) Name() string { return m.name }

func (m *MeanLatency) Observe(d time.Duration) {
	m.sum += d
	m.samples++
}

func (m *MeanLatency) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.sum) / float64(m.samples)
}

func (m *MeanLatency) Reset() {
	m.sum = 0
	m.samples = 0
}

// Percentile reports the nearest-rank percentile latency in nanoseconds.
type Percentile struct {
	name    string
	p       float64
	samples []time.Duration
}

func NewPercentile(p float64) *Percentile {
	return &Percentile{name: "p" + strconv.FormatFloat(p, 'f', -1, 64) + "_ns", p: p}
}

func (p *Percentile) Name() string { return p.name }

func (p *Percentile) Observe(d time.Duration) {
	p.samples = append(p.samples, d)
}

func (p *Percentile) Value() float64 {
	if len(p.samples) == 0 {
		return 0
	}
	sorted := slices.Clone(p.samples)
	slices.Sort(sorted)
	rank := int(math.Ceil(p.p * float64(len(sorted)) / 100))
	rank = min(max(rank, 1), len(sorted))
	return float64(sorted[rank-1])
}

func (p *Percentile) Reset() {
	p.samples = p.samples[:0]
}

// Speedup is the ratio of reference time to accelerated time. It is +Inf when
// the accelerated side took no measurable time and 0 without a reference.
func Speedup(reference, fast time.Duration) float64 {
	if reference <= 0 {
		return 0
	}
	if fast <= 0 {
		return math.Inf(1)
	}
	return float64(reference) / float64(fast)
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
