// Package stats keeps rolling-window figures for transform requests.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	pairs      int
	failed     bool
}

// Snapshot is a point-in-time aggregate of recent transforms.
type Snapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	Pairs    int     `json:"pairs"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Tracker records transform outcomes within a rolling window.
type Tracker struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
}

func NewTracker(maxAge time.Duration) *Tracker {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Tracker{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
	}
}

// Record adds a successful transform that emitted pairs lines.
func (t *Tracker) Record(d time.Duration, pairs int) {
	t.add(sample{durationMs: d.Milliseconds(), pairs: pairs})
}

// RecordFailure adds a transform that ended in an error.
func (t *Tracker) RecordFailure(d time.Duration) {
	t.add(sample{durationMs: d.Milliseconds(), failed: true})
}

func (t *Tracker) add(s sample) {
	if s.durationMs < 0 {
		s.durationMs = 0
	}
	now := time.Now()
	s.timestamp = now

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(now)
	t.samples = append(t.samples, s)
}

func (t *Tracker) Snapshot() Snapshot {
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.pruneLocked(now)
	if len(t.samples) == 0 {
		return Snapshot{}
	}

	var snap Snapshot
	values := make([]int64, 0, len(t.samples))
	var sum int64
	for _, sm := range t.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		snap.Pairs += sm.pairs
		if sm.failed {
			snap.Failures++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = float64(sum) / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-t.maxAge)
	writeIdx := 0
	for _, sm := range t.samples {
		if !sm.timestamp.Before(cutoff) {
			t.samples[writeIdx] = sm
			writeIdx++
		}
	}
	t.samples = t.samples[:writeIdx]
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
