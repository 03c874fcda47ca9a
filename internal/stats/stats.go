// Package stats keeps rolling-window statistics about recent conversions.
package stats

import (
	"slices"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
	readings int
	failed   bool
}

// Snapshot aggregates the conversions still inside the window. Latency
// figures cover successful conversions only.
type Snapshot struct {
	Window      string  `json:"window"`
	Conversions int     `json:"conversions"`
	Failures    int     `json:"failures"`
	Readings    int     `json:"readings"`
	MinMs       float64 `json:"min_ms"`
	MaxMs       float64 `json:"max_ms"`
	AvgMs       float64 `json:"avg_ms"`
	P50Ms       float64 `json:"p50_ms"`
	P95Ms       float64 `json:"p95_ms"`
	P99Ms       float64 `json:"p99_ms"`
}

// Conversions tracks conversion outcomes within a rolling window.
type Conversions struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
	now     func() time.Time
}

// New returns a tracker that forgets samples older than window (one hour
// when window <= 0).
func New(window time.Duration) *Conversions {
	if window <= 0 {
		window = time.Hour
	}
	return &Conversions{
		samples: make([]sample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds a successful conversion that produced n readings.
func (c *Conversions) Record(d time.Duration, n int) {
	if d < 0 {
		d = 0
	}
	c.add(sample{duration: d, readings: n})
}

// RecordFailure adds a conversion that returned an error.
func (c *Conversions) RecordFailure() {
	c.add(sample{failed: true})
}

func (c *Conversions) add(s sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s.at = c.now()
	c.pruneLocked(s.at)
	c.samples = append(c.samples, s)
}

func (c *Conversions) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked(c.now())
	snap := Snapshot{Window: c.window.String()}

	values := make([]float64, 0, len(c.samples))
	var sum float64
	for _, s := range c.samples {
		if s.failed {
			snap.Failures++
			continue
		}
		ms := float64(s.duration) / float64(time.Millisecond)
		values = append(values, ms)
		sum += ms
		snap.Readings += s.readings
	}
	snap.Conversions = len(values)
	if len(values) == 0 {
		return snap
	}
	slices.Sort(values)

	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = sum / float64(len(values))
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

func (c *Conversions) pruneLocked(now time.Time) {
	cutoff := now.Add(-c.window)
	keep := 0
	for _, s := range c.samples {
		if !s.at.Before(cutoff) {
			c.samples[keep] = s
			keep++
		}
	}
	c.samples = c.samples[:keep]
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100.0
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
