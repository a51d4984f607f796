// Package bench measures worker throughput and aggregates it across a pool.
package bench

import (
	"math"
	"time"
)

// Summary is an immutable view of a Sampler, suitable for publishing to
// an Aggregator.
type Summary struct {
	// Number of samples taken.
	Windows int `json:"windows"`
	// Number of windows dropped because no time elapsed.
	Skipped int `json:"skipped"`
	// Most recent sample, in games per second.
	Last              float64 `json:"last"`
	Mean              float64 `json:"mean"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// IsEmpty returns whether the summary has no samples.
func (s Summary) IsEmpty() bool {
	return s.Windows == 0
}

// Sampler measures one worker's throughput, in games per second, over
// consecutive windows of a fixed number of games.
//
// Sampler is not safe for concurrent use. Publish a Summary to share it.
type Sampler struct {
	window  int
	now     func() time.Time
	start   time.Time
	samples []float64
	skipped int
}

// NewSampler creates a Sampler for windows of the given number of games.
func NewSampler(window int) *Sampler {
	return NewSamplerWithClock(window, time.Now)
}

// NewSamplerWithClock is like NewSampler but reads time from now.
func NewSamplerWithClock(window int, now func() time.Time) *Sampler {
	return &Sampler{window: window, now: now}
}

// Window returns the number of games per sample.
func (s *Sampler) Window() int {
	return s.window
}

// Start begins a new measurement window.
func (s *Sampler) Start() {
	s.start = s.now()
}

// Mark closes the current window and records its throughput.
// If no time has elapsed, the throughput is undefined: the window is
// counted as skipped and ok is false.
func (s *Sampler) Mark() (gamesPerSec float64, ok bool) {
	elapsed := s.now().Sub(s.start)
	if elapsed <= 0 {
		s.skipped++
		return 0, false
	}

	gamesPerSec = float64(s.window) / elapsed.Seconds()
	s.samples = append(s.samples, gamesPerSec)
	return gamesPerSec, true
}

// Samples returns a copy of all samples taken, oldest first.
func (s *Sampler) Samples() []float64 {
	return append([]float64(nil), s.samples...)
}

// Mean is the arithmetic mean of all samples, or 0 if there are none.
func (s *Sampler) Mean() float64 {
	return mean(s.samples)
}

// StandardDeviation is the population standard deviation of all samples,
// or 0 if there are none.
func (s *Sampler) StandardDeviation() float64 {
	if len(s.samples) == 0 {
		return 0
	}

	mu := mean(s.samples)
	total := 0.0
	for _, x := range s.samples {
		total += (x - mu) * (x - mu)
	}
	return math.Sqrt(total / float64(len(s.samples)))
}

func (s *Sampler) Summary() Summary {
	result := Summary{
		Windows:           len(s.samples),
		Skipped:           s.skipped,
		Mean:              s.Mean(),
		StandardDeviation: s.StandardDeviation(),
	}
	if n := len(s.samples); n > 0 {
		result.Last = s.samples[n-1]
	}
	return result
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}
