package bench

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestSamplerMeanAndStandardDeviation(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewSamplerWithClock(100, clock.Now)

	// 100 games in 1s, 0.5s, 0.25s => 100, 200, 400 games/sec.
	for _, d := range []time.Duration{time.Second, 500 * time.Millisecond, 250 * time.Millisecond} {
		s.Start()
		clock.Advance(d)
		_, ok := s.Mark()
		assert.True(t, ok)
	}

	assert.Equal(t, []float64{100, 200, 400}, s.Samples())
	mu := 700.0 / 3
	assert.InDelta(t, mu, s.Mean(), 1e-9)
	variance := ((100-mu)*(100-mu) + (200-mu)*(200-mu) + (400-mu)*(400-mu)) / 3
	assert.InDelta(t, math.Sqrt(variance), s.StandardDeviation(), 1e-9)

	summary := s.Summary()
	assert.Equal(t, 3, summary.Windows)
	assert.Equal(t, 400.0, summary.Last)
	assert.InDelta(t, mu, summary.Mean, 1e-9)
}

func TestSamplerZeroDuration(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewSamplerWithClock(10, clock.Now)

	s.Start()
	gps, ok := s.Mark()
	assert.False(t, ok)
	assert.Equal(t, 0.0, gps)

	for _, x := range []float64{s.Mean(), s.StandardDeviation()} {
		assert.False(t, math.IsNaN(x) || math.IsInf(x, 0), "got %v", x)
	}

	summary := s.Summary()
	assert.True(t, summary.IsEmpty())
	assert.Equal(t, 1, summary.Skipped)

	// A later, valid window is still recorded.
	s.Start()
	clock.Advance(time.Second)
	gps, ok = s.Mark()
	assert.True(t, ok)
	assert.Equal(t, 10.0, gps)
	assert.Equal(t, 10.0, s.Mean())
	assert.Equal(t, 0.0, s.StandardDeviation())
}

func TestSamplerEmpty(t *testing.T) {
	s := NewSampler(10)
	assert.Equal(t, 0.0, s.Mean())
	assert.Equal(t, 0.0, s.StandardDeviation())
	assert.True(t, s.Summary().IsEmpty())
}
