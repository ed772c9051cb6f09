package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestProfiler_SamplesEveryInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	var logs bytes.Buffer
	var samples []Stats

	p := NewProfiler(
		WithClock(clock.now),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithStatsCallback(func(s Stats) { samples = append(samples, s) }),
	)

	for range 49 {
		clock.advance(20 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	clock.advance(20 * time.Millisecond)
	require.True(t, p.Tick())

	require.Len(t, samples, 1)
	assert.InDelta(t, 50, samples[0].FPS, 1e-9)
	assert.Equal(t, 50, samples[0].SampleFrames)
	assert.Equal(t, 20*time.Millisecond, samples[0].FrameTime)
	assert.Equal(t, samples[0], p.Last())
	assert.Contains(t, logs.String(), "frame stats")
	assert.Contains(t, samples[0].String(), "50 FPS")
}

func TestProfiler_ResetsAfterSample(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.now), WithInterval(500*time.Millisecond), WithLogger(slog.New(slog.DiscardHandler)))

	clock.advance(time.Second)
	require.True(t, p.Tick())
	assert.Equal(t, 1, p.Last().SampleFrames)

	clock.advance(100 * time.Millisecond)
	assert.False(t, p.Tick())
	clock.advance(400 * time.Millisecond)
	require.True(t, p.Tick())
	assert.Equal(t, 2, p.Last().SampleFrames)
	assert.InDelta(t, 4, p.Last().FPS, 1e-9)
}
