package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameLogsOncePerInterval(t *testing.T) {
	p := NewProfiler()
	start := time.Unix(100, 0)
	clock := start
	p.now = func() time.Time { return clock }
	p.lastTime = start

	for i := 0; i < 120; i++ {
		p.Tick()
	}
	for i := 0; i < 59; i++ {
		clock = clock.Add(time.Second / 60)
		_, logged := p.Frame()
		require.False(t, logged, "frame %d", i)
	}

	clock = start.Add(time.Second)
	stats, logged := p.Frame()
	require.True(t, logged)
	assert.InDelta(t, 120, stats.TicksPerSecond, 1e-6)
	assert.InDelta(t, 60, stats.FramesPerSecond, 1e-6)
	assert.Greater(t, stats.HeapMB, 0.0)

	clock = clock.Add(time.Second / 2)
	_, logged = p.Frame()
	assert.False(t, logged, "counters restart after logging")
}

func TestSetInterval(t *testing.T) {
	p := NewProfiler()
	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }
	p.lastTime = clock

	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)

	p.SetInterval(100 * time.Millisecond)
	clock = clock.Add(100 * time.Millisecond)
	_, logged := p.Frame()
	assert.True(t, logged)
}
