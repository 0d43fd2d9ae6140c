package profiler

import (
	"log"
	"runtime"
	"time"
)

// Profiler tracks tick rate, frame rate and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now func() time.Time
}

// Stats is one logged sample.
type Stats struct {
	TicksPerSecond  float64
	FramesPerSecond float64
	HeapMB          float64
	AllocRateMB     float64
	GCCount         uint32
	MaxPauseUs      uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
		now:            time.Now,
	}
}

// SetInterval sets how often statistics are logged.
//
// Parameters:
//   - interval: the logging interval (ignored if <= 0)
func (p *Profiler) SetInterval(interval time.Duration) {
	if interval > 0 {
		p.updateInterval = interval
	}
}

// Tick should be called once per fixed engine step.
func (p *Profiler) Tick() {
	p.tickCount++
}

// Frame should be called once per frame. Logs statistics when the update interval has
// elapsed: ticks and frames per second, heap usage, allocation rate and GC pauses.
//
// Returns:
//   - Stats: the logged sample
//   - bool: true if stats were logged this frame, false otherwise
func (p *Profiler) Frame() (Stats, bool) {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return Stats{}, false
	}

	runtime.ReadMemStats(&p.memStats)
	stats := Stats{
		TicksPerSecond:  float64(p.tickCount) / elapsed.Seconds(),
		FramesPerSecond: float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:          float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:     float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:         p.memStats.NumGC,
	}

	// PauseNs is a circular buffer of the last 256 GC pauses
	startIdx := p.lastGCCount
	if stats.GCCount-startIdx > 256 {
		startIdx = stats.GCCount - 256
	}
	for i := startIdx; i < stats.GCCount; i++ {
		if pause := p.memStats.PauseNs[i%256] / 1000; pause > stats.MaxPauseUs {
			stats.MaxPauseUs = pause
		}
	}

	log.Printf("[Profiler] TPS: %.2f | FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (max: %d µs)",
		stats.TicksPerSecond, stats.FramesPerSecond, stats.HeapMB, stats.AllocRateMB, stats.GCCount, stats.MaxPauseUs)

	p.tickCount = 0
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return stats, true
}
