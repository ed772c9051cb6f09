package profiler

import (
	"fmt"
	"log/slog"
	"runtime"
	"time"
)

// Stats is one profiling sample, covering the frames since the previous sample.
type Stats struct {
	FPS          float64
	FrameTime    time.Duration
	HeapMB       float64
	AllocRateMB  float64
	GCCount      uint32
	LastPauseUs  uint64
	MaxPauseUs   uint64
	SysMB        float64
	SampleFrames int
}

// String formats the stats for a window title or status line.
func (s Stats) String() string {
	return fmt.Sprintf("%.0f FPS | %.2f ms | heap %.1f MB", s.FPS, float64(s.FrameTime.Microseconds())/1000, s.HeapMB)
}

// Profiler tracks frame rate and memory statistics. It is the desktop counterpart of an
// in-page FPS panel: every interval it logs a sample and hands it to an optional callback,
// typically one that writes it into the window title.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	now     func() time.Time
	logger  *slog.Logger
	onStats func(Stats)
	last    Stats
}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second.
//
// Parameters:
//   - opts: functional options configuring the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(opts ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame. When the update interval has elapsed it samples
// FPS, heap usage, allocation rate and GC pauses, logs them and calls the stats callback.
//
// Returns:
//   - bool: true if a sample was taken this tick
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	stats := Stats{
		FPS:          float64(p.frameCount) / elapsed.Seconds(),
		FrameTime:    elapsed / time.Duration(p.frameCount),
		HeapMB:       float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:        float64(p.memStats.Sys) / 1024 / 1024,
		AllocRateMB:  float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds(),
		GCCount:      p.memStats.NumGC,
		SampleFrames: p.frameCount,
	}

	if gcCount := p.memStats.NumGC; gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses.
		stats.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000
		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			stats.MaxPauseUs = max(stats.MaxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	p.logger.Info("frame stats",
		"fps", fmt.Sprintf("%.2f", stats.FPS),
		"frame_ms", fmt.Sprintf("%.2f", float64(stats.FrameTime.Microseconds())/1000),
		"heap_mb", fmt.Sprintf("%.2f", stats.HeapMB),
		"alloc_mb_s", fmt.Sprintf("%.2f", stats.AllocRateMB),
		"gc", stats.GCCount,
		"gc_last_us", stats.LastPauseUs,
		"gc_max_us", stats.MaxPauseUs,
		"sys_mb", fmt.Sprintf("%.2f", stats.SysMB),
	)
	if p.onStats != nil {
		p.onStats(stats)
	}

	p.last = stats
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = stats.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the most recent sample, zero before the first one.
func (p *Profiler) Last() Stats {
	return p.last
}
