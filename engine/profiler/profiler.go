package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-sandbox/common"
)

// Stats is one interval's worth of frame and memory statistics.
type Stats struct {
	FPS           float64
	FrameTime     time.Duration
	HeapMB        float64
	AllocRateMBps float64
	GCCount       uint32
	LastPauseUs   uint64
	MaxPauseUs    uint64
	SysMB         float64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Outputs stats to the engine logger at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats

	now func() time.Time
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: optional ProfilerBuilderOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, mean frame time, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	s := Stats{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		FrameTime: elapsed / time.Duration(p.frameCount),
		// Alloc is live heap, Sys is the process footprint obtained from the OS.
		HeapMB:  float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:   float64(p.memStats.Sys) / 1024 / 1024,
		GCCount: p.memStats.NumGC,
	}
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	s.AllocRateMBps = float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	if s.GCCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		s.LastPauseUs = p.memStats.PauseNs[(s.GCCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if s.GCCount-startIdx > 256 {
			startIdx = s.GCCount - 256
		}
		for i := startIdx; i < s.GCCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > s.MaxPauseUs {
				s.MaxPauseUs = pause
			}
		}
	}

	common.Logger().Info("frame stats",
		"fps", s.FPS,
		"frame_time", s.FrameTime,
		"heap_mb", s.HeapMB,
		"alloc_rate_mbps", s.AllocRateMBps,
		"gc", s.GCCount,
		"gc_last_pause_us", s.LastPauseUs,
		"gc_max_pause_us", s.MaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.last = s
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = s.GCCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics logged by the most recent reporting Tick.
//
// Returns:
//   - Stats: the last reported statistics, zero before the first report
func (p *Profiler) Last() Stats {
	return p.last
}
