// Package profiler - Stage timing for the batch suite.
package profiler

import (
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// OperationStats summarizes the recorded durations of one named stage.
type OperationStats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
}

// timeTracker tracks timing statistics for a single operation.
type timeTracker struct {
	totalTime time.Duration
	minTime   time.Duration
	maxTime   time.Duration
	count     int64
}

// Profiler accumulates operation timings. It is safe for concurrent use by
// the suite's workers.
type Profiler struct {
	mu             sync.Mutex
	startTime      time.Time
	operationTimes map[string]*timeTracker
}

// New creates an empty profiler whose uptime starts now.
func New() *Profiler {
	return &Profiler{
		startTime:      time.Now(),
		operationTimes: make(map[string]*timeTracker),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
// - name: The name of the operation to track
//
// Returns:
// - A function to call when the operation completes
//
// @example
// done := p.StartOperation("filter.Median")
// kernels.Median(img, 3, opts)
// done()
func (p *Profiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Record adds one completed duration for name.
func (p *Profiler) Record(name string, duration time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tracker, exists := p.operationTimes[name]
	if !exists {
		tracker = &timeTracker{minTime: duration, maxTime: duration}
		p.operationTimes[name] = tracker
	}

	tracker.totalTime += duration
	tracker.count++
	if duration < tracker.minTime {
		tracker.minTime = duration
	}
	if duration > tracker.maxTime {
		tracker.maxTime = duration
	}
}

// Operations returns a snapshot of every tracked operation, sorted by name.
func (p *Profiler) Operations() []OperationStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]OperationStats, 0, len(p.operationTimes))
	for name, tracker := range p.operationTimes {
		out = append(out, OperationStats{
			Name:  name,
			Count: tracker.count,
			Total: tracker.totalTime,
			Min:   tracker.minTime,
			Max:   tracker.maxTime,
			Mean:  tracker.totalTime / time.Duration(tracker.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Reset clears all timings and restarts the uptime clock.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startTime = time.Now()
	p.operationTimes = make(map[string]*timeTracker)
}

// Log emits one debug event per operation plus a runtime memory snapshot.
func (p *Profiler) Log(logger zerolog.Logger) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	p.mu.Lock()
	uptime := time.Since(p.startTime)
	p.mu.Unlock()

	logger.Debug().
		Dur("uptime", uptime).
		Int("goroutines", runtime.NumGoroutine()).
		Uint64("heap_alloc", mem.HeapAlloc).
		Uint32("gc_cycles", mem.NumGC).
		Msg("Runtime")

	for _, op := range p.Operations() {
		logger.Debug().
			Str("operation", op.Name).
			Int64("count", op.Count).
			Dur("total", op.Total).
			Dur("mean", op.Mean).
			Dur("max", op.Max).
			Msg("Timing")
	}
}
