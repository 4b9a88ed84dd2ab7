// Package metrics aggregates render timings across the runs of a sweep.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Engine collects render durations using HDR histograms.
//
// Durations are recorded in microseconds, 1µs to 1 hour, with 3 significant
// figures. A sweep is sequential, but the engine is safe for concurrent use
// so reporters can snapshot it while a run is recording.
type Engine struct {
	// Overall render-time histogram
	renderHist   *hdrhistogram.Histogram
	renderHistMu sync.Mutex

	// Per-source histograms, keyed by input file name
	sourceHists   map[string]*hdrhistogram.Histogram
	sourceHistsMu sync.RWMutex

	totalRuns    atomic.Int64
	successRuns  atomic.Int64
	failedRuns   atomic.Int64
	totalPages   atomic.Int64
	bytesWritten atomic.Int64

	// Sum of successful render time, for throughput
	renderNanos atomic.Int64

	startTime time.Time
	config    EngineConfig
}

// EngineConfig contains configuration for the metrics engine.
type EngineConfig struct {
	// HistogramMin is the minimum recordable value in microseconds (default: 1)
	HistogramMin int64

	// HistogramMax is the maximum recordable value in microseconds (default: 3600000000 = 1 hour)
	HistogramMax int64

	// HistogramSigFigs is the number of significant figures (default: 3)
	HistogramSigFigs int
}

// DefaultEngineConfig returns the default configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		HistogramMin:     1,
		HistogramMax:     3600000000, // 1 hour in microseconds
		HistogramSigFigs: 3,
	}
}

// NewEngine creates a new metrics engine with default configuration.
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig())
}

// NewEngineWithConfig creates a new metrics engine with custom configuration.
func NewEngineWithConfig(config EngineConfig) *Engine {
	return &Engine{
		renderHist:  hdrhistogram.New(config.HistogramMin, config.HistogramMax, config.HistogramSigFigs),
		sourceHists: make(map[string]*hdrhistogram.Histogram),
		startTime:   time.Now(),
		config:      config,
	}
}

// Run is the outcome of one timed render.
type Run struct {
	// Source names the input file (empty to skip the per-source breakdown)
	Source string

	Elapsed time.Duration
	Success bool
	Pages   int

	// BytesWritten is the total size of the page files written
	BytesWritten int64
}

// Record adds one run. Failed runs count toward the run totals and the
// histograms, since their elapsed time was measured too.
func (e *Engine) Record(run Run) {
	micros := e.clamp(run.Elapsed.Microseconds())

	e.renderHistMu.Lock()
	e.renderHist.RecordValue(micros)
	e.renderHistMu.Unlock()

	if run.Source != "" {
		e.recordSourceHistogram(run.Source, micros)
	}

	e.totalRuns.Add(1)
	if run.Success {
		e.successRuns.Add(1)
		e.totalPages.Add(int64(run.Pages))
		e.bytesWritten.Add(run.BytesWritten)
		e.renderNanos.Add(int64(run.Elapsed))
	} else {
		e.failedRuns.Add(1)
	}
}

func (e *Engine) clamp(micros int64) int64 {
	if micros < e.config.HistogramMin {
		return e.config.HistogramMin
	}
	if micros > e.config.HistogramMax {
		return e.config.HistogramMax
	}
	return micros
}

// recordSourceHistogram records a duration in a per-source histogram.
// HDR histogram RecordValue is not thread-safe, so the lock is held throughout.
func (e *Engine) recordSourceHistogram(name string, micros int64) {
	e.sourceHistsMu.Lock()
	defer e.sourceHistsMu.Unlock()

	hist, exists := e.sourceHists[name]
	if !exists {
		hist = hdrhistogram.New(e.config.HistogramMin, e.config.HistogramMax, e.config.HistogramSigFigs)
		e.sourceHists[name] = hist
	}
	hist.RecordValue(micros)
}

// GetSnapshot returns a point-in-time snapshot of all metrics.
func (e *Engine) GetSnapshot() *Snapshot {
	e.renderHistMu.Lock()
	render := statsOf(e.renderHist)
	e.renderHistMu.Unlock()

	pages := e.totalPages.Load()
	renderTime := time.Duration(e.renderNanos.Load())

	pagesPerSecond := 0.0
	if renderTime > 0 {
		pagesPerSecond = float64(pages) / renderTime.Seconds()
	}

	return &Snapshot{
		TotalRuns:      e.totalRuns.Load(),
		SuccessRuns:    e.successRuns.Load(),
		FailedRuns:     e.failedRuns.Load(),
		TotalPages:     pages,
		BytesWritten:   e.bytesWritten.Load(),
		Render:         render,
		RenderTime:     renderTime,
		PagesPerSecond: pagesPerSecond,
		Elapsed:        time.Since(e.startTime),
		StartTime:      e.startTime,
		Timestamp:      time.Now(),
	}
}

// GetSourceStats returns per-source render statistics.
func (e *Engine) GetSourceStats() map[string]DurationStats {
	e.sourceHistsMu.RLock()
	defer e.sourceHistsMu.RUnlock()

	result := make(map[string]DurationStats, len(e.sourceHists))
	for name, hist := range e.sourceHists {
		result[name] = statsOf(hist)
	}
	return result
}

// Reset resets all metrics to initial state.
func (e *Engine) Reset() {
	e.renderHistMu.Lock()
	e.renderHist.Reset()
	e.renderHistMu.Unlock()

	e.sourceHistsMu.Lock()
	e.sourceHists = make(map[string]*hdrhistogram.Histogram)
	e.sourceHistsMu.Unlock()

	e.totalRuns.Store(0)
	e.successRuns.Store(0)
	e.failedRuns.Store(0)
	e.totalPages.Store(0)
	e.bytesWritten.Store(0)
	e.renderNanos.Store(0)
	e.startTime = time.Now()
}

func statsOf(hist *hdrhistogram.Histogram) DurationStats {
	return DurationStats{
		Min:    time.Duration(hist.Min()) * time.Microsecond,
		Max:    time.Duration(hist.Max()) * time.Microsecond,
		Mean:   time.Duration(hist.Mean()) * time.Microsecond,
		StdDev: time.Duration(hist.StdDev()) * time.Microsecond,
		P50:    time.Duration(hist.ValueAtQuantile(50)) * time.Microsecond,
		P90:    time.Duration(hist.ValueAtQuantile(90)) * time.Microsecond,
		P95:    time.Duration(hist.ValueAtQuantile(95)) * time.Microsecond,
		P99:    time.Duration(hist.ValueAtQuantile(99)) * time.Microsecond,
		Count:  hist.TotalCount(),
	}
}

// Snapshot contains a point-in-time view of all metrics.
type Snapshot struct {
	TotalRuns      int64         `json:"totalRuns"`
	SuccessRuns    int64         `json:"successRuns"`
	FailedRuns     int64         `json:"failedRuns"`
	TotalPages     int64         `json:"totalPages"`
	BytesWritten   int64         `json:"bytesWritten"`
	Render         DurationStats `json:"render"`
	RenderTime     time.Duration `json:"renderTime"`
	PagesPerSecond float64       `json:"pagesPerSecond"`
	Elapsed        time.Duration `json:"elapsed"`
	StartTime      time.Time     `json:"startTime"`
	Timestamp      time.Time     `json:"timestamp"`
}

// DurationStats contains render-time statistics.
type DurationStats struct {
	Min    time.Duration `json:"min"`
	Max    time.Duration `json:"max"`
	Mean   time.Duration `json:"mean"`
	StdDev time.Duration `json:"stdDev"`
	P50    time.Duration `json:"p50"`
	P90    time.Duration `json:"p90"`
	P95    time.Duration `json:"p95"`
	P99    time.Duration `json:"p99"`
	Count  int64         `json:"count"`
}
