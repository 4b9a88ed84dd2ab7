package report

import (
	"fmt"
	"strconv"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
)

const namespace = "pdfbench"

// renderBuckets spans a single small page at low DPI up to large documents
// at print resolution.
var renderBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// Recorder holds the Prometheus collectors of a sweep.
type Recorder struct {
	renderDuration *prom.HistogramVec
	pagesRendered  *prom.CounterVec
	bytesWritten   *prom.CounterVec
	runs           *prom.CounterVec
	lastSuccess    prom.Gauge
}

// NewRecorder constructs the collectors and registers them with reg.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Wall-clock time of one timed render",
			Buckets:   renderBuckets,
		}, []string{"generator", "dpi"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages rendered by successful runs",
		}, []string{"generator"}),
		bytesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Bytes of page images written to disk",
		}, []string{"generator"}),
		runs: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Runs by outcome",
		}, []string{"generator", "result"}),
		lastSuccess: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_sweep_success",
			Help:      "1 when the last sweep passed, 0 otherwise",
		}),
	}
	reg.MustRegister(r.renderDuration, r.pagesRendered, r.bytesWritten, r.runs, r.lastSuccess)
	return r
}

// ObserveResult records every run of result.
func (r *Recorder) ObserveResult(result *engine.Result) {
	if r == nil || result == nil {
		return
	}
	gen := string(result.Generator)
	for _, run := range result.Runs {
		if run.Error != "" {
			r.runs.WithLabelValues(gen, "failed").Inc()
			continue
		}
		r.runs.WithLabelValues(gen, "success").Inc()
		r.renderDuration.WithLabelValues(gen, strconv.Itoa(run.DPI)).Observe(run.Elapsed.Seconds())
		r.pagesRendered.WithLabelValues(gen).Add(float64(run.Pages))
		r.bytesWritten.WithLabelValues(gen).Add(float64(run.BytesWritten))
	}
	if result.Passed {
		r.lastSuccess.Set(1)
	} else {
		r.lastSuccess.Set(0)
	}
}

// WritePrometheus writes result in the Prometheus text exposition format to
// path, for the node_exporter textfile collector.
func WritePrometheus(result *engine.Result, path string) error {
	if result == nil {
		return fmt.Errorf("result cannot be nil")
	}
	reg := prom.NewRegistry()
	NewRecorder(reg).ObserveResult(result)
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
