// Package engine runs benchmark sweeps: it resolves the generator, times
// every render and hands the pages to the writer and the stats reporter.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/config"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/output"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/source"
)

// Engine is the orchestrator of a benchmark sweep.
//
// A sweep is the cartesian product dpi × quality × input × iteration of the
// configuration. Runs execute one at a time against a single generator, and
// the first failing run ends the sweep.
//
// Example usage:
//
//	cfg := config.Default()
//	cfg.GeneratorType = "fitz"
//	eng, _ := NewEngine(cfg, Options{Registry: backends.NewRegistry(), Stdout: os.Stdout})
//	result, err := eng.Run(context.Background())
type Engine struct {
	config   *config.Config
	registry *generator.Registry
	reporter *output.StatsReporter
	progress io.Writer
	logger   *slog.Logger
	format   output.Format

	metricsEngine *metrics.Engine
}

// Options wires the engine to its collaborators.
type Options struct {
	// Registry resolves the generator type (required)
	Registry *generator.Registry

	// Stdout receives one stats line per successful run (required)
	Stdout io.Writer

	// Progress receives the page writer's progress bar (optional)
	Progress io.Writer

	// Logger receives diagnostics (default: discarded)
	Logger *slog.Logger
}

// RunRecord is the outcome of one run of the sweep.
type RunRecord struct {
	Source       string        `json:"source"`
	DPI          int           `json:"dpi"`
	Quality      int           `json:"quality"`
	Format       output.Format `json:"format"`
	Iteration    int           `json:"iteration"`
	Pages        int           `json:"pages"`
	Elapsed      time.Duration `json:"elapsed"`
	OutputDir    string        `json:"outputDir,omitempty"`
	BytesWritten int64         `json:"bytesWritten"`
	Error        string        `json:"error,omitempty"`
}

// Result contains the complete sweep results.
type Result struct {
	RunID     string         `json:"runId"`
	Generator generator.Type `json:"generator"`
	StartTime time.Time      `json:"startTime"`
	EndTime   time.Time      `json:"endTime"`
	Duration  time.Duration  `json:"duration"`

	Runs    []RunRecord                      `json:"runs"`
	Metrics *metrics.Snapshot                `json:"metrics"`
	Sources map[string]metrics.DurationStats `json:"sources,omitempty"`

	// Passed is false when a run failed or a threshold was missed
	Passed     bool              `json:"passed"`
	Thresholds []ThresholdResult `json:"thresholds,omitempty"`

	Error error `json:"-"`
}

// ErrThresholds is returned by Run when every run succeeded but at least one
// threshold failed.
var ErrThresholds = errors.New("thresholds failed")

// NewEngine validates cfg and returns an engine for it. Defaults must already
// be applied.
func NewEngine(cfg *config.Config, opts Options) (*Engine, error) {
	if opts.Registry == nil {
		return nil, fmt.Errorf("engine requires a generator registry")
	}
	if opts.Stdout == nil {
		return nil, fmt.Errorf("engine requires a stats writer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := output.ParseFormat(cfg.ImageType)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Engine{
		config:        cfg,
		registry:      opts.Registry,
		reporter:      output.NewStatsReporter(opts.Stdout),
		progress:      opts.Progress,
		logger:        logger,
		format:        format,
		metricsEngine: metrics.NewEngine(),
	}, nil
}

// Run executes the sweep.
//
// Resolution failures (unknown generator, backend that cannot start) return a
// nil result. Otherwise the result is always returned, with Error set to the
// first failure, so reports can describe a failed sweep too.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	gen, err := e.registry.Resolve(e.config.GeneratorType, e.config.GeneratorOptions())
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := gen.Close(); closeErr != nil {
			e.logger.Warn("failed to close generator", "generator", gen.Type(), "error", closeErr)
		}
	}()

	logger := e.logger.With("generator", gen.Type())

	inputs, err := source.Discover(e.config.Input)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     ulid.Make().String(),
		Generator: gen.Type(),
		StartTime: time.Now(),
	}
	logger.Info("starting sweep", "run_id", result.RunID, "inputs", len(inputs), "runs", len(inputs)*e.config.Runs())

	writer := output.NewWriter(e.format, 0)
	writer.Progress = e.progress

	var runErr error
sweep:
	for _, dpi := range e.config.DPI {
		for _, quality := range e.config.Quality {
			writer.Quality = quality
			for _, input := range inputs {
				for iteration := 1; iteration <= e.config.Iterations; iteration++ {
					if err := ctx.Err(); err != nil {
						runErr = err
						break sweep
					}

					record := RunRecord{
						Source:    input,
						DPI:       dpi,
						Quality:   quality,
						Format:    e.format,
						Iteration: iteration,
					}
					err := e.runOnce(ctx, gen, writer, &record, logger)
					result.Runs = append(result.Runs, record)
					if err != nil {
						runErr = err
						break sweep
					}
				}
			}
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	result.Metrics = e.metricsEngine.GetSnapshot()
	result.Sources = e.metricsEngine.GetSourceStats()
	result.Thresholds = EvaluateThresholds(e.config.Thresholds, result.Metrics)
	result.Error = runErr

	result.Passed = runErr == nil
	for _, tr := range result.Thresholds {
		if !tr.Passed {
			result.Passed = false
			logger.Warn("threshold failed", "expression", tr.Expression, "value", tr.Value, "message", tr.Message)
		}
	}

	if runErr == nil && !result.Passed {
		runErr = ErrThresholds
	}
	return result, runErr
}

// runOnce performs Load → Render (timed) → Verify → Write → Report for one
// input and fills record.
func (e *Engine) runOnce(ctx context.Context, gen generator.Generator, writer *output.Writer, record *RunRecord, logger *slog.Logger) error {
	name := filepath.Base(record.Source)
	fail := func(stage Stage, elapsed time.Duration, err error) error {
		e.metricsEngine.Record(metrics.Run{Source: name, Elapsed: elapsed, Success: false})
		measured := &MeasuredError{Generator: gen.Type(), Stage: stage, Source: record.Source, Elapsed: elapsed, Err: err}
		var already *MeasuredError
		if errors.As(err, &already) {
			measured = already
		}
		record.Error = measured.Error()
		logger.Debug("run failed", "stage", measured.Stage, "source", record.Source, "elapsed", measured.Elapsed)
		return measured
	}

	doc, err := source.Load(record.Source)
	if err != nil {
		return fail(StageLoad, 0, err)
	}

	req := &generator.RenderRequest{
		Path:      doc.Path,
		Data:      doc.Data,
		DPI:       record.DPI,
		FirstPage: e.config.FirstPage,
		LastPage:  e.config.LastPage,
		Password:  e.config.Password,
	}

	rendered, elapsed, err := Measure(ctx, gen, req)
	record.Elapsed = elapsed
	if err != nil {
		return fail(StageRender, elapsed, err)
	}
	record.Pages = rendered.PageCount()
	logger.Debug("rendered", "source", name, "dpi", record.DPI, "pages", record.Pages, "elapsed", elapsed)

	if e.config.ShouldVerifyPages() {
		if err := e.verifyPages(doc, req, rendered, logger); err != nil {
			return fail(StageVerify, elapsed, err)
		}
	}

	dir := output.RunDir(e.config.Output, e.format, record.Source, record.DPI, record.Quality)
	before := writer.BytesWritten()
	paths, err := writer.Write(rendered, dir)
	if err != nil {
		return fail(StageWrite, elapsed, err)
	}
	record.OutputDir = dir
	record.BytesWritten = writer.BytesWritten() - before
	logger.Debug("wrote pages", "dir", dir, "files", len(paths), "bytes", record.BytesWritten)

	err = e.reporter.Report(output.Stats{
		Generator: gen.Type(),
		Pages:     record.Pages,
		DPI:       record.DPI,
		Quality:   record.Quality,
		Format:    e.format,
		Elapsed:   elapsed,
	})
	if err != nil {
		return fail(StageReport, elapsed, err)
	}

	e.metricsEngine.Record(metrics.Run{
		Source:       name,
		Elapsed:      elapsed,
		Success:      true,
		Pages:        record.Pages,
		BytesWritten: record.BytesWritten,
	})
	return nil
}

// verifyPages compares the rendered page count with an independent parse of
// the document. Documents the parser cannot read are not verified.
func (e *Engine) verifyPages(doc *source.Document, req *generator.RenderRequest, rendered *generator.RenderResult, logger *slog.Logger) error {
	total, err := source.CountPages(doc.Data, req.Password)
	if err != nil {
		logger.Debug("skipping page count verification", "source", doc.Name(), "error", err)
		return nil
	}

	expected := req.ExpectedPages(total)
	if expected < 0 || expected == rendered.PageCount() {
		return nil
	}
	return generator.NewRenderError(rendered.Generator, generator.ErrPageCount,
		fmt.Errorf("rendered %d pages, document span has %d", rendered.PageCount(), expected))
}

// GetMetrics returns the current metrics snapshot.
func (e *Engine) GetMetrics() *metrics.Snapshot {
	return e.metricsEngine.GetSnapshot()
}
