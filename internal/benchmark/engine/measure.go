package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

// Stage names a step of a run.
type Stage string

const (
	StageLoad   Stage = "load"
	StageRender Stage = "render"
	StageVerify Stage = "verify"
	StageWrite  Stage = "write"
	StageReport Stage = "report"
)

// MeasuredError is a failed run. Elapsed is the render time measured before
// the failure, zero when the render never started.
type MeasuredError struct {
	Generator generator.Type
	Stage     Stage
	Source    string
	Elapsed   time.Duration
	Err       error
}

func (e *MeasuredError) Error() string {
	if e.Stage == StageLoad {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Source, e.Err)
	}
	return fmt.Sprintf("%s %s after %s: %v", e.Stage, e.Source, e.Elapsed.Round(time.Microsecond), e.Err)
}

func (e *MeasuredError) Unwrap() error {
	return e.Err
}

// Measure times a single Render call with the monotonic clock. Nothing but
// the call itself sits between the two clock reads.
//
// The elapsed time is returned on failure too and is never negative. Errors
// are not retried; they come back as a *MeasuredError wrapping the backend's
// error.
func Measure(ctx context.Context, gen generator.Generator, req *generator.RenderRequest) (*generator.RenderResult, time.Duration, error) {
	start := time.Now()
	pages, err := gen.Render(ctx, req)
	elapsed := time.Since(start)

	if elapsed < 0 {
		elapsed = 0
	}

	if err != nil {
		return nil, elapsed, &MeasuredError{
			Generator: gen.Type(),
			Stage:     StageRender,
			Source:    req.Path,
			Elapsed:   elapsed,
			Err:       err,
		}
	}

	return &generator.RenderResult{
		Generator: gen.Type(),
		Source:    req.Path,
		Pages:     pages,
		Elapsed:   elapsed,
	}, elapsed, nil
}
