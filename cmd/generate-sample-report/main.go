package main

import (
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/output"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/report"
)

func main() {
	result := createSampleResult(time.Now())

	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	err := report.GenerateHTML(result, outputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

// createSampleResult builds a pypdfium2 sweep of two documents at three
// resolutions, replayed through the metrics engine so the statistics agree
// with the runs.
func createSampleResult(now time.Time) *engine.Result {
	documents := []struct {
		name  string
		pages int
		base  time.Duration
	}{
		{"annual-report.pdf", 48, 1900 * time.Millisecond},
		{"invoice.pdf", 2, 60 * time.Millisecond},
	}
	dpis := []int{72, 150, 300}

	m := metrics.NewEngine()
	var runs []engine.RunRecord
	var total time.Duration

	for _, dpi := range dpis {
		scale := float64(dpi*dpi) / (150 * 150)
		for _, doc := range documents {
			for iteration := 1; iteration <= 3; iteration++ {
				elapsed := time.Duration(float64(doc.base) * scale * (0.95 + 0.05*float64(iteration)))
				written := int64(float64(doc.pages) * 180 * 1024 * scale)
				runs = append(runs, engine.RunRecord{
					Source:       "data/input/" + doc.name,
					DPI:          dpi,
					Quality:      85,
					Format:       output.FormatPNG,
					Iteration:    iteration,
					Pages:        doc.pages,
					Elapsed:      elapsed,
					OutputDir:    fmt.Sprintf("data/output/png/%s/%d/85", doc.name[:len(doc.name)-4], dpi),
					BytesWritten: written,
				})
				m.Record(metrics.Run{
					Source:       doc.name,
					Elapsed:      elapsed,
					Success:      true,
					Pages:        doc.pages,
					BytesWritten: written,
				})
				total += elapsed
			}
		}
	}

	snapshot := m.GetSnapshot()
	thresholds := engine.EvaluateThresholds([]string{"p95 < 10s", "pages_per_second > 20", "failures == 0"}, snapshot)

	passed := true
	for _, t := range thresholds {
		passed = passed && t.Passed
	}

	return &engine.Result{
		RunID:      ulid.Make().String(),
		Generator:  generator.TypePypdfium2,
		StartTime:  now.Add(-total),
		EndTime:    now,
		Duration:   total,
		Runs:       runs,
		Metrics:    snapshot,
		Sources:    m.GetSourceStats(),
		Passed:     passed,
		Thresholds: thresholds,
	}
}
