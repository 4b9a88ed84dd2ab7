package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/output"
)

// sampleResult returns a sweep of three runs on gen with the given mean
// render time; the last run failed when failed is set.
func sampleResult(gen generator.Type, mean time.Duration, failed bool) *engine.Result {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []engine.RunRecord{
		{Source: "a.pdf", DPI: 72, Quality: 85, Format: output.FormatPNG, Iteration: 1, Pages: 3, Elapsed: mean, BytesWritten: 2048},
		{Source: "a.pdf", DPI: 150, Quality: 85, Format: output.FormatPNG, Iteration: 1, Pages: 3, Elapsed: mean, BytesWritten: 4096},
		{Source: "b.pdf", DPI: 150, Quality: 85, Format: output.FormatPNG, Iteration: 1, Pages: 0, Elapsed: mean},
	}
	result := &engine.Result{
		RunID:     "01HZX0000000000000000000AA",
		Generator: gen,
		StartTime: start,
		EndTime:   start.Add(3 * mean),
		Duration:  3 * mean,
		Runs:      runs,
		Metrics: &metrics.Snapshot{
			TotalRuns:      3,
			SuccessRuns:    3,
			TotalPages:     6,
			BytesWritten:   6144,
			Render:         metrics.DurationStats{Min: mean, Max: mean, Mean: mean, P50: mean, P95: mean, P99: mean, Count: 3},
			PagesPerSecond: 6 / (3 * mean).Seconds(),
		},
		Sources: map[string]metrics.DurationStats{
			"a.pdf": {Min: mean, Max: mean, Mean: mean, Count: 2},
		},
		Passed: true,
		Thresholds: []engine.ThresholdResult{
			{Metric: "p95", Expression: "p95 < 10s", Passed: true, Value: mean.String()},
		},
	}
	if failed {
		result.Runs[2].Error = "fitz: render b.pdf: corrupt document"
		result.Metrics.SuccessRuns = 2
		result.Metrics.FailedRuns = 1
		result.Passed = false
		result.Error = errors.New("fitz: render b.pdf: corrupt document")
	}
	return result
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(sampleResult(generator.TypeFitz, 200*time.Millisecond, true), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := gjson.ParseBytes(data)

	assert.Equal(t, "01HZX0000000000000000000AA", doc.Get("runId").String())
	assert.Equal(t, "fitz", doc.Get("generator").String())
	assert.False(t, doc.Get("passed").Bool())
	assert.Equal(t, "fitz: render b.pdf: corrupt document", doc.Get("error").String())
	assert.Equal(t, int64(3), doc.Get("runs.#").Int())
	assert.Equal(t, int64(200*time.Millisecond), doc.Get("metrics.render.mean").Int())
	assert.Equal(t, "p95 < 10s", doc.Get("thresholds.0.expression").String())
}

func TestWriteJSON_NoError(t *testing.T) {
	data, err := MarshalJSONReport(sampleResult(generator.TypeFitz, time.Second, false))
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(data, "error").Exists())

	_, err = MarshalJSONReport(nil)
	assert.Error(t, err)
}

func TestWriteJSON_Unwritable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.json")
	assert.Error(t, WriteJSON(sampleResult(generator.TypeFitz, time.Second, false), path))
}

func TestWritePrometheus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfbench.prom")
	require.NoError(t, WritePrometheus(sampleResult(generator.TypePyvips, 40*time.Millisecond, true), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "# TYPE pdfbench_render_duration_seconds histogram")
	assert.Contains(t, text, `pdfbench_render_duration_seconds_count{dpi="150",generator="pyvips"} 1`)
	assert.Contains(t, text, `pdfbench_render_duration_seconds_count{dpi="72",generator="pyvips"} 1`)
	assert.Contains(t, text, `pdfbench_pages_rendered_total{generator="pyvips"} 6`)
	assert.Contains(t, text, `pdfbench_bytes_written_total{generator="pyvips"} 6144`)
	assert.Contains(t, text, `pdfbench_runs_total{generator="pyvips",result="success"} 2`)
	assert.Contains(t, text, `pdfbench_runs_total{generator="pyvips",result="failed"} 1`)
	assert.Contains(t, text, "pdfbench_last_sweep_success 0")
}

func TestWritePrometheus_NilResult(t *testing.T) {
	assert.Error(t, WritePrometheus(nil, filepath.Join(t.TempDir(), "x.prom")))
}

func writeReports(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, r := range []*engine.Result{
		sampleResult(generator.TypeWand, 900*time.Millisecond, false),
		sampleResult(generator.TypePypdfium2, 100*time.Millisecond, false),
		sampleResult(generator.TypePdf2image, 400*time.Millisecond, true),
	} {
		path := filepath.Join(dir, string(r.Generator)+".json")
		require.NoError(t, WriteJSON(r, path))
		paths = append(paths, path)
	}
	return paths
}

func TestCompare_RanksByMean(t *testing.T) {
	entries, err := Compare(writeReports(t), "")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "pypdfium2", entries[0].Generator)
	assert.Equal(t, "pdf2image", entries[1].Generator)
	assert.Equal(t, "wand", entries[2].Generator)

	assert.Equal(t, 100*time.Millisecond, entries[0].Mean)
	assert.Equal(t, int64(6), entries[0].Pages)
	assert.True(t, entries[0].Passed)
	assert.False(t, entries[1].Passed)
	assert.NotEmpty(t, entries[1].Error)
}

func TestCompare_SortKey(t *testing.T) {
	entries, err := Compare(writeReports(t), "$.metrics['failedRuns']")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "pdf2image", entries[2].Generator)

	_, err = Compare(writeReports(t), "$.generator")
	assert.Error(t, err)

	_, err = Compare(writeReports(t), "$..mean")
	assert.Error(t, err)
}

func TestCompare_Errors(t *testing.T) {
	_, err := Compare(nil, "")
	assert.Error(t, err)

	_, err = Compare([]string{filepath.Join(t.TempDir(), "missing.json")}, "")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = Compare([]string{bad}, "")
	assert.Error(t, err)

	other := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(other, []byte(`{"name":"x"}`), 0o644))
	_, err = Compare([]string{other}, "")
	assert.Error(t, err)
}

func TestToGjsonPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"$.metrics.render.mean", "metrics.render.mean"},
		{"metrics.render.p95", "metrics.render.p95"},
		{"$.runs[0].elapsed", "runs.0.elapsed"},
		{`$["metrics"]["totalPages"]`, "metrics.totalPages"},
		{"$['metrics'].pagesPerSecond", "metrics.pagesPerSecond"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := toGjsonPath(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"$", "$.runs[*].elapsed", "$..mean", "$.runs[?(@.pages>1)]"} {
		_, err := toGjsonPath(bad)
		assert.Error(t, err, bad)
	}
}

func TestRenderComparison(t *testing.T) {
	entries, err := Compare(writeReports(t), "")
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, RenderComparison(&sb, entries))
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, lines[1], "pypdfium2")
	assert.Contains(t, lines[1], "100ms")
	assert.Contains(t, lines[2], "failed")
}
