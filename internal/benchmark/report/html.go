package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
)

// ReportData contains all data needed to render the HTML report.
type ReportData struct {
	*engine.Result
	RunsJSON  template.JS
	ErrorText string
}

// RunPoint is one run in the chart data.
type RunPoint struct {
	Label   string  `json:"label"`
	Seconds float64 `json:"seconds"`
	Pages   int     `json:"pages"`
	Failed  bool    `json:"failed"`
}

// GenerateHTML generates an HTML report from a sweep result and writes it to a file.
func GenerateHTML(result *engine.Result, outputPath string) error {
	html, err := GenerateHTMLString(result)
	if err != nil {
		return fmt.Errorf("failed to generate HTML: %w", err)
	}

	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write HTML file: %w", err)
	}

	return nil
}

// GenerateHTMLString generates an HTML report from a sweep result and returns it as a string.
func GenerateHTMLString(result *engine.Result) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result cannot be nil")
	}

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	runsJSON, err := convertRunsJSON(result.Runs)
	if err != nil {
		return "", fmt.Errorf("failed to convert runs: %w", err)
	}

	data := ReportData{
		Result:   result,
		RunsJSON: template.JS(runsJSON),
	}
	if result.Error != nil {
		data.ErrorText = result.Error.Error()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// convertRunsJSON converts the run records to JSON for chart rendering.
func convertRunsJSON(runs []engine.RunRecord) (string, error) {
	if len(runs) == 0 {
		return "[]", nil
	}

	points := make([]RunPoint, len(runs))
	for i, run := range runs {
		points[i] = RunPoint{
			Label:   fmt.Sprintf("%s @%ddpi q%d #%d", run.Source, run.DPI, run.Quality, run.Iteration),
			Seconds: run.Elapsed.Seconds(),
			Pages:   run.Pages,
			Failed:  run.Error != "",
		}
	}

	jsonBytes, err := json.Marshal(points)
	if err != nil {
		return "[]", err
	}
	return string(jsonBytes), nil
}

// templateFuncs returns the template helper functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDuration": formatDuration,
		"formatNumber":   formatNumber,
		"formatLatency":  formatLatency,
		"formatBytes":    formatBytes,
		"successRate":    successRate,
	}
}

// formatDuration formats a sweep duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		secs := int(d.Seconds()) % 60
		if secs == 0 {
			return fmt.Sprintf("%dm", mins)
		}
		return fmt.Sprintf("%dm %ds", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// formatNumber formats a count with thousands separators.
func formatNumber(n int64) string {
	return humanize.Comma(n)
}

// formatLatency formats a render time in a human-readable way.
func formatLatency(d time.Duration) string {
	if d == 0 {
		return "0"
	}
	if d < time.Millisecond {
		us := float64(d.Microseconds())
		if us < 100 {
			return fmt.Sprintf("%.1fµs", us)
		}
		return fmt.Sprintf("%dµs", int(us))
	}
	if d < time.Second {
		ms := float64(d.Microseconds()) / 1000.0
		if ms < 10 {
			return fmt.Sprintf("%.2fms", ms)
		}
		if ms < 100 {
			return fmt.Sprintf("%.1fms", ms)
		}
		return fmt.Sprintf("%dms", int(ms))
	}
	s := d.Seconds()
	if s < 10 {
		return fmt.Sprintf("%.2fs", s)
	}
	return fmt.Sprintf("%.1fs", s)
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// successRate returns the share of successful runs as a percentage.
func successRate(m *metrics.Snapshot) float64 {
	if m == nil || m.TotalRuns == 0 {
		return 0
	}
	return float64(m.SuccessRuns) / float64(m.TotalRuns) * 100
}
