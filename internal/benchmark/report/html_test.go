package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

func TestGenerateHTMLString(t *testing.T) {
	result := sampleResult(generator.TypeFitz, 250*time.Millisecond, false)

	html, err := GenerateHTMLString(result)
	if err != nil {
		t.Fatalf("GenerateHTMLString failed: %v", err)
	}

	expectedContents := []string{
		"<!DOCTYPE html>",
		"<title>fitz - PDF Rendering Benchmark</title>",
		"✓ PASSED",
		"Pages Rendered",
		"Render Time Distribution",
		"250ms",
		"6.0 KiB",
		"a.pdf",
		"p95 &lt; 10s",
		"runsChart",
		"chart.js",
	}
	for _, expected := range expectedContents {
		if !strings.Contains(html, expected) {
			t.Errorf("HTML does not contain expected content: %s", expected)
		}
	}

	if strings.Contains(html, "Sweep Error") {
		t.Error("HTML shows an error section for a passing sweep")
	}
}

func TestGenerateHTMLStringFailedSweep(t *testing.T) {
	html, err := GenerateHTMLString(sampleResult(generator.TypeFitz, time.Second, true))
	if err != nil {
		t.Fatalf("GenerateHTMLString failed: %v", err)
	}

	for _, expected := range []string{"✗ FAILED", "Sweep Error", "corrupt document", `class="failed"`} {
		if !strings.Contains(html, expected) {
			t.Errorf("HTML does not contain expected content: %s", expected)
		}
	}
}

func TestGenerateHTMLStringNilResult(t *testing.T) {
	_, err := GenerateHTMLString(nil)
	if err == nil {
		t.Error("Expected error for nil result, got nil")
	}
}

func TestGenerateHTMLStringNoRuns(t *testing.T) {
	result := &engine.Result{Generator: generator.TypeWand}

	html, err := GenerateHTMLString(result)
	if err != nil {
		t.Fatalf("GenerateHTMLString failed: %v", err)
	}
	if strings.Contains(html, `id="runsChart"`) {
		t.Error("HTML contains a runs chart without runs")
	}
}

func TestGenerateHTML(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report.html")

	if err := GenerateHTML(sampleResult(generator.TypePyvips, time.Second, false), outputPath); err != nil {
		t.Fatalf("GenerateHTML failed: %v", err)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read generated HTML: %v", err)
	}
	if !strings.Contains(string(content), "pyvips") {
		t.Error("Generated HTML does not name the generator")
	}
}

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"latency zero", formatLatency(0), "0"},
		{"latency micros", formatLatency(42 * time.Microsecond), "42.0µs"},
		{"latency millis", formatLatency(1500 * time.Microsecond), "1.50ms"},
		{"latency seconds", formatLatency(2500 * time.Millisecond), "2.50s"},
		{"duration minutes", formatDuration(90 * time.Second), "1m 30s"},
		{"duration hours", formatDuration(2 * time.Hour), "2h"},
		{"number", formatNumber(1234567), "1,234,567"},
		{"bytes", formatBytes(1536), "1.5 KiB"},
		{"negative bytes", formatBytes(-1), "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
