package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/output"
	"github.com/wesleyorama2/pdfbench/internal/testutil/pdffixture"
)

func TestBenchmark_PyvipsThreePages(t *testing.T) {
	input := pdffixture.Write(t, t.TempDir(), "three.pdf", 3)
	out := filepath.Join(t.TempDir(), "out")

	r := newCLIRun()
	err := r.exec("--generator-type=pyvips", "--input-path", input, "--output-path", out)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(r.stdout.String()), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, 1, strings.Count(lines[0], "seconds"))
	assert.Contains(t, lines[0], "generator=pyvips pages=3")

	entries, err := os.ReadDir(output.RunDir(out, output.FormatPNG, input, 150, 85))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	assert.Contains(t, r.stderr.String(), "PASSED")
	assert.NotContains(t, r.stderr.String(), "pdfbench:")
}

func TestBenchmark_UnknownGenerator(t *testing.T) {
	input := pdffixture.Write(t, t.TempDir(), "one.pdf", 1)

	for _, args := range [][]string{
		{"-g", "unknown"},
		{"-g", "WAND"},
		{},
	} {
		r := newCLIRun()
		err := r.exec(append(args, "-i", input, "-o", t.TempDir())...)
		require.Error(t, err)

		var regErr *generator.RegistryError
		assert.ErrorAs(t, err, &regErr)
		assert.Empty(t, r.stdout.String())
		assert.True(t, strings.HasPrefix(r.stderr.String(), "pdfbench: "), r.stderr.String())
	}
}

func TestBenchmark_CorruptDocument(t *testing.T) {
	input := pdffixture.WriteBytes(t, t.TempDir(), "bad.pdf", pdffixture.Corrupt())

	r := newCLIRun()
	err := r.exec("-g", "fitz", "-i", input, "-o", t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, generator.ErrCorrupt)
	assert.Empty(t, r.stdout.String())

	stderr := r.stderr.String()
	assert.Contains(t, stderr, "FAILED")
	assert.Contains(t, stderr, "Failed run: bad.pdf")
	assert.Equal(t, 1, strings.Count(stderr, "pdfbench: "))
	assert.Equal(t, 1, strings.Count(stderr, "corrupt document"), stderr)
	assert.NotContains(t, stderr, "level=ERROR")
}

func TestBenchmark_Precedence(t *testing.T) {
	dir := t.TempDir()
	input := pdffixture.Write(t, dir, "doc.pdf", 2)
	cfgPath := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("generatorType: wand\ndpi: [72]\nquality: [10]\nimageType: jpeg\n"), 0o644))

	r := newCLIRun()
	r.env["PDFBENCH_QUALITY"] = "50"
	r.env["PDFBENCH_GENERATOR_TYPE"] = "fitz"

	err := r.exec("--config", cfgPath, "--dpi-set", "100", "--input", input, "--output", filepath.Join(dir, "out"), "--quiet")
	require.NoError(t, err)

	line := strings.TrimSpace(r.stdout.String())
	assert.Contains(t, line, "generator=fitz pages=2 dpi=100 quality=50 format=jpeg")
	assert.Empty(t, r.stderr.String())
}

func TestBenchmark_Sweep(t *testing.T) {
	dir := t.TempDir()
	pdffixture.Write(t, dir, "a.pdf", 1)
	pdffixture.Write(t, dir, "b.pdf", 2)

	r := newCLIRun()
	err := r.exec("-g", "pyvips", "-i", dir, "-o", filepath.Join(t.TempDir(), "out"), "-d", "72,144", "--iterations", "2", "--quiet")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(r.stdout.String()), "\n")
	assert.Len(t, lines, 8)
	for _, line := range lines {
		assert.Equal(t, 1, strings.Count(line, "seconds"))
	}
}

func TestBenchmark_Reports(t *testing.T) {
	dir := t.TempDir()
	input := pdffixture.Write(t, dir, "doc.pdf", 2)
	jsonPath := filepath.Join(dir, "report.json")
	htmlPath := filepath.Join(dir, "report.html")
	promPath := filepath.Join(dir, "pdfbench.prom")

	r := newCLIRun()
	err := r.exec("-g", "fitz", "-i", input, "-o", filepath.Join(dir, "out"), "--quiet",
		"--report", jsonPath, "--html-report", htmlPath, "--metrics-file", promPath)
	require.NoError(t, err)

	for _, path := range []string{jsonPath, htmlPath, promPath} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.Positive(t, info.Size(), path)
	}

	prom, err := os.ReadFile(promPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `pdfbench_pages_rendered_total{generator="fitz"} 2`)
}

func TestBenchmark_ReportWrittenOnFailure(t *testing.T) {
	dir := t.TempDir()
	input := pdffixture.WriteBytes(t, dir, "bad.pdf", pdffixture.Corrupt())
	jsonPath := filepath.Join(dir, "report.json")

	r := newCLIRun()
	err := r.exec("-g", "fitz", "-i", input, "-o", filepath.Join(dir, "out"), "--quiet", "--report", jsonPath)
	require.Error(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"passed": false`)
}

func TestBenchmark_Thresholds(t *testing.T) {
	input := pdffixture.Write(t, t.TempDir(), "doc.pdf", 1)

	r := newCLIRun()
	err := r.exec("-g", "fitz", "-i", input, "-o", t.TempDir(), "--threshold", "max < 1ns")
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrThresholds))
	assert.Len(t, strings.Split(strings.TrimSpace(r.stdout.String()), "\n"), 1)

	r = newCLIRun()
	err = r.exec("-g", "fitz", "-i", input, "-o", t.TempDir(), "--threshold", "max < 1h", "--threshold", "failures == 0")
	require.NoError(t, err)
}

func TestBenchmark_InvalidConfiguration(t *testing.T) {
	input := pdffixture.Write(t, t.TempDir(), "doc.pdf", 1)

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad quality", []string{"-q", "0"}, nil},
		{"bad image type", []string{"--image-type", "gif"}, nil},
		{"bad log level", []string{"--log-level", "loud"}, nil},
		{"bad env", nil, map[string]string{"PDFBENCH_DPI": "lots"}},
		{"missing config", []string{"--config", "/nonexistent/bench.yaml"}, nil},
		{"positional argument", []string{"extra"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCLIRun()
			for k, v := range tt.env {
				r.env[k] = v
			}
			args := append([]string{"-g", "fitz", "-i", input, "-o", t.TempDir()}, tt.args...)
			err := r.exec(args...)
			require.Error(t, err)
			assert.Empty(t, r.stdout.String())
			assert.Contains(t, r.stderr.String(), "pdfbench: ")
		})
	}
}

func TestBenchmark_DotEnv(t *testing.T) {
	dir := t.TempDir()
	input := pdffixture.Write(t, dir, "doc.pdf", 1)
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("PDFBENCH_GENERATOR_TYPE=wand\n"), 0o644))

	// Restored to unset when the test ends.
	t.Setenv("PDFBENCH_GENERATOR_TYPE", "")
	require.NoError(t, os.Unsetenv("PDFBENCH_GENERATOR_TYPE"))

	var stdout, stderr strings.Builder
	err := ExecuteWith(t.Context(), Options{
		Registry:    fakeRegistry(),
		DotEnvFiles: []string{envFile, filepath.Join(dir, "missing.env")},
		Stdout:      &stdout,
		Stderr:      &stderr,
	}, []string{"-i", input, "-o", filepath.Join(dir, "out"), "--quiet"})
	require.NoError(t, err, stderr.String())
	assert.Contains(t, stdout.String(), "generator=wand")
}
