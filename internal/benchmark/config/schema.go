// Package config provides configuration loading and validation for pdfbench.
package config

import (
	_ "embed"
)

// Config is the full configuration of one pdfbench invocation.
//
// Example YAML:
//
//	generatorType: pypdfium2
//	input: data/input
//	output: data/output
//	imageType: png
//	dpi: [72, 150, 300]
//	quality: [85]
//	iterations: 3
//	thresholds:
//	  - "p95 < 2s"
type Config struct {
	// GeneratorType selects the rendering backend
	// Options: "wand", "pdf2image", "fitz", "pypdfium2", "pyvips"
	GeneratorType string `json:"generatorType,omitempty" yaml:"generatorType,omitempty"`

	// Input is a PDF file or a directory of PDF files
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// Output is the root directory for rendered pages
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// ImageType is the output encoding: "png" or "jpeg"
	ImageType string `json:"imageType,omitempty" yaml:"imageType,omitempty"`

	// DPI lists the resolutions to sweep
	DPI []int `json:"dpi,omitempty" yaml:"dpi,omitempty"`

	// Quality lists the encoder qualities to sweep (1-100)
	Quality []int `json:"quality,omitempty" yaml:"quality,omitempty"`

	// Iterations repeats every dpi/quality/input combination
	Iterations int `json:"iterations,omitempty" yaml:"iterations,omitempty"`

	// FirstPage and LastPage bound the rendered span (1-based, 0 = open)
	FirstPage int `json:"firstPage,omitempty" yaml:"firstPage,omitempty"`
	LastPage  int `json:"lastPage,omitempty" yaml:"lastPage,omitempty"`

	// Password unlocks encrypted documents
	Password string `json:"password,omitempty" yaml:"password,omitempty"`

	// VerifyPages cross-checks the rendered page count (default: true)
	VerifyPages *bool `json:"verifyPages,omitempty" yaml:"verifyPages,omitempty"`

	// Report is the path of the JSON report to write (optional)
	Report string `json:"report,omitempty" yaml:"report,omitempty"`

	// HTMLReport is the path of the HTML report to write (optional)
	HTMLReport string `json:"htmlReport,omitempty" yaml:"htmlReport,omitempty"`

	// MetricsFile is the path of the Prometheus textfile to write (optional)
	MetricsFile string `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty"`

	// Thresholds are pass/fail criteria on render time, e.g. "p95 < 2s"
	Thresholds []string `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`

	// PdftoppmPath and PdfinfoPath locate the poppler tools (default: PATH)
	PdftoppmPath string `json:"pdftoppmPath,omitempty" yaml:"pdftoppmPath,omitempty"`
	PdfinfoPath  string `json:"pdfinfoPath,omitempty" yaml:"pdfinfoPath,omitempty"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
}

// Defaults
const (
	DefaultInput      = "data/input"
	DefaultOutput     = "data/output"
	DefaultImageType  = "png"
	DefaultDPI        = 150
	DefaultQuality    = 85
	DefaultIterations = 1
	DefaultLogLevel   = "warn"
)

// Default returns a configuration holding every default.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields.
func ApplyDefaults(c *Config) {
	if c.Input == "" {
		c.Input = DefaultInput
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.ImageType == "" {
		c.ImageType = DefaultImageType
	}
	if len(c.DPI) == 0 {
		c.DPI = []int{DefaultDPI}
	}
	if len(c.Quality) == 0 {
		c.Quality = []int{DefaultQuality}
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.VerifyPages == nil {
		verify := true
		c.VerifyPages = &verify
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// ShouldVerifyPages reports whether page-count verification is on.
func (c *Config) ShouldVerifyPages() bool {
	return c.VerifyPages == nil || *c.VerifyPages
}

// Runs returns the number of timed renders per input document.
func (c *Config) Runs() int {
	return len(c.DPI) * len(c.Quality) * c.Iterations
}

// fileSchema is the JSON schema config files are checked against before
// decoding.
//
//go:embed config.schema.json
var fileSchema string
