package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/output"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	// Kept on one line so the CLI can print it as a single diagnostic.
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return fmt.Sprintf("%d validation errors: %s", len(e.Errors), strings.Join(parts, "; "))
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the merged configuration.
//
// The generator type is not checked here; the registry reports unknown or
// missing names as a RegistryError.
//
// Returns nil if valid, or a ValidationErrors containing all validation errors.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	if strings.TrimSpace(c.Input) == "" {
		errs.Add("input", "is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		errs.Add("output", "is required")
	}
	if _, err := output.ParseFormat(c.ImageType); err != nil {
		errs.Add("imageType", err.Error())
	}

	if len(c.DPI) == 0 {
		errs.Add("dpi", "at least one value is required")
	}
	for i, dpi := range c.DPI {
		if dpi < 1 || dpi > 2400 {
			errs.Add(fmt.Sprintf("dpi[%d]", i), fmt.Sprintf("must be between 1 and 2400, got %d", dpi))
		}
	}

	if len(c.Quality) == 0 {
		errs.Add("quality", "at least one value is required")
	}
	for i, q := range c.Quality {
		if q < 1 || q > 100 {
			errs.Add(fmt.Sprintf("quality[%d]", i), fmt.Sprintf("must be between 1 and 100, got %d", q))
		}
	}

	if c.Iterations < 1 {
		errs.Add("iterations", "must be at least 1")
	}
	if c.FirstPage < 0 {
		errs.Add("firstPage", "cannot be negative")
	}
	if c.LastPage < 0 {
		errs.Add("lastPage", "cannot be negative")
	}
	if c.FirstPage > 0 && c.LastPage > 0 && c.FirstPage > c.LastPage {
		errs.Add("lastPage", fmt.Sprintf("must not be before firstPage (%d > %d)", c.FirstPage, c.LastPage))
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		errs.Add("logLevel", fmt.Sprintf("invalid log level: %s", c.LogLevel))
	}

	for i, threshold := range c.Thresholds {
		if err := ValidateThresholdExpression(threshold); err != nil {
			errs.Add(fmt.Sprintf("thresholds[%d]", i), err.Error())
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// GeneratorOptions returns the backend construction options.
func (c *Config) GeneratorOptions() generator.Options {
	return generator.Options{
		PdftoppmPath: c.PdftoppmPath,
		PdfinfoPath:  c.PdfinfoPath,
	}
}

var thresholdPattern = regexp.MustCompile(`^(\w+)\s*([<>=!]+)\s*(.+)$`)

// ParseThresholdExpression splits an expression like "p95 < 500ms" into its
// metric, operator and value. It checks the shape only; see
// ValidateThresholdExpression for the metric and operator sets.
func ParseThresholdExpression(expr string) (metric, op, value string, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", "", "", fmt.Errorf("threshold expression cannot be empty")
	}

	m := thresholdPattern.FindStringSubmatch(expr)
	if m == nil {
		return "", "", "", fmt.Errorf("invalid expression format: %s", expr)
	}
	return m[1], m[2], strings.TrimSpace(m[3]), nil
}

// Threshold metrics
var (
	durationMetrics = map[string]bool{"min": true, "max": true, "avg": true, "med": true, "p50": true, "p90": true, "p95": true, "p99": true}
	numericMetrics  = map[string]bool{"pages_per_second": true, "failures": true}
	validOperators  = map[string]bool{"<": true, "<=": true, ">": true, ">=": true, "==": true, "=": true, "!=": true, "<>": true}
)

// ValidateThresholdExpression validates a threshold expression.
//
// Valid formats:
//   - "p95 < 2s"
//   - "avg <= 500ms"
//   - "pages_per_second > 10"
//   - "failures == 0"
func ValidateThresholdExpression(expr string) error {
	metric, op, value, err := ParseThresholdExpression(expr)
	if err != nil {
		return err
	}

	if !validOperators[op] {
		return fmt.Errorf("threshold must use a comparison operator (<, >, <=, >=, ==, !=), got %s", op)
	}

	switch {
	case durationMetrics[metric]:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s needs a duration value like 500ms or 2s, got %q", metric, value)
		}
	case numericMetrics[metric]:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("%s needs a numeric value, got %q", metric, value)
		}
	default:
		return fmt.Errorf("unknown threshold metric %q (valid: min, max, avg, med, p50, p90, p95, p99, pages_per_second, failures)", metric)
	}
	return nil
}
