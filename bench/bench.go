package bench

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/backends"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/config"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/metrics"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/report"
)

// Config is the configuration of one sweep.
type Config = config.Config

// Result contains the complete sweep results.
type Result = engine.Result

// GeneratorInfo describes one built-in generator.
type GeneratorInfo struct {
	Name        string
	Library     string
	Description string
}

// ErrThresholds is returned by Run when every run succeeded but at least one
// threshold failed.
var ErrThresholds = engine.ErrThresholds

// DefaultConfig returns a configuration holding every default. The generator
// type must still be set.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig reads a YAML or JSON configuration file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	config.ApplyDefaults(cfg)
	return cfg, nil
}

// ApplyEnv overrides cfg from PDFBENCH_* variables in the process
// environment, the way the pdfbench command does.
func ApplyEnv(cfg *Config) error {
	return config.ApplyProcessEnv(cfg)
}

// Runner runs sweeps against the built-in generators.
type Runner struct {
	config *Config
	logger *slog.Logger
	engine *engine.Engine
}

// NewRunner creates a runner for cfg. A nil logger discards diagnostics.
func NewRunner(cfg *Config, logger *slog.Logger) *Runner {
	return &Runner{config: cfg, logger: logger}
}

// Run executes the sweep, writing one stats line per successful run to
// stdout. The result is nil only when the generator could not be resolved.
func (r *Runner) Run(ctx context.Context, stdout io.Writer) (*Result, error) {
	config.ApplyDefaults(r.config)

	eng, err := engine.NewEngine(r.config, engine.Options{
		Registry: backends.NewRegistry(),
		Stdout:   stdout,
		Logger:   r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.engine = eng
	return eng.Run(ctx)
}

// Metrics returns the aggregate metrics of the last Run, or nil before the
// first one.
func (r *Runner) Metrics() *metrics.Snapshot {
	if r.engine == nil {
		return nil
	}
	return r.engine.GetMetrics()
}

// Run executes a sweep with the default logger settings.
func Run(ctx context.Context, cfg *Config, stdout io.Writer) (*Result, error) {
	return NewRunner(cfg, nil).Run(ctx, stdout)
}

// WriteReports writes the reports cfg names for result.
func WriteReports(cfg *Config, result *Result) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}

	var errs []error
	if cfg.Report != "" {
		errs = append(errs, report.WriteJSON(result, cfg.Report))
	}
	if cfg.HTMLReport != "" {
		errs = append(errs, report.GenerateHTML(result, cfg.HTMLReport))
	}
	if cfg.MetricsFile != "" {
		errs = append(errs, report.WritePrometheus(result, cfg.MetricsFile))
	}
	return errors.Join(errs...)
}

// Generators lists the built-in generators.
func Generators() []GeneratorInfo {
	types := generator.SupportedTypes()
	infos := make([]GeneratorInfo, 0, len(types))
	for _, t := range types {
		info := GeneratorInfo{Name: string(t)}
		if desc := generator.Describe(t); desc != nil {
			info.Library = desc.Library
			info.Description = desc.Description
		}
		infos = append(infos, info)
	}
	return infos
}
