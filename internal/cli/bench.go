package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/config"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/console"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/report"
)

func addBenchmarkFlags(flags *pflag.FlagSet) {
	flags.StringP("generator-type", "g", "", "Rendering backend: wand, pdf2image, fitz, pypdfium2, pyvips")
	flags.StringP("config", "c", "", "Configuration file (YAML or JSON)")

	// Sweep flags
	flags.StringP("input-path", "i", "", "PDF file or directory of PDFs (default \"data/input\")")
	flags.StringP("output-path", "o", "", "Root directory for rendered pages (default \"data/output\")")
	flags.IntSliceP("dpi-set", "d", nil, "Resolutions to sweep (default 150)")
	flags.IntSliceP("quality-set", "q", nil, "Encoder qualities to sweep, 1-100 (default 85)")
	flags.String("image-type", "", "Output encoding: png or jpeg (default \"png\")")
	flags.Int("iterations", 0, "Renders per dpi/quality/input combination (default 1)")
	flags.Int("first-page", 0, "First page to render, 1-based")
	flags.Int("last-page", 0, "Last page to render, 1-based")
	flags.String("password", "", "Password for encrypted documents")
	flags.Bool("no-verify", false, "Skip the independent page-count check")

	// Poppler flags
	flags.String("pdftoppm", "", "Path of the pdftoppm executable")
	flags.String("pdfinfo", "", "Path of the pdfinfo executable")

	// Reporting flags
	flags.String("report", "", "Write a JSON report to this file")
	flags.String("html-report", "", "Write an HTML report to this file")
	flags.String("metrics-file", "", "Write Prometheus textfile metrics to this file")
	flags.StringArray("threshold", nil, "Pass/fail criterion on render time, e.g. \"p95 < 2s\" (repeatable)")

	// Output flags
	flags.String("log-level", "", "Log level: debug, info, warn, error (default \"warn\")")
	flags.Bool("quiet", false, "Disable the header, progress and summary on stderr")
	flags.Bool("no-color", false, "Disable colored output")
}

// runBenchmark resolves the configuration, runs the sweep and writes the
// requested reports. The returned error is the first failure of the sweep.
func runBenchmark(cmd *cobra.Command, opts Options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	noColor, _ := cmd.Flags().GetBool("no-color")
	out := console.New(console.Config{
		Writer:  cmd.ErrOrStderr(),
		Quiet:   quiet,
		NoColor: noColor,
	})

	var progress io.Writer
	if out.IsTTY() && !quiet {
		progress = cmd.ErrOrStderr()
	}

	eng, err := engine.NewEngine(cfg, engine.Options{
		Registry: opts.Registry,
		Stdout:   cmd.OutOrStdout(),
		Progress: progress,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	out.PrintHeader(cfg)

	result, runErr := eng.Run(cmd.Context())
	if result == nil {
		return runErr
	}

	out.PrintSummary(result)

	if err := writeReports(cfg, result, logger); err != nil {
		if runErr == nil {
			return err
		}
		logger.Error("failed to write reports", "error", err)
	}
	return runErr
}

// loadConfig merges defaults, the config file, the environment and the
// explicitly set flags, in increasing order of precedence.
func loadConfig(cmd *cobra.Command, opts Options) (*config.Config, error) {
	cfg := &config.Config{}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	if err := config.LoadDotEnv(opts.DotEnvFiles...); err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, opts.LookupEnv); err != nil {
		return nil, err
	}

	applyFlags(cmd.Flags(), cfg)
	config.ApplyDefaults(cfg)
	return cfg, nil
}

// applyFlags copies every flag the user set onto cfg.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	num := func(name string, dst *int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	list := func(name string, dst *[]int) {
		if flags.Changed(name) {
			*dst, _ = flags.GetIntSlice(name)
		}
	}

	str("generator-type", &cfg.GeneratorType)
	str("input-path", &cfg.Input)
	str("output-path", &cfg.Output)
	str("image-type", &cfg.ImageType)
	list("dpi-set", &cfg.DPI)
	list("quality-set", &cfg.Quality)
	num("iterations", &cfg.Iterations)
	num("first-page", &cfg.FirstPage)
	num("last-page", &cfg.LastPage)
	str("password", &cfg.Password)
	str("pdftoppm", &cfg.PdftoppmPath)
	str("pdfinfo", &cfg.PdfinfoPath)
	str("report", &cfg.Report)
	str("html-report", &cfg.HTMLReport)
	str("metrics-file", &cfg.MetricsFile)
	str("log-level", &cfg.LogLevel)

	if flags.Changed("no-verify") {
		noVerify, _ := flags.GetBool("no-verify")
		verify := !noVerify
		cfg.VerifyPages = &verify
	}
	if flags.Changed("threshold") {
		cfg.Thresholds, _ = flags.GetStringArray("threshold")
	}
}

// writeReports writes every report the configuration asks for. A failed
// report does not stop the others.
func writeReports(cfg *config.Config, result *engine.Result, logger *slog.Logger) error {
	var errs []error

	if cfg.Report != "" {
		if err := report.WriteJSON(result, cfg.Report); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("wrote JSON report", "path", cfg.Report)
		}
	}
	if cfg.HTMLReport != "" {
		if err := report.GenerateHTML(result, cfg.HTMLReport); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("wrote HTML report", "path", cfg.HTMLReport)
		}
	}
	if cfg.MetricsFile != "" {
		if err := report.WritePrometheus(result, cfg.MetricsFile); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("wrote metrics file", "path", cfg.MetricsFile)
		}
	}

	return errors.Join(errs...)
}
