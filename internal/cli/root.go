package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/backends"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

var version = "0.1.0"

// Options wires the command tree to its environment. Zero values select the
// process defaults.
type Options struct {
	// Registry resolves generator types (default: every built-in backend)
	Registry *generator.Registry

	// LookupEnv reads PDFBENCH_* variables (default: os.LookupEnv)
	LookupEnv func(string) (string, bool)

	// DotEnvFiles are loaded into the process environment before it is read
	// (default: ".env"; set to an empty non-nil slice to load nothing)
	DotEnvFiles []string

	Stdout io.Writer
	Stderr io.Writer
}

func (o Options) withDefaults() Options {
	if o.Registry == nil {
		o.Registry = backends.NewRegistry()
	}
	if o.LookupEnv == nil {
		o.LookupEnv = os.LookupEnv
	}
	if o.DotEnvFiles == nil {
		o.DotEnvFiles = []string{".env"}
	}
	return o
}

// NewRootCmd builds the pdfbench command tree. The root command runs the
// benchmark; subcommands list generators and compare reports.
func NewRootCmd(opts Options) *cobra.Command {
	opts = opts.withDefaults()

	rootCmd := &cobra.Command{
		Use:     "pdfbench",
		Short:   "Benchmark PDF-to-image rendering backends",
		Version: version,
		Long: `pdfbench renders every page of a PDF (or a directory of PDFs) to images
with one rendering backend, writes the pages to disk and prints the render
time on a single stats line per run.

Backends: wand, pdf2image, fitz, pypdfium2, pyvips

Examples:
  pdfbench --generator-type=pypdfium2 --input-path data/input
  pdfbench -g fitz -d 72,150,300 -q 85 --image-type jpeg --iterations 3
  pdfbench --config bench.yaml --report fitz.json
  pdfbench compare fitz.json wand.json pypdfium2.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, opts)
		},
	}

	if opts.Stdout != nil {
		rootCmd.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		rootCmd.SetErr(opts.Stderr)
	}

	addBenchmarkFlags(rootCmd.Flags())
	rootCmd.Flags().SetNormalizeFunc(normalizeFlagName)

	rootCmd.AddCommand(newGeneratorsCmd(opts))
	rootCmd.AddCommand(newCompareCmd())

	return rootCmd
}

// normalizeFlagName accepts the short spellings --input and --output.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "input":
		name = "input-path"
	case "output":
		name = "output-path"
	}
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// Execute runs the command tree with os.Args and prints any failure as one
// "pdfbench: <message>" line on stderr.
func Execute(ctx context.Context) error {
	return ExecuteWith(ctx, Options{}, os.Args[1:])
}

// ExecuteWith runs the command tree built from opts with args.
func ExecuteWith(ctx context.Context, opts Options, args []string) error {
	rootCmd := NewRootCmd(opts)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "pdfbench: %v\n", err)
		return err
	}
	return nil
}
