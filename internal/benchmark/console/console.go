// Package console prints the human-facing header and summary of a sweep.
// Everything goes to stderr so stdout keeps only the stats lines.
package console

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/config"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/engine"
)

const ruleWidth = 56

// Console manages console output around a sweep.
type Console struct {
	writer io.Writer
	scheme *ColorScheme
	isTTY  bool
	quiet  bool

	mu sync.Mutex
}

// Config contains configuration for Console.
type Config struct {
	Writer      io.Writer
	Quiet       bool
	NoColor     bool
	ForceColors bool
	ForceTTY    bool
}

// New creates a console writing to cfg.Writer (default: stderr). Colors are
// used on terminals unless disabled by NoColor or the NO_COLOR environment
// variable.
func New(cfg Config) *Console {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}

	isTTY := cfg.ForceTTY || IsTerminal(cfg.Writer)
	useColors := !cfg.NoColor && (cfg.ForceColors || (isTTY && supportsColors()))

	scheme := NoColorScheme()
	if useColors {
		scheme = DefaultColorScheme()
	}

	return &Console{
		writer: cfg.Writer,
		scheme: scheme,
		isTTY:  isTTY,
		quiet:  cfg.Quiet,
	}
}

// IsTTY returns whether the output is a terminal.
func (c *Console) IsTTY() bool {
	return c.isTTY
}

// PrintHeader prints the sweep header.
func (c *Console) PrintHeader(cfg *config.Config) {
	if c.quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := strings.Repeat("━", ruleWidth)
	c.writeln(c.scheme.Rule.Sprint(line))
	c.writeln(c.scheme.Title.Sprintf("pdfbench - %s", cfg.GeneratorType))
	c.writeln(c.scheme.Rule.Sprint(line))
	c.field("Input", cfg.Input)
	c.field("Output", cfg.Output)
	c.field("Format", cfg.ImageType)
	c.field("DPI", joinInts(cfg.DPI))
	c.field("Quality", joinInts(cfg.Quality))
	c.field("Iterations", strconv.Itoa(cfg.Iterations))
	if cfg.FirstPage > 0 || cfg.LastPage > 0 {
		c.field("Pages", pageSpan(cfg.FirstPage, cfg.LastPage))
	}
	c.writeln("")
}

// PrintSummary prints the end-of-sweep summary.
func (c *Console) PrintSummary(result *engine.Result) {
	if c.quiet || result == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := strings.Repeat("━", ruleWidth)
	status := c.scheme.Success.Sprint("✓ PASSED")
	if !result.Passed {
		status = c.scheme.Error.Sprint("✗ FAILED")
	}

	c.writeln(c.scheme.Rule.Sprint(line))
	c.writeln(fmt.Sprintf("%s  %s", c.scheme.Title.Sprint("Summary"), status))
	c.writeln(c.scheme.Rule.Sprint(line))
	c.field("Run ID", result.RunID)
	c.field("Generator", string(result.Generator))
	c.field("Duration", formatDuration(result.Duration))

	if m := result.Metrics; m != nil {
		runs := fmt.Sprintf("%s (%s ok, %s failed)",
			humanize.Comma(m.TotalRuns), humanize.Comma(m.SuccessRuns), humanize.Comma(m.FailedRuns))
		c.field("Runs", runs)
		c.field("Pages", humanize.Comma(m.TotalPages))
		c.field("Throughput", fmt.Sprintf("%.2f pages/s", m.PagesPerSecond))
		c.field("Written", humanize.IBytes(uint64(max(m.BytesWritten, 0))))
		c.writeln("")

		if m.Render.Count > 0 {
			c.writeln(c.scheme.Title.Sprint("Render Time:"))
			c.writeln(fmt.Sprintf("  Min:       %s", formatDurationShort(m.Render.Min)))
			c.writeln(fmt.Sprintf("  P50:       %s", formatDurationShort(m.Render.P50)))
			c.writeln(fmt.Sprintf("  P90:       %s", formatDurationShort(m.Render.P90)))
			c.writeln(fmt.Sprintf("  P95:       %s", formatDurationShort(m.Render.P95)))
			c.writeln(fmt.Sprintf("  P99:       %s", formatDurationShort(m.Render.P99)))
			c.writeln(fmt.Sprintf("  Max:       %s", formatDurationShort(m.Render.Max)))
			c.writeln(fmt.Sprintf("  Mean:      %s", formatDurationShort(m.Render.Mean)))
			c.writeln("")
		}
	}

	if len(result.Sources) > 1 {
		c.writeln(c.scheme.Title.Sprint("Documents:"))
		names := make([]string, 0, len(result.Sources))
		for name := range result.Sources {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			s := result.Sources[name]
			c.writeln(fmt.Sprintf("  %-24s mean %s  max %s  (%d runs)",
				name, formatDurationShort(s.Mean), formatDurationShort(s.Max), s.Count))
		}
		c.writeln("")
	}

	if len(result.Thresholds) > 0 {
		c.writeln(c.scheme.Title.Sprint("Thresholds:"))
		for _, t := range result.Thresholds {
			icon := c.scheme.SuccessIcon()
			if !t.Passed {
				icon = c.scheme.ErrorIcon()
			}
			msg := fmt.Sprintf("  %s %s (actual: %s)", icon, t.Expression, t.Value)
			if t.Message != "" {
				msg += " " + c.scheme.Warn.Sprint(t.Message)
			}
			c.writeln(msg)
		}
		c.writeln("")
	}

	// The error itself is printed once by the caller.
	if result.Error != nil {
		if run, ok := failedRun(result); ok {
			c.writeln(fmt.Sprintf("%s %s @%ddpi q%d #%d", c.scheme.Error.Sprint("Failed run:"),
				filepath.Base(run.Source), run.DPI, run.Quality, run.Iteration))
			c.writeln("")
		}
	}
}

func failedRun(result *engine.Result) (engine.RunRecord, bool) {
	for i := len(result.Runs) - 1; i >= 0; i-- {
		if result.Runs[i].Error != "" {
			return result.Runs[i], true
		}
	}
	return engine.RunRecord{}, false
}

func (c *Console) field(label, value string) {
	c.writeln(fmt.Sprintf("%s %s", c.scheme.Label.Sprintf("%-12s", label+":"), c.scheme.Value.Sprint(value)))
}

// writeln writes to the output with a newline.
func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, s)
}

// formatDuration formats a duration in a human-readable format.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
}

// formatDurationShort formats a render time in a short format.
func formatDurationShort(d time.Duration) string {
	if d < time.Microsecond {
		return "0ms"
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

func pageSpan(first, last int) string {
	from := "1"
	if first > 0 {
		from = strconv.Itoa(first)
	}
	to := "end"
	if last > 0 {
		to = strconv.Itoa(last)
	}
	return from + "-" + to
}
