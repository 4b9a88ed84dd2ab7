// Package output persists rendered pages and reports run statistics.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

// Stats describes one successful run.
type Stats struct {
	Generator generator.Type
	Pages     int
	DPI       int
	Quality   int
	Format    Format
	Elapsed   time.Duration
}

// FormatStatsLine renders s as a single line:
//
//	generator=fitz pages=3 dpi=150 quality=85 format=png elapsed=0.1234 seconds
//
// Downstream tooling greps for "seconds", so it appears exactly once. Every
// other field is numeric or from a closed set and cannot contain it.
func FormatStatsLine(s Stats) string {
	elapsed := s.Elapsed
	if elapsed < 0 {
		elapsed = 0
	}

	var sb strings.Builder
	sb.WriteString("generator=")
	sb.WriteString(string(s.Generator))
	sb.WriteString(" pages=")
	sb.WriteString(strconv.Itoa(s.Pages))
	sb.WriteString(" dpi=")
	sb.WriteString(strconv.Itoa(s.DPI))
	sb.WriteString(" quality=")
	sb.WriteString(strconv.Itoa(s.Quality))
	sb.WriteString(" format=")
	sb.WriteString(string(s.Format))
	sb.WriteString(" elapsed=")
	sb.WriteString(strconv.FormatFloat(elapsed.Seconds(), 'f', 4, 64))
	sb.WriteString(" seconds")
	return sb.String()
}

// StatsReporter writes stats lines, one per successful run.
type StatsReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStatsReporter returns a reporter writing to w, normally os.Stdout.
func NewStatsReporter(w io.Writer) *StatsReporter {
	return &StatsReporter{w: w}
}

// Report writes the line for s.
func (r *StatsReporter) Report(s Stats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintln(r.w, FormatStatsLine(s)); err != nil {
		return fmt.Errorf("failed to write stats line: %w", err)
	}
	return nil
}
