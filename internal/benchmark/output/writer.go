package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"
	"github.com/schollz/progressbar/v3"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

// minPad is the smallest width of the page number in file names.
const minPad = 4

// Writer persists rendered pages, one file per page.
type Writer struct {
	Format  Format
	Quality int

	// Progress receives a progress bar per Write when non-nil.
	Progress io.Writer

	bytesWritten atomic.Int64
}

// NewWriter returns a writer for the given encoding.
func NewWriter(format Format, quality int) *Writer {
	return &Writer{Format: format, Quality: quality}
}

// RunDir returns the directory for one run's pages:
// <root>/<format>/<pdf stem>/<dpi>/<quality>.
func RunDir(root string, format Format, source string, dpi, quality int) string {
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(root, string(format), stem, strconv.Itoa(dpi), strconv.Itoa(quality))
}

// PageFileName returns "<generator>-page-<n>.<ext>" with n 1-based and
// zero-padded to pad digits.
func PageFileName(t generator.Type, index, pad int, format Format) string {
	return fmt.Sprintf("%s-page-%0*d.%s", t, pad, index+1, format.Extension())
}

// padWidth is max(4, digits of the highest page number).
func padWidth(pages []generator.PageImage) int {
	highest := 0
	for _, p := range pages {
		if p.Index+1 > highest {
			highest = p.Index + 1
		}
	}
	if n := len(strconv.Itoa(highest)); n > minPad {
		return n
	}
	return minPad
}

// Write encodes every page of result into dir and returns the paths in page
// order. Each page goes to a temporary file in dir that is renamed into
// place, so a reader never sees a partial image.
func (w *Writer) Write(result *generator.RenderResult, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &WriteError{Path: dir, Page: -1, Err: err}
	}

	pages := result.Pages
	pad := padWidth(pages)
	format, opts := w.Format.encodeOptions(w.Quality)

	var bar *progressbar.ProgressBar
	if w.Progress != nil && len(pages) > 0 {
		bar = progressbar.NewOptions(len(pages),
			progressbar.OptionSetWriter(w.Progress),
			progressbar.OptionSetDescription(fmt.Sprintf("writing %s", result.Generator)),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	paths := make([]string, 0, len(pages))
	for _, page := range pages {
		path := filepath.Join(dir, PageFileName(result.Generator, page.Index, pad, w.Format))
		n, err := writeAtomic(path, func(out io.Writer) error {
			return imaging.Encode(out, page.Image, format, opts...)
		})
		if err != nil {
			return paths, &WriteError{Path: path, Page: page.Index, Err: err}
		}
		w.bytesWritten.Add(n)
		paths = append(paths, path)

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return paths, nil
}

// BytesWritten returns the total size of every file written so far.
func (w *Writer) BytesWritten() int64 {
	return w.bytesWritten.Load()
}

// countingWriter counts bytes passed through to w.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeAtomic writes through encode into a temporary sibling of path and
// renames it over path once complete.
func writeAtomic(path string, encode func(io.Writer) error) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	counter := &countingWriter{w: tmp}
	buf := bufio.NewWriter(counter)
	if err := encode(buf); err != nil {
		return 0, fmt.Errorf("encode: %w", err)
	}
	if err := buf.Flush(); err != nil {
		return 0, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		committed = true
		return 0, err
	}
	committed = true
	return counter.n, nil
}
