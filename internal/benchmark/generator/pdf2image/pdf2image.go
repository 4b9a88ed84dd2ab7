// Package pdf2image renders PDFs with poppler's command line tools, the way
// the pdf2image Python package does: pdfinfo for the page count, then one
// pdftoppm invocation for the whole span.
package pdf2image

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

const (
	defaultPdftoppm = "pdftoppm"
	defaultPdfinfo  = "pdfinfo"

	outputPrefix = "page"
)

// CommandExecutor runs an external program and returns its stdout.
type CommandExecutor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execExecutor runs commands with os/exec.
type execExecutor struct{}

func (execExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Generator implements generator.Generator on top of pdftoppm.
type Generator struct {
	pdftoppm string
	pdfinfo  string
	executor CommandExecutor
}

// New creates a poppler backed generator. The executables are resolved at
// construction so a missing poppler install fails before any timing starts.
func New(opts generator.Options) (generator.Generator, error) {
	pdftoppm, err := lookTool(opts.PdftoppmPath, defaultPdftoppm)
	if err != nil {
		return nil, err
	}
	pdfinfo, err := lookTool(opts.PdfinfoPath, defaultPdfinfo)
	if err != nil {
		return nil, err
	}
	return NewWithExecutor(pdftoppm, pdfinfo, execExecutor{}), nil
}

// NewWithExecutor creates a generator that runs the given tools through exec.
func NewWithExecutor(pdftoppm, pdfinfo string, executor CommandExecutor) *Generator {
	return &Generator{pdftoppm: pdftoppm, pdfinfo: pdfinfo, executor: executor}
}

func lookTool(configured, fallback string) (string, error) {
	name := configured
	if name == "" {
		name = fallback
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("poppler tool %s not found: %w", name, err)
	}
	return path, nil
}

// Type implements generator.Generator.
func (g *Generator) Type() generator.Type {
	return generator.TypePdf2image
}

// Render counts pages with pdfinfo, renders the span to PNG files in a
// scratch directory and decodes them in page order.
func (g *Generator) Render(ctx context.Context, req *generator.RenderRequest) ([]generator.PageImage, error) {
	total, err := g.pageCount(ctx, req)
	if err != nil {
		return nil, err
	}

	first, last, ok, err := req.Span(generator.TypePdf2image, total)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []generator.PageImage{}, nil
	}

	scratch, err := os.MkdirTemp("", "pdfbench-pdftoppm-*")
	if err != nil {
		return nil, generator.NewRenderError(generator.TypePdf2image, generator.ErrBackend,
			fmt.Errorf("failed to create scratch directory: %w", err))
	}
	defer os.RemoveAll(scratch)

	args := []string{
		"-png",
		"-r", strconv.Itoa(req.Resolution()),
		"-f", strconv.Itoa(first + 1),
		"-l", strconv.Itoa(last + 1),
	}
	if req.Password != "" {
		args = append(args, "-upw", req.Password)
	}
	args = append(args, req.Path, filepath.Join(scratch, outputPrefix))

	if _, err := g.executor.Run(ctx, g.pdftoppm, args...); err != nil {
		return nil, generator.NewRenderError(generator.TypePdf2image, generator.ErrBackend, err)
	}

	return collectPages(scratch, first, last)
}

// pageCount runs pdfinfo and parses its "Pages:" line.
func (g *Generator) pageCount(ctx context.Context, req *generator.RenderRequest) (int, error) {
	args := []string{}
	if req.Password != "" {
		args = append(args, "-upw", req.Password)
	}
	args = append(args, req.Path)

	out, err := g.executor.Run(ctx, g.pdfinfo, args...)
	if err != nil {
		kind := generator.ErrCorrupt
		if errors.Is(err, exec.ErrNotFound) {
			kind = generator.ErrBackend
		}
		return 0, generator.NewRenderError(generator.TypePdf2image, kind, err)
	}

	total, err := parsePdfInfoOutput(string(out))
	if err != nil {
		return 0, generator.NewRenderError(generator.TypePdf2image, generator.ErrCorrupt, err)
	}
	return total, nil
}

// parsePdfInfoOutput extracts the page count from pdfinfo output.
func parsePdfInfoOutput(s string) (int, error) {
	scanner := bufio.NewScanner(strings.NewReader(s))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("invalid page count line %q: %w", line, err)
		}
		return n, nil
	}
	return 0, errors.New("pdfinfo output has no page count")
}

// collectPages decodes pdftoppm's "<prefix>-<n>.png" files. pdftoppm pads n
// to the width of the document's page count, so the number is parsed rather
// than the names sorted.
func collectPages(dir string, first, last int) ([]generator.PageImage, error) {
	matches, err := filepath.Glob(filepath.Join(dir, outputPrefix+"-*.png"))
	if err != nil {
		return nil, generator.NewRenderError(generator.TypePdf2image, generator.ErrBackend, err)
	}

	type numbered struct {
		index int
		path  string
	}
	files := make([]numbered, 0, len(matches))
	for _, m := range matches {
		base := strings.TrimSuffix(filepath.Base(m), ".png")
		n, err := strconv.Atoi(strings.TrimPrefix(base, outputPrefix+"-"))
		if err != nil {
			continue
		}
		files = append(files, numbered{index: n - 1, path: m})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

	want := last - first + 1
	if len(files) != want {
		return nil, generator.NewRenderError(generator.TypePdf2image, generator.ErrBackend,
			fmt.Errorf("pdftoppm produced %d pages, expected %d", len(files), want))
	}

	pages := make([]generator.PageImage, 0, want)
	for i, f := range files {
		if f.index != first+i {
			return nil, generator.NewPageError(generator.TypePdf2image, generator.ErrBackend, first+i,
				fmt.Errorf("pdftoppm output is missing page %d", first+i+1))
		}
		img, err := imaging.Open(f.path)
		if err != nil {
			return nil, generator.NewPageError(generator.TypePdf2image, generator.ErrBackend, f.index,
				fmt.Errorf("failed to decode pdftoppm output: %w", err))
		}
		pages = append(pages, generator.PageImage{Index: f.index, Image: img})
	}
	return pages, nil
}

// Close is a no-op; no process outlives a render.
func (g *Generator) Close() error {
	return nil
}
