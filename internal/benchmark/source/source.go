// Package source finds input PDFs and loads them before a timed render.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

// ErrNoDocuments is returned when an input directory holds no PDF files.
var ErrNoDocuments = errors.New("no PDF documents found")

// Document is a source PDF held in memory.
type Document struct {
	Path string
	Data []byte
}

// Name returns the file name of the document.
func (d *Document) Name() string {
	return filepath.Base(d.Path)
}

// Size returns the document size in bytes.
func (d *Document) Size() int64 {
	return int64(len(d.Data))
}

// Discover resolves input to the PDFs to render. A file is returned as is,
// whatever its extension. A directory yields its *.pdf entries sorted by
// name, without descending into subdirectories.
func Discover(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, generator.NewRenderError("", generator.ErrUnreadable,
			fmt.Errorf("unable to access input %s: %w", input, err))
	}
	if !info.IsDir() {
		return []string{input}, nil
	}

	entries, err := os.ReadDir(input)
	if err != nil {
		return nil, generator.NewRenderError("", generator.ErrUnreadable,
			fmt.Errorf("unable to list input directory %s: %w", input, err))
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		paths = append(paths, filepath.Join(input, entry.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDocuments, input)
	}
	sort.Strings(paths)
	return paths, nil
}

// Load reads path fully. Failures are RenderErrors of kind ErrUnreadable.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, generator.NewRenderError("", generator.ErrUnreadable,
			fmt.Errorf("unable to read %s: %w", path, err))
	}
	return &Document{Path: path, Data: data}, nil
}

// CountPages reads the page count with a pure Go parser, independently of
// any rendering backend. The parser panics on some malformed input, which is
// reported as an error.
func CountPages(data []byte, password string) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	readerAt := bytes.NewReader(data)
	var reader *pdf.Reader
	if password != "" {
		tried := false
		reader, err = pdf.NewReaderEncrypted(readerAt, int64(len(data)), func() string {
			if tried {
				return ""
			}
			tried = true
			return password
		})
	} else {
		reader, err = pdf.NewReader(readerAt, int64(len(data)))
	}
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}
