// Package generator defines the contract shared by every PDF rendering backend.
package generator

import (
	"context"
	"image"
	"time"
)

// Type identifies a rendering backend.
type Type string

const (
	// TypeWand renders through ImageMagick's MagickWand API.
	TypeWand Type = "wand"

	// TypePdf2image renders through poppler's pdftoppm.
	TypePdf2image Type = "pdf2image"

	// TypeFitz renders through MuPDF.
	TypeFitz Type = "fitz"

	// TypePypdfium2 renders through PDFium.
	TypePypdfium2 Type = "pypdfium2"

	// TypePyvips renders through libvips' pdfload.
	TypePyvips Type = "pyvips"
)

// DefaultDPI is used when a request leaves DPI unset.
const DefaultDPI = 150

// Generator converts one PDF document into an ordered sequence of page images.
//
// Implementations wrap exactly one third-party library and must not leak any
// of its types through this interface.
type Generator interface {
	// Type returns the backend identifier.
	Type() Type

	// Render returns one PageImage per page of the requested span, in source
	// order. On failure it returns a nil slice and a *RenderError.
	Render(ctx context.Context, req *RenderRequest) ([]PageImage, error)

	// Close releases the backend's resources.
	Close() error
}

// Options configures backend construction.
type Options struct {
	// PdftoppmPath and PdfinfoPath locate the poppler executables. Empty means
	// look them up in PATH.
	PdftoppmPath string
	PdfinfoPath  string
}

// RenderRequest describes one document to render. It is read-only once built.
type RenderRequest struct {
	// Path is the source PDF on disk.
	Path string

	// Data holds the bytes of Path, loaded before the timed render starts.
	Data []byte

	// DPI is the target resolution. Zero means DefaultDPI.
	DPI int

	// FirstPage and LastPage bound the span to render, 1-based and inclusive.
	// Zero leaves the bound open.
	FirstPage int
	LastPage  int

	// Password unlocks encrypted documents.
	Password string
}

// Resolution returns the effective DPI of the request.
func (r *RenderRequest) Resolution() int {
	if r.DPI <= 0 {
		return DefaultDPI
	}
	return r.DPI
}

// PageImage is one rendered page.
type PageImage struct {
	// Index is the 0-based page index in the source document.
	Index int

	// Image holds the rendered raster.
	Image image.Image
}

// RenderResult is the output of one timed render.
type RenderResult struct {
	Generator Type
	Source    string
	Pages     []PageImage
	Elapsed   time.Duration
}

// PageCount returns the number of rendered pages.
func (r *RenderResult) PageCount() int {
	if r == nil {
		return 0
	}
	return len(r.Pages)
}
