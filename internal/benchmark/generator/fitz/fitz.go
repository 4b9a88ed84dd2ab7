// Package fitz renders PDFs with MuPDF through go-fitz.
package fitz

import (
	"context"
	"errors"
	"fmt"
	"image"

	gofitz "github.com/gen2brain/go-fitz"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

// Generator implements generator.Generator using go-fitz (requires CGo and MuPDF).
type Generator struct{}

// New creates a MuPDF backed generator. Documents are opened per render.
func New(generator.Options) (generator.Generator, error) {
	return &Generator{}, nil
}

// Type implements generator.Generator.
func (g *Generator) Type() generator.Type {
	return generator.TypeFitz
}

// Render rasterizes the requested span at the request DPI.
//
// go-fitz has no way to pass a document password, so a request carrying one
// fails with ErrUnsupportedOption rather than rendering a locked document.
func (g *Generator) Render(ctx context.Context, req *generator.RenderRequest) ([]generator.PageImage, error) {
	if req.Password != "" {
		return nil, generator.NewRenderError(generator.TypeFitz, generator.ErrUnsupportedOption,
			errors.New("password protected documents are not supported by go-fitz"))
	}

	doc, err := gofitz.New(req.Path)
	if err != nil {
		return nil, generator.NewRenderError(generator.TypeFitz, generator.ErrCorrupt,
			fmt.Errorf("unable to open PDF document: %w", err))
	}
	defer doc.Close()

	total := doc.NumPage()
	if total < 0 {
		return nil, generator.NewRenderError(generator.TypeFitz, generator.ErrCorrupt,
			errors.New("unable to count pages"))
	}

	first, last, ok, err := req.Span(generator.TypeFitz, total)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []generator.PageImage{}, nil
	}

	dpi := float64(req.Resolution())
	pages := make([]generator.PageImage, 0, last-first+1)
	for pageNum := first; pageNum <= last; pageNum++ {
		var img image.Image
		img, err = doc.ImageDPI(pageNum, dpi)
		if err != nil {
			return nil, generator.NewPageError(generator.TypeFitz, generator.ErrBackend, pageNum,
				fmt.Errorf("unable to render page: %w", err))
		}
		pages = append(pages, generator.PageImage{Index: pageNum, Image: img})
	}

	return pages, nil
}

// Close is a no-op; each document is closed at the end of its render.
func (g *Generator) Close() error {
	return nil
}
