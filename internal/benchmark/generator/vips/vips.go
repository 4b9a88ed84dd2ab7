// Package vips renders PDFs with libvips' pdfload through govips.
package vips

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	govips "github.com/davidbyttow/govips/v2/vips"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/source"
)

// libvips can be started once per process and not restarted after shutdown,
// so the runtime stays up for the life of the process.
var startOnce sync.Once

// white is the background pages with an alpha channel are flattened onto.
var white = &govips.Color{R: 255, G: 255, B: 255}

// Generator implements generator.Generator using govips (requires CGo and
// libvips built with poppler or PDFium).
type Generator struct{}

// New starts the libvips runtime on first use.
func New(generator.Options) (generator.Generator, error) {
	startOnce.Do(func() {
		govips.LoggingSettings(nil, govips.LogLevelError)
		govips.Startup(nil)
	})
	return &Generator{}, nil
}

// Type implements generator.Generator.
func (g *Generator) Type() generator.Type {
	return generator.TypePyvips
}

// Render loads each page of the span as its own image at the request density.
//
// govips exposes no password parameter for pdfload, so a request carrying one
// fails with ErrUnsupportedOption.
func (g *Generator) Render(ctx context.Context, req *generator.RenderRequest) ([]generator.PageImage, error) {
	if req.Password != "" {
		return nil, generator.NewRenderError(generator.TypePyvips, generator.ErrUnsupportedOption,
			errors.New("password protected documents are not supported by govips"))
	}

	data := req.Data
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(req.Path)
		if err != nil {
			return nil, generator.NewRenderError(generator.TypePyvips, generator.ErrUnreadable,
				fmt.Errorf("unable to read PDF file: %w", err))
		}
	}

	dpi := req.Resolution()

	// The first page carries the document's n-pages metadata.
	head, err := loadPage(data, 0, dpi)
	if err != nil {
		// pdfload cannot open a document without pages.
		if n, countErr := source.CountPages(data, ""); countErr == nil && n == 0 {
			if _, _, _, spanErr := req.Span(generator.TypePyvips, 0); spanErr != nil {
				return nil, spanErr
			}
			return []generator.PageImage{}, nil
		}
		return nil, generator.NewRenderError(generator.TypePyvips, generator.ErrCorrupt,
			fmt.Errorf("unable to open PDF document: %w", err))
	}
	total := head.Pages()

	first, last, ok, err := req.Span(generator.TypePyvips, total)
	if err != nil {
		head.Close()
		return nil, err
	}
	if !ok {
		head.Close()
		return []generator.PageImage{}, nil
	}
	if first != 0 {
		head.Close()
		head = nil
	}

	pages := make([]generator.PageImage, 0, last-first+1)
	for pageIndex := first; pageIndex <= last; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return nil, generator.NewPageError(generator.TypePyvips, generator.ErrBackend, pageIndex, err)
		}

		ref := head
		head = nil
		if ref == nil {
			ref, err = loadPage(data, pageIndex, dpi)
			if err != nil {
				return nil, generator.NewPageError(generator.TypePyvips, generator.ErrBackend, pageIndex,
					fmt.Errorf("unable to load page: %w", err))
			}
		}

		img, err := toImage(ref)
		ref.Close()
		if err != nil {
			return nil, generator.NewPageError(generator.TypePyvips, generator.ErrBackend, pageIndex,
				fmt.Errorf("unable to render page: %w", err))
		}
		pages = append(pages, generator.PageImage{Index: pageIndex, Image: img})
	}

	return pages, nil
}

func loadPage(data []byte, pageIndex, dpi int) (*govips.ImageRef, error) {
	params := govips.NewImportParams()
	params.Page.Set(pageIndex)
	params.NumPages.Set(1)
	params.Density.Set(dpi)
	return govips.LoadImageFromBuffer(data, params)
}

// toImage copies the raw pixels of ref into an NRGBA image, flattened onto
// white, without an encode and decode round-trip.
func toImage(ref *govips.ImageRef) (image.Image, error) {
	if ref.HasAlpha() {
		if err := ref.Flatten(white); err != nil {
			return nil, err
		}
	}
	if err := ref.ToColorSpace(govips.InterpretationSRGB); err != nil {
		return nil, err
	}
	if ref.BandFormat() != govips.BandFormatUchar {
		if err := ref.Cast(govips.BandFormatUchar); err != nil {
			return nil, err
		}
	}

	raw, err := ref.ToBytes()
	if err != nil {
		return nil, err
	}
	return nrgbaFromBytes(raw, ref.Width(), ref.Height(), ref.Bands())
}

// nrgbaFromBytes builds an NRGBA image from interleaved 8-bit RGB or RGBA
// pixels.
func nrgbaFromBytes(raw []byte, width, height, bands int) (*image.NRGBA, error) {
	if bands != 3 && bands != 4 {
		return nil, fmt.Errorf("unsupported band count %d", bands)
	}
	if len(raw) != width*height*bands {
		return nil, fmt.Errorf("pixel buffer holds %d bytes, expected %d", len(raw), width*height*bands)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	if bands == 4 {
		copy(img.Pix, raw)
		return img, nil
	}
	for src, dst := 0, 0; src < len(raw); src, dst = src+3, dst+4 {
		copy(img.Pix[dst:dst+3], raw[src:src+3])
		img.Pix[dst+3] = 0xff
	}
	return img, nil
}

// Close is a no-op; see startOnce.
func (g *Generator) Close() error {
	return nil
}
