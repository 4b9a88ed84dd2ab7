// Package wand renders PDFs with ImageMagick through the MagickWand API.
// ImageMagick hands PDF input to its Ghostscript delegate, so gs must be
// installed alongside the library.
package wand

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"gopkg.in/gographics/imagick.v3/imagick"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/source"
)

var (
	envMu   sync.Mutex
	envRefs int
)

// acquire initializes the MagickWand environment for the first live generator.
func acquire() {
	envMu.Lock()
	defer envMu.Unlock()
	if envRefs == 0 {
		imagick.Initialize()
	}
	envRefs++
}

// release terminates the environment once the last generator closes.
func release() {
	envMu.Lock()
	defer envMu.Unlock()
	envRefs--
	if envRefs == 0 {
		imagick.Terminate()
	}
}

// Generator implements generator.Generator using imagick (requires CGo and
// ImageMagick 7).
type Generator struct {
	mu     sync.Mutex
	closed bool
}

// New initializes the MagickWand environment.
func New(generator.Options) (generator.Generator, error) {
	acquire()
	return &Generator{}, nil
}

// Type implements generator.Generator.
func (g *Generator) Type() generator.Type {
	return generator.TypeWand
}

// Render pings the document for its page count, then reads the span at the
// request resolution and converts each frame to an sRGB raster flattened
// onto white.
func (g *Generator) Render(ctx context.Context, req *generator.RenderRequest) ([]generator.PageImage, error) {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return nil, generator.NewRenderError(generator.TypeWand, generator.ErrBackend, errors.New("generator is closed"))
	}

	total, err := pageCount(req)
	if err != nil {
		return nil, err
	}

	first, last, ok, err := req.Span(generator.TypeWand, total)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []generator.PageImage{}, nil
	}

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	dpi := float64(req.Resolution())
	if err := mw.SetResolution(dpi, dpi); err != nil {
		return nil, generator.NewRenderError(generator.TypeWand, generator.ErrBackend,
			fmt.Errorf("unable to set resolution: %w", err))
	}
	if err := setPassword(mw, req.Password); err != nil {
		return nil, err
	}

	if err := mw.ReadImage(fmt.Sprintf("%s[%d-%d]", req.Path, first, last)); err != nil {
		return nil, generator.NewRenderError(generator.TypeWand, generator.ErrCorrupt,
			fmt.Errorf("unable to read PDF document: %w", err))
	}

	frames := int(mw.GetNumberImages())
	if frames != last-first+1 {
		return nil, generator.NewRenderError(generator.TypeWand, generator.ErrBackend,
			fmt.Errorf("read %d frames, expected %d", frames, last-first+1))
	}

	background := imagick.NewPixelWand()
	defer background.Destroy()
	background.SetColor("white")

	pages := make([]generator.PageImage, 0, frames)
	for i := 0; i < frames; i++ {
		pageIndex := first + i
		if err := ctx.Err(); err != nil {
			return nil, generator.NewPageError(generator.TypeWand, generator.ErrBackend, pageIndex, err)
		}

		mw.SetIteratorIndex(i)
		img, err := frameImage(mw, background)
		if err != nil {
			return nil, generator.NewPageError(generator.TypeWand, generator.ErrBackend, pageIndex,
				fmt.Errorf("unable to convert page: %w", err))
		}
		pages = append(pages, generator.PageImage{Index: pageIndex, Image: img})
	}

	return pages, nil
}

// pageCount pings the document, which reads its structure without keeping
// any pixel data.
func pageCount(req *generator.RenderRequest) (int, error) {
	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := setPassword(mw, req.Password); err != nil {
		return 0, err
	}
	if err := mw.PingImage(req.Path); err != nil {
		// Ghostscript produces no frames for a document without pages.
		if isEmptyDocument(req) {
			return 0, nil
		}
		return 0, generator.NewRenderError(generator.TypeWand, generator.ErrCorrupt,
			fmt.Errorf("unable to open PDF document: %w", err))
	}
	return int(mw.GetNumberImages()), nil
}

// isEmptyDocument reports whether the request document parses as a PDF with
// no pages.
func isEmptyDocument(req *generator.RenderRequest) bool {
	data := req.Data
	if len(data) == 0 {
		var err error
		if data, err = os.ReadFile(req.Path); err != nil {
			return false
		}
	}
	n, err := source.CountPages(data, req.Password)
	return err == nil && n == 0
}

func setPassword(mw *imagick.MagickWand, password string) error {
	if password == "" {
		return nil
	}
	if err := mw.SetOption("authenticate", password); err != nil {
		return generator.NewRenderError(generator.TypeWand, generator.ErrBackend,
			fmt.Errorf("unable to set password: %w", err))
	}
	return nil
}

// frameImage flattens the current frame and copies its pixels out as NRGBA.
func frameImage(mw *imagick.MagickWand, background *imagick.PixelWand) (image.Image, error) {
	if err := mw.SetImageBackgroundColor(background); err != nil {
		return nil, err
	}
	if err := mw.SetImageAlphaChannel(imagick.ALPHA_CHANNEL_REMOVE); err != nil {
		return nil, err
	}
	if err := mw.TransformImageColorspace(imagick.COLORSPACE_SRGB); err != nil {
		return nil, err
	}

	width, height := mw.GetImageWidth(), mw.GetImageHeight()
	raw, err := mw.ExportImagePixels(0, 0, width, height, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, err
	}
	pix, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected pixel buffer type %T", raw)
	}
	if len(pix) != int(width*height*4) {
		return nil, fmt.Errorf("pixel buffer holds %d bytes, expected %d", len(pix), width*height*4)
	}

	return &image.NRGBA{
		Pix:    pix,
		Stride: int(width) * 4,
		Rect:   image.Rect(0, 0, int(width), int(height)),
	}, nil
}

// Close releases this generator's hold on the MagickWand environment.
func (g *Generator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	release()
	return nil
}
