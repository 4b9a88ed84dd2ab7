// Package pdfium renders PDFs with PDFium through go-pdfium's webassembly
// runtime (pure Go, no CGo).
package pdfium

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/disintegration/imaging"
	gopdfium "github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
)

// instanceTimeout bounds how long New waits for a worker from the pool.
const instanceTimeout = 30 * time.Second

// Generator implements generator.Generator using a single PDFium instance.
type Generator struct {
	pool     gopdfium.Pool
	instance gopdfium.Pdfium
}

// New starts a one-worker webassembly pool. The startup cost is paid here so
// it stays outside the timed render.
func New(generator.Options) (generator.Generator, error) {
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	instance, err := pool.GetInstance(instanceTimeout)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &Generator{pool: pool, instance: instance}, nil
}

// Type implements generator.Generator.
func (g *Generator) Type() generator.Type {
	return generator.TypePypdfium2
}

// Render opens the request bytes (reading Path when Data is empty) and
// renders each page of the span at the request DPI.
func (g *Generator) Render(ctx context.Context, req *generator.RenderRequest) ([]generator.PageImage, error) {
	if g.instance == nil {
		return nil, generator.NewRenderError(generator.TypePypdfium2, generator.ErrBackend, errors.New("generator is closed"))
	}

	data := req.Data
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(req.Path)
		if err != nil {
			return nil, generator.NewRenderError(generator.TypePypdfium2, generator.ErrUnreadable,
				fmt.Errorf("unable to read PDF file: %w", err))
		}
	}

	openReq := &requests.OpenDocument{File: &data}
	if req.Password != "" {
		password := req.Password
		openReq.Password = &password
	}

	doc, err := g.instance.OpenDocument(openReq)
	if err != nil {
		return nil, generator.NewRenderError(generator.TypePypdfium2, generator.ErrCorrupt,
			fmt.Errorf("unable to open PDF document: %w", err))
	}
	defer g.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	pageCount, err := g.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		return nil, generator.NewRenderError(generator.TypePypdfium2, generator.ErrCorrupt,
			fmt.Errorf("unable to get page count: %w", err))
	}

	first, last, ok, err := req.Span(generator.TypePypdfium2, pageCount.PageCount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []generator.PageImage{}, nil
	}

	dpi := req.Resolution()
	pages := make([]generator.PageImage, 0, last-first+1)
	for pageIndex := first; pageIndex <= last; pageIndex++ {
		pageRender, err := g.instance.RenderPageInDPI(&requests.RenderPageInDPI{
			DPI: dpi,
			Page: requests.Page{
				ByIndex: &requests.PageByIndex{
					Document: doc.Document,
					Index:    pageIndex,
				},
			},
		})
		if err != nil {
			return nil, generator.NewPageError(generator.TypePypdfium2, generator.ErrBackend, pageIndex,
				fmt.Errorf("unable to render page: %w", err))
		}

		// The rendered buffer is released by Cleanup, so keep a copy.
		img := imaging.Clone(pageRender.Result.Image)
		pageRender.Cleanup()

		pages = append(pages, generator.PageImage{Index: pageIndex, Image: img})
	}

	return pages, nil
}

// Close shuts the webassembly pool down.
func (g *Generator) Close() error {
	var err error
	if g.instance != nil {
		err = g.instance.Close()
		g.instance = nil
	}
	if g.pool != nil {
		if closeErr := g.pool.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		g.pool = nil
	}
	return err
}
