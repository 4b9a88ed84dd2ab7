// Package backends wires every rendering adapter into a generator registry.
//
// The adapters link native libraries (ImageMagick, MuPDF, libvips), so only
// binaries that need them import this package.
package backends

import (
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator/fitz"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator/pdf2image"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator/pdfium"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator/vips"
	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator/wand"
)

// Register installs the factory of every supported backend into r.
func Register(r *generator.Registry) {
	r.Register(generator.TypeWand, wand.New)
	r.Register(generator.TypePdf2image, pdf2image.New)
	r.Register(generator.TypeFitz, fitz.New)
	r.Register(generator.TypePypdfium2, pdfium.New)
	r.Register(generator.TypePyvips, vips.New)
}

// NewRegistry returns a registry with every backend registered.
func NewRegistry() *generator.Registry {
	r := generator.NewRegistry()
	Register(r)
	return r
}
