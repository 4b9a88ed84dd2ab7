// Package bench provides a library API for benchmarking PDF-to-image
// rendering backends.
//
// The same sweep the pdfbench command runs is available programmatically:
//
//	cfg := bench.DefaultConfig()
//	cfg.GeneratorType = "pypdfium2"
//	cfg.Input = "testdata/report.pdf"
//	cfg.DPI = []int{72, 150}
//
//	result, err := bench.Run(context.Background(), cfg, os.Stdout)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Pages: %d\n", result.Metrics.TotalPages)
//	fmt.Printf("P95: %v\n", result.Metrics.Render.P95)
//
// Each successful run writes one stats line to the given writer, e.g.
//
//	generator=pypdfium2 pages=12 dpi=150 quality=85 format=png elapsed=0.8312 seconds
//
// # Generators
//
// Five backends are built in: wand (ImageMagick), pdf2image (poppler),
// fitz (MuPDF), pypdfium2 (PDFium) and pyvips (libvips). Generators lists
// them with the library each one wraps.
//
// # Reports
//
// WriteReports writes the JSON, HTML and Prometheus textfile reports named in
// the configuration.
package bench
