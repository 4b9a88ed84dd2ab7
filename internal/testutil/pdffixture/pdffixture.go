// Package pdffixture builds small, valid PDF documents for tests.
package pdffixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// PageSize is the edge length of every generated page, in points.
const PageSize = 72

// Build returns a PDF with the given number of one-inch square pages. Each
// page carries a filled rectangle whose shade depends on the page number, so
// rendered pages differ from each other.
func Build(pages int) []byte {
	var buf bytes.Buffer
	offsets := []int{0}

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets)-1, body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	kids := &bytes.Buffer{}
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(kids, "%d 0 R", 3+2*i)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), pages))

	for i := 0; i < pages; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %d %d] /Contents %d 0 R /Resources << >> >>",
			PageSize, PageSize, 4+2*i))
		shade := float64(i%10) / 10
		content := fmt.Sprintf("%.1f %.1f 1 rg 8 8 56 56 re f", shade, 1-shade)
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xref)

	return buf.Bytes()
}

// Corrupt returns bytes that carry a PDF header but no objects, xref or
// trailer, so no reader can recover a document from them.
func Corrupt() []byte {
	data := []byte("%PDF-1.7\n")
	for i := 0; i < 512; i++ {
		data = append(data, byte(i*31+7))
	}
	return data
}

// Write stores a generated PDF under dir and returns its path.
func Write(t testing.TB, dir, name string, pages int) string {
	t.Helper()
	return WriteBytes(t, dir, name, Build(pages))
}

// WriteBytes stores data under dir and returns its path.
func WriteBytes(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}
