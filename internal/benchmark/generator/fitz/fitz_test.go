package fitz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/testutil/pdffixture"
)

func render(t *testing.T, req *generator.RenderRequest) ([]generator.PageImage, error) {
	t.Helper()
	gen, err := New(generator.Options{})
	require.NoError(t, err)
	defer gen.Close()
	return gen.Render(context.Background(), req)
}

func TestRender_PagesInOrder(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "three.pdf", 3)

	pages, err := render(t, &generator.RenderRequest{Path: path, DPI: 72})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
		require.NotNil(t, p.Image)
		assert.InDelta(t, 72, p.Image.Bounds().Dx(), 1)
	}
}

func TestRender_DPIScalesOutput(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "one.pdf", 1)

	pages, err := render(t, &generator.RenderRequest{Path: path, DPI: 144})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.InDelta(t, 144, pages[0].Image.Bounds().Dx(), 1)
}

func TestRender_Span(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "five.pdf", 5)

	pages, err := render(t, &generator.RenderRequest{Path: path, DPI: 36, FirstPage: 2, LastPage: 4})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{pages[0].Index, pages[1].Index, pages[2].Index})
}

func TestRender_PasswordUnsupported(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "one.pdf", 1)

	_, err := render(t, &generator.RenderRequest{Path: path, Password: "secret"})
	assert.ErrorIs(t, err, generator.ErrUnsupportedOption)
}

func TestRender_ZeroPages(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "empty.pdf", 0)

	pages, err := render(t, &generator.RenderRequest{Path: path})
	require.NoError(t, err)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestRender_Corrupt(t *testing.T) {
	path := pdffixture.WriteBytes(t, t.TempDir(), "bad.pdf", pdffixture.Corrupt())

	pages, err := render(t, &generator.RenderRequest{Path: path})
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.ErrorIs(t, err, generator.ErrCorrupt)

	var renderErr *generator.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, generator.TypeFitz, renderErr.Generator)
}
