package wand

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/testutil/pdffixture"
)

func newGenerator(t *testing.T) generator.Generator {
	t.Helper()
	if _, err := exec.LookPath("gs"); err != nil {
		t.Skip("ghostscript is required for ImageMagick PDF input")
	}
	gen, err := New(generator.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = gen.Close() })
	return gen
}

func TestRender_PagesInOrder(t *testing.T) {
	gen := newGenerator(t)
	path := pdffixture.Write(t, t.TempDir(), "three.pdf", 3)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Path: path, DPI: 72})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i, p.Index)
		assert.InDelta(t, pdffixture.PageSize, p.Image.Bounds().Dx(), 1)
	}
}

func TestRender_Span(t *testing.T) {
	gen := newGenerator(t)
	path := pdffixture.Write(t, t.TempDir(), "five.pdf", 5)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Path: path, DPI: 36, FirstPage: 2, LastPage: 3})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 1, pages[0].Index)
	assert.Equal(t, 2, pages[1].Index)
}

func TestRender_Corrupt(t *testing.T) {
	gen := newGenerator(t)
	path := pdffixture.WriteBytes(t, t.TempDir(), "bad.pdf", pdffixture.Corrupt())

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Path: path})
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.ErrorIs(t, err, generator.ErrCorrupt)
}

func TestRender_AfterClose(t *testing.T) {
	gen := newGenerator(t)
	require.NoError(t, gen.Close())
	require.NoError(t, gen.Close())

	_, err := gen.Render(context.Background(), &generator.RenderRequest{Path: "unused.pdf"})
	assert.ErrorIs(t, err, generator.ErrBackend)
}

func TestRender_ZeroPages(t *testing.T) {
	gen := newGenerator(t)
	path := pdffixture.Write(t, t.TempDir(), "empty.pdf", 0)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Path: path})
	require.NoError(t, err)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}
