package pdfium

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/testutil/pdffixture"
)

func newGenerator(t *testing.T) generator.Generator {
	t.Helper()
	gen, err := New(generator.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = gen.Close() })
	return gen
}

func TestRender_PagesInOrder(t *testing.T) {
	gen := newGenerator(t)

	for _, n := range []int{1, 3} {
		pages, err := gen.Render(context.Background(), &generator.RenderRequest{Data: pdffixture.Build(n), DPI: 72})
		require.NoError(t, err)
		require.Len(t, pages, n)
		for i, p := range pages {
			assert.Equal(t, i, p.Index)
			assert.Equal(t, 72, p.Image.Bounds().Dx())
		}
	}
}

func TestRender_ZeroPages(t *testing.T) {
	gen := newGenerator(t)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Data: pdffixture.Build(0)})
	require.NoError(t, err)
	assert.NotNil(t, pages)
	assert.Empty(t, pages)
}

func TestRender_ReadsPathWhenDataEmpty(t *testing.T) {
	gen := newGenerator(t)
	path := pdffixture.Write(t, t.TempDir(), "two.pdf", 2)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Path: path, DPI: 36})
	require.NoError(t, err)
	assert.Len(t, pages, 2)
	assert.Equal(t, 36, pages[0].Image.Bounds().Dx())
}

func TestRender_Span(t *testing.T) {
	gen := newGenerator(t)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{
		Data: pdffixture.Build(4), DPI: 36, FirstPage: 3, LastPage: 10,
	})
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, 2, pages[0].Index)
	assert.Equal(t, 3, pages[1].Index)

	_, err = gen.Render(context.Background(), &generator.RenderRequest{Data: pdffixture.Build(2), FirstPage: 3})
	assert.ErrorIs(t, err, generator.ErrUnsupportedOption)
}

func TestRender_Corrupt(t *testing.T) {
	gen := newGenerator(t)

	pages, err := gen.Render(context.Background(), &generator.RenderRequest{Data: pdffixture.Corrupt()})
	require.Error(t, err)
	assert.Nil(t, pages)
	assert.ErrorIs(t, err, generator.ErrCorrupt)

	var renderErr *generator.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, generator.TypePypdfium2, renderErr.Generator)
}

func TestRender_Unreadable(t *testing.T) {
	gen := newGenerator(t)

	_, err := gen.Render(context.Background(), &generator.RenderRequest{Path: "/nonexistent/file.pdf"})
	assert.ErrorIs(t, err, generator.ErrUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRender_AfterClose(t *testing.T) {
	gen, err := New(generator.Options{})
	require.NoError(t, err)
	require.NoError(t, gen.Close())

	_, err = gen.Render(context.Background(), &generator.RenderRequest{Data: pdffixture.Build(1)})
	assert.ErrorIs(t, err, generator.ErrBackend)
}
