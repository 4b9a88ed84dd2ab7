package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/pdfbench/internal/benchmark/generator"
	"github.com/wesleyorama2/pdfbench/internal/testutil/pdffixture"
)

func TestDiscover_File(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "one.pdf", 1)

	paths, err := Discover(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestDiscover_DirectorySorted(t *testing.T) {
	dir := t.TempDir()
	pdffixture.Write(t, dir, "b.pdf", 1)
	pdffixture.Write(t, dir, "a.PDF", 1)
	pdffixture.Write(t, dir, "notes.txt", 1)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	paths, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.PDF"), filepath.Join(dir, "b.pdf")}, paths)
}

func TestDiscover_EmptyDirectory(t *testing.T) {
	_, err := Discover(t.TempDir())
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestDiscover_Missing(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, generator.ErrUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad(t *testing.T) {
	path := pdffixture.Write(t, t.TempDir(), "two.pdf", 2)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "two.pdf", doc.Name())
	assert.Equal(t, int64(len(pdffixture.Build(2))), doc.Size())

	_, err = Load(filepath.Join(t.TempDir(), "missing.pdf"))
	var renderErr *generator.RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, generator.ErrUnreadable, renderErr.Kind)
}

func TestCountPages(t *testing.T) {
	for _, n := range []int{1, 3, 7} {
		got, err := CountPages(pdffixture.Build(n), "")
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestCountPages_Corrupt(t *testing.T) {
	_, err := CountPages(pdffixture.Corrupt(), "")
	assert.Error(t, err)

	_, err = CountPages([]byte("not a pdf"), "")
	assert.Error(t, err)
}
