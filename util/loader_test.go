package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDirectoryImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pgm", "a.pgm", "notes.txt", "upper.PGM", "c.pgm.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("P2\n1 1\n255\n0\n"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pgm"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.pgm", "d.pgm"), []byte("P2\n1 1\n255\n0\n"), 0o644))

	files, err := LoadDirectoryImageFiles(dir, ".pgm")
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, ImageFile{Path: filepath.Join(dir, "a.pgm"), Name: "a.pgm", Base: "a"}, files[0])
	assert.Equal(t, "b.pgm", files[1].Name)
	assert.Equal(t, "b", files[1].Base)
}

func TestLoadDirectoryImageFilesEmpty(t *testing.T) {
	files, err := LoadDirectoryImageFiles(t.TempDir(), ".pgm")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoadDirectoryImageFilesMissing(t *testing.T) {
	_, err := LoadDirectoryImageFiles(filepath.Join(t.TempDir(), "missing"), ".pgm")
	assert.Error(t, err)
}
