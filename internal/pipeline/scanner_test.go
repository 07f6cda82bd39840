package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestScanImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.jpg"), []byte("a"))
	writeFile(t, filepath.Join(dir, "b.TIFF"), []byte("bb"))
	writeFile(t, filepath.Join(dir, "notes.txt"), []byte("skip"))
	writeFile(t, filepath.Join(dir, "cards", "c.png"), []byte("ccc"))
	writeFile(t, filepath.Join(dir, ".cache", "d.png"), []byte("hidden"))

	loose := filepath.Join(t.TempDir(), "raw.dat")
	writeFile(t, loose, []byte("explicit"))

	sources, err := ScanImages(dir, loose)
	require.NoError(t, err)

	var names []string
	for _, s := range sources {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"a.jpg", "b.TIFF", "cards/c.png", "raw.dat"}, names)
	assert.Equal(t, int64(3), sources[2].Size)

	items, err := LoadItems(sources)
	require.NoError(t, err)
	require.Len(t, items, 4)
	assert.Equal(t, "cards/c.png", items[2].Name)
	assert.Equal(t, []byte("explicit"), items[3].Data)
}

func TestScanImages_Missing(t *testing.T) {
	_, err := ScanImages(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("x.JPG"))
	assert.True(t, IsImageFile("dir/x.tif"))
	assert.False(t, IsImageFile("x.txt"))
	assert.False(t, IsImageFile("x"))
}
