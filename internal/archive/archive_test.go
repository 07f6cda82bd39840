package archive

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/imgbudget/internal/encoder"
	"github.com/AnyUserName/imgbudget/internal/hasher"
	"github.com/AnyUserName/imgbudget/internal/pipeline"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "converted_images_webp.zip", FileName(encoder.WebP))
	assert.Equal(t, "converted_images_avif.zip", FileName(encoder.AVIF))
}

func TestPack(t *testing.T) {
	rep := &pipeline.Report{Results: []pipeline.Result{
		{Source: "a.jpg", Output: "a.webp", Data: []byte("first")},
		{Source: "bad.png", Err: errors.New("decode bad.png: empty input")},
		{Source: "a.png", Output: "a.webp", Data: []byte("second")},
		{Source: "sub/c.tif", Output: "sub/c.webp", Data: []byte("third")},
	}}

	var buf bytes.Buffer
	names, err := Pack(&buf, rep)
	require.NoError(t, err)

	dup := "a-" + hasher.Short(hasher.ContentHash([]byte("second"))) + ".webp"
	assert.Equal(t, []string{"a.webp", "", dup, "sub/c.webp"}, names)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 3)

	got := map[string]string{}
	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		got[f.Name] = string(data)
	}
	assert.Equal(t, map[string]string{"a.webp": "first", dup: "second", "sub/c.webp": "third"}, got)
}

func TestWriter_SameContentCollision(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	n1, err := w.Add("x.webp", []byte("same"))
	require.NoError(t, err)
	n2, err := w.Add("x.webp", []byte("same"))
	require.NoError(t, err)
	n3, err := w.Add("x.webp", []byte("same"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, "x.webp", n1)
	assert.NotEqual(t, n1, n2)
	assert.NotEqual(t, n2, n3)
}

func TestWriter_CleansNames(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	name, err := w.Add("../../etc/x.webp", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "etc/x.webp", name)
}

func TestReadEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	_, err = Pack(f, &pipeline.Report{Results: []pipeline.Result{
		{Source: "a.jpg", Output: "a.webp", Data: []byte("payload")},
	}})
	require.NoError(t, err)
	require.NoError(t, f.Close())

	entries, err := ReadEntries(path)
	require.NoError(t, err)
	require.Contains(t, entries, "a.webp")
	assert.Equal(t, int64(7), entries["a.webp"].Size)
	assert.Equal(t, hasher.ContentHash([]byte("payload")), entries["a.webp"].Hash)
}
