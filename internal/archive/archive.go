// Package archive packs converted images into a zip file.
package archive

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/AnyUserName/imgbudget/internal/encoder"
	"github.com/AnyUserName/imgbudget/internal/hasher"
	"github.com/AnyUserName/imgbudget/internal/pipeline"
	"github.com/klauspost/compress/zip"
)

// FileName returns the archive name used for a codec,
// e.g. converted_images_webp.zip.
func FileName(c encoder.Codec) string {
	return fmt.Sprintf("converted_images_%s.zip", c.Extension())
}

// Writer adds named byte buffers to a zip stream. Entries are stored
// without recompression since WebP and AVIF are already compressed.
type Writer struct {
	zw       *zip.Writer
	used     map[string]bool
	modified time.Time
}

// NewWriter starts a zip stream on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		zw:       zip.NewWriter(w),
		used:     make(map[string]bool),
		modified: time.Now(),
	}
}

// Add writes data under name and returns the entry name actually used.
// A name already taken gets the short content hash inserted before its
// extension (photo.webp -> photo-1a2b3c4d.webp).
func (w *Writer) Add(name string, data []byte) (string, error) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if w.used[name] {
		ext := path.Ext(name)
		base := strings.TrimSuffix(name, ext)
		alt := fmt.Sprintf("%s-%s%s", base, hasher.Short(hasher.ContentHash(data)), ext)
		for i := 2; w.used[alt]; i++ {
			alt = fmt.Sprintf("%s-%s-%d%s", base, hasher.Short(hasher.ContentHash(data)), i, ext)
		}
		name = alt
	}

	f, err := w.zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Store,
		Modified: w.modified,
	})
	if err != nil {
		return "", fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("write entry %s: %w", name, err)
	}
	w.used[name] = true
	return name, nil
}

// Close finishes the zip stream. It does not close the underlying writer.
func (w *Writer) Close() error {
	return w.zw.Close()
}

// Pack writes every converted result of rep to w. The returned slice is
// aligned with rep.Results and holds each entry name, or "" for failures.
func Pack(w io.Writer, rep *pipeline.Report) ([]string, error) {
	aw := NewWriter(w)
	names := make([]string, len(rep.Results))
	for i, r := range rep.Results {
		if !r.OK() {
			continue
		}
		name, err := aw.Add(r.Output, r.Data)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	if err := aw.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}
	return names, nil
}

// Entry describes one file inside an archive.
type Entry struct {
	Name string
	Size int64
	Hash string
}

// ReadEntries lists the files of the zip at path with their content hashes.
func ReadEntries(zipPath string) (map[string]Entry, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	entries := make(map[string]Entry, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
		}
		hash, err := hasher.ContentHashReader(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
		entries[f.Name] = Entry{Name: f.Name, Size: int64(f.UncompressedSize64), Hash: hash}
	}
	return entries, nil
}
