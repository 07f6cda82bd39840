package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source represents a discovered image file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// Name is the item name: the path relative to the scanned directory,
	// or the base name for files given directly.
	Name string
	// Size is the file size in bytes.
	Size int64
}

// imageExtensions lists recognized image file extensions. Only used to
// filter directory walks; files named explicitly are always accepted.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".tiff": true,
	".tif":  true,
	".webp": true,
	".gif":  true,
	".bmp":  true,
}

// IsImageFile reports whether path has a recognized image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ScanImages expands files and directories into image sources, in
// argument order and lexical order within each directory.
func ScanImages(paths ...string) ([]Source, error) {
	var sources []Source

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			abs, err := filepath.Abs(p)
			if err != nil {
				return nil, err
			}
			sources = append(sources, Source{AbsPath: abs, Name: filepath.Base(p), Size: info.Size()})
			continue
		}

		found, err := scanDir(p)
		if err != nil {
			return nil, err
		}
		sources = append(sources, found...)
	}

	return sources, nil
}

func scanDir(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if path != inputDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsImageFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: abs,
			Name:    filepath.ToSlash(relPath),
			Size:    info.Size(),
		})
		return nil
	})

	return sources, err
}

// LoadItems reads every source into memory.
func LoadItems(sources []Source) ([]Item, error) {
	items := make([]Item, 0, len(sources))
	for _, s := range sources {
		data, err := os.ReadFile(s.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", s.Name, err)
		}
		items = append(items, Item{Name: s.Name, Data: data})
	}
	return items, nil
}
