//go:build ignore

// gen_fixtures creates the input set for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/tiff"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "scans"), 0o755))

	// Camera photo (JPEG, 4000x3000): downscaled to 1920x1440.
	writeJPEG(filepath.Join(dir, "camera.jpg"), noisyGradient(4000, 3000))

	// Already small (PNG, 100x100): untouched by the resizer.
	writePNG(filepath.Join(dir, "tiny.png"), noisyGradient(100, 100))

	// Portrait scan (TIFF, 1200x2600).
	writeTIFF(filepath.Join(dir, "scans", "page-1.tif"), noisyGradient(1200, 2600))

	// Transparent logo (PNG): alpha is dropped.
	writePNG(filepath.Join(dir, "logo.png"), alphaGradient(300, 300))

	// Zero-length file: reported as a decode failure.
	must(os.WriteFile(filepath.Join(dir, "corrupt.jpg"), nil, 0o644))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

// noisyGradient is hard enough to compress that quality steps change size.
func noisyGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	seed := uint32(2463534242)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			seed ^= seed << 13
			seed ^= seed >> 17
			seed ^= seed << 5
			n := uint8(seed) & 0x3f
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x*191/w) + n,
				G: uint8(y*191/h) + n,
				B: 96 + n,
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f := create(path)
	defer f.Close()
	must(png.Encode(f, img))
}

func writeJPEG(path string, img image.Image) {
	f := create(path)
	defer f.Close()
	must(jpeg.Encode(f, img, &jpeg.Options{Quality: 92}))
}

func writeTIFF(path string, img image.Image) {
	f := create(path)
	defer f.Close()
	must(tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}))
}

func create(path string) *os.File {
	f, err := os.Create(path)
	must(err)
	return f
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
