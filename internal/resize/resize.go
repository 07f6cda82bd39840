// Package resize scales pixel buffers down into a bounding box.
package resize

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FitDimensions returns the size an image of w×h takes once scaled to fit
// within maxW×maxH, preserving aspect ratio. Images already inside the
// box keep their size; nothing is ever scaled up.
func FitDimensions(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}

	ar := float64(w) / float64(h)
	var nw, nh int
	if ar > 1 {
		nw = maxW
		nh = roundDim(float64(maxW) / ar)
	} else {
		nh = maxH
		nw = roundDim(float64(maxH) * ar)
	}

	// With a non-square box the secondary side can still overflow.
	if nh > maxH {
		nh = maxH
		nw = roundDim(float64(maxH) * ar)
	}
	if nw > maxW {
		nw = maxW
		nh = roundDim(float64(maxW) / ar)
	}
	return nw, nh
}

// ToFit downscales img into maxW×maxH with a Lanczos filter. When img
// already fits it is returned unchanged, without a copy.
func ToFit(img *image.NRGBA, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitDimensions(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

func roundDim(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}
