package resize

import (
	"image"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFitDimensions(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		maxW, maxH   int
		wantW, wantH int
	}{
		{"within box", 800, 600, 1920, 1920, 800, 600},
		{"exactly box", 1920, 1920, 1920, 1920, 1920, 1920},
		{"landscape", 4000, 3000, 1920, 1920, 1920, 1440},
		{"portrait", 3000, 4000, 1920, 1920, 1440, 1920},
		{"square", 3000, 3000, 1920, 1920, 1920, 1920},
		{"rounds", 1000, 3, 100, 100, 100, 1},
		{"only height over", 1000, 2500, 1920, 1920, 768, 1920},
		{"wide box clamps height", 2000, 1900, 1920, 1000, 1053, 1000},
		{"tall box clamps width", 1900, 2000, 1000, 1920, 1000, 1053},
		{"never below one pixel", 10000, 2, 100, 100, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitDimensions(tt.w, tt.h, tt.maxW, tt.maxH)
			assert.Equal(t, tt.wantW, w, "width")
			assert.Equal(t, tt.wantH, h, "height")
		})
	}
}

func TestFitDimensions_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const box = 1920

	for i := 0; i < 2000; i++ {
		w := 1 + rng.Intn(8000)
		h := 1 + rng.Intn(8000)
		nw, nh := FitDimensions(w, h, box, box)

		if w <= box && h <= box {
			if nw != w || nh != h {
				t.Fatalf("%dx%d: resized to %dx%d inside box", w, h, nw, nh)
			}
			continue
		}

		longer := nw
		if nh > nw {
			longer = nh
		}
		if longer != box {
			t.Fatalf("%dx%d -> %dx%d: longer side %d, want %d", w, h, nw, nh, longer, box)
		}
		if nw > box || nh > box {
			t.Fatalf("%dx%d -> %dx%d: exceeds box", w, h, nw, nh)
		}

		// The shorter side is within one pixel of the exact proportional value.
		var exact float64
		if nw == box && w >= h {
			exact = float64(box) * float64(h) / float64(w)
			if math.Abs(float64(nh)-exact) > 1 {
				t.Fatalf("%dx%d -> %dx%d: height off by more than 1 (exact %.2f)", w, h, nw, nh, exact)
			}
		} else {
			exact = float64(box) * float64(w) / float64(h)
			if math.Abs(float64(nw)-exact) > 1 {
				t.Fatalf("%dx%d -> %dx%d: width off by more than 1 (exact %.2f)", w, h, nw, nh, exact)
			}
		}
	}
}

func TestToFit_PassThrough(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 80))
	out := ToFit(img, 1920, 1920)
	assert.Same(t, img, out)
}

func TestToFit_Downscales(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 400, 300))
	out := ToFit(img, 200, 200)
	assert.Equal(t, 200, out.Bounds().Dx())
	assert.Equal(t, 150, out.Bounds().Dy())
}
