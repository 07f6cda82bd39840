package encoder

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/chai2010/webp"
)

// WebPEncoder encodes lossy WebP in-process through libwebp.
type WebPEncoder struct{}

func (e *WebPEncoder) Format() Codec     { return WebP }
func (e *WebPEncoder) Extension() string { return WebP.Extension() }
func (e *WebPEncoder) Available() bool   { return true }

func (e *WebPEncoder) Encode(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality %d out of range 1-100", quality)
	}

	var buf bytes.Buffer
	buf.Grow(256 * 1024)

	err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
