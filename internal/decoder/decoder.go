// Package decoder turns raw image bytes into the opaque RGB pixel buffer
// the resizer and encoders work on.
package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned for zero-length input.
var ErrEmpty = errors.New("empty input")

// DecodeError reports bytes that are not a valid or supported image.
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode decodes data (JPEG, PNG, GIF, TIFF, BMP or WebP), applies EXIF
// orientation and flattens the result to opaque NRGBA.
func Decode(name string, data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Name: name, Err: ErrEmpty}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Name: name, Err: err}
	}
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, &DecodeError{Name: name, Err: fmt.Errorf("invalid dimensions %dx%d", b.Dx(), b.Dy())}
	}

	return ToRGB(img), nil
}

// ToRGB copies img into a zero-origin NRGBA buffer with every alpha
// value set to 255. Colour channels are kept as-is, so transparent
// regions show their underlying colour.
func ToRGB(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
