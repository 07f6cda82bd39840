package encoder

import (
	"context"
	"fmt"
	"image"
)

// Encoder encodes an image to a lossy codec at an integer quality.
type Encoder interface {
	// Format returns the codec this encoder produces.
	Format() Codec

	// Encode converts the image to bytes at the given quality (1-100).
	Encode(ctx context.Context, img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (avifenc) may not be installed.
	Available() bool

	// Extension returns the file extension without dot.
	Extension() string
}

// EncodeError reports a codec rejecting an image or a quality value.
type EncodeError struct {
	Codec   Codec
	Quality int
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s at quality %d: %v", e.Codec, e.Quality, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
