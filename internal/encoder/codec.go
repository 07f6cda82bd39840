package encoder

import (
	"fmt"
	"strings"
)

// Codec identifies a lossy output encoding.
type Codec string

const (
	WebP Codec = "webp"
	AVIF Codec = "avif"
)

// Codecs lists the supported codecs in priority order.
var Codecs = []Codec{WebP, AVIF}

// ParseCodec accepts a codec name in any case ("WEBP", "avif").
func ParseCodec(s string) (Codec, error) {
	c := Codec(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Codecs {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown codec %q (want one of: webp, avif)", s)
}

// Extension returns the canonical file extension without dot.
func (c Codec) Extension() string { return string(c) }

func (c Codec) String() string { return string(c) }
