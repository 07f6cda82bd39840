package encoder

import (
	"fmt"
	"strings"
)

// Registry holds the available encoders keyed by codec.
type Registry struct {
	encoders map[Codec]Encoder
}

// NewRegistry creates a registry from the given encoders, keeping only
// those that report themselves available. With no arguments the built-in
// WebP and AVIF encoders are probed.
func NewRegistry(encs ...Encoder) *Registry {
	r := &Registry{
		encoders: make(map[Codec]Encoder),
	}

	if len(encs) == 0 {
		encs = []Encoder{
			&WebPEncoder{},
			&AVIFEncoder{},
		}
	}

	for _, enc := range encs {
		if enc.Available() {
			r.encoders[enc.Format()] = enc
		}
	}

	return r
}

// Get returns the encoder for a codec, or an error naming the reason it
// cannot be used.
func (r *Registry) Get(c Codec) (Encoder, error) {
	if enc, ok := r.encoders[c]; ok {
		return enc, nil
	}
	if _, err := ParseCodec(string(c)); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%s encoder not available (%s)", c, r)
}

// Available returns all available codecs in priority order.
func (r *Registry) Available() []Codec {
	var result []Codec
	for _, c := range Codecs {
		if _, ok := r.encoders[c]; ok {
			result = append(result, c)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	names := make([]string, len(avail))
	for i, c := range avail {
		names[i] = string(c)
	}
	return fmt.Sprintf("encoders: %s", strings.Join(names, ", "))
}
