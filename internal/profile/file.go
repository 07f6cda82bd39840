package profile

import (
	"fmt"
	"os"

	"github.com/AnyUserName/imgbudget/internal/encoder"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML profile and merges its set fields over base.
// The result is not validated.
func LoadFile(path string, base Profile) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return Parse(data, base)
}

// Parse merges YAML profile data over base. Keys absent from data keep
// base's value.
func Parse(data []byte, base Profile) (Profile, error) {
	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile: %w", err)
	}
	if p.Codec != base.Codec {
		c, err := encoder.ParseCodec(string(p.Codec))
		if err != nil {
			return Profile{}, fmt.Errorf("parse profile: %w", err)
		}
		p.Codec = c
	}
	return p, nil
}
