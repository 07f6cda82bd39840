package profile

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/imgbudget/internal/encoder"
)

// Profile holds the conversion settings for one batch run. It is passed
// by value and not modified once a run starts.
type Profile struct {
	Name           string        `yaml:"name"`
	Codec          encoder.Codec `yaml:"codec"`
	MaxWidth       int           `yaml:"max_width"`
	MaxHeight      int           `yaml:"max_height"`
	InitialQuality int           `yaml:"initial_quality"` // encoding quality 1-100
	MinQuality     int           `yaml:"min_quality"`     // search floor 1-100
	QualityStep    int           `yaml:"quality_step"`
	TargetSize     int64         `yaml:"target_size"` // bytes
}

const (
	DefaultName = "default"

	// Fixed search parameters of the classic converter.
	DefaultQualityStep = 5
	DefaultMinQuality  = 10
)

// Built-in profiles.
var profiles = map[string]Profile{
	DefaultName: {
		Name:           DefaultName,
		Codec:          encoder.WebP,
		MaxWidth:       1920,
		MaxHeight:      1920,
		InitialQuality: 80,
		MinQuality:     DefaultMinQuality,
		QualityStep:    DefaultQualityStep,
		TargetSize:     1 << 20,
	},
	"avif": {
		Name:           "avif",
		Codec:          encoder.AVIF,
		MaxWidth:       1920,
		MaxHeight:      1920,
		InitialQuality: 80,
		MinQuality:     DefaultMinQuality,
		QualityStep:    DefaultQualityStep,
		TargetSize:     1 << 20,
	},
	"thumbnail": {
		Name:           "thumbnail",
		Codec:          encoder.WebP,
		MaxWidth:       640,
		MaxHeight:      640,
		InitialQuality: 75,
		MinQuality:     DefaultMinQuality,
		QualityStep:    DefaultQualityStep,
		TargetSize:     100 << 10,
	},
}

// Get returns a profile by name. Falls back to the default profile if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles[DefaultName]
	p.Name = name // preserve requested name
	return p
}

// Names returns the built-in profile names.
func Names() []string {
	return []string{DefaultName, "avif", "thumbnail"}
}

// ConfigError lists every invalid setting of a profile.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid conversion config: " + strings.Join(e.Problems, "; ")
}

// Validate checks the profile invariants and returns a *ConfigError
// describing all violations, or nil.
func (p Profile) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, err := encoder.ParseCodec(string(p.Codec)); err != nil {
		addf("%v", err)
	}
	if p.MaxWidth <= 0 || p.MaxHeight <= 0 {
		addf("bounding box %dx%d must be positive", p.MaxWidth, p.MaxHeight)
	}
	if p.InitialQuality < 1 || p.InitialQuality > 100 {
		addf("initial_quality %d out of range 1-100", p.InitialQuality)
	}
	if p.MinQuality < 1 || p.MinQuality > 100 {
		addf("min_quality %d out of range 1-100", p.MinQuality)
	}
	if p.MinQuality > p.InitialQuality {
		addf("min_quality %d greater than initial_quality %d", p.MinQuality, p.InitialQuality)
	}
	if p.QualityStep <= 0 {
		addf("quality_step %d must be positive", p.QualityStep)
	}
	if p.TargetSize <= 0 {
		addf("target_size %d must be positive", p.TargetSize)
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// OutputName replaces the extension of name with the profile codec's
// extension. Names without an extension get one appended.
func (p Profile) OutputName(name string) string {
	base := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 && !strings.ContainsRune(name[i:], '/') {
		base = name[:i]
	}
	return base + "." + p.Codec.Extension()
}
