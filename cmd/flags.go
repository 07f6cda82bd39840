package cmd

import (
	"fmt"
	"math"

	"github.com/AnyUserName/imgbudget/internal/encoder"
	"github.com/AnyUserName/imgbudget/internal/profile"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// profileFlags are the conversion settings shared by convert and watch.
// Flags override the YAML file, which overrides the built-in profile.
type profileFlags struct {
	name       string
	configPath string
	codec      string
	maxWidth   int
	maxHeight  int
	quality    int
	minQuality int
	step       int
	target     string
	targetMB   float64
}

func (f *profileFlags) register(c *cobra.Command) {
	fl := c.Flags()
	fl.StringVarP(&f.name, "profile", "p", profile.DefaultName, "built-in profile (default, avif, thumbnail)")
	fl.StringVar(&f.configPath, "config", "", "YAML profile file merged over --profile")
	fl.StringVar(&f.codec, "codec", "", "output codec: webp or avif")
	fl.IntVar(&f.maxWidth, "max-width", 0, "bounding box width in px")
	fl.IntVar(&f.maxHeight, "max-height", 0, "bounding box height in px")
	fl.IntVarP(&f.quality, "quality", "q", 0, "initial quality 1-100")
	fl.IntVar(&f.minQuality, "min-quality", 0, "lowest quality the search may use")
	fl.IntVar(&f.step, "step", 0, "quality decrement per attempt")
	fl.StringVar(&f.target, "target", "", "target size per image, e.g. 1MiB, 500KB")
	fl.Float64Var(&f.targetMB, "target-mb", 0, "target size per image in MB (1 MB = 1024*1024 bytes)")
	c.MarkFlagsMutuallyExclusive("target", "target-mb")
}

// resolve builds the profile for a run. It does not validate it; the
// pipeline does that before touching any image.
func (f *profileFlags) resolve(c *cobra.Command) (profile.Profile, error) {
	prof := profile.Get(f.name)

	if f.configPath != "" {
		var err error
		prof, err = profile.LoadFile(f.configPath, prof)
		if err != nil {
			return profile.Profile{}, err
		}
	}

	fl := c.Flags()
	if fl.Changed("codec") {
		codec, err := encoder.ParseCodec(f.codec)
		if err != nil {
			return profile.Profile{}, err
		}
		prof.Codec = codec
	}
	if fl.Changed("max-width") {
		prof.MaxWidth = f.maxWidth
	}
	if fl.Changed("max-height") {
		prof.MaxHeight = f.maxHeight
	}
	if fl.Changed("quality") {
		prof.InitialQuality = f.quality
	}
	if fl.Changed("min-quality") {
		prof.MinQuality = f.minQuality
	}
	if fl.Changed("step") {
		prof.QualityStep = f.step
	}
	if fl.Changed("target") {
		n, err := humanize.ParseBytes(f.target)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("parse --target: %w", err)
		}
		if n > math.MaxInt64 {
			return profile.Profile{}, fmt.Errorf("--target %s too large", f.target)
		}
		prof.TargetSize = int64(n)
	}
	if fl.Changed("target-mb") {
		prof.TargetSize = int64(f.targetMB * 1024 * 1024)
	}

	return prof, nil
}
