package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "imgbudget",
	Short: "Batch-convert images to WebP/AVIF within a byte budget",
	Long: `imgbudget — converts batches of JPEG/PNG/TIFF images to lossy WebP or
AVIF, downscaling anything larger than a bounding box and stepping the
encoder quality down until each output fits a target size.

Outputs are packed into a zip archive with a JSON manifest recording the
quality chosen for every image and any per-image failures.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI until ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgbudget %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger returns the stderr logger, at debug level when --verbose is set.
func newLogger() hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "imgbudget",
		Level:  level,
		Output: os.Stderr,
	})
}
