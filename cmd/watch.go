package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/imgbudget/internal/pipeline"
	"github.com/AnyUserName/imgbudget/internal/watcher"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	watchOutDir string
	watchFlags  profileFlags
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Convert images as they are dropped into a directory",
	Long: `Watches <dir> (not recursively) and converts every image written to it
once the file has been quiet for a moment. Outputs are written as plain
files into --out, which must not be the watched directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutDir, "out", "o", "./imgbudget_out", "output directory")
	watchFlags.register(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := newLogger()

	prof, err := watchFlags.resolve(cmd)
	if err != nil {
		return err
	}

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(watchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}
	if absInput == absOutput {
		return fmt.Errorf("--out must differ from the watched directory")
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// One worker: files arrive one at a time.
	p := pipeline.New(pipeline.Config{Profile: prof, Workers: 1, Logger: log})

	// Fail fast on a bad profile before waiting for files.
	if err := p.Check(); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		Dir:    absInput,
		Accept: pipeline.IsImageFile,
		Handle: func(ctx context.Context, path string) {
			convertOne(ctx, p, path, absOutput, log)
		},
		Logger: log,
	})
	if err != nil {
		return err
	}

	log.Info("watching", "dir", absInput, "out", absOutput, "codec", prof.Codec, "target", prof.TargetSize)
	return w.Run(cmd.Context())
}

func convertOne(ctx context.Context, p *pipeline.Pipeline, path, outDir string, log hclog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Error("read failed", "path", path, "error", err)
		return
	}

	rep, err := p.Run(ctx, []pipeline.Item{{Name: filepath.Base(path), Data: data}})
	if err != nil {
		log.Error("convert failed", "path", path, "error", err)
		return
	}
	r := rep.Results[0]
	if !r.OK() {
		fmt.Fprintf(os.Stderr, "error processing %s: %v\n", r.Source, r.Err)
		return
	}

	out := filepath.Join(outDir, r.Output)
	if err := os.WriteFile(out, r.Data, 0o644); err != nil {
		log.Error("write failed", "path", out, "error", err)
		return
	}
	log.Info("converted", "source", r.Source, "output", out, "quality", r.Quality,
		"bytes", r.Size, "met_budget", r.MetBudget)
}
