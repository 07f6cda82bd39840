package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/imgbudget/internal/archive"
	"github.com/AnyUserName/imgbudget/internal/manifest"
	"github.com/AnyUserName/imgbudget/internal/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	convertOutDir  string
	convertWorkers int
	convertFlags   profileFlags
)

var convertCmd = &cobra.Command{
	Use:   "convert <file_or_dir>...",
	Short: "Convert images to WebP/AVIF within a target size and zip them",
	Long: `Reads the given files and scans the given directories for images
(jpg, jpeg, png, tif, tiff, plus webp, gif, bmp), downscales each into the
bounding box and lowers quality in fixed steps until the encoded size fits
the target. Images that cannot fit even at the minimum quality are kept at
that quality and flagged as over budget.

Writes converted_images_<codec>.zip and imgbudget.manifest.json to --out.
A corrupt image is reported and skipped; it never stops the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutDir, "out", "o", "./imgbudget_out", "output directory")
	convertCmd.Flags().IntVarP(&convertWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	convertFlags.register(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	start := time.Now()
	log := newLogger()

	prof, err := convertFlags.resolve(cmd)
	if err != nil {
		return err
	}

	absOutput, err := filepath.Abs(convertOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	sources, err := pipeline.ScanImages(args...)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no images found in %v", args)
	}
	items, err := pipeline.LoadItems(sources)
	if err != nil {
		return err
	}

	log.Debug("resolved settings", "output", absOutput, "profile", prof.Name, "codec", prof.Codec,
		"box", fmt.Sprintf("%dx%d", prof.MaxWidth, prof.MaxHeight),
		"quality", fmt.Sprintf("%d..%d step %d", prof.InitialQuality, prof.MinQuality, prof.QualityStep),
		"target", prof.TargetSize)

	p := pipeline.New(pipeline.Config{
		Profile: prof,
		Workers: convertWorkers,
		Logger:  log,
	})
	rep, err := p.Run(cmd.Context(), items)
	if err != nil {
		return err
	}

	for _, r := range rep.Results {
		if !r.OK() {
			fmt.Fprintf(os.Stderr, "error processing %s: %v\n", r.Source, r.Err)
		}
	}

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	zipName := archive.FileName(prof.Codec)
	names, err := writeArchive(filepath.Join(absOutput, zipName), rep)
	if err != nil {
		return err
	}

	m := manifest.New(prof)
	m.Archive = zipName
	m.AddReport(rep, names)
	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printConvertReport(m, time.Since(start))

	if rep.Succeeded() == 0 {
		return fmt.Errorf("all %d images failed to process", len(rep.Results))
	}
	return nil
}

func writeArchive(path string, rep *pipeline.Report) ([]string, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create archive: %w", err)
	}
	names, err := archive.Pack(f, rep)
	if cerr := f.Close(); cerr != nil {
		err = errors.Join(err, cerr)
	}
	if err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}
	return names, nil
}

func printConvertReport(m *manifest.Manifest, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            imgbudget convert complete            ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	s := m.Stats
	ratio := float64(0)
	if s.TotalInputBytes > 0 {
		ratio = float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
	}

	fmt.Printf("  Images:      %d\n", s.TotalInputs)
	fmt.Printf("  Converted:   %d\n", s.Converted)
	if s.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", s.Failed)
	}
	if s.OverBudget > 0 {
		fmt.Printf("  Over budget: %d  (kept at lowest quality tried)\n", s.OverBudget)
	}
	fmt.Printf("  Target:      %s per image (%s)\n", humanize.IBytes(uint64(m.Settings.TargetSize)), m.Settings.Codec)
	fmt.Printf("  Input size:  %s\n", humanize.IBytes(uint64(s.TotalInputBytes)))
	fmt.Printf("  Output size: %s\n", humanize.IBytes(uint64(s.TotalOutputBytes)))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 heaviest outputs.
	var converted []manifest.Entry
	for _, e := range m.Entries {
		if e.OK() {
			converted = append(converted, e)
		}
	}
	if len(converted) > 0 {
		sort.SliceStable(converted, func(i, j int) bool {
			return converted[i].Size > converted[j].Size
		})
		n := min(len(converted), 10)
		fmt.Printf("  Top %d heaviest (original → converted @ quality):\n", n)
		for _, e := range converted[:n] {
			mark := ""
			if !e.MetBudget {
				mark = "  over budget"
			}
			fmt.Printf("    %-40s %9s → %9s  @%-3d%s\n",
				truncKey(e.Source, 40),
				humanize.IBytes(uint64(e.InputSize)),
				humanize.IBytes(uint64(e.Size)),
				e.Quality,
				mark,
			)
		}
		fmt.Println()
	}

	fmt.Printf("  Archive:     %s\n", m.Archive)
	fmt.Printf("  Manifest:    %s\n", manifest.FileName)
	fmt.Println()
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
