package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/imgbudget/internal/manifest"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_manifest>",
	Short: "Display statistics for a conversion manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path, err := manifestPath(args[0])
	if err != nil {
		return err
	}
	m, err := manifest.ReadJSON(path)
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

// manifestPath accepts either a manifest file or the directory holding one.
func manifestPath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return filepath.Join(path, manifest.FileName), nil
	}
	return path, nil
}

func printStats(m *manifest.Manifest) {
	st := m.Settings
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Run:              %s\n", m.RunID)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	fmt.Printf("  Profile:          %s (%s)\n", st.Profile, st.Codec)
	fmt.Printf("  Bounding box:     %dx%d\n", st.MaxWidth, st.MaxHeight)
	fmt.Printf("  Quality search:   %d → %d, step %d\n", st.InitialQuality, st.MinQuality, st.QualityStep)
	fmt.Printf("  Target size:      %s\n", humanize.IBytes(uint64(st.TargetSize)))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
		fmt.Printf("  Elapsed:          %d ms\n", m.BuildInfo.ElapsedMS)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Inputs:           %d\n", s.TotalInputs)
	fmt.Printf("  Converted:        %d\n", s.Converted)
	fmt.Printf("  Failed:           %d\n", s.Failed)
	fmt.Printf("  Over budget:      %d\n", s.OverBudget)
	fmt.Printf("  Input size:       %s\n", humanize.IBytes(uint64(s.TotalInputBytes)))
	fmt.Printf("  Output size:      %s\n", humanize.IBytes(uint64(s.TotalOutputBytes)))
	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	fmt.Println()

	// Per-quality breakdown.
	qualityStats := map[int]int{}
	attempts, converted := 0, 0
	for _, e := range m.Entries {
		if e.OK() {
			qualityStats[e.Quality]++
			attempts += len(e.Attempts)
			converted++
		}
	}
	var qualities []int
	for q := range qualityStats {
		qualities = append(qualities, q)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(qualities)))
	if len(qualities) > 0 {
		fmt.Println("  Quality breakdown:")
		for _, q := range qualities {
			fmt.Printf("    q%-3d  %4d images\n", q, qualityStats[q])
		}
		fmt.Printf("  Encode attempts:  %d (%.1f per image)\n", attempts, float64(attempts)/float64(converted))
		fmt.Println()
	}

	// Warnings.
	var warnings []string
	for _, e := range m.Entries {
		switch {
		case !e.OK():
			warnings = append(warnings, fmt.Sprintf("%s: %s", e.Source, e.Error))
		case !e.MetBudget:
			warnings = append(warnings, fmt.Sprintf("%s: %s at q%d exceeds target",
				e.Source, humanize.IBytes(uint64(e.Size)), e.Quality))
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}
