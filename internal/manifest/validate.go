package manifest

import (
	"fmt"
	"path/filepath"

	"github.com/AnyUserName/imgbudget/internal/archive"
	"github.com/AnyUserName/imgbudget/internal/encoder"
)

// Validate checks the manifest's internal consistency and, when it names
// an archive, that every converted entry is present in that zip with a
// matching size and hash. baseDir resolves the archive path. It returns
// one message per problem.
func Validate(m *Manifest, baseDir string) []string {
	var errs []string
	addf := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if m.Version != SupportedManifestVersion {
		addf("unsupported manifest version: %d", m.Version)
	}
	if _, err := encoder.ParseCodec(m.Settings.Codec); err != nil {
		addf("settings: %v", err)
	}

	var entries map[string]archive.Entry
	if m.Archive != "" {
		var err error
		entries, err = archive.ReadEntries(filepath.Join(baseDir, m.Archive))
		if err != nil {
			addf("archive %s: %v", m.Archive, err)
		}
	}

	s := m.Settings
	seen := map[string]bool{}
	for i, e := range m.Entries {
		if e.Source == "" {
			addf("entry[%d]: missing source", i)
		}
		if !e.OK() {
			if e.Output != "" || e.Size != 0 {
				addf("entry[%d] %q: failed entry has output", i, e.Source)
			}
			continue
		}

		if e.Output == "" {
			addf("entry[%d] %q: missing output", i, e.Source)
			continue
		}
		if seen[e.Output] {
			addf("entry[%d] %q: duplicate output %q", i, e.Source, e.Output)
		}
		seen[e.Output] = true

		if e.Width <= 0 || e.Height <= 0 {
			addf("entry[%d] %q: invalid dimensions %dx%d", i, e.Source, e.Width, e.Height)
		}
		if e.Width > s.MaxWidth || e.Height > s.MaxHeight {
			addf("entry[%d] %q: %dx%d exceeds bounding box %dx%d", i, e.Source, e.Width, e.Height, s.MaxWidth, s.MaxHeight)
		}
		if e.Quality < s.MinQuality || e.Quality > s.InitialQuality {
			addf("entry[%d] %q: quality %d outside %d-%d", i, e.Source, e.Quality, s.MinQuality, s.InitialQuality)
		}
		if e.MetBudget != (e.Size <= s.TargetSize) {
			addf("entry[%d] %q: met_budget=%t but size %d vs target %d", i, e.Source, e.MetBudget, e.Size, s.TargetSize)
		}
		if e.Hash == "" {
			addf("entry[%d] %q: missing hash", i, e.Source)
		}

		if entries == nil {
			continue
		}
		ae, ok := entries[e.Output]
		switch {
		case !ok:
			addf("entry[%d] %q: %s not found in archive", i, e.Source, e.Output)
		case ae.Size != e.Size:
			addf("entry[%d] %q: size mismatch: manifest=%d, archive=%d", i, e.Source, e.Size, ae.Size)
		case e.Hash != "" && ae.Hash != e.Hash:
			addf("entry[%d] %q: hash mismatch: manifest=%s, archive=%s", i, e.Source, e.Hash, ae.Hash)
		}
	}

	// Verify stats consistency.
	want := *m
	want.ComputeStats()
	if want.Stats != m.Stats {
		addf("stats mismatch: manifest=%+v, computed=%+v", m.Stats, want.Stats)
	}

	return errs
}
