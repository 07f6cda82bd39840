package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/AnyUserName/imgbudget/internal/hasher"
	"github.com/AnyUserName/imgbudget/internal/pipeline"
	"github.com/AnyUserName/imgbudget/internal/profile"
	"github.com/google/uuid"
)

// New creates an empty manifest for a run with prof.
func New(prof profile.Profile) *Manifest {
	return &Manifest{
		Version:     SupportedManifestVersion,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Settings: Settings{
			Profile:        prof.Name,
			Codec:          prof.Codec.String(),
			MaxWidth:       prof.MaxWidth,
			MaxHeight:      prof.MaxHeight,
			InitialQuality: prof.InitialQuality,
			MinQuality:     prof.MinQuality,
			QualityStep:    prof.QualityStep,
			TargetSize:     prof.TargetSize,
		},
		Entries: []Entry{},
	}
}

// AddReport appends one entry per result. archived, when non-nil, holds
// the archive entry names aligned with rep.Results and overrides each
// result's output name.
func (m *Manifest) AddReport(rep *pipeline.Report, archived []string) {
	for i, r := range rep.Results {
		e := Entry{Source: r.Source, InputSize: r.InputSize}
		if !r.OK() {
			e.Error = r.Err.Error()
			m.Entries = append(m.Entries, e)
			continue
		}

		e.Output = r.Output
		if archived != nil && archived[i] != "" {
			e.Output = archived[i]
		}
		e.Format = rep.Profile.Codec.String()
		e.Width = r.Width
		e.Height = r.Height
		e.Quality = r.Quality
		e.Size = r.Size
		e.Hash = hasher.ContentHash(r.Data)
		e.MetBudget = r.MetBudget
		e.Attempts = r.Attempts
		m.Entries = append(m.Entries, e)
	}

	m.BuildInfo = &BuildInfo{
		Workers:   rep.Workers,
		ElapsedMS: rep.Elapsed.Milliseconds(),
	}
	m.ComputeStats()
}

// ComputeStats recalculates aggregate statistics from entries.
func (m *Manifest) ComputeStats() {
	var s Stats
	s.TotalInputs = len(m.Entries)
	for _, e := range m.Entries {
		s.TotalInputBytes += e.InputSize
		if !e.OK() {
			s.Failed++
			continue
		}
		s.Converted++
		s.TotalOutputBytes += e.Size
		if !e.MetBudget {
			s.OverBudget++
		}
	}
	m.Stats = s
}

// WriteJSON serializes the manifest to a JSON file.
func WriteJSON(m *Manifest, path string) error {
	m.ComputeStats()

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ReadJSON loads a manifest file.
func ReadJSON(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
