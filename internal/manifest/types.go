package manifest

import "github.com/AnyUserName/imgbudget/internal/search"

// Manifest is the JSON report written next to a converted archive.
type Manifest struct {
	Version     int        `json:"version"`
	RunID       string     `json:"run_id"`
	GeneratedAt string     `json:"generated_at"`
	Archive     string     `json:"archive,omitempty"` // zip file name, relative to the manifest
	Settings    Settings   `json:"settings"`
	BuildInfo   *BuildInfo `json:"build_info,omitempty"`
	Entries     []Entry    `json:"entries"` // input order
	Stats       Stats      `json:"stats"`
}

// Settings records the profile the batch ran with.
type Settings struct {
	Profile        string `json:"profile"`
	Codec          string `json:"codec"`
	MaxWidth       int    `json:"max_width"`
	MaxHeight      int    `json:"max_height"`
	InitialQuality int    `json:"initial_quality"`
	MinQuality     int    `json:"min_quality"`
	QualityStep    int    `json:"quality_step"`
	TargetSize     int64  `json:"target_size"`
}

// BuildInfo captures run diagnostics.
type BuildInfo struct {
	Workers   int   `json:"workers"`
	ElapsedMS int64 `json:"elapsed_ms"`
}

// Entry is the outcome for one input. Error is set for failures, which
// have no output fields.
type Entry struct {
	Source    string           `json:"source"`
	InputSize int64            `json:"input_size"`
	Output    string           `json:"output,omitempty"` // path inside the archive
	Format    string           `json:"format,omitempty"`
	Width     int              `json:"width,omitempty"`
	Height    int              `json:"height,omitempty"`
	Quality   int              `json:"quality,omitempty"`
	Size      int64            `json:"size,omitempty"`
	Hash      string           `json:"hash,omitempty"` // xxhash64, 16 hex chars
	MetBudget bool             `json:"met_budget"`
	Attempts  []search.Attempt `json:"attempts,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// OK reports whether the entry is a converted output.
func (e Entry) OK() bool { return e.Error == "" }

// Stats aggregates batch metrics.
type Stats struct {
	TotalInputs      int   `json:"total_inputs"`
	Converted        int   `json:"converted"`
	Failed           int   `json:"failed"`
	OverBudget       int   `json:"over_budget"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest's name inside an output directory.
const FileName = "imgbudget.manifest.json"
