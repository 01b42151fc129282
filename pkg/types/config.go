package types

// ClassifyConfig holds settings for doc-type classification.
type ClassifyConfig struct {
	// RulesFile is an optional YAML file overriding the built-in
	// keyword-to-category rules.
	RulesFile string `json:"rules_file" yaml:"rules_file"`
}

// ChunkConfig holds settings for splitting rendered documents.
type ChunkConfig struct {
	// MaxChars is the soft ceiling on chunk size in characters (default 8000).
	// A single line longer than the ceiling is still emitted whole.
	MaxChars int `json:"max_chars" yaml:"max_chars"`
}

// ManifestConfig holds settings for the optional run manifest.
type ManifestConfig struct {
	// Enabled turns on recording of emitted files in a SQLite manifest.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the manifest database path (default <output-dir>/manifest.db).
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configuration for one batch run.
type PipelineConfig struct {
	// Extensions lists the supported workbook extensions, with leading dot.
	Extensions []string `json:"extensions" yaml:"extensions"`

	Classify ClassifyConfig `json:"classify" yaml:"classify"`
	Chunk    ChunkConfig    `json:"chunk" yaml:"chunk"`
	Manifest ManifestConfig `json:"manifest" yaml:"manifest"`
}

// DefaultPipelineConfig returns the configuration used when no file, flag, or
// environment override is present.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Extensions: []string{".xlsx", ".xlsm", ".xls"},
		Chunk:      ChunkConfig{MaxChars: 8000},
	}
}
