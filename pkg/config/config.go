// Package config persists the codebook generator configuration inside the
// documented repository. The config is loaded once at the start of a run and
// written back once at the end; there is no in-memory singleton.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/codebooklabs/codebook/pkg/semver"
	"github.com/codebooklabs/codebook/pkg/utils"
)

const (
	// SchemaVersion is the current config schema version.
	SchemaVersion = 1

	// DefaultMaxTextFileBytes is the default inclusion threshold for text files.
	DefaultMaxTextFileBytes = 512 * 1024

	defaultNotes = "Add patterns under ignore_globs_extra to exclude more paths."
)

// Artifact locations, fixed relative to the documented repository root.
const (
	ArtifactsDir    = "docs/artifacts"
	SnapshotRelPath = "docs/artifacts/repo_codebook.md"
	ConfigRelPath   = "docs/artifacts/repo_codebook.config.json"
)

// ErrCorrupt indicates the persisted configuration is unreadable or
// structurally invalid. Callers must fail fast on it rather than reset the
// config, since a silent reset would break version continuity.
var ErrCorrupt = errors.New("codebook config is corrupt")

// Config is the persisted generator configuration.
type Config struct {
	Version          int      `json:"version"`
	CodebookVersion  string   `json:"codebook_version,omitempty"`
	IgnoreGlobsExtra []string `json:"ignore_globs_extra"`
	SkipEmptyFiles   bool     `json:"skip_empty_files"`
	MaxTextFileBytes int64    `json:"max_text_file_bytes"`
	Notes            string   `json:"notes,omitempty"`
}

// Default returns the bootstrap configuration for a repository that has
// never been documented.
func Default() Config {
	return Config{
		Version:          SchemaVersion,
		IgnoreGlobsExtra: []string{},
		SkipEmptyFiles:   true,
		MaxTextFileBytes: DefaultMaxTextFileBytes,
		Notes:            defaultNotes,
	}
}

// Path returns the config file path for a repository root.
func Path(root string) string {
	return filepath.Join(root, filepath.FromSlash(ConfigRelPath))
}

// SnapshotPath returns the snapshot document path for a repository root.
func SnapshotPath(root string) string {
	return filepath.Join(root, filepath.FromSlash(SnapshotRelPath))
}

// Load reads the configuration at path. A missing file bootstraps and
// persists the defaults. Anything unreadable or invalid returns an error
// wrapping ErrCorrupt.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := Default()
		if saveErr := Save(path, cfg); saveErr != nil {
			return Config{}, saveErr
		}
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(ErrCorrupt, "cannot read %s: %v", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(ErrCorrupt, "cannot parse %s: %v", path, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrapf(ErrCorrupt, "%s: %v", path, err)
	}

	// Fields absent from older configs fall back to defaults.
	if cfg.MaxTextFileBytes == 0 {
		cfg.MaxTextFileBytes = DefaultMaxTextFileBytes
	}
	if cfg.IgnoreGlobsExtra == nil {
		cfg.IgnoreGlobsExtra = []string{}
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.Version < 1 {
		return errors.Errorf("invalid schema version %d", c.Version)
	}
	if c.MaxTextFileBytes < 0 {
		return errors.Errorf("invalid max_text_file_bytes %d", c.MaxTextFileBytes)
	}
	if c.CodebookVersion != "" && !semver.IsValid(c.CodebookVersion) {
		return errors.Errorf("malformed codebook_version %q", c.CodebookVersion)
	}
	return nil
}

// Save writes the configuration atomically, creating parent directories as
// needed.
func Save(path string, cfg Config) error {
	if cfg.IgnoreGlobsExtra == nil {
		cfg.IgnoreGlobsExtra = []string{}
	}

	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	raw = append(raw, '\n')

	if err := utils.WriteFileAtomic(path, raw, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write config %s", path)
	}
	return nil
}

// Equal reports whether two configs are identical, including ignore order.
func (c Config) Equal(other Config) bool {
	if c.Version != other.Version ||
		c.CodebookVersion != other.CodebookVersion ||
		c.SkipEmptyFiles != other.SkipEmptyFiles ||
		c.MaxTextFileBytes != other.MaxTextFileBytes ||
		c.Notes != other.Notes ||
		len(c.IgnoreGlobsExtra) != len(other.IgnoreGlobsExtra) {
		return false
	}
	for i, g := range c.IgnoreGlobsExtra {
		if other.IgnoreGlobsExtra[i] != g {
			return false
		}
	}
	return true
}
