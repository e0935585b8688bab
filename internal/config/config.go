// Package config reads and writes the per-repository settings file. The file
// lives inside the git directory so it never shows up as an untracked change
// in the working tree it configures.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the settings file name inside the git directory.
const FileName = "wipstash.toml"

// DefaultKeep is the per-branch snapshot cap used when the config file is
// absent or silent.
const DefaultKeep = 10

// defaultRootDir is the snapshot root directory created under the git
// directory when none is configured.
const defaultRootDir = "wipstash"

const (
	keyRoot = "snapshots.root"
	keyKeep = "snapshots.keep"
)

// Config holds the effective settings for one repository.
type Config struct {
	// Root is the absolute directory snapshots are stored under.
	Root string
	// Keep is the maximum number of snapshots retained per branch.
	Keep int
}

// Path returns the settings file location for a git directory.
func Path(gitDir string) string {
	return filepath.Join(gitDir, FileName)
}

// Load reads the repository's settings, substituting defaults for a missing
// file or missing keys. A relative snapshots.root resolves against the
// repository root.
func Load(repoRoot, gitDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(Path(gitDir))
	v.SetConfigType("toml")
	v.SetDefault(keyRoot, filepath.Join(gitDir, defaultRootDir))
	v.SetDefault(keyKeep, DefaultKeep)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", Path(gitDir), err)
	}

	cfg := &Config{
		Root: v.GetString(keyRoot),
		Keep: v.GetInt(keyKeep),
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("snapshots.root must not be empty")
	}
	if cfg.Keep < 1 {
		return nil, fmt.Errorf("snapshots.keep must be at least 1, got %d", cfg.Keep)
	}
	if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(repoRoot, cfg.Root)
	}
	return cfg, nil
}

// Save writes the settings file wholesale. Both keys are always written, so
// previously implicit defaults become explicit.
func Save(gitDir string, cfg *Config) error {
	if cfg.Root == "" {
		return fmt.Errorf("snapshots.root must not be empty")
	}
	if cfg.Keep < 1 {
		return fmt.Errorf("snapshots.keep must be at least 1, got %d", cfg.Keep)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set(keyRoot, cfg.Root)
	v.Set(keyKeep, cfg.Keep)

	if err := v.WriteConfigAs(Path(gitDir)); err != nil {
		return fmt.Errorf("failed to write %s: %w", Path(gitDir), err)
	}
	return nil
}
