package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// LocalConfigFileName is the per-projects-directory override file.
const LocalConfigFileName = ".folio.toml"

// LocalConfig holds overrides read from <projects_dir>/.folio.toml.
// Pointer fields and zero-value strings indicate "not set" (inherit from global).
type LocalConfig struct {
	Hooks         HooksConfig `toml:"-"` // merge by name into global
	TemplatesDir  string      `toml:"templates_dir"`
	Layout        string      `toml:"layout"`
	SchemaVersion string      `toml:"schema_version"`
	KeepFiles     *bool       `toml:"keep_files"`
}

// rawLocalConfig is used for initial TOML parsing before processing hooks
type rawLocalConfig struct {
	Hooks         map[string]any `toml:"hooks"`
	TemplatesDir  string         `toml:"templates_dir"`
	Layout        string         `toml:"layout"`
	SchemaVersion string         `toml:"schema_version"`
	KeepFiles     *bool          `toml:"keep_files"`
}

// LoadLocal reads the .folio.toml in dir.
// Returns nil (no error) if the file doesn't exist.
// Returns an error only on parse or validation failure.
func LoadLocal(dir string) (*LocalConfig, error) {
	configFile := filepath.Join(dir, LocalConfigFileName)

	data, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read local config %s: %w", configFile, err)
	}

	var raw rawLocalConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse local config %s: %w", configFile, err)
	}

	local := &LocalConfig{
		Hooks:         parseHooksConfig(raw.Hooks),
		TemplatesDir:  raw.TemplatesDir,
		Layout:        raw.Layout,
		SchemaVersion: raw.SchemaVersion,
		KeepFiles:     raw.KeepFiles,
	}

	if err := validateEnum(local.Layout, "layout", ValidLayouts()); err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, configFile)
	}
	if err := validateEnum(local.SchemaVersion, "schema_version", ValidSchemaVersions()); err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, configFile)
	}
	if err := validateHooks(local.Hooks, configFile); err != nil {
		return nil, err
	}

	// Relative template dirs are resolved against the projects directory.
	if local.TemplatesDir != "" {
		expanded, err := expandPath(local.TemplatesDir)
		if err != nil {
			return nil, fmt.Errorf("expand templates_dir in %s: %w", configFile, err)
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(dir, expanded)
		}
		local.TemplatesDir = expanded
	}

	return local, nil
}

// defaultLocalConfig is the template for folio config init --local
const defaultLocalConfig = `# folio local config (per projects directory)
# Place this file at the root of a projects directory.
# Settings here override the global config for projects created in it.

# templates_dir = "_templates"   # relative to this directory
# layout = "production"
# schema_version = "2.0.0"
# keep_files = true

# Hooks - add directory-specific hooks or override global hooks
# Set enabled = false to disable a global hook here
#
# [hooks.git-add]
# command = "git -C {path} add . && git -C {path} commit -m {id}"
# on = ["new"]
#
# [hooks.global-hook-name]
# enabled = false
`

// DefaultLocalConfig returns the default local configuration template content.
func DefaultLocalConfig() string {
	return defaultLocalConfig
}
