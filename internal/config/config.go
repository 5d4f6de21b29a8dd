package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/folio/internal/layout"
	"github.com/raphi011/folio/internal/schema"
)

// Hook defines a command run after a folio operation.
type Hook struct {
	Command     string   `toml:"command"`
	Description string   `toml:"description"`
	On          []string `toml:"on"`      // commands this hook runs on (empty = only via --hook)
	Enabled     *bool    `toml:"enabled"` // false in a local config disables a global hook
}

// IsEnabled reports whether the hook is active. Unset means enabled.
func (h Hook) IsEnabled() bool {
	return h.Enabled == nil || *h.Enabled
}

// HooksConfig holds hook-related configuration
type HooksConfig struct {
	Hooks map[string]Hook `toml:"-"` // parsed from [hooks.NAME] sections
}

// SyncConfig configures uploading created projects to S3-compatible storage.
type SyncConfig struct {
	Enabled   bool   `toml:"enabled"`
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`   // custom endpoint for MinIO, R2, ...
	Prefix    string `toml:"prefix"`     // key prefix inside the bucket
	PathStyle bool   `toml:"path_style"` // path-style addressing for self-hosted endpoints
}

// ThemeConfig selects the colour palette for tables and status output.
type ThemeConfig struct {
	Name     string `toml:"name"`     // preset family: default, studio, none
	Mode     string `toml:"mode"`     // auto, light, dark
	Nerdfont bool   `toml:"nerdfont"` // use nerd font symbols
}

// Config holds the folio configuration
type Config struct {
	ProjectsDir   string      `toml:"projects_dir"`
	TemplatesDir  string      `toml:"templates_dir"`
	Layout        string      `toml:"layout"`
	SchemaVersion string      `toml:"schema_version"`
	KeepFiles     bool        `toml:"keep_files"`
	IndexPath     string      `toml:"index_path"`
	Hooks         HooksConfig `toml:"-"` // custom parsing needed
	Sync          SyncConfig  `toml:"sync"`
	Theme         ThemeConfig `toml:"theme"`
}

// Environment variables that override config file settings.
const (
	EnvConfig       = "FOLIO_CONFIG"
	EnvProjectsDir  = "FOLIO_PROJECTS_DIR"
	EnvTemplatesDir = "FOLIO_TEMPLATES_DIR"
)

// Default returns the default configuration
func Default() Config {
	cfg := Config{
		ProjectsDir:   "~/Projects/folio",
		Layout:        layout.Default,
		SchemaVersion: schema.Latest,
		IndexPath:     "~/.folio/index.db",
		Hooks:         HooksConfig{Hooks: map[string]Hook{}},
	}
	cfg.ProjectsDir, _ = expandPath(cfg.ProjectsDir)
	cfg.IndexPath, _ = expandPath(cfg.IndexPath)
	return cfg
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the config file location: $FOLIO_CONFIG or
// ~/.config/folio/config.toml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "folio", "config.toml"), nil
}

// rawConfig is used for initial TOML parsing before processing hooks
type rawConfig struct {
	ProjectsDir   string         `toml:"projects_dir"`
	TemplatesDir  string         `toml:"templates_dir"`
	Layout        string         `toml:"layout"`
	SchemaVersion string         `toml:"schema_version"`
	KeepFiles     bool           `toml:"keep_files"`
	IndexPath     string         `toml:"index_path"`
	Hooks         map[string]any `toml:"hooks"`
	Sync          SyncConfig     `toml:"sync"`
	Theme         ThemeConfig    `toml:"theme"`
}

// Load reads the config file from Path and applies env overrides.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return applyEnv(Default())
	}
	return LoadFile(path)
}

// LoadFile reads config from path and applies env overrides.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(Default())
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(data, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	def := Default()
	cfg := Config{
		ProjectsDir:   raw.ProjectsDir,
		TemplatesDir:  raw.TemplatesDir,
		Layout:        raw.Layout,
		SchemaVersion: raw.SchemaVersion,
		KeepFiles:     raw.KeepFiles,
		IndexPath:     raw.IndexPath,
		Hooks:         parseHooksConfig(raw.Hooks),
		Sync:          raw.Sync,
		Theme:         raw.Theme,
	}

	if err := cfg.validate(); err != nil {
		return def, err
	}

	// Use defaults for empty values
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = def.ProjectsDir
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = def.IndexPath
	}
	if cfg.Layout == "" {
		cfg.Layout = def.Layout
	}
	if cfg.SchemaVersion == "" {
		cfg.SchemaVersion = def.SchemaVersion
	}

	return applyEnv(cfg)
}

// validate checks paths and enumerated values, then expands ~ in paths.
func (c *Config) validate() error {
	paths := []struct {
		field string
		value *string
	}{
		{"projects_dir", &c.ProjectsDir},
		{"templates_dir", &c.TemplatesDir},
		{"index_path", &c.IndexPath},
	}
	for _, p := range paths {
		if err := ValidatePath(*p.value, p.field); err != nil {
			return err
		}
		// Expand ~ (shell doesn't expand in config files)
		expanded, err := expandPath(*p.value)
		if err != nil {
			return fmt.Errorf("expand %s: %w", p.field, err)
		}
		*p.value = expanded
	}

	if err := validateEnum(c.Layout, "layout", ValidLayouts()); err != nil {
		return err
	}
	if err := validateEnum(c.SchemaVersion, "schema_version", ValidSchemaVersions()); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Name, "theme.name", ValidThemeNames); err != nil {
		return err
	}
	if err := validateEnum(c.Theme.Mode, "theme.mode", ValidThemeModes); err != nil {
		return err
	}
	if err := validateHooks(c.Hooks, "config"); err != nil {
		return err
	}
	if c.Sync.Enabled && c.Sync.Bucket == "" {
		return errors.New("sync.bucket is required when sync is enabled")
	}
	return nil
}

// applyEnv overlays FOLIO_PROJECTS_DIR and FOLIO_TEMPLATES_DIR.
func applyEnv(cfg Config) (Config, error) {
	overrides := []struct {
		env   string
		value *string
	}{
		{EnvProjectsDir, &cfg.ProjectsDir},
		{EnvTemplatesDir, &cfg.TemplatesDir},
	}
	for _, o := range overrides {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		if err := ValidatePath(v, o.env); err != nil {
			return cfg, err
		}
		expanded, err := expandPath(v)
		if err != nil {
			return cfg, fmt.Errorf("expand %s: %w", o.env, err)
		}
		*o.value = expanded
	}
	return cfg, nil
}

// parseHooksConfig extracts HooksConfig from raw TOML map
// Handles [hooks.NAME] sections
func parseHooksConfig(raw map[string]any) HooksConfig {
	hc := HooksConfig{
		Hooks: make(map[string]Hook),
	}

	for key, value := range raw {
		// Hook definitions are tables
		hookMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		hook := Hook{}
		if cmd, ok := hookMap["command"].(string); ok {
			hook.Command = cmd
		}
		if desc, ok := hookMap["description"].(string); ok {
			hook.Description = desc
		}
		if on, ok := hookMap["on"].([]any); ok {
			for _, v := range on {
				if s, ok := v.(string); ok {
					hook.On = append(hook.On, s)
				}
			}
		}
		if enabled, ok := hookMap["enabled"].(bool); ok {
			hook.Enabled = &enabled
		}
		hc.Hooks[key] = hook
	}

	return hc
}

// Encode renders the effective configuration as TOML, hooks included.
func (c Config) Encode() ([]byte, error) {
	type hookTable struct {
		Command     string   `toml:"command"`
		Description string   `toml:"description,omitempty"`
		On          []string `toml:"on,omitempty"`
	}
	out := struct {
		ProjectsDir   string               `toml:"projects_dir"`
		TemplatesDir  string               `toml:"templates_dir"`
		Layout        string               `toml:"layout"`
		SchemaVersion string               `toml:"schema_version"`
		KeepFiles     bool                 `toml:"keep_files"`
		IndexPath     string               `toml:"index_path"`
		Sync          SyncConfig           `toml:"sync"`
		Theme         ThemeConfig          `toml:"theme"`
		Hooks         map[string]hookTable `toml:"hooks,omitempty"`
	}{
		ProjectsDir:   c.ProjectsDir,
		TemplatesDir:  c.TemplatesDir,
		Layout:        c.Layout,
		SchemaVersion: c.SchemaVersion,
		KeepFiles:     c.KeepFiles,
		IndexPath:     c.IndexPath,
		Sync:          c.Sync,
		Theme:         c.Theme,
	}
	if len(c.Hooks.Hooks) > 0 {
		out.Hooks = make(map[string]hookTable, len(c.Hooks.Hooks))
		for name, h := range c.Hooks.Hooks {
			out.Hooks[name] = hookTable{Command: h.Command, Description: h.Description, On: h.On}
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const defaultConfig = `# folio configuration

# Directory new projects are created in
# Must be an absolute path or start with ~ (no relative paths like "." or "..")
# projects_dir = "~/Projects/folio"

# Directory with custom templates. Unset uses the built-in templates.
# Create an editable copy with: folio templates init ~/.config/folio/templates
# templates_dir = "~/.config/folio/templates"

# Directory layout: "standard" (10 folders) or "production" (25 nested folders)
# layout = "standard"

# Metadata schema written for new projects: "1.0.0" or "2.0.0"
# schema_version = "2.0.0"

# Add a .keep file to every created directory
# keep_files = false

# Project catalog used by "folio list", "folio sync" and "folio doctor"
# index_path = "~/.folio/index.db"

# Hooks - run commands after folio operations
# Use --hook=name to run a specific hook, --no-hook to skip all hooks
#
# Hooks with "on" run automatically for matching commands.
# Hooks without "on" only run when explicitly called with --hook=name.
#
# [hooks.editor]
# command = "code {path}"
# description = "Open the new project"
# on = ["new"]
#
# [hooks.notify]
# command = "notify-send 'folio' {id:raw}"
# on = ["sync"]
#
# Available "on" values: "new", "sync", "all"
#
# Available placeholders:
#   {path}          - absolute project root
#   {id}            - project identifier (folder name)
#   {title}         - project title
#   {organization}  - organization
#   {year}          - project year
#   {trigger}       - command that triggered the hook (new, sync)
#   {key}           - custom variable passed via --arg key=value
#   {key:-def}      - custom variable with default value if not provided

# Upload created projects (metadata and documents) to S3-compatible storage
# [sync]
# enabled = false
# bucket = "my-portfolio"
# region = "eu-central-1"
# prefix = "projects"
# endpoint = "http://localhost:9000"  # MinIO, R2, ...
# path_style = true

# Colours for tables and status symbols
# [theme]
# name = "default"   # default, studio, none
# mode = "auto"      # auto, light, dark
# nerdfont = false
`

// DefaultConfig returns the commented default configuration file content.
func DefaultConfig() string {
	return defaultConfig
}

// Init creates a default config file at Path.
// If force is true, overwrites existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}
	return path, InitAt(path, force)
}

// InitAt writes the default config file to path.
func InitAt(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
