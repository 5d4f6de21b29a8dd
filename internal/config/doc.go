// Package config handles loading and validation of folio configuration.
//
// Configuration is read from ~/.config/folio/config.toml (or $FOLIO_CONFIG)
// with environment variable overrides for directory settings.
//
// # Configuration Sources (highest priority first)
//
//   - FOLIO_PROJECTS_DIR env var: Directory new projects are created in
//   - FOLIO_TEMPLATES_DIR env var: Directory with custom templates
//   - .folio.toml in the projects directory (see [LoadLocal])
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - projects_dir: Where project roots are created (default ~/Projects/folio)
//   - templates_dir: Custom templates; unset uses the built-in set
//   - layout: "standard" or "production"
//   - schema_version: "1.0.0" or "2.0.0" (default "2.0.0")
//   - keep_files: Add .keep files to created directories
//   - index_path: SQLite project catalog (default ~/.folio/index.db)
//
// # Hooks Configuration
//
// Hooks are defined in [hooks.NAME] sections:
//
//	[hooks.editor]
//	command = "code {path}"
//	description = "Open the new project"
//	on = ["new"]  # auto-run after folio new
//
// Hooks with "on" run automatically for matching commands (new, sync).
// Hooks without "on" only run via explicit --hook=name flag.
//
// # Sync
//
// The [sync] section configures uploads to S3-compatible storage:
//
//	[sync]
//	enabled = true
//	bucket = "portfolio"
//	endpoint = "http://localhost:9000"
//	path_style = true
//
// # Path Validation
//
// Directory paths must be absolute or start with ~ (no relative paths like "."
// or "..") to avoid confusion about the working directory.
package config
