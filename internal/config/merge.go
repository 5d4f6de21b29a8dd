package config

import "maps"

// MergeLocal merges a projects-directory config into a global config,
// returning a new Config without mutating the global.
// Returns global unchanged if local is nil.
func MergeLocal(global *Config, local *LocalConfig) *Config {
	if local == nil {
		return global
	}

	// Shallow copy: projects_dir, index_path and sync are global-only.
	merged := *global

	// Merge hooks by name: local overrides/adds, enabled=false removes
	merged.Hooks = mergeHooks(global.Hooks, local.Hooks)

	if local.TemplatesDir != "" {
		merged.TemplatesDir = local.TemplatesDir
	}
	if local.Layout != "" {
		merged.Layout = local.Layout
	}
	if local.SchemaVersion != "" {
		merged.SchemaVersion = local.SchemaVersion
	}
	if local.KeepFiles != nil {
		merged.KeepFiles = *local.KeepFiles
	}

	return &merged
}

// mergeHooks merges local hooks into global hooks.
// Local hooks with the same name override global hooks.
// Local hooks with enabled=false remove the global hook.
func mergeHooks(global, local HooksConfig) HooksConfig {
	merged := HooksConfig{
		Hooks: make(map[string]Hook, len(global.Hooks)),
	}

	maps.Copy(merged.Hooks, global.Hooks)

	for name, hook := range local.Hooks {
		if !hook.IsEnabled() {
			delete(merged.Hooks, name)
			continue
		}
		merged.Hooks[name] = hook
	}

	return merged
}
