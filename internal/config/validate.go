package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/folio/internal/layout"
	"github.com/raphi011/folio/internal/schema"
)

// ValidHookTriggers are the values accepted in a hook's "on" list.
var ValidHookTriggers = []string{"new", "sync", "all"}

// ValidThemeNames are the preset colour families.
var ValidThemeNames = []string{"default", "studio", "none"}

// ValidThemeModes select the light or dark variant of a theme.
var ValidThemeModes = []string{"auto", "light", "dark"}

// ValidLayouts returns the accepted layout names.
func ValidLayouts() []string {
	return layout.Names()
}

// ValidSchemaVersions returns the accepted schema versions.
func ValidSchemaVersions() []string {
	return schema.Versions()
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateHooks checks every hook has a command and known triggers.
func validateHooks(hc HooksConfig, source string) error {
	for name, hook := range hc.Hooks {
		if hook.IsEnabled() && hook.Command == "" {
			return fmt.Errorf("hook %q in %s: command is required", name, source)
		}
		for _, on := range hook.On {
			if err := validateEnum(on, fmt.Sprintf("hooks.%s.on", name), ValidHookTriggers); err != nil {
				return fmt.Errorf("%w (in %s)", err, source)
			}
		}
	}
	return nil
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
