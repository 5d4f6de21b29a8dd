package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/folio/internal/cmd"
	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
)

// shellQuote escapes a string for safe use in shell commands.
// It wraps the value in single quotes and escapes any embedded single quotes.
// e.g., "it's" becomes 'it'\''s'
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "'\\''") + "'"
}

// CommandType identifies which command is triggering the hook
type CommandType string

const (
	CommandNew  CommandType = "new"
	CommandSync CommandType = "sync"
	CommandHook CommandType = "hook"
)

// Context holds the values for placeholder substitution
type Context struct {
	Path         string            // absolute project root
	ID           string            // project identifier (folder name)
	Title        string            // project title
	Organization string            // organization, may be empty
	Year         string            // project year
	Trigger      string            // command that triggered the hook (new, sync, hook)
	Env          map[string]string // custom variables from --arg key=value flags
	DryRun       bool              // if true, print command instead of executing
}

// HookMatch represents a hook that matched the current command
type HookMatch struct {
	Hook *config.Hook
	Name string
}

// SelectHooks determines which hooks to run based on config and CLI flags.
// If hookName is specified, only that hook runs. Otherwise all hooks with a
// matching "on" condition run, in name order.
// Returns nil if no hooks should run, error if the named hook doesn't exist.
func SelectHooks(cfg config.HooksConfig, hookName string, noHook bool, cmdType CommandType) ([]HookMatch, error) {
	if noHook {
		return nil, nil
	}

	// Explicit hook ignores the "on" condition
	if hookName != "" {
		hook, exists := cfg.Hooks[hookName]
		if !exists || !hook.IsEnabled() {
			return nil, fmt.Errorf("unknown hook %q", hookName)
		}
		return []HookMatch{{Hook: &hook, Name: hookName}}, nil
	}

	return findMatchingHooks(cfg, cmdType), nil
}

// findMatchingHooks returns all hooks that have the command type in their "on" list.
// Hooks without "on" are skipped (they only run via explicit --hook=name).
func findMatchingHooks(cfg config.HooksConfig, cmdType CommandType) []HookMatch {
	var matches []HookMatch

	for name, hook := range cfg.Hooks {
		if hook.IsEnabled() && hookMatchesCommand(hook, cmdType) {
			hookCopy := hook
			matches = append(matches, HookMatch{Hook: &hookCopy, Name: name})
		}
	}

	slices.SortFunc(matches, func(a, b HookMatch) int {
		return strings.Compare(a.Name, b.Name)
	})
	return matches
}

// hookMatchesCommand returns true if cmdType is in the hook's "on" list.
// Special value "all" matches all command types.
func hookMatchesCommand(hook config.Hook, cmdType CommandType) bool {
	for _, on := range hook.On {
		if on == "all" || on == string(cmdType) {
			return true
		}
	}
	return false
}

// RunAll runs all matched hooks in the project root. Returns on first error.
func RunAll(ctx context.Context, matches []HookMatch, hctx Context) error {
	for _, match := range matches {
		if err := runHook(ctx, match.Name, match.Hook, hctx); err != nil {
			return fmt.Errorf("hook %q failed: %w", match.Name, err)
		}
	}
	return nil
}

// RunAllNonFatal runs all matched hooks, logging failures as warnings.
// Used after a successful create, where a hook must not fail the command.
// Returns the number of failed hooks.
func RunAllNonFatal(ctx context.Context, matches []HookMatch, hctx Context) int {
	failed := 0
	for _, match := range matches {
		if err := runHook(ctx, match.Name, match.Hook, hctx); err != nil {
			log.FromContext(ctx).Warnf("hook %q failed for %s: %v", match.Name, hctx.ID, err)
			failed++
		}
	}
	return failed
}

// runHook executes a single hook with variable substitution.
func runHook(ctx context.Context, name string, hook *config.Hook, hctx Context) error {
	l := log.FromContext(ctx)
	command := SubstitutePlaceholders(hook.Command, hctx)

	if hctx.DryRun {
		output.FromContext(ctx).Printf("[dry-run] %s: %s\n", name, command)
		return nil
	}

	l.Printf("Running hook '%s'...\n", name)

	out, err := cmd.OutputContext(ctx, hctx.Path, "sh", "-c", command)
	if len(out) > 0 {
		output.FromContext(ctx).Print(string(out))
	}
	if err != nil {
		return err
	}

	if hook.Description != "" {
		l.Printf("  ✓ %s\n", hook.Description)
	}
	return nil
}

// readStdinIfPiped reads all content from stdin if it's piped (not a TTY).
// Returns empty string and nil if stdin is a TTY (interactive).
func readStdinIfPiped(stdin *os.File) (string, error) {
	if isatty.IsTerminal(stdin.Fd()) || isatty.IsCygwinTerminal(stdin.Fd()) {
		return "", nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// ParseEnv parses a slice of "key=value" strings into a map.
// Returns an error if any entry doesn't contain "=".
func ParseEnv(envSlice []string) (map[string]string, error) {
	result, stdinKeys, err := parseEnv(envSlice)
	if err != nil {
		return nil, err
	}
	// Without stdin support "-" is a literal value.
	for _, key := range stdinKeys {
		result[key] = "-"
	}
	return result, nil
}

// ParseEnvWithStdin parses a slice of "key=value" strings into a map.
// If any value is "-", stdin is read once and assigned to all such keys.
// Returns an error if stdin is requested but not piped or empty.
func ParseEnvWithStdin(envSlice []string, stdin *os.File) (map[string]string, error) {
	result, stdinKeys, err := parseEnv(envSlice)
	if err != nil {
		return nil, err
	}
	if len(stdinKeys) == 0 {
		return result, nil
	}

	content, err := readStdinIfPiped(stdin)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, fmt.Errorf("stdin not piped: KEY=- requires piped input")
	}
	for _, key := range stdinKeys {
		result[key] = content
	}
	return result, nil
}

func parseEnv(envSlice []string) (map[string]string, []string, error) {
	result := make(map[string]string)
	var stdinKeys []string
	for _, e := range envSlice {
		key, value, ok := strings.Cut(e, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid env format %q: expected KEY=VALUE", e)
		}
		if key == "" {
			return nil, nil, fmt.Errorf("invalid env format %q: key cannot be empty", e)
		}
		if value == "-" {
			stdinKeys = append(stdinKeys, key)
			continue
		}
		result[key] = value
	}
	return result, stdinKeys, nil
}

// placeholderRegex matches {key}, {key:raw}, or {key:-default}.
// Supported formats:
//   - {key}           - value is shell-quoted
//   - {key:raw}       - value is used as-is (no quoting)
//   - {key:-default}  - value is shell-quoted, uses default if key not set
var placeholderRegex = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)(?:(:raw)|:-([^}]*))?\}`)

// SubstitutePlaceholders replaces {placeholder} with shell-quoted values.
// Values are properly escaped to prevent command injection, and substituted
// values are never expanded again.
//
// Static placeholders: {path}, {id}, {title}, {organization}, {year}, {trigger}
// Custom placeholders come from Context.Env; static names win on conflict.
func SubstitutePlaceholders(command string, hctx Context) string {
	static := map[string]string{
		"path":         hctx.Path,
		"id":           hctx.ID,
		"title":        hctx.Title,
		"organization": hctx.Organization,
		"year":         hctx.Year,
		"trigger":      hctx.Trigger,
	}

	return placeholderRegex.ReplaceAllStringFunc(command, func(match string) string {
		sub := placeholderRegex.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		key := sub[1]
		isRaw := sub[2] == ":raw"
		defaultVal := sub[3]

		val, ok := static[key]
		if !ok {
			val, ok = hctx.Env[key]
		}
		if !ok {
			val = defaultVal
		}
		if isRaw {
			return val
		}
		return shellQuote(val)
	})
}
