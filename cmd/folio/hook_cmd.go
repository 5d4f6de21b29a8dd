package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/hooks"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/scaffold"
	"github.com/raphi011/folio/internal/schema"
)

func newHookCmd() *cobra.Command {
	var (
		env    []string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:               "hook <name>... [-- id...]",
		Short:             "Run configured hook",
		Aliases:           []string{"h"},
		GroupID:           GroupUtility,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeHookArg,
		Long: `Run one or more configured hooks against a project.

Hooks are defined in config.toml and can use placeholders. By default the
hooks run for the project in the current directory. Use -- followed by
project ids to run them for other projects.`,
		Example: `  folio hook open                       # Run 'open' for the current project
  folio hook open commit                # Run multiple hooks
  folio hook open -- 2024_acme_site     # Run for a specific project
  folio hook open -d                    # Dry-run: print command without executing`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			hookNames, ids := splitHookArgs(args, cmd.ArgsLenAtDash())
			if len(hookNames) == 0 {
				return errors.New("no hook names given")
			}
			matches, err := lookupHooks(cfg.Hooks, hookNames)
			if err != nil {
				return err
			}

			hookEnv, err := hooks.ParseEnvWithStdin(env, os.Stdin)
			if err != nil {
				return err
			}

			roots, err := hookTargets(ctx, cfg, ids)
			if err != nil {
				return err
			}

			l.Debug("running hooks", "hooks", hookNames, "projects", roots, "dryRun", dryRun)

			var errs []error
			for _, root := range roots {
				hctx := projectHookContext(ctx, root, hookEnv)
				hctx.DryRun = dryRun
				if err := hooks.RunAll(ctx, matches, hctx); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", hctx.ID, err))
				}
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringArrayVarP(&env, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print command without executing")
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)

	return cmd
}

// splitHookArgs splits args into hook names and project ids at the -- position.
func splitHookArgs(args []string, dashIdx int) (hookNames, ids []string) {
	if dashIdx == -1 {
		return args, nil
	}
	return args[:dashIdx], args[dashIdx:]
}

// lookupHooks resolves hook names against the config. Explicitly named hooks
// run regardless of their "on" list; disabled hooks count as unknown.
func lookupHooks(hc config.HooksConfig, names []string) ([]hooks.HookMatch, error) {
	var (
		matches []hooks.HookMatch
		missing []string
	)
	for _, name := range names {
		hook, ok := hc.Hooks[name]
		if !ok || !hook.IsEnabled() {
			missing = append(missing, name)
			continue
		}
		matches = append(matches, hooks.HookMatch{Hook: &hook, Name: name})
	}
	if len(missing) > 0 {
		available := make([]string, 0, len(hc.Hooks))
		for name, h := range hc.Hooks {
			if h.IsEnabled() {
				available = append(available, name)
			}
		}
		slices.Sort(available)
		return nil, fmt.Errorf("unknown hook(s): %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(available, ", "))
	}
	return matches, nil
}

// hookTargets resolves ids to project roots. Without ids the current
// directory must be a project root.
func hookTargets(ctx context.Context, cfg *config.Config, ids []string) ([]string, error) {
	if len(ids) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(filepath.Join(wd, schema.FileName)); err != nil {
			return nil, fmt.Errorf("%s has no %s; pass a project id after --", wd, schema.FileName)
		}
		return []string{wd}, nil
	}

	roots := make([]string, 0, len(ids))
	for _, id := range ids {
		root, err := resolveProject(ctx, cfg, id)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// projectHookContext builds placeholder values for an existing project.
// Missing or unreadable metadata leaves title, organization and year empty.
func projectHookContext(ctx context.Context, root string, env map[string]string) hooks.Context {
	rec, err := schema.ReadFile(filepath.Join(root, schema.FileName))
	if err != nil {
		log.FromContext(ctx).Warnf("%s: %v", root, err)
	}
	sum := &scaffold.Summary{ID: filepath.Base(root), Root: root, Record: rec}
	return hooks.ContextFromSummary(sum, hooks.CommandHook, env)
}

// completeHookArg completes hook names before -- and project ids after it.
func completeHookArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cmd.ArgsLenAtDash() >= 0 {
		return completeProjectIDs(cmd, nil, toComplete)
	}
	return completeHookNames(cmd, args, toComplete)
}
