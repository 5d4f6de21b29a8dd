package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/hooks"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/scaffold"
	"github.com/raphi011/folio/internal/schema"
)

func newSyncCmd() *cobra.Command {
	var (
		list     bool
		hookName string
		noHook   bool
		env      []string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:               "sync <id>",
		Short:             "Upload a project's metadata and documents",
		GroupID:           GroupCore,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProjectIDs,
		Long: `Upload a project's metadata and documents to the bucket in [sync].

Only document files (json, md, csv, yaml, txt) are uploaded; media stays
local. Objects are stored under <prefix>/<id>/. Existing objects are
overwritten. Hooks with on=["sync"] run after a successful upload.`,
		Example: `  folio sync 2024_acme_site
  folio sync 2024_acme_site --list      # Show what is stored remotely
  folio sync 2024_acme_site --no-hook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)
			id := args[0]

			if list {
				s, err := newSyncer(ctx, cfg.Sync)
				if err != nil {
					return err
				}
				keys, err := s.List(ctx, id)
				if err != nil {
					return err
				}
				for _, k := range keys {
					out.Println(k)
				}
				return nil
			}

			root, err := resolveProject(ctx, cfg, id)
			if err != nil {
				return err
			}
			matches, err := hooks.SelectHooks(cfg.Hooks, hookName, noHook, hooks.CommandSync)
			if err != nil {
				return err
			}
			hookEnv, err := hooks.ParseEnvWithStdin(env, os.Stdin)
			if err != nil {
				return err
			}

			if dryRun {
				l.Printf("[dry-run] would upload %s\n", root)
			} else if err := pushProject(ctx, cfg, root, id); err != nil {
				return err
			}

			if len(matches) == 0 {
				return nil
			}
			rec, err := schema.ReadFile(filepath.Join(root, schema.FileName))
			if err != nil {
				l.Warnf("hooks run without metadata: %v", err)
				rec = schema.Record{}
			}
			hctx := hooks.ContextFromSummary(&scaffold.Summary{ID: id, Root: root, Record: rec}, hooks.CommandSync, hookEnv)
			hctx.DryRun = dryRun
			return hooks.RunAll(ctx, matches, hctx)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List the remote objects of the project")
	cmd.Flags().StringVar(&hookName, "hook", "", "Run only this hook")
	cmd.Flags().BoolVar(&noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringArrayVarP(&env, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print hook commands without uploading or executing")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")
	cmd.RegisterFlagCompletionFunc("hook", completeHookNames)
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)

	return cmd
}
