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
	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/remote"
	"github.com/raphi011/folio/internal/scaffold"
)

// errReported is returned when the command already printed the details of
// its failure (violations, doctor issues).
var errReported = errors.New("checks failed")

// isReported reports whether err already explains itself, so the generic
// help hint is not printed.
func isReported(err error) bool {
	var se *scaffold.Error
	return errors.Is(err, errReported) || errors.As(err, &se)
}

// newSyncer builds an S3 syncer from the [sync] section.
func newSyncer(ctx context.Context, sc config.SyncConfig) (*remote.Syncer, error) {
	if sc.Bucket == "" {
		return nil, errors.New("sync is not configured: set [sync] bucket in config")
	}
	return remote.New(ctx, remote.Config{
		Region:    sc.Region,
		Bucket:    sc.Bucket,
		Endpoint:  sc.Endpoint,
		Prefix:    sc.Prefix,
		PathStyle: sc.PathStyle,
	})
}

// pushProject uploads the project at root under id.
func pushProject(ctx context.Context, cfg *config.Config, root, id string) error {
	s, err := newSyncer(ctx, cfg.Sync)
	if err != nil {
		return err
	}
	res, err := s.Push(ctx, root, id)
	if err != nil {
		return err
	}
	log.FromContext(ctx).Printf("Uploaded %d files (%d bytes) to s3://%s/%s\n",
		len(res.Keys), res.Bytes, cfg.Sync.Bucket, s.Key(id, ""))
	return nil
}

// resolveProject finds a project root by id: the index first, then
// <projects_dir>/<id>. The folder must exist.
func resolveProject(ctx context.Context, cfg *config.Config, id string) (string, error) {
	candidates := []string{filepath.Join(cfg.ProjectsDir, id)}
	if ix, err := index.Open(cfg.IndexPath); err == nil {
		if e, err := ix.Get(ctx, id); err == nil {
			candidates = slices.Insert(candidates, 0, e.Path)
		}
		_ = ix.Close()
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("project %q not found in index or %s", id, cfg.ProjectsDir)
}

// fixedCompletion completes from a fixed list of values.
func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var matches []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				matches = append(matches, v)
			}
		}
		return matches, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeHookNames completes configured hook names.
func completeHookNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg := config.FromContext(cmd.Context())
	var names []string
	for name := range cfg.Hooks.Hooks {
		names = append(names, name)
	}
	slices.Sort(names)
	return fixedCompletion(names)(cmd, args, toComplete)
}

// completeProjectIDs completes ids from the index.
func completeProjectIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg := config.FromContext(cmd.Context())
	ix, err := index.Open(cfg.IndexPath)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer ix.Close()

	entries, err := ix.List(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return fixedCompletion(ids)(cmd, args, toComplete)
}
