package main

import (
	"context"

	"github.com/atotto/clipboard"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/hooks"
	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/scaffold"
)

// postCreate selects the steps run after a successful scaffold.
type postCreate struct {
	hooks    []hooks.HookMatch
	env      map[string]string
	noSync   bool
	noIndex  bool
	copyPath bool
}

// afterCreate runs hooks, sync, index and clipboard steps for a created
// project. Each failure is a warning; the project is never removed here.
func afterCreate(ctx context.Context, cfg *config.Config, sum *scaffold.Summary, p postCreate) {
	l := log.FromContext(ctx)

	if len(p.hooks) > 0 {
		hctx := hooks.ContextFromSummary(sum, hooks.CommandNew, p.env)
		if failed := hooks.RunAllNonFatal(ctx, p.hooks, hctx); failed > 0 {
			l.Debug("hooks failed", "count", failed)
		}
	}

	if cfg.Sync.Enabled && !p.noSync {
		if err := pushProject(ctx, cfg, sum.Root, sum.ID); err != nil {
			l.Warnf("sync of %s failed: %v", sum.ID, err)
		}
	}

	if !p.noIndex {
		if err := recordProject(ctx, cfg, index.FromSummary(sum)); err != nil {
			l.Warnf("failed to record %s in index: %v", sum.ID, err)
		}
	}

	if p.copyPath {
		if err := clipboard.WriteAll(sum.Root); err != nil {
			l.Warnf("failed to copy to clipboard: %v", err)
		} else {
			l.Println("Path copied to clipboard")
		}
	}
}

// recordProject opens the index, records e and closes it again.
func recordProject(ctx context.Context, cfg *config.Config, e index.Entry) error {
	ix, err := index.Open(cfg.IndexPath)
	if err != nil {
		return err
	}
	defer ix.Close()
	return ix.Record(ctx, e)
}
