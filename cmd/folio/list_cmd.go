package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/ui/static"
)

func newListCmd() *cobra.Command {
	var (
		jsonOutput bool
		status     string
		workType   string
	)

	cmd := &cobra.Command{
		Use:     "list [query]",
		Short:   "List indexed projects",
		Aliases: []string{"ls"},
		GroupID: GroupCore,
		Args:    cobra.MaximumNArgs(1),
		Long: `List projects recorded in the index, newest first.

With a query, projects are fuzzy-matched on id and title and sorted by
match quality. Run 'folio doctor --fix' to add projects created elsewhere.`,
		Example: `  folio list                 # All projects
  folio list acme            # Fuzzy search
  folio list --status planning
  folio list --json          # Machine-readable output`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			entries, err := loadEntries(ctx, cfg)
			if err != nil {
				return err
			}
			entries = filterEntries(entries, status, workType)

			var query string
			if len(args) == 1 {
				query = args[0]
			}
			results := searchEntries(entries, query)
			log.FromContext(ctx).Debug("list", "total", len(entries), "matched", len(results), "query", query)

			if jsonOutput {
				list := make([]index.Entry, len(results))
				for i, r := range results {
					list[i] = r.entry
				}
				return out.JSON(list)
			}

			if len(results) == 0 {
				log.FromContext(ctx).Println("No projects found")
				return nil
			}

			rows := make([][]string, len(results))
			for i, r := range results {
				rows[i] = static.ProjectTableRow(r.entry, r.matched)
			}
			out.Print(static.RenderTable(static.ProjectHeaders, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&status, "status", "", "Only projects with this status")
	cmd.Flags().StringVarP(&workType, "type", "t", "", "Only projects of this work type")

	return cmd
}

func loadEntries(ctx context.Context, cfg *config.Config) ([]index.Entry, error) {
	ix, err := index.Open(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	defer ix.Close()
	return ix.List(ctx)
}

func filterEntries(entries []index.Entry, status, workType string) []index.Entry {
	if status == "" && workType == "" {
		return entries
	}
	var out []index.Entry
	for _, e := range entries {
		if status != "" && e.Status != status {
			continue
		}
		if workType != "" && !strings.EqualFold(e.WorkType, workType) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// searchResult is an entry plus the id characters matched by the query.
type searchResult struct {
	entry   index.Entry
	matched []int
}

// entrySource implements fuzzy.Source over "id title".
type entrySource []index.Entry

func (s entrySource) String(i int) string { return s[i].ID + " " + s[i].Title }
func (s entrySource) Len() int            { return len(s) }

// searchEntries fuzzy-matches query against id and title. An empty query
// keeps every entry in order.
func searchEntries(entries []index.Entry, query string) []searchResult {
	if query == "" {
		results := make([]searchResult, len(entries))
		for i, e := range entries {
			results[i] = searchResult{entry: e}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, entrySource(entries))
	results := make([]searchResult, len(matches))
	for i, m := range matches {
		e := entries[m.Index]
		var idMatches []int
		for _, idx := range m.MatchedIndexes {
			if idx < len(e.ID) {
				idMatches = append(idMatches, idx)
			}
		}
		results[i] = searchResult{entry: e, matched: idMatches}
	}
	return results
}
