package doctor

import (
	"context"
	"fmt"

	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/ui/styles"
)

// Check scans projectsDir and, when ix is non-nil, cross-checks the catalog.
func Check(ctx context.Context, projectsDir string, ix *index.Index) (*Report, error) {
	l := log.FromContext(ctx)
	report := &Report{}

	projects, err := scanProjects(projectsDir)
	if err != nil {
		return nil, err
	}
	report.Stats.Projects = len(projects)

	// Category 1: metadata files
	l.Debug("checking metadata", "projects", len(projects))
	metaIssues := checkMetadata(ctx, projects)
	for i := range metaIssues {
		metaIssues[i].Category = CategoryMetadata
	}
	report.Issues = append(report.Issues, metaIssues...)
	report.Stats.MetadataIssues = len(metaIssues)
	report.Stats.MetadataValid = len(projects) - len(metaIssues)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ix == nil {
		return report, nil
	}

	entries, err := ix.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	report.Stats.IndexEntries = len(entries)

	// Category 2: catalog entries
	l.Debug("checking index", "entries", len(entries))
	indexIssues := checkIndex(entries, projectsDir)
	for i := range indexIssues {
		indexIssues[i].Category = CategoryIndex
	}
	report.Issues = append(report.Issues, indexIssues...)
	report.Stats.IndexStale = len(indexIssues)

	// Category 3: orphans
	orphanIssues := checkOrphans(projects, entries)
	for i := range orphanIssues {
		orphanIssues[i].Category = CategoryOrphan
	}
	report.Issues = append(report.Issues, orphanIssues...)
	report.Stats.OrphanUntracked = len(orphanIssues)

	return report, nil
}

// Run performs the checks, prints a summary and optionally fixes the catalog.
func Run(ctx context.Context, projectsDir string, ix *index.Index, fix bool) (*Report, error) {
	out := output.FromContext(ctx)

	report, err := Check(ctx, projectsDir, ix)
	if err != nil {
		return nil, err
	}

	printSummary(out, report.Stats, ix != nil)

	if len(report.Issues) == 0 {
		out.Printf("\n%s No issues found\n", styles.FormatCheck(true))
		return report, nil
	}

	out.Printf("\nFound %d issues:\n", len(report.Issues))
	printIssuesByCategory(out, report.Issues)

	fixable := report.Fixable()
	if len(fixable) == 0 {
		return report, nil
	}
	if fix {
		out.Println()
		fixed, failed := Fix(ctx, ix, fixable)
		out.Printf("\nFixed %d, failed %d\n", fixed, failed)
		return report, nil
	}

	out.Println("\nRun 'folio doctor --fix' to repair the index.")
	return report, nil
}

// printSummary prints a categorized summary.
func printSummary(out *output.Printer, stats IssueStats, withIndex bool) {
	ok := styles.FormatCheck(true)
	warn := styles.FormatWarn()

	out.Println()
	out.Printf("  %s %d projects with valid metadata\n", ok, stats.MetadataValid)
	if stats.MetadataIssues > 0 {
		out.Printf("  %s %d projects with metadata issues\n", warn, stats.MetadataIssues)
	}

	if !withIndex {
		out.Printf("  %s index not checked\n", warn)
		return
	}
	out.Printf("  %s %d index entries\n", ok, stats.IndexEntries-stats.IndexStale)
	if stats.IndexStale > 0 {
		out.Printf("  %s %d stale index entries\n", warn, stats.IndexStale)
	}
	if stats.OrphanUntracked > 0 {
		out.Printf("  %s %d projects not in index\n", warn, stats.OrphanUntracked)
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(out *output.Printer, issues []Issue) {
	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryMetadata: "Metadata issues",
		CategoryIndex:    "Index issues",
		CategoryOrphan:   "Orphan issues",
	}

	for _, cat := range []IssueCategory{CategoryMetadata, CategoryIndex, CategoryOrphan} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		out.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			out.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
