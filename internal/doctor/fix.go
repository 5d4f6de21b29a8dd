package doctor

import (
	"context"
	"path/filepath"

	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/schema"
	"github.com/raphi011/folio/internal/ui/styles"
)

// Fix applies the catalog repairs for issues. Issues without a fix action
// are skipped. Each result is printed through the output printer.
func Fix(ctx context.Context, ix *index.Index, issues []Issue) (fixed, failed int) {
	out := output.FromContext(ctx)
	ok := styles.FormatCheck(true)
	fail := styles.FormatCheck(false)

	for _, issue := range issues {
		var err error
		switch issue.FixAction {
		case FixRemoveEntry:
			err = ix.Remove(ctx, issue.Key)
			if err == nil {
				out.Printf("  %s Removed stale entry %q\n", ok, issue.Key)
			}

		case FixUpdatePath:
			var e index.Entry
			e, err = ix.Get(ctx, issue.Key)
			if err == nil {
				e.Path = issue.Path
				err = ix.Record(ctx, e)
			}
			if err == nil {
				out.Printf("  %s Updated path for %q\n", ok, issue.Key)
			}

		case FixAddEntry:
			var rec schema.Record
			rec, err = schema.ReadFile(filepath.Join(issue.Path, schema.FileName))
			if err == nil {
				err = ix.Record(ctx, index.FromRecord(issue.Key, issue.Path, rec))
			}
			if err == nil {
				out.Printf("  %s Added %q to index\n", ok, issue.Key)
			}

		default:
			continue
		}

		if err != nil {
			out.Printf("  %s Failed to fix %q: %v\n", fail, issue.Key, err)
			failed++
			continue
		}
		fixed++
	}

	return fixed, failed
}
