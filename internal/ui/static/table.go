// Package static provides non-interactive terminal output components.
//
// This package renders tables and highlighted text for the list,
// validate and doctor commands.
package static

import (
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// ProjectHeaders are the columns of the project list.
var ProjectHeaders = []string{"ID", "TITLE", "ORGANIZATION", "TYPE", "YEAR", "STATUS"}

// ProjectTableRow formats an index entry for ProjectHeaders. matched holds
// rune indexes of ID characters to highlight (from a fuzzy match).
func ProjectTableRow(e index.Entry, matched []int) []string {
	return []string{
		styles.FormatPath(e.Path, Highlight(e.ID, matched)),
		e.Title,
		e.Organization,
		e.WorkType,
		e.Year,
		styles.FormatStatus(e.Status),
	}
}

// Highlight renders the runes of s at the given indexes with
// styles.HighlightStyle.
func Highlight(s string, indexes []int) string {
	if len(indexes) == 0 {
		return s
	}
	var b strings.Builder
	for i, r := range []rune(s) {
		if slices.Contains(indexes, i) {
			b.WriteString(styles.HighlightStyle.Render(string(r)))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
