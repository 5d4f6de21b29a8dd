package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/tasks"
)

func newTasksCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "tasks <SocialPlan.csv>",
		Short:   "Render a social plan as a task checklist",
		GroupID: GroupUtility,
		Args:    cobra.ExactArgs(1),
		Long: `Render a social plan CSV as a markdown checklist, one task per row:

  - [ ] {platform} {asset} ({ratio}) on {date}: {copy}

The CSV needs the columns platform, asset, ratio, date and copy.`,
		Example: `  folio tasks 03_design/social/SocialPlan.csv
  folio tasks SocialPlan.csv >> 07_docs/Checklist.Release.md
  folio tasks SocialPlan.csv --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			list, err := tasks.ParseFile(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				if list == nil {
					list = []tasks.Task{}
				}
				return out.JSON(list)
			}
			return tasks.Render(out.Writer(), list)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
