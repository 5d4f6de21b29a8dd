package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/doctor"
	"github.com/raphi011/folio/internal/index"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
)

func newDoctorCmd() *cobra.Command {
	var (
		fix        bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose and repair project and index issues",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Diagnose the projects directory and the project index.

Checks:
- Every project folder has a metadata.json that passes validation
- Index entries point to existing folders
- Valid projects on disk are recorded in the index

--fix repairs the index (remove stale entries, update moved paths, add
missing projects). Metadata problems are reported only.`,
		Example: `  folio doctor          # Check for issues
  folio doctor --fix    # Repair the index
  folio doctor --json   # Machine-readable report`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			ix, err := index.Open(cfg.IndexPath)
			if err != nil {
				l.Warnf("index unavailable: %v", err)
				ix = nil
			} else {
				defer ix.Close()
			}

			var report *doctor.Report
			if jsonOutput {
				report, err = doctor.Check(ctx, cfg.ProjectsDir, ix)
				if err != nil {
					return err
				}
				if err := output.FromContext(ctx).JSON(report); err != nil {
					return err
				}
			} else {
				report, err = doctor.Run(ctx, cfg.ProjectsDir, ix, fix && ix != nil)
				if err != nil {
					return err
				}
			}

			// --fix only repairs the index; metadata problems still fail.
			unfixable := len(report.Issues) - len(report.Fixable())
			if unfixable > 0 || (len(report.Issues) > 0 && !fix) {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair index issues")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output report as JSON (no fixes applied)")
	cmd.MarkFlagsMutuallyExclusive("fix", "json")

	return cmd
}
