package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/schema"
	"github.com/raphi011/folio/internal/ui/static"
	"github.com/raphi011/folio/internal/ui/styles"
)

// fileResult is the validation outcome of one metadata file.
type fileResult struct {
	Path       string             `json:"path"`
	Valid      bool               `json:"valid"`
	Version    string             `json:"schemaVersion,omitempty"`
	Violations []schema.Violation `json:"violations"`
	Error      string             `json:"error,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "validate [file|dir]...",
		Short:   "Validate project metadata",
		Aliases: []string{"check"},
		GroupID: GroupCore,
		Long: `Validate metadata files against their declared schema version.

A directory argument is resolved to its metadata.json, or the legacy
Meta.Project.yaml. Without arguments the current directory is used.
Exits non-zero if any file is unreadable or has violations.`,
		Example: `  folio validate                                  # ./metadata.json
  folio validate ~/Projects/folio/2024_acme_site
  folio validate old/Meta.Project.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			l := log.FromContext(ctx)

			if len(args) == 0 {
				args = []string{"."}
			}

			results := make([]fileResult, 0, len(args))
			failed := 0
			for _, arg := range args {
				r := validatePath(arg)
				if !r.Valid {
					failed++
				}
				results = append(results, r)
			}

			if jsonOutput {
				if err := out.JSON(results); err != nil {
					return err
				}
			} else {
				printValidation(out, results)
			}

			if failed > 0 {
				l.Printf("%d of %d files failed validation\n", failed, len(results))
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// validatePath resolves arg to a metadata file and validates it.
func validatePath(arg string) fileResult {
	path := metadataFile(arg)
	r := fileResult{Path: path, Violations: []schema.Violation{}}

	rec, err := schema.ReadFile(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	fallback := schema.FallbackVersion(path)
	r.Version = rec.Version()
	if r.Version == "" {
		r.Version = fallback
	}
	if v := schema.ValidateAs(rec, fallback); len(v) > 0 {
		r.Violations = v
		return r
	}
	r.Valid = true
	return r
}

// metadataFile maps a directory to the metadata file inside it.
func metadataFile(arg string) string {
	info, err := os.Stat(arg)
	if err != nil || !info.IsDir() {
		return arg
	}
	current := filepath.Join(arg, schema.FileName)
	if _, err := os.Stat(current); errors.Is(err, os.ErrNotExist) {
		legacy := filepath.Join(arg, schema.LegacyFileName)
		if _, err := os.Stat(legacy); err == nil {
			return legacy
		}
	}
	return current
}

func printValidation(out *output.Printer, results []fileResult) {
	var rows [][]string
	for _, r := range results {
		switch {
		case r.Error != "":
			out.Printf("%s %s: %s\n", styles.FormatCheck(false), r.Path, r.Error)
		case r.Valid:
			out.Printf("%s %s (schema %s)\n", styles.FormatCheck(true), r.Path, r.Version)
		default:
			out.Printf("%s %s: %d violation(s)\n", styles.FormatCheck(false), r.Path, len(r.Violations))
			for _, v := range r.Violations {
				rows = append(rows, []string{r.Path, v.Key, string(v.Kind), v.Message})
			}
		}
	}
	if len(rows) > 0 {
		out.Println()
		out.Print(static.RenderTable([]string{"FILE", "KEY", "KIND", "PROBLEM"}, rows))
	}
}
