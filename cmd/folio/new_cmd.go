package main

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/hooks"
	"github.com/raphi011/folio/internal/layout"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/scaffold"
	"github.com/raphi011/folio/internal/schema"
	"github.com/raphi011/folio/internal/templates"
)

// newFlags holds the flags of "folio new".
type newFlags struct {
	params     scaffold.Params
	tagList    string
	tags       []string
	layout     string
	schema     string
	keep       bool
	templates  string
	rollback   bool
	copyPath   bool
	hookName   string
	noHook     bool
	noSync     bool
	noIndex    bool
	env        []string
	jsonOutput bool
}

func newNewCmd() *cobra.Command {
	var f newFlags

	cmd := &cobra.Command{
		Use:     "new <title>...",
		Short:   "Create a new project",
		Aliases: []string{"n", "create"},
		GroupID: GroupCore,
		Args:    cobra.MinimumNArgs(1),
		Long: `Create a new project under projects_dir.

The folder name is built from the year (or --date), the organization and
the title: 2024_acme_spring-campaign. Creation fails if it already exists.

After the project is created, hooks with on=["new"] run, the project is
uploaded when [sync] is enabled, and it is recorded in the index. A failure
in any of these steps is reported as a warning; the project stays.`,
		Example: `  folio new "Spring Campaign" --org Acme --type social
  folio new Brand Refresh -o Acme -y 2023 --tags brand,identity
  folio new Launch --date 2025-04-01 --layout production
  folio new Poster --rollback --copy     # remove partial project on failure, copy path
  folio new Site --hook=editor           # run only the 'editor' hook
  folio new Site --json                  # print summary as JSON`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			f.params.Title = strings.Join(args, " ")
			f.params.Tags = append(splitList(f.tagList), f.tags...)

			// Resolve hooks and variables before touching the disk.
			matches, err := hooks.SelectHooks(cfg.Hooks, f.hookName, f.noHook, hooks.CommandNew)
			if err != nil {
				return err
			}
			env, err := hooks.ParseEnvWithStdin(f.env, os.Stdin)
			if err != nil {
				return err
			}

			s, err := newScaffolder(cfg, f)
			if err != nil {
				return err
			}

			l.Debug("creating project", "title", f.params.Title, "layout", firstSet(f.layout, cfg.Layout))
			sum, err := s.Create(ctx, f.params)
			if err != nil {
				return err
			}

			l.Printf("Created %s (%d directories, %d files)\n", sum.ID, len(sum.Dirs), len(sum.Files))

			afterCreate(ctx, cfg, sum, postCreate{
				hooks:    matches,
				env:      env,
				noSync:   f.noSync,
				noIndex:  f.noIndex,
				copyPath: f.copyPath,
			})

			if f.jsonOutput {
				return out.JSON(sum)
			}
			out.Println(sum.Root)
			return nil
		},
	}

	p := &f.params
	cmd.Flags().StringVarP(&p.Organization, "org", "o", "", "Organization or client")
	cmd.Flags().StringVarP(&p.WorkType, "type", "t", "", "Work type (e.g. social, print, web)")
	cmd.Flags().StringVarP(&p.Year, "year", "y", "", "Project year (default: from --date or current year)")
	cmd.Flags().StringVar(&p.Date, "date", "", "Project date YYYY-MM-DD; replaces the year in the folder name")
	cmd.Flags().StringVar(&p.DueDate, "due", "", "Due date YYYY-MM-DD")
	cmd.Flags().StringVar(&p.Owner, "owner", "", "Project owner")
	cmd.Flags().StringVar(&p.Role, "role", "", "Your role on the project")
	cmd.Flags().StringVar(&p.Status, "status", "", "Status: "+strings.Join(schema.Statuses, ", "))
	cmd.Flags().StringVar(&p.Notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.tagList, "tags", "", "Comma-separated tags")
	cmd.Flags().StringArrayVar(&f.tags, "tag", nil, "Add a tag (repeatable)")
	cmd.Flags().StringSliceVar(&p.Categories, "category", nil, "Categories (comma-separated or repeated)")
	cmd.Flags().StringSliceVar(&p.Skills, "skill", nil, "Skills (comma-separated or repeated)")
	cmd.Flags().StringSliceVar(&p.Tools, "tool", nil, "Tools (comma-separated or repeated)")
	cmd.Flags().StringArrayVar(&p.Highlights, "highlight", nil, "Add a highlight (repeatable)")
	cmd.Flags().StringToStringVar(&p.Links, "link", nil, "Link KEY=URL (keys: "+strings.Join(schema.LinkKeys, ", ")+")")
	cmd.Flags().BoolVar(&p.NDA, "nda", false, "Mark the project as under NDA")

	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "Directory layout (default from config)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "Metadata schema version (default from config)")
	cmd.Flags().BoolVar(&f.keep, "keep", false, "Add a .keep file to every directory")
	cmd.Flags().StringVar(&f.templates, "templates-dir", "", "Template directory (default from config, then built-in)")
	cmd.Flags().BoolVar(&f.rollback, "rollback", false, "Remove the project folder if creation fails part-way")

	cmd.Flags().BoolVarP(&f.copyPath, "copy", "c", false, "Copy the project path to the clipboard")
	cmd.Flags().StringVar(&f.hookName, "hook", "", "Run only this hook")
	cmd.Flags().BoolVar(&f.noHook, "no-hook", false, "Skip hooks")
	cmd.Flags().StringArrayVarP(&f.env, "arg", "a", nil, "Set hook variable KEY=VALUE (KEY=- reads stdin)")
	cmd.Flags().BoolVar(&f.noSync, "no-sync", false, "Skip uploading even when [sync] is enabled")
	cmd.Flags().BoolVar(&f.noIndex, "no-index", false, "Do not record the project in the index")
	cmd.Flags().BoolVar(&f.jsonOutput, "json", false, "Print the creation summary as JSON")
	cmd.MarkFlagsMutuallyExclusive("hook", "no-hook")

	cmd.RegisterFlagCompletionFunc("type", fixedCompletion(schema.WorkTypes[1:]))
	cmd.RegisterFlagCompletionFunc("status", fixedCompletion(schema.Statuses))
	cmd.RegisterFlagCompletionFunc("layout", fixedCompletion(layout.Names()))
	cmd.RegisterFlagCompletionFunc("schema", fixedCompletion(schema.Versions()))
	cmd.RegisterFlagCompletionFunc("hook", completeHookNames)
	cmd.RegisterFlagCompletionFunc("arg", cobra.NoFileCompletions)

	return cmd
}

// newScaffolder applies flag overrides on top of the effective config.
func newScaffolder(cfg *config.Config, f newFlags) (*scaffold.Scaffolder, error) {
	l, err := layout.Get(firstSet(f.layout, cfg.Layout))
	if err != nil {
		return nil, err
	}
	return scaffold.New(scaffold.Options{
		ProjectsDir:   cfg.ProjectsDir,
		Templates:     templates.Dir(firstSet(f.templates, cfg.TemplatesDir)),
		Layout:        l,
		SchemaVersion: firstSet(f.schema, cfg.SchemaVersion),
		KeepFiles:     f.keep || cfg.KeepFiles,
		Rollback:      f.rollback,
	})
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// firstSet returns the first non-empty value.
func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
