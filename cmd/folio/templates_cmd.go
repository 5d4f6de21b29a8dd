package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/templates"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Short:   "Manage document templates",
		GroupID: GroupConfig,
		Long: `Manage the document templates rendered into new projects.

Without templates_dir in config the built-in set is used.`,
		Example: `  folio templates list
  folio templates init ~/.folio/templates`,
	}

	cmd.AddCommand(newTemplatesListCmd())
	cmd.AddCommand(newTemplatesInitCmd())

	return cmd
}

func newTemplatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in template names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			for _, name := range templates.Names() {
				out.Println(name)
			}
			return nil
		},
	}
}

func newTemplatesInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Copy the built-in templates into a directory",
		Args:  cobra.MaximumNArgs(1),
		Long: `Copy the built-in templates into dir for customisation.

dir defaults to the configured templates_dir. Existing files are kept
unless --force is given.`,
		Example: `  folio templates init ~/.folio/templates
  folio templates init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)

			dir := config.FromContext(ctx).TemplatesDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return errors.New("no directory given and templates_dir is not configured")
			}

			written, err := templates.WriteTo(dir, force)
			for _, path := range written {
				l.Printf("Wrote %s\n", path)
			}
			if err != nil {
				return err
			}
			if len(written) == 0 {
				l.Printf("All templates already exist in %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing templates")

	return cmd
}
