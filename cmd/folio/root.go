package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/log"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool
)

// Command group IDs for organizing help output
const (
	GroupCore    = "core"
	GroupUtility = "utility"
	GroupConfig  = "config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folio",
		Short: "Scaffold creative projects with a consistent layout and metadata",
		Long: `folio creates project folders for creative work.

Each project gets a deterministic folder name (year_organization_title),
a standard directory layout, a validated metadata.json and a set of
starter documents rendered from templates.`,
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2, // Enable typo suggestions
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate mutually exclusive flags
			if verbose && quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			// Flags are parsed now; replace the placeholder logger.
			cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet)))
			return nil
		},
		// Run is not set - shows help when no subcommand provided
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug output and external commands")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	cmd.Version = versionString()
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddGroup(
		&cobra.Group{ID: GroupCore, Title: "Core Commands:"},
		&cobra.Group{ID: GroupUtility, Title: "Utility Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Core commands
	cmd.AddCommand(newNewCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newSyncCmd())

	// Utility commands
	cmd.AddCommand(newTasksCmd())
	cmd.AddCommand(newHookCmd())

	// Config commands
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newTemplatesCmd())
	cmd.AddCommand(newDoctorCmd())

	return cmd
}

// loadConfig reads the global config and merges the projects directory's
// .folio.toml. Problems are warnings; defaults are used instead.
func loadConfig() *config.Config {
	loaded, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg := &loaded

	local, err := config.LoadLocal(cfg.ProjectsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return cfg
	}
	return config.MergeLocal(cfg, local)
}

// Execute builds the root command and runs it.
func Execute() {
	cfg := loadConfig()
	styles.Init(cfg.Theme)

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctx = config.WithConfig(ctx, cfg)
	ctx = log.WithLogger(ctx, log.New(os.Stderr, false, false))

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, styles.NewWriter(os.Stdout))

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if !isReported(err) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprintln(os.Stderr, "Run 'folio -h' for help")
		}
		cancel()
		os.Exit(1)
	}
}
