package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/folio/internal/config"
	"github.com/raphi011/folio/internal/output"
	"github.com/raphi011/folio/internal/storage"
	"github.com/raphi011/folio/internal/ui/static"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage folio configuration.

Global config: ~/.folio/config.toml ($FOLIO_CONFIG overrides)
Local config:  .folio.toml (in the projects directory)`,
		Example: `  folio config init          # Create default global config
  folio config init --local  # Create local config in projects_dir
  folio config show          # Show effective config
  folio config hooks         # List configured hooks`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigHooksCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config.
With --local, creates .folio.toml in the configured projects directory.`,
		Example: `  folio config init           # Create global config
  folio config init --local   # Create local config
  folio config init -f        # Overwrite existing config
  folio config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if local {
				if stdout {
					out.Print(config.DefaultLocalConfig())
					return nil
				}
				cfg := config.FromContext(cmd.Context())
				path := filepath.Join(cfg.ProjectsDir, config.LocalConfigFileName)
				if err := initLocalConfig(path, force); err != nil {
					return err
				}
				out.Printf("Created local config: %s\n", path)
				return nil
			}

			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}
			path, err := config.Init(force)
			if err != nil {
				return fmt.Errorf("%w (use -f to overwrite)", err)
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create .folio.toml in projects_dir instead of global config")

	return cmd
}

func initLocalConfig(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("local config already exists: %s (use -f to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return storage.WriteFile(path, []byte(config.DefaultLocalConfig()), 0o644)
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long:  `Show the effective configuration after applying the local config and environment overrides.`,
		Example: `  folio config show
  folio config show --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			out := output.FromContext(cmd.Context())

			if jsonOutput {
				return out.JSON(cfg)
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			out.Print(string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigHooksCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "List configured hooks",
		Args:  cobra.NoArgs,
		Example: `  folio config hooks
  folio config hooks --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			out := output.FromContext(cmd.Context())

			names := make([]string, 0, len(cfg.Hooks.Hooks))
			for name := range cfg.Hooks.Hooks {
				names = append(names, name)
			}
			slices.Sort(names)

			if jsonOutput {
				type hookInfo struct {
					Name        string   `json:"name"`
					Command     string   `json:"command"`
					Description string   `json:"description,omitempty"`
					On          []string `json:"on,omitempty"`
					Enabled     bool     `json:"enabled"`
				}
				list := make([]hookInfo, 0, len(names))
				for _, name := range names {
					h := cfg.Hooks.Hooks[name]
					list = append(list, hookInfo{name, h.Command, h.Description, h.On, h.IsEnabled()})
				}
				return out.JSON(list)
			}

			if len(names) == 0 {
				return errors.New("no hooks configured")
			}
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				h := cfg.Hooks.Hooks[name]
				on := strings.Join(h.On, ",")
				if !h.IsEnabled() {
					on = "disabled"
				}
				rows = append(rows, []string{name, on, h.Command})
			}
			out.Print(static.RenderTable([]string{"NAME", "ON", "COMMAND"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
