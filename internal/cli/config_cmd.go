package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hindsight-ai/memctl/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigPathCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a config file with default values to the config directory
(~/.memctl, or $` + config.EnvConfigDir + ` when set). Existing files are
left untouched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.WriteDefault()
			if err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			newNotifier(cmd).Success("config written to %s", path)
			cmd.Println("Set service.token (or " + config.EnvToken + ") before the first request.")
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging the config file, profile
overlay, environment variables, and CLI flags. The API token is
redacted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *config.GetGlobalConfig()
			if cfg.Service.Token != "" {
				cfg.Service.Token = "(redacted)"
			}

			if outputFormat() == formatJSON {
				return renderJSON(cmd.OutOrStdout(), cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("rendering config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println(config.Dir())
			return nil
		},
	}
}
