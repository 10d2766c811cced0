// Package cli implements the memctl command tree.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/config"
	"github.com/hindsight-ai/memctl/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	baseURL string
	token   string
	org     string
	output  string
	profile string
}

// NewRootCmd creates the root Cobra command for the memctl CLI.
// It wires up configuration loading, logging, tracing, and the
// subcommand groups (agent, memory, keyword, suggest, prune,
// notification, org, token, config, cache).
func NewRootCmd(ver string) *cobra.Command {
	var flags rootFlags
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:           "memctl",
		Short:         "Admin CLI for the agent memory service",
		Long:          "memctl: Inspect and curate agent memory blocks, keywords, and optimization suggestions",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Validate cache-ttl is non-negative (negative values cause undefined cache expiry behavior)
			cacheTTL, _ := cmd.Flags().GetInt("cache-ttl")
			if cacheTTL < 0 {
				return fmt.Errorf("cache-ttl must be >= 0, got %d", cacheTTL)
			}

			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logResult != nil {
				return logResult.Close()
			}
			return nil
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.baseURL, "base-url", "", "memory service base URL (overrides config and MEMCTL_BASE_URL)")
	cmd.PersistentFlags().StringVar(&flags.token, "token", "", "API bearer token (overrides config and MEMCTL_TOKEN)")
	cmd.PersistentFlags().StringVar(&flags.org, "org", "", "organization ID to scope requests to")
	cmd.PersistentFlags().StringVarP(&flags.output, "output", "o", "", "output format: table, json, or ndjson")
	cmd.PersistentFlags().StringVar(&flags.profile, "profile", "", "named configuration profile to load")
	cmd.PersistentFlags().
		Bool("skip-version-check", false, "skip service API version compatibility check")
	cmd.PersistentFlags().
		Int("cache-ttl", 0, "cache TTL in seconds (0 = use config default, overrides config file)")

	cmd.AddCommand(
		newAgentCmd(), newMemoryCmd(), newKeywordCmd(), newSuggestCmd(),
		newPruneCmd(), newNotificationCmd(), newOrgCmd(), newTokenCmd(),
		newConfigCmd(), newCacheCmd(),
	)

	return cmd
}

// loadConfig loads the configuration file (optionally a named profile)
// and applies CLI flag overrides on top.
func loadConfig(cmd *cobra.Command, flags rootFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if flags.profile != "" {
		cfg, err = config.NewWithProfile(flags.profile)
	} else {
		cfg, err = config.New()
	}
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	// CLI flags override environment variables and config file
	if flags.baseURL != "" {
		cfg.Service.BaseURL = flags.baseURL
	}
	if flags.token != "" {
		cfg.Service.Token = flags.token
	}
	if flags.org != "" {
		cfg.Service.Organization = flags.org
	}
	if flags.output != "" {
		if err := validateOutputFormat(flags.output); err != nil {
			return nil, err
		}
		cfg.Output.DefaultFormat = flags.output
	}
	if cacheTTL, _ := cmd.Flags().GetInt("cache-ttl"); cacheTTL > 0 {
		cfg.Cache.TTLSeconds = cacheTTL
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
		cfg.Logging.File = ""
	}

	return cfg, nil
}

const rootCmdExample = `  # List agents with the most conversations
  memctl agent list --sort conversations

  # Search memory blocks for one agent
  memctl memory list --agent agent-1 --search "deployment" --limit 20

  # Review pending keyword suggestions
  memctl suggest keywords list --agent agent-1

  # Apply all pending keyword suggestions in batches of 100
  memctl suggest keywords apply --agent agent-1 --batch-size 100

  # Generate pruning suggestions and confirm interactively
  memctl prune suggest --agent agent-1 --count 50

  # Initialize configuration
  memctl config init`
