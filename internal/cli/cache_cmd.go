package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/config"
)

// newCacheCmd creates the cache command group.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}
	cmd.AddCommand(newCacheInfoCmd(), newCacheClearCmd())
	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show cache status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			store, err := newCacheStore()
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}

			count := 0
			if store.Enabled() {
				count, err = store.Count()
				if err != nil {
					return fmt.Errorf("counting cache entries: %w", err)
				}
			}

			dir := cfg.Cache.Directory
			if dir == "" {
				dir = config.CacheDir()
			}

			enabled := "no"
			if store.Enabled() {
				enabled = "yes"
			}
			cmd.Printf("Enabled:   %s\n", enabled)
			cmd.Printf("Directory: %s\n", dir)
			cmd.Printf("TTL:       %ds\n", store.TTL())
			cmd.Printf("Entries:   %s\n", formatCount(count))
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached responses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := newCacheStore()
			if err != nil {
				return fmt.Errorf("opening cache: %w", err)
			}

			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			newNotifier(cmd).Success("cache cleared")
			return nil
		},
	}
}
