package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/client"
	"github.com/hindsight-ai/memctl/internal/config"
	"github.com/hindsight-ai/memctl/internal/engine/cache"
	"github.com/hindsight-ai/memctl/internal/logging"
	"github.com/hindsight-ai/memctl/internal/notify"
	"github.com/hindsight-ai/memctl/internal/tui"
)

// newServiceClient builds an API client from the loaded configuration
// and runs the version compatibility check unless --skip-version-check
// is set.
func newServiceClient(cmd *cobra.Command) (*client.Client, error) {
	cfg := config.GetGlobalConfig()

	if cfg.Service.Token == "" {
		return nil, errors.New("no API token configured; set service.token in the config file, " +
			"the " + config.EnvToken + " environment variable, or pass --token")
	}

	var opts []client.Option
	if cfg.Service.Organization != "" {
		opts = append(opts, client.WithOrganization(cfg.Service.Organization))
	}
	if cfg.Service.TimeoutSeconds > 0 {
		opts = append(opts, client.WithTimeout(time.Duration(cfg.Service.TimeoutSeconds)*time.Second))
	}

	c, err := client.New(cfg.Service.BaseURL, cfg.Service.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating service client: %w", err)
	}

	if skip, _ := cmd.Flags().GetBool("skip-version-check"); !skip {
		warning, checkErr := c.CheckCompatibility(cmd.Context())
		if checkErr != nil {
			if errors.Is(checkErr, client.ErrIncompatibleService) {
				return nil, checkErr
			}
			// Unreachable build-info endpoint is not fatal; the first
			// real request will surface any connectivity problem.
			log := logging.FromContext(cmd.Context())
			log.Debug().Err(checkErr).Msg("version check skipped")
		} else if warning != "" {
			cmd.PrintErrf("Warning: %s\n", warning)
		}
	}

	return c, nil
}

// wrapAPIError prefixes a service error with the action that failed and
// replaces authentication and permission failures with actionable wording.
func wrapAPIError(action string, err error) error {
	switch {
	case client.IsUnauthorized(err):
		return fmt.Errorf("%s: unauthorized; check the token in --token, %s, or service.token",
			action, config.EnvToken)
	case client.IsForbidden(err):
		return fmt.Errorf("%s: forbidden; the token lacks access to this resource or organization",
			action)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}

// newCacheStore opens the response cache configured for this invocation.
func newCacheStore() (*cache.Store, error) {
	cfg := config.GetGlobalConfig()
	dir := cfg.Cache.Directory
	if dir == "" {
		dir = config.CacheDir()
	}
	return cache.NewStore(dir, cfg.Cache.Enabled, cfg.Cache.TTLSeconds)
}

// newNotifier returns a console notifier on a TTY and a discard
// notifier otherwise, so status chatter never pollutes piped output.
func newNotifier(cmd *cobra.Command) notify.Notifier {
	if tui.IsTTY() {
		return notify.NewConsole(cmd.ErrOrStderr())
	}
	return notify.Discard{}
}
