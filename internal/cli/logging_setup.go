package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/config"
	"github.com/hindsight-ai/memctl/internal/logging"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.Result {
	cfg := config.GetGlobalConfig()

	result := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		fmt.Fprintf(cmd.ErrOrStderr(), "Logging to %s\n", result.FilePath)
	}

	traceID := logging.GetOrGenerateTraceID(cmd.Context())
	ctx := logging.ContextWithTraceID(cmd.Context(), traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}
