package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/client"
	"github.com/hindsight-ai/memctl/internal/logging"
)

// newPruneCmd creates the prune command group.
func newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Suggest and confirm pruning of low-value memory",
	}
	cmd.AddCommand(newPruneSuggestCmd(), newPruneConfirmCmd(), newPruneRejectCmd())
	return cmd
}

// pruneSuggestParams holds the parameters for the prune suggest subcommand.
type pruneSuggestParams struct {
	agentID string
	count   int
}

func newPruneSuggestCmd() *cobra.Command {
	var params pruneSuggestParams

	cmd := &cobra.Command{
		Use:     "suggest",
		Aliases: []string{"generate"},
		Short:   "Generate pruning suggestions",
		Long: `Score memory blocks by feedback and retrieval history and return
the lowest-value candidates for archival. Generating suggestions
does not change any block; confirm or reject them afterwards.`,
		Example: `  # Score the 50 best pruning candidates for one agent
  memctl prune suggest --agent agent-1 --count 50

  # Confirm two of them
  memctl prune confirm mb-12 mb-47`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			suggestions, err := c.GeneratePruningSuggestions(cmd.Context(), params.agentID, params.count)
			if err != nil {
				return wrapAPIError("generating pruning suggestions", err)
			}

			log := logging.FromContext(cmd.Context())
			log.Info().
				Ctx(cmd.Context()).
				Str("operation", "prune_suggest").
				Str("agent_id", params.agentID).
				Int("count", len(suggestions)).
				Msg("pruning suggestions generated")

			return renderList(cmd, suggestions,
				[]string{"BLOCK", "SCORE", "FEEDBACK", "RETRIEVALS", "RATIONALE"},
				func(s client.PruningSuggestion) []string {
					return []string{
						s.MemoryBlockID,
						strconv.FormatFloat(s.Score, 'f', 3, 64),
						strconv.Itoa(s.FeedbackScore),
						strconv.Itoa(s.RetrievalCount),
						truncateCell(s.Rationale, 60),
					}
				}, "")
		},
	}

	cmd.Flags().StringVar(&params.agentID, "agent", "", "scope to one agent ID")
	cmd.Flags().IntVar(&params.count, "count", 20, "number of candidates to score")

	return cmd
}

func newPruneConfirmCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "confirm <block-id>...",
		Short: "Archive pruning candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				cmd.PrintErrf("Archive %d memory blocks?\n", len(args))
				if !confirmPrompt(cmd, "Continue? [y/N]: ") {
					cmd.PrintErrln("Prune cancelled.")
					return nil
				}
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.ConfirmPruning(cmd.Context(), args); err != nil {
				return wrapAPIError("confirming prune", err)
			}

			newNotifier(cmd).Success("%d memory blocks archived", len(args))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func newPruneRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <block-id>...",
		Short: "Reject pruning candidates",
		Long:  "Mark candidates as kept so they stop appearing in pruning suggestions.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.RejectPruning(cmd.Context(), args); err != nil {
				return wrapAPIError("rejecting prune", err)
			}

			newNotifier(cmd).Success("%d memory blocks kept", len(args))
			return nil
		},
	}
}
