package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hindsight-ai/memctl/internal/cli/pagination"
	"github.com/hindsight-ai/memctl/internal/client"
	"github.com/hindsight-ai/memctl/internal/engine"
	"github.com/hindsight-ai/memctl/internal/logging"
)

// newAgentCmd creates the agent command group.
func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Inspect and manage agents",
	}
	cmd.AddCommand(newAgentListCmd(), newAgentGetCmd(), newAgentDeleteCmd(), newAgentStatsCmd())
	return cmd
}

// agentListParams holds the parameters for the agent list subcommand.
type agentListParams struct {
	search string
	pager  pagination.Params
}

func newAgentListCmd() *cobra.Command {
	var params agentListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents",
		Example: `  # List all agents
  memctl agent list

  # Search agents by name
  memctl agent list --search support`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := params.pager.Validate(); err != nil {
				return err
			}
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			offset, limit := params.pager.OffsetLimit()
			page, err := c.ListAgents(cmd.Context(), params.search, client.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return wrapAPIError("listing agents", err)
			}

			meta := pagination.NewMeta(params.pager, page.TotalItems)
			footer := fmt.Sprintf("\n%s agents (page %d of %d)",
				formatCount(meta.TotalItems), meta.CurrentPage, meta.TotalPages)
			return renderList(cmd, page.Items,
				[]string{"ID", "NAME", "DESCRIPTION", "CREATED"},
				func(a client.Agent) []string {
					return []string{
						a.ID, a.Name,
						truncateCell(a.Description, 50),
						a.CreatedAt.Format("2006-01-02"),
					}
				}, footer)
		},
	}

	cmd.Flags().StringVar(&params.search, "search", "", "filter agents by name substring")
	params.pager.AddFlags(cmd)

	return cmd
}

func newAgentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <agent-id>",
		Short: "Show one agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			agent, err := c.GetAgent(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("agent %s not found", args[0])
				}
				return wrapAPIError("fetching agent", err)
			}

			if outputFormat() != formatTable {
				return renderJSON(cmd.OutOrStdout(), agent)
			}

			cmd.Printf("ID:          %s\n", agent.ID)
			cmd.Printf("Name:        %s\n", agent.Name)
			cmd.Printf("Description: %s\n", agent.Description)
			cmd.Printf("Created:     %s\n", agent.CreatedAt.Format("2006-01-02 15:04:05"))
			cmd.Printf("Updated:     %s\n", agent.UpdatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func newAgentDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <agent-id>",
		Short: "Delete an agent and all of its memory",
		Long: `Delete an agent and every conversation and memory block
belonging to it. This cannot be undone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			agentID := args[0]

			if !force {
				cmd.PrintErrf("Delete agent %s and ALL of its memory blocks?\n", agentID)
				if !confirmPrompt(cmd, "Continue? [y/N]: ") {
					cmd.PrintErrln("Deletion cancelled.")
					return nil
				}
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.DeleteAgent(cmd.Context(), agentID); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("agent %s not found", agentID)
				}
				return wrapAPIError("deleting agent", err)
			}

			notifier := newNotifier(cmd)
			notifier.Success("agent %s deleted", agentID)

			log := logging.FromContext(cmd.Context())
			log.Info().
				Ctx(cmd.Context()).
				Str("operation", "agent_delete").
				Str("agent_id", agentID).
				Msg("agent deleted")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

// agentStatsParams holds the parameters for the agent stats subcommand.
type agentStatsParams struct {
	sortBy string
	top    int
}

func newAgentStatsCmd() *cobra.Command {
	var params agentStatsParams

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Per-agent conversation and memory statistics",
		Long: `Aggregate conversation counts, memory block counts, token totals,
and average feedback scores per agent. Conversation and memory data
are fetched concurrently per agent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}
			return runAgentStats(cmd, c, params)
		},
	}

	cmd.Flags().StringVar(&params.sortBy, "sort", "conversations",
		"sort order: conversations, blocks, or tokens")
	cmd.Flags().IntVar(&params.top, "top", 0, "show only the top N agents (0 = all)")

	return cmd
}

func runAgentStats(cmd *cobra.Command, c *client.Client, params agentStatsParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	agentPage, err := c.ListAgents(ctx, "", client.ListOptions{})
	if err != nil {
		return wrapAPIError("listing agents", err)
	}
	agents := agentPage.Items

	// Fetch each agent's conversations concurrently. Memory block
	// counts come from one unfiltered list call so the per-agent fan-out
	// stays bounded.
	conversations := make([][]client.Conversation, len(agents))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, agent := range agents {
		i, agent := i, agent
		g.Go(func() error {
			page, convErr := c.ListConversations(gctx, agent.ID, client.ListOptions{})
			if convErr != nil {
				return fmt.Errorf("listing conversations for %s: %w", agent.ID, convErr)
			}
			conversations[i] = page.Items
			return nil
		})
	}

	blockPage, err := c.ListMemoryBlocks(ctx, client.MemoryBlockQuery{})
	if err != nil {
		return wrapAPIError("listing memory blocks", err)
	}

	if err := g.Wait(); err != nil {
		return err
	}

	var allConversations []client.Conversation
	for _, convs := range conversations {
		allConversations = append(allConversations, convs...)
	}

	stats := engine.ComputeAgentStats(agents, allConversations, blockPage.Items)
	sortAgentStats(stats, params.sortBy)
	if params.top > 0 && params.top < len(stats) {
		stats = stats[:params.top]
	}

	log.Debug().Ctx(ctx).
		Int("agents", len(agents)).
		Int("conversations", len(allConversations)).
		Int("memory_blocks", len(blockPage.Items)).
		Msg("agent stats computed")

	return renderList(cmd, stats,
		[]string{"AGENT", "CONVERSATIONS", "BLOCKS", "TOKENS", "AVG FEEDBACK"},
		func(s engine.AgentStats) []string {
			return []string{
				s.AgentName,
				formatCount(s.ConversationCount),
				formatCount(s.MemoryBlockCount),
				formatCount(s.TotalTokens),
				strconv.FormatFloat(s.AvgFeedbackScore, 'f', 2, 64),
			}
		}, "")
}

// sortAgentStats reorders stats in place for the requested sort key.
// ComputeAgentStats already orders by conversation count.
func sortAgentStats(stats []engine.AgentStats, sortBy string) {
	switch sortBy {
	case "blocks":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].MemoryBlockCount > stats[j].MemoryBlockCount
		})
	case "tokens":
		sort.SliceStable(stats, func(i, j int) bool {
			return stats[i].TotalTokens > stats[j].TotalTokens
		})
	}
}
