package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/cli/pagination"
	"github.com/hindsight-ai/memctl/internal/client"
	"github.com/hindsight-ai/memctl/internal/engine/cache"
	"github.com/hindsight-ai/memctl/internal/logging"
	"github.com/hindsight-ai/memctl/internal/tui"
)

// newMemoryCmd creates the memory command group.
func newMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Browse and curate memory blocks",
	}
	cmd.AddCommand(
		newMemoryListCmd(), newMemoryGetCmd(),
		newMemoryArchiveCmd(), newMemoryArchivedCmd(),
	)
	return cmd
}

// memoryListParams holds the parameters for the memory list subcommand.
type memoryListParams struct {
	agentID      string
	search       string
	keywordIDs   []string
	minFeedback  int
	maxFeedback  int
	minRetrieval int
	maxRetrieval int
	sortExpr     string
	interactive  bool
	noCache      bool
	pager        pagination.Params
}

func newMemoryListCmd() *cobra.Command {
	var params memoryListParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List memory blocks",
		Long: `List memory blocks with optional full-text search, agent scoping,
keyword filters, and feedback/retrieval range bounds.

Range flags treat 0 as "no bound"; pass -1 to request an explicit
lower bound of zero.`,
		Example: `  # Full-text search scoped to one agent
  memctl memory list --agent agent-1 --search "rate limits"

  # Low-feedback blocks, most-retrieved first
  memctl memory list --max-feedback 2 --sort retrieval:desc

  # Browse interactively
  memctl memory list --agent agent-1 --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMemoryList(cmd, params, false)
		},
	}

	addMemoryFilterFlags(cmd, &params)
	cmd.Flags().BoolVarP(&params.interactive, "interactive", "i", false,
		"browse results in an interactive picker")

	return cmd
}

func newMemoryArchivedCmd() *cobra.Command {
	var params memoryListParams

	cmd := &cobra.Command{
		Use:   "archived",
		Short: "List archived memory blocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMemoryList(cmd, params, true)
		},
	}

	addMemoryFilterFlags(cmd, &params)
	return cmd
}

func addMemoryFilterFlags(cmd *cobra.Command, params *memoryListParams) {
	cmd.Flags().StringVar(&params.agentID, "agent", "", "scope to one agent ID")
	cmd.Flags().StringVar(&params.search, "search", "", "full-text search query")
	cmd.Flags().StringSliceVar(&params.keywordIDs, "keyword", nil, "filter by keyword ID (repeatable)")
	cmd.Flags().IntVar(&params.minFeedback, "min-feedback", 0, "minimum feedback score (-1 for explicit 0)")
	cmd.Flags().IntVar(&params.maxFeedback, "max-feedback", 0, "maximum feedback score")
	cmd.Flags().IntVar(&params.minRetrieval, "min-retrieval", 0, "minimum retrieval count (-1 for explicit 0)")
	cmd.Flags().IntVar(&params.maxRetrieval, "max-retrieval", 0, "maximum retrieval count")
	cmd.Flags().StringVar(&params.sortExpr, "sort", "", "sort by field[:asc|desc] (created, feedback, retrieval, tokens, agent)")
	cmd.Flags().BoolVar(&params.noCache, "no-cache", false, "bypass the response cache")
	params.pager.AddFlags(cmd)
}

func runMemoryList(cmd *cobra.Command, params memoryListParams, archived bool) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	if err := params.pager.Validate(); err != nil {
		return err
	}

	query, err := buildMemoryQuery(params)
	if err != nil {
		return err
	}

	// The archive endpoint has no sort parameters, so archived
	// listings are ordered locally after the fetch.
	sortField, sortOrder := query.SortField, query.SortOrder
	if archived {
		query.SortField, query.SortOrder = "", ""
	}

	c, err := newServiceClient(cmd)
	if err != nil {
		return err
	}

	fetch := func(q client.MemoryBlockQuery) (client.Page[client.MemoryBlock], error) {
		if archived {
			page, listErr := c.ListArchivedMemoryBlocks(ctx, q)
			if listErr == nil && sortField != "" {
				page.Items = pagination.NewMemoryBlockSorter().Sort(page.Items, sortField, sortOrder)
			}
			return page, listErr
		}
		return listMemoryBlocksCached(cmd, c, q, params.noCache)
	}

	page, err := fetch(query)
	if err != nil {
		return wrapAPIError("listing memory blocks", err)
	}

	if params.interactive {
		if !tui.IsTTY() {
			return fmt.Errorf("--interactive requires a terminal")
		}
		return browseMemoryBlocks(cmd, page.Items, func(search string) ([]client.MemoryBlock, error) {
			q := query
			q.Search = search
			p, searchErr := fetch(q)
			return p.Items, searchErr
		})
	}

	log.Debug().Ctx(ctx).
		Int("count", len(page.Items)).
		Int("total", page.TotalItems).
		Bool("archived", archived).
		Msg("memory blocks listed")

	meta := pagination.NewMeta(params.pager, page.TotalItems)
	footer := fmt.Sprintf("\n%s blocks (page %d of %d)",
		formatCount(meta.TotalItems), meta.CurrentPage, meta.TotalPages)
	return renderList(cmd, page.Items,
		[]string{"ID", "AGENT", "FEEDBACK", "RETRIEVALS", "TOKENS", "CONTENT"},
		func(b client.MemoryBlock) []string {
			return []string{
				b.ID, b.AgentID,
				strconv.Itoa(b.FeedbackScore),
				strconv.Itoa(b.RetrievalCount),
				formatCount(b.TokenCount),
				truncateCell(b.Content, 60),
			}
		}, footer)
}

// buildMemoryQuery converts CLI flags into a service query.
func buildMemoryQuery(params memoryListParams) (client.MemoryBlockQuery, error) {
	query := client.MemoryBlockQuery{
		Search:       params.search,
		AgentID:      params.agentID,
		KeywordIDs:   params.keywordIDs,
		MinFeedback:  params.minFeedback,
		MaxFeedback:  params.maxFeedback,
		MinRetrieval: params.minRetrieval,
		MaxRetrieval: params.maxRetrieval,
	}

	if params.sortExpr != "" {
		field, order, err := pagination.ParseSort(params.sortExpr)
		if err != nil {
			return client.MemoryBlockQuery{}, err
		}
		sorter := pagination.NewMemoryBlockSorter()
		if !sorter.IsValidField(field) {
			return client.MemoryBlockQuery{}, fmt.Errorf("invalid sort field %q (valid: %s)",
				field, strings.Join(sorter.ValidFields(), ", "))
		}
		query.SortField = field
		query.SortOrder = order
	}

	offset, limit := params.pager.OffsetLimit()
	query.Offset = offset
	query.Limit = limit
	return query, nil
}

// listMemoryBlocksCached serves a memory-block list from the response
// cache when a fresh entry exists, falling back to the service.
func listMemoryBlocksCached(
	cmd *cobra.Command,
	c *client.Client,
	query client.MemoryBlockQuery,
	noCache bool,
) (client.Page[client.MemoryBlock], error) {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	store, err := newCacheStore()
	if err != nil || noCache || !store.Enabled() {
		return c.ListMemoryBlocks(ctx, query)
	}

	key := cache.Key("memory-blocks", memoryQueryCacheParams(query))
	if entry, getErr := store.Get(key); getErr == nil {
		var page client.Page[client.MemoryBlock]
		if json.Unmarshal(entry.Data, &page) == nil {
			log.Debug().Ctx(ctx).Str("key", key).Msg("memory list served from cache")
			return page, nil
		}
	}

	page, err := c.ListMemoryBlocks(ctx, query)
	if err != nil {
		return page, err
	}

	if data, marshalErr := json.Marshal(page); marshalErr == nil {
		if setErr := store.Set(key, data); setErr != nil {
			log.Debug().Ctx(ctx).Err(setErr).Msg("cache write failed")
		}
	}
	return page, nil
}

// memoryQueryCacheParams flattens a query into cache key parameters.
func memoryQueryCacheParams(q client.MemoryBlockQuery) map[string]string {
	return map[string]string{
		"search":        q.Search,
		"agent":         q.AgentID,
		"keywords":      strings.Join(q.KeywordIDs, ","),
		"min_feedback":  strconv.Itoa(q.MinFeedback),
		"max_feedback":  strconv.Itoa(q.MaxFeedback),
		"min_retrieval": strconv.Itoa(q.MinRetrieval),
		"max_retrieval": strconv.Itoa(q.MaxRetrieval),
		"sort":          q.SortField + ":" + q.SortOrder,
		"offset":        strconv.Itoa(q.Offset),
		"limit":         strconv.Itoa(q.Limit),
	}
}

// browseMemoryBlocks runs the interactive picker and prints the chosen
// block.
func browseMemoryBlocks(cmd *cobra.Command, blocks []client.MemoryBlock, search tui.SearchFunc) error {
	model := tui.NewBrowseModel(blocks, search)
	program := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	if selected := model.Selected(); selected != nil {
		return printMemoryBlock(cmd, *selected)
	}
	return nil
}

func newMemoryGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <block-id>",
		Short: "Show one memory block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			block, err := c.GetMemoryBlock(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("memory block %s not found", args[0])
				}
				return wrapAPIError("fetching memory block", err)
			}
			return printMemoryBlock(cmd, block)
		},
	}
}

// printMemoryBlock renders one block in detail form.
func printMemoryBlock(cmd *cobra.Command, block client.MemoryBlock) error {
	if outputFormat() != formatTable {
		return renderJSON(cmd.OutOrStdout(), block)
	}

	keywords := make([]string, 0, len(block.Keywords))
	for _, kw := range block.Keywords {
		keywords = append(keywords, kw.Text)
	}

	cmd.Printf("ID:           %s\n", block.ID)
	cmd.Printf("Agent:        %s\n", block.AgentID)
	cmd.Printf("Conversation: %s\n", block.ConversationID)
	cmd.Printf("Feedback:     %d\n", block.FeedbackScore)
	cmd.Printf("Retrievals:   %d\n", block.RetrievalCount)
	cmd.Printf("Tokens:       %s\n", formatCount(block.TokenCount))
	cmd.Printf("Keywords:     %s\n", strings.Join(keywords, ", "))
	if block.Archived {
		cmd.Printf("Archived:     yes")
		if block.ArchivedAt != nil {
			cmd.Printf(" (%s)", block.ArchivedAt.Format("2006-01-02"))
		}
		cmd.Println()
	}
	cmd.Printf("Created:      %s\n", block.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println(block.Content)
	if block.Lessons != "" {
		cmd.Println()
		cmd.Println("Lessons learned:")
		cmd.Println(block.Lessons)
	}
	return nil
}

func newMemoryArchiveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "archive <block-id>",
		Short: "Archive a memory block",
		Long: `Archive a memory block so it no longer appears in retrieval.
Archived blocks remain listable with "memory archived".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockID := args[0]

			if !force && !confirmPrompt(cmd, fmt.Sprintf("Archive memory block %s? [y/N]: ", blockID)) {
				cmd.PrintErrln("Archive cancelled.")
				return nil
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.ArchiveMemoryBlock(cmd.Context(), blockID); err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("memory block %s not found", blockID)
				}
				return wrapAPIError("archiving memory block", err)
			}

			newNotifier(cmd).Success("memory block %s archived", blockID)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}
