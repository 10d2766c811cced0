package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hindsight-ai/memctl/internal/cli/pagination"
	"github.com/hindsight-ai/memctl/internal/client"
	"github.com/hindsight-ai/memctl/internal/config"
	"github.com/hindsight-ai/memctl/internal/engine"
	"github.com/hindsight-ai/memctl/internal/engine/batch"
	"github.com/hindsight-ai/memctl/internal/logging"
	"github.com/hindsight-ai/memctl/internal/notify"
	"github.com/hindsight-ai/memctl/internal/tui"
)

// newSuggestCmd creates the suggest command group.
func newSuggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Review and apply optimization suggestions",
	}
	cmd.AddCommand(newSuggestKeywordsCmd(), newSuggestConsolidationCmd())
	return cmd
}

// ---- keyword suggestions ----

func newSuggestKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Keyword suggestions for under-tagged memory blocks",
	}
	cmd.AddCommand(newSuggestKeywordsListCmd(), newSuggestKeywordsApplyCmd())
	return cmd
}

func newSuggestKeywordsListCmd() *cobra.Command {
	var agentID string
	var pager pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending keyword suggestions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := pager.Validate(); err != nil {
				return err
			}
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			offset, limit := pager.OffsetLimit()
			page, err := c.ListKeywordSuggestions(cmd.Context(), agentID, client.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return wrapAPIError("listing keyword suggestions", err)
			}

			meta := pagination.NewMeta(pager, page.TotalItems)
			footer := fmt.Sprintf("\n%s suggestions (page %d of %d)",
				formatCount(meta.TotalItems), meta.CurrentPage, meta.TotalPages)
			return renderList(cmd, page.Items,
				[]string{"BLOCK", "SUGGESTED", "CURRENT"},
				func(s client.KeywordSuggestion) []string {
					return []string{
						s.MemoryBlockID,
						truncateCell(strings.Join(s.Suggested, ", "), 50),
						truncateCell(strings.Join(s.Current, ", "), 30),
					}
				}, footer)
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "scope to one agent ID")
	pager.AddFlags(cmd)

	return cmd
}

// applyParams holds the parameters for the keywords apply subcommand.
type applyParams struct {
	agentID      string
	blockIDs     []string
	minSuggested int
	batchSize    int
	concurrency  int
	force        bool
	noProgress   bool
}

func newSuggestKeywordsApplyCmd() *cobra.Command {
	var params applyParams

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending keyword suggestions in batches",
		Long: `Apply keyword suggestions to their memory blocks through the bulk
endpoint, submitting in fixed-size batches so one request never
carries an unbounded payload.

A run can be cancelled with q or Ctrl+C; the batch already in flight
completes and its applications stand, batches not yet submitted are
never sent. If the service rejects a batch the run stops at that
batch and reports how many suggestions were applied before it.`,
		Example: `  # Apply everything pending for one agent
  memctl suggest keywords apply --agent agent-1

  # Larger batches, four in flight at once
  memctl suggest keywords apply --agent agent-1 --batch-size 500 --concurrency 4

  # Only blocks with at least 3 suggested keywords
  memctl suggest keywords apply --agent agent-1 --min-suggested 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Config file defaults apply when the flags were not set
			// explicitly; config loads after flag registration.
			cfg := config.GetGlobalConfig()
			if !cmd.Flags().Changed("batch-size") && cfg.Bulk.BatchSize > 0 {
				params.batchSize = cfg.Bulk.BatchSize
			}
			if !cmd.Flags().Changed("concurrency") && cfg.Bulk.MaxConcurrency > 0 {
				params.concurrency = cfg.Bulk.MaxConcurrency
			}

			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}
			return runKeywordApply(cmd, c, params)
		},
	}

	cmd.Flags().StringVar(&params.agentID, "agent", "", "scope to one agent ID")
	cmd.Flags().StringSliceVar(&params.blockIDs, "block", nil, "apply only to these memory block IDs (repeatable)")
	cmd.Flags().IntVar(&params.minSuggested, "min-suggested", 0, "skip blocks with fewer suggested keywords")
	cmd.Flags().IntVar(&params.batchSize, "batch-size", batch.DefaultBatchSize,
		fmt.Sprintf("suggestions per bulk request (%d-%d)", batch.MinBatchSize, batch.MaxBatchSize))
	cmd.Flags().IntVar(&params.concurrency, "concurrency", 1,
		"bulk requests in flight at once (1 = strictly ordered)")
	cmd.Flags().BoolVarP(&params.force, "force", "f", false, "skip confirmation prompt")
	cmd.Flags().BoolVar(&params.noProgress, "no-progress", false, "line-based progress instead of the interactive view")

	return cmd
}

func runKeywordApply(cmd *cobra.Command, c *client.Client, params applyParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	notifier := newNotifier(cmd)

	// Reject a bad batch size before any suggestion has been fetched.
	signal := batch.NewSignal()
	executor, err := batch.NewExecutor[client.KeywordApplication](params.batchSize)
	if err != nil {
		return err
	}
	executor.WithSignal(signal)

	suggestions, err := fetchAllKeywordSuggestions(ctx, c, params.agentID)
	if err != nil {
		return err
	}
	suggestions = engine.FilterSuggestions(suggestions, engine.SuggestionFilter{
		BlockIDs:     params.blockIDs,
		MinSuggested: params.minSuggested,
	})

	if len(suggestions) == 0 {
		cmd.Println("No keyword suggestions to apply.")
		return nil
	}

	applications, err := buildApplications(ctx, c, suggestions)
	if err != nil {
		return err
	}

	if !params.force {
		cmd.PrintErrf("Apply keyword suggestions to %s memory blocks?\n", formatCount(len(applications)))
		if !confirmPrompt(cmd, "Continue? [y/N]: ") {
			cmd.PrintErrln("Apply cancelled.")
			return nil
		}
	}

	submit := func(ctx context.Context, chunk []client.KeywordApplication, chunkIndex int) (batch.ChunkResult, error) {
		res, submitErr := c.BulkApplyKeywords(ctx, chunk)
		if submitErr != nil {
			return batch.ChunkResult{}, submitErr
		}
		log.Debug().Ctx(ctx).
			Int("chunk", chunkIndex).
			Int("successful", res.SuccessfulCount).
			Int("failed", res.FailedCount).
			Msg("bulk apply chunk committed")
		return toChunkResult(res), nil
	}

	run := func() (batch.Result, error) {
		if params.concurrency > 1 {
			return executor.RunConcurrent(ctx, applications, submit, params.concurrency)
		}
		return executor.Run(ctx, applications, submit)
	}

	var result batch.Result
	var runErr error
	if tui.IsTTY() && !params.noProgress {
		result, runErr = runWithProgressView(cmd, executor, signal, "Applying keyword suggestions", run)
	} else {
		executor.WithProgressFunc(func(processed, total int) {
			cmd.PrintErrf("applied %d / %d suggestions\n", processed, total)
		})
		result, runErr = run()
	}

	return reportBulkOutcome(cmd, notifier, result, runErr, len(applications), "suggestions")
}

// fetchAllKeywordSuggestions pages through the suggestion endpoint until
// every pending suggestion is loaded.
func fetchAllKeywordSuggestions(ctx context.Context, c *client.Client, agentID string) ([]client.KeywordSuggestion, error) {
	const pageSize = 500

	var all []client.KeywordSuggestion
	for offset := 0; ; offset += pageSize {
		page, err := c.ListKeywordSuggestions(ctx, agentID, client.ListOptions{
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return nil, wrapAPIError("listing keyword suggestions", err)
		}
		all = append(all, page.Items...)
		if len(page.Items) < pageSize || len(all) >= page.TotalItems {
			return all, nil
		}
	}
}

// buildApplications resolves suggested keyword texts to vocabulary IDs,
// creating keywords that do not exist yet, and pairs them with their
// memory blocks in suggestion order.
func buildApplications(ctx context.Context, c *client.Client, suggestions []client.KeywordSuggestion) ([]client.KeywordApplication, error) {
	idsByText, err := keywordVocabulary(ctx, c)
	if err != nil {
		return nil, err
	}

	applications := make([]client.KeywordApplication, 0, len(suggestions))
	for _, s := range suggestions {
		ids := make([]string, 0, len(s.Suggested))
		for _, text := range s.Suggested {
			id, ok := idsByText[strings.ToLower(text)]
			if !ok {
				keyword, createErr := c.CreateKeyword(ctx, text)
				if createErr != nil {
					return nil, fmt.Errorf("creating keyword %q: %w", text, createErr)
				}
				id = keyword.ID
				idsByText[strings.ToLower(text)] = id
			}
			ids = append(ids, id)
		}
		applications = append(applications, client.KeywordApplication{
			MemoryBlockID: s.MemoryBlockID,
			KeywordIDs:    ids,
		})
	}
	return applications, nil
}

// keywordVocabulary loads the full keyword list keyed by lowercased text.
func keywordVocabulary(ctx context.Context, c *client.Client) (map[string]string, error) {
	const pageSize = 1000

	idsByText := make(map[string]string)
	for offset := 0; ; offset += pageSize {
		page, err := c.ListKeywords(ctx, "", client.ListOptions{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, wrapAPIError("listing keywords", err)
		}
		for _, kw := range page.Items {
			idsByText[strings.ToLower(kw.Text)] = kw.ID
		}
		if len(page.Items) < pageSize {
			return idsByText, nil
		}
	}
}

// toChunkResult converts a bulk-apply response into executor accounting.
func toChunkResult(res client.BulkApplyResult) batch.ChunkResult {
	cr := batch.ChunkResult{
		Successful: res.SuccessfulCount,
		Failed:     res.FailedCount,
	}
	for _, e := range res.Errors {
		cr.Errors = append(cr.Errors, batch.ItemError{
			ItemID: e.MemoryBlockID,
			Detail: e.Detail,
		})
	}
	return cr
}

// runWithProgressView drives a bulk run under the interactive progress
// view. The run executes in a goroutine; progress snapshots stream to
// the view on a ticker and the final outcome closes it.
func runWithProgressView(
	cmd *cobra.Command,
	executor *batch.Executor[client.KeywordApplication],
	signal *batch.Signal,
	title string,
	run func() (batch.Result, error),
) (batch.Result, error) {
	model := tui.NewRunModel(title, signal)
	program := tea.NewProgram(model, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.ErrOrStderr()))

	done := make(chan struct{})
	var result batch.Result
	var runErr error

	go func() {
		defer close(done)
		result, runErr = run()
		program.Send(tui.DoneMsg{Result: result, Err: runErr, State: executor.State()})
	}()

	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				program.Send(tui.SnapshotMsg(executor.Progress()))
			}
		}
	}()

	if _, err := program.Run(); err != nil {
		return result, fmt.Errorf("running progress view: %w", err)
	}
	<-done
	return result, runErr
}

// reportBulkOutcome prints the terminal summary for a bulk run and maps
// the run error to the process outcome. Cancellation is neutral: the
// command reports what was applied and exits zero.
func reportBulkOutcome(
	cmd *cobra.Command,
	notifier notify.Notifier,
	result batch.Result,
	runErr error,
	total int,
	noun string,
) error {
	for _, itemErr := range result.Errors {
		cmd.PrintErrf("  %s: %s\n", itemErr.ItemID, itemErr.Detail)
	}

	switch {
	case runErr == nil:
		notifier.Success("%s %s applied, %s failed",
			formatCount(result.Successful), noun, formatCount(result.Failed))
		return nil

	case errors.Is(runErr, batch.ErrCancelled):
		remaining := total - result.Successful - result.Failed
		notifier.Info("run cancelled: %s %s applied, %s never submitted",
			formatCount(result.Successful), noun, formatCount(remaining))
		return nil

	case errors.Is(runErr, batch.ErrRemoteBatch):
		remaining := total - result.Successful - result.Failed
		notifier.Error("run failed: %s %s applied before the failure, %s not submitted",
			formatCount(result.Successful), noun, formatCount(remaining))
		return runErr

	default:
		return runErr
	}
}

// ---- consolidation suggestions ----

func newSuggestConsolidationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidation",
		Short: "Consolidation suggestions for redundant memory",
	}
	cmd.AddCommand(
		newConsolidationListCmd(), newConsolidationShowCmd(),
		newConsolidationValidateCmd(), newConsolidationRejectCmd(),
		newConsolidationTriggerCmd(),
	)
	return cmd
}

func newConsolidationListCmd() *cobra.Command {
	var status string
	var pager pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List consolidation suggestions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := pager.Validate(); err != nil {
				return err
			}
			consolidationStatus, err := parseConsolidationStatus(status)
			if err != nil {
				return err
			}
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			offset, limit := pager.OffsetLimit()
			page, err := c.ListConsolidationSuggestions(cmd.Context(), consolidationStatus, client.ListOptions{
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return wrapAPIError("listing consolidation suggestions", err)
			}

			meta := pagination.NewMeta(pager, page.TotalItems)
			footer := fmt.Sprintf("\n%s suggestions (page %d of %d)",
				formatCount(meta.TotalItems), meta.CurrentPage, meta.TotalPages)
			return renderList(cmd, page.Items,
				[]string{"ID", "AGENT", "STATUS", "SOURCE BLOCKS", "SUGGESTED CONTENT"},
				func(s client.ConsolidationSuggestion) []string {
					return []string{
						s.ID, s.AgentID, string(s.Status),
						formatCount(len(s.OriginalBlockIDs)),
						truncateCell(s.SuggestedContent, 50),
					}
				}, footer)
		},
	}

	cmd.Flags().StringVar(&status, "status", "pending", "filter by status: pending, validated, or rejected")
	pager.AddFlags(cmd)

	return cmd
}

func newConsolidationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <suggestion-id>",
		Short: "Show one consolidation suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			suggestion, err := c.GetConsolidationSuggestion(cmd.Context(), args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("consolidation suggestion %s not found", args[0])
				}
				return wrapAPIError("fetching consolidation suggestion", err)
			}

			if outputFormat() != formatTable {
				return renderJSON(cmd.OutOrStdout(), suggestion)
			}

			cmd.Printf("ID:      %s\n", suggestion.ID)
			cmd.Printf("Agent:   %s\n", suggestion.AgentID)
			cmd.Printf("Status:  %s\n", suggestion.Status)
			cmd.Printf("Created: %s\n", suggestion.CreatedAt.Format("2006-01-02 15:04:05"))
			cmd.Printf("Source blocks (%d):\n", len(suggestion.OriginalBlockIDs))
			for _, id := range suggestion.OriginalBlockIDs {
				cmd.Printf("  %s\n", id)
			}
			cmd.Println()
			cmd.Println("Suggested content:")
			cmd.Println(suggestion.SuggestedContent)
			return nil
		},
	}
}

func newConsolidationValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <suggestion-id>",
		Short: "Accept a consolidation suggestion",
		Long: `Accept a consolidation suggestion. The service replaces the source
blocks with the consolidated block and archives the originals.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.ValidateConsolidation(cmd.Context(), args[0]); err != nil {
				return wrapAPIError("validating consolidation", err)
			}

			newNotifier(cmd).Success("consolidation %s validated", args[0])
			return nil
		},
	}
}

func newConsolidationRejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <suggestion-id>",
		Short: "Reject a consolidation suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.RejectConsolidation(cmd.Context(), args[0]); err != nil {
				return wrapAPIError("rejecting consolidation", err)
			}

			newNotifier(cmd).Success("consolidation %s rejected", args[0])
			return nil
		},
	}
}

func newConsolidationTriggerCmd() *cobra.Command {
	var agentID string

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Trigger consolidation analysis for an agent",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newServiceClient(cmd)
			if err != nil {
				return err
			}

			if err := c.TriggerConsolidation(cmd.Context(), agentID); err != nil {
				return wrapAPIError("triggering consolidation", err)
			}

			newNotifier(cmd).Info("consolidation analysis queued for agent %s", agentID)
			return nil
		},
	}

	cmd.Flags().StringVar(&agentID, "agent", "", "agent ID to analyze (required)")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

// parseConsolidationStatus validates the --status flag value.
func parseConsolidationStatus(s string) (client.ConsolidationStatus, error) {
	switch client.ConsolidationStatus(s) {
	case client.ConsolidationPending, client.ConsolidationValidated, client.ConsolidationRejected:
		return client.ConsolidationStatus(s), nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("invalid status %q (expected pending, validated, or rejected)", s)
	}
}
