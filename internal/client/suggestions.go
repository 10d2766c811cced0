package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListKeywordSuggestions returns keyword suggestions for memory blocks,
// optionally scoped to one agent.
func (c *Client) ListKeywordSuggestions(ctx context.Context, agentID string, opts ListOptions) (Page[KeywordSuggestion], error) {
	query := url.Values{}
	if agentID != "" {
		query.Set("agent_id", agentID)
	}
	opts.apply(query)

	var page Page[KeywordSuggestion]
	if err := c.get(ctx, "/memory-optimization/keyword-suggestions", query, &page); err != nil {
		return Page[KeywordSuggestion]{}, fmt.Errorf("listing keyword suggestions: %w", err)
	}
	return page, nil
}

// BulkApplyKeywords submits one batch of keyword applications. The
// service applies each independently and reports aggregate counts; a
// transport or server error fails the whole batch.
func (c *Client) BulkApplyKeywords(ctx context.Context, applications []KeywordApplication) (BulkApplyResult, error) {
	body := map[string]interface{}{"applications": applications}
	var result BulkApplyResult
	if err := c.post(ctx, "/memory-optimization/keywords/bulk-apply", body, &result); err != nil {
		return BulkApplyResult{}, fmt.Errorf("bulk applying keywords: %w", err)
	}
	return result, nil
}

// ListConsolidationSuggestions returns consolidation suggestions filtered
// by status ("" = all).
func (c *Client) ListConsolidationSuggestions(ctx context.Context, status ConsolidationStatus, opts ListOptions) (Page[ConsolidationSuggestion], error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}
	opts.apply(query)

	var page Page[ConsolidationSuggestion]
	if err := c.get(ctx, "/consolidation-suggestions", query, &page); err != nil {
		return Page[ConsolidationSuggestion]{}, fmt.Errorf("listing consolidation suggestions: %w", err)
	}
	return page, nil
}

// GetConsolidationSuggestion fetches one consolidation suggestion.
func (c *Client) GetConsolidationSuggestion(ctx context.Context, suggestionID string) (ConsolidationSuggestion, error) {
	var s ConsolidationSuggestion
	if err := c.get(ctx, "/consolidation-suggestions/"+url.PathEscape(suggestionID), nil, &s); err != nil {
		return ConsolidationSuggestion{}, fmt.Errorf("getting consolidation suggestion %s: %w", suggestionID, err)
	}
	return s, nil
}

// ValidateConsolidation accepts a suggestion: the service merges the
// original blocks into the suggested content and archives the originals.
func (c *Client) ValidateConsolidation(ctx context.Context, suggestionID string) error {
	path := "/consolidation-suggestions/" + url.PathEscape(suggestionID) + "/validate"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("validating consolidation suggestion %s: %w", suggestionID, err)
	}
	return nil
}

// RejectConsolidation declines a suggestion, leaving the originals alone.
func (c *Client) RejectConsolidation(ctx context.Context, suggestionID string) error {
	path := "/consolidation-suggestions/" + url.PathEscape(suggestionID) + "/reject"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("rejecting consolidation suggestion %s: %w", suggestionID, err)
	}
	return nil
}

// TriggerConsolidation asks the service to analyze an agent's memories
// and generate fresh consolidation suggestions.
func (c *Client) TriggerConsolidation(ctx context.Context, agentID string) error {
	body := map[string]string{"agent_id": agentID}
	if err := c.post(ctx, "/consolidation-suggestions/trigger", body, nil); err != nil {
		return fmt.Errorf("triggering consolidation for agent %s: %w", agentID, err)
	}
	return nil
}

// GeneratePruningSuggestions asks the service to score an agent's
// memories and return the lowest-value candidates.
func (c *Client) GeneratePruningSuggestions(ctx context.Context, agentID string, count int) ([]PruningSuggestion, error) {
	body := map[string]interface{}{"agent_id": agentID, "count": count}
	var out struct {
		Suggestions []PruningSuggestion `json:"suggestions"`
	}
	if err := c.post(ctx, "/memory-pruning/suggestions", body, &out); err != nil {
		return nil, fmt.Errorf("generating pruning suggestions: %w", err)
	}
	return out.Suggestions, nil
}

// ConfirmPruning archives the given memory blocks as pruned.
func (c *Client) ConfirmPruning(ctx context.Context, blockIDs []string) error {
	body := map[string]interface{}{"memory_block_ids": blockIDs}
	if err := c.post(ctx, "/memory-pruning/confirm", body, nil); err != nil {
		return fmt.Errorf("confirming pruning of %d blocks: %w", len(blockIDs), err)
	}
	return nil
}

// RejectPruning dismisses pruning suggestions for the given blocks.
func (c *Client) RejectPruning(ctx context.Context, blockIDs []string) error {
	body := map[string]interface{}{"memory_block_ids": blockIDs}
	if err := c.post(ctx, "/memory-pruning/reject", body, nil); err != nil {
		return fmt.Errorf("rejecting pruning of %d blocks: %w", len(blockIDs), err)
	}
	return nil
}
