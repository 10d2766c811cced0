package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MemoryBlockQuery holds the dashboard's memory-block list filters:
// full-text search, agent scope, keyword tags, and the feedback/retrieval
// range-slider bounds. Zero values mean "no constraint"; use -1 for a
// lower bound of zero on the numeric ranges.
type MemoryBlockQuery struct {
	Search     string
	AgentID    string
	KeywordIDs []string

	// MinFeedback/MaxFeedback bound the feedback score (0 = unset).
	MinFeedback int
	MaxFeedback int

	// MinRetrieval/MaxRetrieval bound the retrieval count (0 = unset).
	MinRetrieval int
	MaxRetrieval int

	// SortField and SortOrder request server-side ordering.
	SortField string
	SortOrder string

	ListOptions
}

// values encodes the query into URL parameters.
func (q MemoryBlockQuery) values() url.Values {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search_query", q.Search)
	}
	if q.AgentID != "" {
		query.Set("agent_id", q.AgentID)
	}
	if len(q.KeywordIDs) > 0 {
		query.Set("keyword_ids", strings.Join(q.KeywordIDs, ","))
	}
	setRange(query, "feedback_score", q.MinFeedback, q.MaxFeedback)
	setRange(query, "retrieval_count", q.MinRetrieval, q.MaxRetrieval)
	if q.SortField != "" {
		query.Set("sort_by", q.SortField)
		order := q.SortOrder
		if order == "" {
			order = "asc"
		}
		query.Set("sort_order", order)
	}
	q.ListOptions.apply(query)
	return query
}

// setRange adds min_/max_ bounds for one numeric field. -1 encodes an
// explicit zero lower bound.
func setRange(query url.Values, field string, minVal, maxVal int) {
	if minVal != 0 {
		if minVal == -1 {
			minVal = 0
		}
		query.Set("min_"+field, strconv.Itoa(minVal))
	}
	if maxVal != 0 {
		query.Set("max_"+field, strconv.Itoa(maxVal))
	}
}

// ListMemoryBlocks returns memory blocks matching the query.
func (c *Client) ListMemoryBlocks(ctx context.Context, q MemoryBlockQuery) (Page[MemoryBlock], error) {
	var page Page[MemoryBlock]
	if err := c.get(ctx, "/memory-blocks", q.values(), &page); err != nil {
		return Page[MemoryBlock]{}, fmt.Errorf("listing memory blocks: %w", err)
	}
	return page, nil
}

// ListArchivedMemoryBlocks returns archived memory blocks.
func (c *Client) ListArchivedMemoryBlocks(ctx context.Context, q MemoryBlockQuery) (Page[MemoryBlock], error) {
	var page Page[MemoryBlock]
	if err := c.get(ctx, "/memory-blocks/archived", q.values(), &page); err != nil {
		return Page[MemoryBlock]{}, fmt.Errorf("listing archived memory blocks: %w", err)
	}
	return page, nil
}

// GetMemoryBlock fetches one memory block by ID.
func (c *Client) GetMemoryBlock(ctx context.Context, blockID string) (MemoryBlock, error) {
	var block MemoryBlock
	if err := c.get(ctx, "/memory-blocks/"+url.PathEscape(blockID), nil, &block); err != nil {
		return MemoryBlock{}, fmt.Errorf("getting memory block %s: %w", blockID, err)
	}
	return block, nil
}

// ArchiveMemoryBlock moves a memory block to the archive. Archived blocks
// stop appearing in agent retrieval but remain browsable.
func (c *Client) ArchiveMemoryBlock(ctx context.Context, blockID string) error {
	path := "/memory-blocks/" + url.PathEscape(blockID) + "/archive"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("archiving memory block %s: %w", blockID, err)
	}
	return nil
}
