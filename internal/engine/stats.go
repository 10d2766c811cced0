// Package engine holds client-side domain logic: derived statistics over
// fetched lists and selection helpers for suggestion workflows. The
// memory service owns all persistence and scoring; everything here is
// computed from data the client already fetched.
package engine

import (
	"sort"

	"github.com/hindsight-ai/memctl/internal/client"
)

// AgentStats summarizes one agent's activity, derived by grouping
// already-fetched conversation and memory-block lists.
type AgentStats struct {
	AgentID           string
	AgentName         string
	ConversationCount int
	MemoryBlockCount  int
	TotalTokens       int
	AvgFeedbackScore  float64
}

// ComputeAgentStats groups conversations and memory blocks per agent.
// Agents with no activity still appear with zero counts. Results are
// ordered by conversation count descending, then agent name for
// stability.
func ComputeAgentStats(agents []client.Agent, conversations []client.Conversation, blocks []client.MemoryBlock) []AgentStats {
	byID := make(map[string]*AgentStats, len(agents))
	for _, a := range agents {
		byID[a.ID] = &AgentStats{AgentID: a.ID, AgentName: a.Name}
	}

	for _, conv := range conversations {
		stats, ok := byID[conv.AgentID]
		if !ok {
			// Conversation for an agent outside the fetched set; skip
			// rather than invent a row with no name.
			continue
		}
		stats.ConversationCount++
	}

	feedbackTotals := make(map[string]int, len(byID))
	for _, block := range blocks {
		stats, ok := byID[block.AgentID]
		if !ok {
			continue
		}
		stats.MemoryBlockCount++
		stats.TotalTokens += block.TokenCount
		feedbackTotals[block.AgentID] += block.FeedbackScore
	}

	result := make([]AgentStats, 0, len(byID))
	for id, stats := range byID {
		if stats.MemoryBlockCount > 0 {
			stats.AvgFeedbackScore = float64(feedbackTotals[id]) / float64(stats.MemoryBlockCount)
		}
		result = append(result, *stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ConversationCount != result[j].ConversationCount {
			return result[i].ConversationCount > result[j].ConversationCount
		}
		return result[i].AgentName < result[j].AgentName
	})

	return result
}

// SuggestionFilter narrows keyword suggestions before a bulk apply.
type SuggestionFilter struct {
	// BlockIDs limits to specific memory blocks (empty = all).
	BlockIDs []string

	// MinSuggested drops suggestions proposing fewer than this many
	// keywords (0 = no minimum).
	MinSuggested int
}

// FilterSuggestions applies the filter, preserving input order so the
// bulk run's chunk order matches what the user reviewed.
func FilterSuggestions(suggestions []client.KeywordSuggestion, filter SuggestionFilter) []client.KeywordSuggestion {
	wanted := make(map[string]bool, len(filter.BlockIDs))
	for _, id := range filter.BlockIDs {
		wanted[id] = true
	}

	var result []client.KeywordSuggestion
	for _, s := range suggestions {
		if len(wanted) > 0 && !wanted[s.MemoryBlockID] {
			continue
		}
		if filter.MinSuggested > 0 && len(s.Suggested) < filter.MinSuggested {
			continue
		}
		result = append(result, s)
	}
	return result
}
