package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hindsight-ai/memctl/internal/client"
)

func TestComputeAgentStats(t *testing.T) {
	agents := []client.Agent{
		{ID: "a1", Name: "researcher"},
		{ID: "a2", Name: "coder"},
		{ID: "a3", Name: "idle"},
	}
	conversations := []client.Conversation{
		{ID: "c1", AgentID: "a1"},
		{ID: "c2", AgentID: "a1"},
		{ID: "c3", AgentID: "a2"},
		{ID: "c4", AgentID: "unknown-agent"},
	}
	blocks := []client.MemoryBlock{
		{ID: "m1", AgentID: "a1", TokenCount: 100, FeedbackScore: 10},
		{ID: "m2", AgentID: "a1", TokenCount: 300, FeedbackScore: 20},
		{ID: "m3", AgentID: "a2", TokenCount: 50, FeedbackScore: -5},
	}

	stats := ComputeAgentStats(agents, conversations, blocks)
	require.Len(t, stats, 3)

	// Ordered by conversation count descending.
	assert.Equal(t, "researcher", stats[0].AgentName)
	assert.Equal(t, 2, stats[0].ConversationCount)
	assert.Equal(t, 2, stats[0].MemoryBlockCount)
	assert.Equal(t, 400, stats[0].TotalTokens)
	assert.InDelta(t, 15.0, stats[0].AvgFeedbackScore, 0.001)

	assert.Equal(t, "coder", stats[1].AgentName)
	assert.InDelta(t, -5.0, stats[1].AvgFeedbackScore, 0.001)

	// Idle agent still listed with zeroes.
	assert.Equal(t, "idle", stats[2].AgentName)
	assert.Zero(t, stats[2].ConversationCount)
	assert.Zero(t, stats[2].AvgFeedbackScore)
}

func TestComputeAgentStats_Empty(t *testing.T) {
	assert.Empty(t, ComputeAgentStats(nil, nil, nil))
}

func TestFilterSuggestions(t *testing.T) {
	suggestions := []client.KeywordSuggestion{
		{MemoryBlockID: "b1", Suggested: []string{"go", "testing"}},
		{MemoryBlockID: "b2", Suggested: []string{"sql"}},
		{MemoryBlockID: "b3", Suggested: []string{"go", "http", "retry"}},
	}

	t.Run("NoFilter", func(t *testing.T) {
		got := FilterSuggestions(suggestions, SuggestionFilter{})
		assert.Equal(t, suggestions, got)
	})

	t.Run("ByBlockID", func(t *testing.T) {
		got := FilterSuggestions(suggestions, SuggestionFilter{BlockIDs: []string{"b3", "b1"}})
		require.Len(t, got, 2)
		// Input order preserved, not filter order.
		assert.Equal(t, "b1", got[0].MemoryBlockID)
		assert.Equal(t, "b3", got[1].MemoryBlockID)
	})

	t.Run("MinSuggested", func(t *testing.T) {
		got := FilterSuggestions(suggestions, SuggestionFilter{MinSuggested: 2})
		require.Len(t, got, 2)
		assert.Equal(t, "b1", got[0].MemoryBlockID)
		assert.Equal(t, "b3", got[1].MemoryBlockID)
	})
}
