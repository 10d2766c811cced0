package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListAgents returns agents, optionally filtered by a search term.
func (c *Client) ListAgents(ctx context.Context, search string, opts ListOptions) (Page[Agent], error) {
	query := url.Values{}
	if search != "" {
		query.Set("search_query", search)
	}
	opts.apply(query)

	var page Page[Agent]
	if err := c.get(ctx, "/agents", query, &page); err != nil {
		return Page[Agent]{}, fmt.Errorf("listing agents: %w", err)
	}
	return page, nil
}

// GetAgent fetches one agent by ID.
func (c *Client) GetAgent(ctx context.Context, agentID string) (Agent, error) {
	var agent Agent
	if err := c.get(ctx, "/agents/"+url.PathEscape(agentID), nil, &agent); err != nil {
		return Agent{}, fmt.Errorf("getting agent %s: %w", agentID, err)
	}
	return agent, nil
}

// DeleteAgent removes an agent and all of its memories.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	if err := c.del(ctx, "/agents/"+url.PathEscape(agentID)); err != nil {
		return fmt.Errorf("deleting agent %s: %w", agentID, err)
	}
	return nil
}

// ListConversations returns conversations, optionally for one agent.
func (c *Client) ListConversations(ctx context.Context, agentID string, opts ListOptions) (Page[Conversation], error) {
	query := url.Values{}
	if agentID != "" {
		query.Set("agent_id", agentID)
	}
	opts.apply(query)

	var page Page[Conversation]
	if err := c.get(ctx, "/conversations", query, &page); err != nil {
		return Page[Conversation]{}, fmt.Errorf("listing conversations: %w", err)
	}
	return page, nil
}
