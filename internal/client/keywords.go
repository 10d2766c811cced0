package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListKeywords returns all keywords, optionally filtered by a search term.
func (c *Client) ListKeywords(ctx context.Context, search string, opts ListOptions) (Page[Keyword], error) {
	query := url.Values{}
	if search != "" {
		query.Set("search_query", search)
	}
	opts.apply(query)

	var page Page[Keyword]
	if err := c.get(ctx, "/keywords", query, &page); err != nil {
		return Page[Keyword]{}, fmt.Errorf("listing keywords: %w", err)
	}
	return page, nil
}

// CreateKeyword creates a keyword with the given text.
func (c *Client) CreateKeyword(ctx context.Context, text string) (Keyword, error) {
	body := map[string]string{"keyword_text": text}
	var kw Keyword
	if err := c.post(ctx, "/keywords", body, &kw); err != nil {
		return Keyword{}, fmt.Errorf("creating keyword %q: %w", text, err)
	}
	return kw, nil
}

// UpdateKeyword renames a keyword.
func (c *Client) UpdateKeyword(ctx context.Context, keywordID, text string) (Keyword, error) {
	body := map[string]string{"keyword_text": text}
	var kw Keyword
	if err := c.put(ctx, "/keywords/"+url.PathEscape(keywordID), body, &kw); err != nil {
		return Keyword{}, fmt.Errorf("updating keyword %s: %w", keywordID, err)
	}
	return kw, nil
}

// DeleteKeyword removes a keyword and detaches it from all memory blocks.
func (c *Client) DeleteKeyword(ctx context.Context, keywordID string) error {
	if err := c.del(ctx, "/keywords/"+url.PathEscape(keywordID)); err != nil {
		return fmt.Errorf("deleting keyword %s: %w", keywordID, err)
	}
	return nil
}

// AttachKeyword associates a keyword with one memory block.
func (c *Client) AttachKeyword(ctx context.Context, blockID, keywordID string) error {
	path := "/memory-blocks/" + url.PathEscape(blockID) + "/keywords/" + url.PathEscape(keywordID)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("attaching keyword %s to block %s: %w", keywordID, blockID, err)
	}
	return nil
}

// DetachKeyword removes a keyword from one memory block.
func (c *Client) DetachKeyword(ctx context.Context, blockID, keywordID string) error {
	path := "/memory-blocks/" + url.PathEscape(blockID) + "/keywords/" + url.PathEscape(keywordID)
	if err := c.del(ctx, path); err != nil {
		return fmt.Errorf("detaching keyword %s from block %s: %w", keywordID, blockID, err)
	}
	return nil
}
