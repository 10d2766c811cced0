package client

import (
	"context"
	"fmt"
	"net/url"
)

// ListNotifications returns notifications; unreadOnly narrows to unread.
func (c *Client) ListNotifications(ctx context.Context, unreadOnly bool, opts ListOptions) (Page[Notification], error) {
	query := url.Values{}
	if unreadOnly {
		query.Set("unread_only", "true")
	}
	opts.apply(query)

	var page Page[Notification]
	if err := c.get(ctx, "/notifications", query, &page); err != nil {
		return Page[Notification]{}, fmt.Errorf("listing notifications: %w", err)
	}
	return page, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	path := "/notifications/" + url.PathEscape(notificationID) + "/read"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %s read: %w", notificationID, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.post(ctx, "/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

// ListOrganizations returns the organizations visible to the caller.
func (c *Client) ListOrganizations(ctx context.Context, opts ListOptions) (Page[Organization], error) {
	query := url.Values{}
	opts.apply(query)

	var page Page[Organization]
	if err := c.get(ctx, "/organizations", query, &page); err != nil {
		return Page[Organization]{}, fmt.Errorf("listing organizations: %w", err)
	}
	return page, nil
}

// CreateOrganization creates an organization; the caller becomes owner.
func (c *Client) CreateOrganization(ctx context.Context, name, slug string) (Organization, error) {
	body := map[string]string{"name": name, "slug": slug}
	var org Organization
	if err := c.post(ctx, "/organizations", body, &org); err != nil {
		return Organization{}, fmt.Errorf("creating organization %q: %w", name, err)
	}
	return org, nil
}

// ListMembers returns an organization's members.
func (c *Client) ListMembers(ctx context.Context, orgID string) ([]Member, error) {
	var out struct {
		Members []Member `json:"members"`
	}
	if err := c.get(ctx, "/organizations/"+url.PathEscape(orgID)+"/members", nil, &out); err != nil {
		return nil, fmt.Errorf("listing members of organization %s: %w", orgID, err)
	}
	return out.Members, nil
}

// AddMember invites a user to an organization with the given role.
func (c *Client) AddMember(ctx context.Context, orgID, email string, role MemberRole) error {
	if !ValidRole(role) {
		return fmt.Errorf("invalid member role %q", role)
	}
	body := map[string]string{"email": email, "role": string(role)}
	path := "/organizations/" + url.PathEscape(orgID) + "/members"
	if err := c.post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("adding member %s to organization %s: %w", email, orgID, err)
	}
	return nil
}

// UpdateMemberRole changes a member's role.
func (c *Client) UpdateMemberRole(ctx context.Context, orgID, userID string, role MemberRole) error {
	if !ValidRole(role) {
		return fmt.Errorf("invalid member role %q", role)
	}
	body := map[string]string{"role": string(role)}
	path := "/organizations/" + url.PathEscape(orgID) + "/members/" + url.PathEscape(userID)
	if err := c.put(ctx, path, body, nil); err != nil {
		return fmt.Errorf("updating role of member %s in organization %s: %w", userID, orgID, err)
	}
	return nil
}

// RemoveMember removes a user from an organization.
func (c *Client) RemoveMember(ctx context.Context, orgID, userID string) error {
	path := "/organizations/" + url.PathEscape(orgID) + "/members/" + url.PathEscape(userID)
	if err := c.del(ctx, path); err != nil {
		return fmt.Errorf("removing member %s from organization %s: %w", userID, orgID, err)
	}
	return nil
}

// ListTokens returns the caller's API tokens. Secrets are never included.
func (c *Client) ListTokens(ctx context.Context) ([]Token, error) {
	var out struct {
		Tokens []Token `json:"tokens"`
	}
	if err := c.get(ctx, "/tokens", nil, &out); err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}
	return out.Tokens, nil
}

// CreateToken creates an API token. The returned Token's Secret field is
// the only time the full secret is visible.
func (c *Client) CreateToken(ctx context.Context, name string, scopes []string) (Token, error) {
	body := map[string]interface{}{"name": name, "scopes": scopes}
	var tok Token
	if err := c.post(ctx, "/tokens", body, &tok); err != nil {
		return Token{}, fmt.Errorf("creating token %q: %w", name, err)
	}
	return tok, nil
}

// RevokeToken permanently revokes an API token.
func (c *Client) RevokeToken(ctx context.Context, tokenID string) error {
	if err := c.del(ctx, "/tokens/"+url.PathEscape(tokenID)); err != nil {
		return fmt.Errorf("revoking token %s: %w", tokenID, err)
	}
	return nil
}
