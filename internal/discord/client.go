package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"channelsorter/internal/guild"
	"channelsorter/pkg/logging"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultBaseURL = "https://discord.com/api/v10"

// Client is the REST implementation of API. Requests go through a
// retrying HTTP client that backs off on rate limits (honoring Retry-After)
// and transient server errors; anything still failing after the retry
// budget surfaces as *guild.APIError.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at an httptest server.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a REST client authenticating with the given bot token.
// Timeout bounds each individual call, retries included.
func NewClient(token string, timeout time.Duration, opts ...ClientOption) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 500 * time.Millisecond
	rc.RetryWaitMax = 10 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout

	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		httpClient: rc.StandardClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do performs one API call. body and out may be nil; out receives the
// decoded JSON response on success.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &guild.APIError{Op: op, Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &guild.APIError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bot "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &guild.APIError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logging.Debug("Discord", "%s %s failed: %d %s", method, path, resp.StatusCode, data)
		return &guild.APIError{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", data),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &guild.APIError{Op: op, Err: err}
		}
	}
	return nil
}

// GuildState lists all channels of a guild and splits them into text
// channels and category containers.
func (c *Client) GuildState(ctx context.Context, guildID string) (State, error) {
	var wire []wireChannel
	if err := c.do(ctx, "GuildState", http.MethodGet, "/guilds/"+guildID+"/channels", nil, &wire); err != nil {
		return State{}, err
	}

	var state State
	for _, w := range wire {
		switch w.Type {
		case channelTypeText:
			state.Channels = append(state.Channels, w.toChannel())
		case channelTypeCategory:
			state.Categories = append(state.Categories, guild.Category{ID: w.ID, Name: w.Name})
		}
	}
	return state, nil
}

// ModifyChannel applies a partial update. Only non-nil patch fields are
// sent, preserving the store's partial-patch semantics.
func (c *Client) ModifyChannel(ctx context.Context, channelID string, patch ChannelPatch) error {
	body := map[string]interface{}{}
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.ParentID != nil {
		body["parent_id"] = *patch.ParentID
	}
	if patch.Position != nil {
		body["position"] = *patch.Position
	}
	if patch.Overwrites != nil {
		wire := make([]wireOverwrite, 0, len(*patch.Overwrites))
		for _, o := range *patch.Overwrites {
			wire = append(wire, fromOverwrite(o))
		}
		body["permission_overwrites"] = wire
	}
	return c.do(ctx, "ModifyChannel", http.MethodPatch, "/channels/"+channelID, body, nil)
}

// ModifyCategory renames a category container.
func (c *Client) ModifyCategory(ctx context.Context, categoryID, name string) error {
	body := map[string]interface{}{"name": name}
	return c.do(ctx, "ModifyCategory", http.MethodPatch, "/channels/"+categoryID, body, nil)
}

// CreateChannel creates a text channel under a category.
func (c *Client) CreateChannel(ctx context.Context, guildID, name, parentID string) (guild.Channel, error) {
	body := map[string]interface{}{
		"name": name,
		"type": channelTypeText,
	}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	var wire wireChannel
	if err := c.do(ctx, "CreateChannel", http.MethodPost, "/guilds/"+guildID+"/channels", body, &wire); err != nil {
		return guild.Channel{}, err
	}
	return wire.toChannel(), nil
}

// CreateRole creates a guild role.
func (c *Client) CreateRole(ctx context.Context, guildID, name string, mentionable bool) (guild.Role, error) {
	body := map[string]interface{}{
		"name":        name,
		"mentionable": mentionable,
	}
	var wire wireRole
	if err := c.do(ctx, "CreateRole", http.MethodPost, "/guilds/"+guildID+"/roles", body, &wire); err != nil {
		return guild.Role{}, err
	}
	return guild.Role{ID: wire.ID, Name: wire.Name}, nil
}

// GuildRoles lists all roles of a guild.
func (c *Client) GuildRoles(ctx context.Context, guildID string) ([]guild.Role, error) {
	var wire []wireRole
	if err := c.do(ctx, "GuildRoles", http.MethodGet, "/guilds/"+guildID+"/roles", nil, &wire); err != nil {
		return nil, err
	}
	roles := make([]guild.Role, 0, len(wire))
	for _, w := range wire {
		roles = append(roles, guild.Role{ID: w.ID, Name: w.Name})
	}
	return roles, nil
}

// AddMemberRole assigns a role to a member.
func (c *Client) AddMemberRole(ctx context.Context, guildID, userID, roleID string) error {
	path := "/guilds/" + guildID + "/members/" + userID + "/roles/" + roleID
	return c.do(ctx, "AddMemberRole", http.MethodPut, path, nil, nil)
}

// SetChannelPermission creates or replaces one permission overwrite.
func (c *Client) SetChannelPermission(ctx context.Context, channelID string, overwrite guild.PermissionOverwrite) error {
	wire := fromOverwrite(overwrite)
	body := map[string]interface{}{
		"type":  wire.Type,
		"allow": wire.Allow,
		"deny":  wire.Deny,
	}
	path := "/channels/" + channelID + "/permissions/" + overwrite.TargetID
	return c.do(ctx, "SetChannelPermission", http.MethodPut, path, body, nil)
}

// DeleteChannelPermission removes a target's overwrite entirely.
func (c *Client) DeleteChannelPermission(ctx context.Context, channelID, targetID string) error {
	path := "/channels/" + channelID + "/permissions/" + targetID
	return c.do(ctx, "DeleteChannelPermission", http.MethodDelete, path, nil, nil)
}

// LastMessageTime fetches the single most recent message of a channel and
// returns its timestamp, or nil when the channel has no messages.
func (c *Client) LastMessageTime(ctx context.Context, channelID string) (*time.Time, error) {
	var messages []wireMessage
	path := "/channels/" + channelID + "/messages?" + url.Values{"limit": {"1"}}.Encode()
	if err := c.do(ctx, "LastMessageTime", http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, nil
	}
	ts := messages[0].Timestamp
	return &ts, nil
}

// SendMessage posts a plain text message.
func (c *Client) SendMessage(ctx context.Context, channelID, content string) error {
	body := map[string]interface{}{"content": content}
	return c.do(ctx, "SendMessage", http.MethodPost, "/channels/"+channelID+"/messages", body, nil)
}

// compile-time interface check
var _ API = (*Client)(nil)
