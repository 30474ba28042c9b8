package chatwoot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Valid conversation statuses accepted by the Chatwoot API.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
	StatusPending  = "pending"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusResolved, StatusPending:
		return true
	}
	return false
}

// Config identifies one Chatwoot account.
type Config struct {
	BaseURL   string
	AccountID string
	APIToken  string
}

// Client is the outbound message relay. All calls are single HTTP round
// trips; failures surface as errors and are never retried here.
type Client struct {
	cfg   Config
	httpc *http.Client
}

func New(cfg Config, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{cfg: cfg, httpc: httpc}
}

// Configured reports whether relay credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.BaseURL != "" && c.cfg.AccountID != "" && c.cfg.APIToken != ""
}

// SendMessage posts an outgoing, non-private message to a conversation.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, content string) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("conversations/%d/messages", conversationID), map[string]interface{}{
		"content":      content,
		"message_type": "outgoing",
		"private":      false,
	})
}

// AddLabels appends labels to a conversation.
func (c *Client) AddLabels(ctx context.Context, conversationID int64, labels []string) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("conversations/%d/labels", conversationID), map[string]interface{}{
		"labels": labels,
	})
}

// UpdateStatus toggles a conversation between open, resolved and pending.
func (c *Client) UpdateStatus(ctx context.Context, conversationID int64, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid conversation status %q", status)
	}
	return c.call(ctx, http.MethodPatch, fmt.Sprintf("conversations/%d", conversationID), map[string]interface{}{
		"status": status,
	})
}

// UpdateAttributes sets custom attributes on a conversation, e.g. bot=false
// when handing off to a human agent.
func (c *Client) UpdateAttributes(ctx context.Context, conversationID int64, attrs map[string]interface{}) error {
	return c.call(ctx, http.MethodPost, fmt.Sprintf("conversations/%d/custom_attributes", conversationID), map[string]interface{}{
		"custom_attributes": attrs,
	})
}

func (c *Client) call(ctx context.Context, method, path string, payload interface{}) error {
	if !c.Configured() {
		return fmt.Errorf("chatwoot relay not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/v1/accounts/%s/%s", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountID, path)
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api_access_token", c.cfg.APIToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("chatwoot api: %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}
