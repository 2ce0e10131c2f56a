package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client pushes replies to the messaging platform and pulls message content
// (slip images) referenced by webhook events.
type Client struct {
	APIBase     string
	ContentBase string
	HTTP        *http.Client
}

func NewFromEnv() *Client {
	return &Client{
		APIBase:     "https://api.line.me",
		ContentBase: "https://api-data.line.me",
		HTTP:        &http.Client{Timeout: 8 * time.Second},
	}
}

func (c *Client) token() string {
	return os.Getenv("MESSAGING_CHANNEL_TOKEN")
}

// FetchContent downloads the binary content of a message (the slip image).
func (c *Client) FetchContent(ctx context.Context, messageID string) ([]byte, error) {
	u := fmt.Sprintf("%s/v2/bot/message/%s/content", c.ContentBase, messageID)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch message content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch message content, status: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// ReplyText answers a webhook event through its reply token.
func (c *Client) ReplyText(ctx context.Context, replyToken, text string) error {
	payload := map[string]any{
		"replyToken": replyToken,
		"messages": []map[string]any{
			{"type": "text", "text": text},
		},
	}
	return c.push(ctx, "/v2/bot/message/reply", payload)
}

// PushText sends a message outside the reply window.
func (c *Client) PushText(ctx context.Context, to, text string) error {
	payload := map[string]any{
		"to": to,
		"messages": []map[string]any{
			{"type": "text", "text": text},
		},
	}
	return c.push(ctx, "/v2/bot/message/push", payload)
}

func (c *Client) push(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.APIBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("messaging push failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("messaging push status %s: %s", resp.Status, string(raw))
	}
	return nil
}
