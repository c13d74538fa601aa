package telegram

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

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API. It carries no conversation state:
// every call is a single JSON POST, and a non-2xx status is an error.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(token string) *Client {
	return NewClientWithBaseURL(token, defaultBaseURL)
}

// NewClientWithBaseURL lets tests point the client at a mock API server.
func NewClientWithBaseURL(token, baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/bot" + strings.TrimSpace(token),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "/sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

// SendTextWithButtons sends text under an inline keyboard, one button per
// row. The callback payload of each button is the display string itself.
// An empty option list renders plain text.
func (c *Client) SendTextWithButtons(ctx context.Context, chatID int64, text string, options []string) error {
	if len(options) == 0 {
		return c.SendText(ctx, chatID, text)
	}

	rows := make([][]map[string]string, 0, len(options))
	for _, option := range options {
		rows = append(rows, []map[string]string{{
			"text":          option,
			"callback_data": option,
		}})
	}

	return c.call(ctx, "/sendMessage", map[string]any{
		"chat_id":      chatID,
		"text":         text,
		"reply_markup": map[string]any{"inline_keyboard": rows},
	})
}

// SendContactRequest shows a one-time reply keyboard with a single button
// that shares the user's contact.
func (c *Client) SendContactRequest(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "/sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
		"reply_markup": map[string]any{
			"keyboard": [][]map[string]any{{{
				"text":            "Share Contact",
				"request_contact": true,
			}}},
			"resize_keyboard":   true,
			"one_time_keyboard": true,
		},
	})
}

// ClearKeyboard removes a previously sent reply keyboard. Telegram only
// removes keyboards on an outgoing message, so a short text rides along.
func (c *Client) ClearKeyboard(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "/sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
		"reply_markup": map[string]any{
			"remove_keyboard": true,
			"selective":       true,
		},
	})
}

// AnswerCallback acknowledges a button press. Required by the Bot API for
// every callback query, independent of what the bot replies.
func (c *Client) AnswerCallback(ctx context.Context, callbackQueryID string) error {
	return c.call(ctx, "/answerCallbackQuery", map[string]any{
		"callback_query_id": callbackQueryID,
	})
}

// SetWebhook registers url as the update target and drops any backlog
// accumulated while the bot was down.
func (c *Client) SetWebhook(ctx context.Context, url string) error {
	return c.call(ctx, "/setWebhook", map[string]any{
		"url":                  url,
		"drop_pending_updates": true,
	})
}

func (c *Client) SetMyCommands(ctx context.Context) error {
	return c.call(ctx, "/setMyCommands", map[string]any{
		"commands": []map[string]string{
			{"command": "start", "description": "Start bot"},
			{"command": "stop", "description": "Deletes all your connection"},
		},
	})
}

func (c *Client) call(ctx context.Context, method string, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+method, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("telegram %s status %d: %s",
			method, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return err
	}
	if !ar.OK {
		return fmt.Errorf("telegram %s failed: %s", method, ar.Description)
	}
	return nil
}
