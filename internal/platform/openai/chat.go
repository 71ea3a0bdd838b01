package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/materials-advisor/internal/platform/llm"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

var ErrEmptyCompletion = errors.New("empty upstream completion")

// ChatClient calls /v1/chat/completions once per Complete.
type ChatClient struct {
	log   *logger.Logger
	model string
	t     *transport
}

var _ llm.Completer = (*ChatClient)(nil)

func NewChatClient(log *logger.Logger, cfg Config) (*ChatClient, error) {
	return NewChatClientWithHTTPClient(log, cfg, nil)
}

// NewChatClientWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewChatClientWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (*ChatClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: chat model required")
	}
	t, err := newTransport(cfg, "/v1/chat/completions", httpClient)
	if err != nil {
		return nil, err
	}
	return &ChatClient{
		log:   log.With("service", "openai.ChatClient"),
		model: strings.TrimSpace(cfg.Model),
		t:     t,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

func (c *ChatClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	msgs := make([]chatMessage, 0, 2)
	if strings.TrimSpace(req.System) != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	if strings.TrimSpace(req.User) == "" {
		return "", errors.New("no messages")
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.User})

	body := chatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	var resp chatCompletionResponse
	if err := c.t.postJSON(ctx, body, &resp); err != nil {
		c.log.Warn("chat completion failed", "model", c.model, "error", err)
		return "", err
	}
	text := extractChatText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func extractChatText(resp chatCompletionResponse) string {
	for _, c := range resp.Choices {
		if strings.TrimSpace(c.Message.Content) != "" {
			return c.Message.Content
		}
		if strings.TrimSpace(c.Text) != "" {
			return c.Text
		}
	}
	return ""
}
