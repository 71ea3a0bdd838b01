package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
	"github.com/yungbote/materials-advisor/internal/platform/llm"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

var ErrEmptyCompletion = errors.New("gemini: empty completion")

type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client completes prompts through the Gemini API.
type Client struct {
	log     *logger.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ llm.Completer = (*Client)(nil)

func New(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("missing GEMINI_API_KEY")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	c, err := genai.NewClient(ctxutil.Default(ctx), &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &Client{
		log:     log.With("service", "gemini.Client"),
		client:  c,
		model:   strings.TrimSpace(cfg.Model),
		timeout: cfg.Timeout,
	}, nil
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if strings.TrimSpace(req.User) == "" {
		return "", errors.New("no messages")
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), c.timeout)
	defer cancel()

	res, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{genai.NewContentFromText(req.User, genai.RoleUser)},
		buildConfig(req),
	)
	if err != nil {
		c.log.Warn("gemini completion failed", "model", c.model, "error", err)
		return "", err
	}
	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func buildConfig(req llm.Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	return cfg
}
