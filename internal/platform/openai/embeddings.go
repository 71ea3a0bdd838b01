package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

// EmbeddingClient calls /v1/embeddings.
type EmbeddingClient struct {
	log   *logger.Logger
	model string
	t     *transport
}

func NewEmbeddingClient(log *logger.Logger, cfg Config) (*EmbeddingClient, error) {
	return NewEmbeddingClientWithHTTPClient(log, cfg, nil)
}

// NewEmbeddingClientWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewEmbeddingClientWithHTTPClient(log *logger.Logger, cfg Config, httpClient *http.Client) (*EmbeddingClient, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("openai: embedding model required")
	}
	t, err := newTransport(cfg, "/v1/embeddings", httpClient)
	if err != nil {
		return nil, err
	}
	return &EmbeddingClient{
		log:   log.With("service", "openai.EmbeddingClient"),
		model: strings.TrimSpace(cfg.Model),
		t:     t,
	}, nil
}

type embeddingsRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed returns one vector per input, in input order.
func (c *EmbeddingClient) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	var resp embeddingsResponse
	if err := c.t.postJSON(ctx, embeddingsRequest{Model: c.model, Input: inputs}, &resp); err != nil {
		c.log.Warn("embedding request failed", "model", c.model, "inputs", len(inputs), "error", err)
		return nil, err
	}

	out := make([][]float32, len(inputs))
	for _, d := range resp.Data {
		if d.Index >= 0 && d.Index < len(out) {
			out[d.Index] = toFloat32(d.Embedding)
		}
	}

	// Some servers omit indices but keep ordering.
	for i := range out {
		if out[i] == nil && i < len(resp.Data) {
			out[i] = toFloat32(resp.Data[i].Embedding)
		}
	}

	for i := range out {
		if len(out[i]) == 0 {
			return nil, fmt.Errorf("embeddings missing index=%d (model=%s)", i, c.model)
		}
	}
	return out, nil
}

func toFloat32(in []float64) []float32 {
	vec := make([]float32, len(in))
	for i, f := range in {
		vec[i] = float32(f)
	}
	return vec
}
