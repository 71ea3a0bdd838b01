package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
)

// Config describes one OpenAI-compatible upstream (OpenRouter, AITunnel, OpenAI, vLLM ...).
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Path is appended to BaseURL. Chat and embeddings clients fill their own default.
	Path    string
	Timeout time.Duration
	// Headers are sent with every request (e.g. OpenRouter's HTTP-Referer / X-Title).
	Headers map[string]string
}

type transport struct {
	baseURL    string
	apiKey     string
	path       string
	timeout    time.Duration
	headers    map[string]string
	httpClient *http.Client
}

func newTransport(cfg Config, defaultPath string, httpClient *http.Client) (*transport, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("openai: base url required")
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = defaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}}
	}
	return &transport{
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		path:       path,
		timeout:    timeout,
		headers:    cfg.Headers,
		httpClient: httpClient,
	}, nil
}

func (t *transport) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	for k, v := range t.headers {
		if strings.TrimSpace(v) != "" {
			req.Header.Set(k, v)
		}
	}
}

// postJSON performs exactly one request; callers decide whether a failure is final.
func (t *transport) postJSON(ctx context.Context, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+t.path, &buf)
	if err != nil {
		return err
	}
	t.setHeaders(req)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
