package app

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/yungbote/materials-advisor/internal/catalog"
	"github.com/yungbote/materials-advisor/internal/ocr"
	"github.com/yungbote/materials-advisor/internal/platform/gcp"
	"github.com/yungbote/materials-advisor/internal/platform/gemini"
	"github.com/yungbote/materials-advisor/internal/platform/llm"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
	"github.com/yungbote/materials-advisor/internal/platform/openai"
	"github.com/yungbote/materials-advisor/internal/platform/tesseract"
	"github.com/yungbote/materials-advisor/internal/session"
)

// Clients are the upstream collaborators. Embedder and OCR may be nil when
// not configured.
type Clients struct {
	Completer llm.Completer
	Embedder  catalog.Embedder
	OCR       ocr.Engine

	closers []io.Closer
}

func (c *Clients) Close() {
	for _, cl := range c.closers {
		_ = cl.Close()
	}
	c.closers = nil
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (*Clients, error) {
	log.Info("Wiring clients...")
	out := &Clients{}

	completer, err := newCompleter(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	out.Completer = completer

	embedder, err := newEmbedder(log, cfg)
	if err != nil {
		return nil, err
	}
	if embedder != nil {
		// Assigned only when set so a nil client stays a nil interface.
		out.Embedder = embedder
	}

	engine, closer, err := newOCREngine(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	out.OCR = engine
	if closer != nil {
		out.closers = append(out.closers, closer)
	}
	return out, nil
}

func newCompleter(ctx context.Context, log *logger.Logger, cfg Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case LLMProviderGemini:
		c, err := gemini.New(ctx, log, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.LLMTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		return c, nil
	case LLMProviderOpenAI, "openrouter", "":
		if strings.TrimSpace(cfg.LLMAPIKey) == "" {
			log.Warn("LLM_API_KEY not set; analysis requests will be rejected upstream")
		}
		headers := map[string]string{}
		if cfg.LLMReferer != "" {
			headers["HTTP-Referer"] = cfg.LLMReferer
		}
		if cfg.LLMTitle != "" {
			headers["X-Title"] = cfg.LLMTitle
		}
		c, err := openai.NewChatClient(log, openai.Config{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
			Headers: headers,
		})
		if err != nil {
			return nil, fmt.Errorf("init chat client: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

// newEmbedder returns nil when no embedding key is configured.
func newEmbedder(log *logger.Logger, cfg Config) (*openai.EmbeddingClient, error) {
	if strings.TrimSpace(cfg.EmbeddingAPIKey) == "" {
		log.Warn("EMBEDDING_API_KEY not set; catalog search disabled")
		return nil, nil
	}
	c, err := openai.NewEmbeddingClient(log, openai.Config{
		BaseURL: cfg.EmbeddingBaseURL,
		APIKey:  cfg.EmbeddingAPIKey,
		Model:   cfg.EmbeddingModel,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init embedding client: %w", err)
	}
	return c, nil
}

// newOCREngine builds the engine named by OCR_PROVIDER. A missing tesseract
// binary disables OCR instead of failing startup.
func newOCREngine(ctx context.Context, log *logger.Logger, cfg Config) (ocr.Engine, io.Closer, error) {
	switch cfg.OCRProvider {
	case OCRProviderNone:
		return nil, nil, nil
	case OCRProviderVision:
		v, err := gcp.NewVisionOCR(log, gcp.VisionConfig{
			Credentials: cfg.GoogleCredentials,
			Timeout:     cfg.OCRTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init vision client: %w", err)
		}
		return v, v, nil
	case OCRProviderDocumentAI:
		d, err := gcp.NewDocumentOCR(log, gcp.DocumentConfig{
			ProjectID:        cfg.DocumentAIProject,
			Location:         cfg.DocumentAILocation,
			ProcessorID:      cfg.DocumentAIProcessor,
			ProcessorVersion: cfg.DocumentAIVersion,
			Credentials:      cfg.GoogleCredentials,
			Timeout:          cfg.OCRTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init document ai client: %w", err)
		}
		return d, d, nil
	case OCRProviderTesseract, "":
		t, err := tesseract.New(log, tesseract.Config{
			BinaryPath: cfg.TesseractPath,
			Languages:  cfg.TesseractLanguages,
			Timeout:    cfg.OCRTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init tesseract: %w", err)
		}
		if err := t.AssertReady(); err != nil {
			log.Warn("tesseract unavailable; OCR disabled", "error", err)
			return nil, nil, nil
		}
		return t, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown OCR_PROVIDER %q", cfg.OCRProvider)
	}
}

func newSessionStore(ctx context.Context, log *logger.Logger, cfg Config) (session.Store, error) {
	switch cfg.SessionBackend {
	case SessionBackendRedis:
		s, err := session.NewRedisStore(ctx, log, session.RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
			TTL:       cfg.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis session store: %w", err)
		}
		return s, nil
	case SessionBackendMemory, "":
		return session.NewMemoryStore(log, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown SESSION_BACKEND %q", cfg.SessionBackend)
	}
}

func newCatalogStore(cfg Config) (catalog.Store, io.Closer, error) {
	switch cfg.CatalogStore {
	case CatalogStoreMemory:
		return catalog.NewMemoryStore(), nil, nil
	case CatalogStoreSQLite:
		path := cfg.CatalogPath
		if filepath.Ext(path) == ".json" {
			path = strings.TrimSuffix(path, ".json") + ".db"
		}
		s, err := catalog.NewSQLStore(path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case CatalogStoreFile, "":
		s, err := catalog.NewFileStore(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown CATALOG_STORE %q", cfg.CatalogStore)
	}
}
