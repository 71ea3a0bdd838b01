package app

import (
	"context"
	"fmt"
	"io"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/catalog"
	"github.com/yungbote/materials-advisor/internal/i18n"
	"github.com/yungbote/materials-advisor/internal/ocr"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
	"github.com/yungbote/materials-advisor/internal/report"
	"github.com/yungbote/materials-advisor/internal/session"
	"github.com/yungbote/materials-advisor/internal/upload"
)

type Services struct {
	Msgs     *i18n.Bundle
	Analysis *analysis.Service
	OCR      *ocr.Service
	Reports  *report.Renderer
	Catalog  *catalog.Catalog
	Sessions session.Store
	Uploads  *upload.Saver
	Sweeper  *upload.Sweeper

	closers []io.Closer
}

func (s *Services) Close() {
	for _, c := range s.closers {
		_ = c.Close()
	}
	s.closers = nil
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, clients *Clients) (*Services, error) {
	log.Info("Wiring services...")
	out := &Services{}

	msgs, err := i18n.Load()
	if err != nil {
		return nil, err
	}
	out.Msgs = msgs

	out.Analysis, err = analysis.NewService(log, clients.Completer, analysis.Options{
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init analysis service: %w", err)
	}

	out.OCR = ocr.NewService(log, clients.OCR)
	log.Info("OCR engine selected", "engine", out.OCR.EngineName())

	out.Reports, err = report.New(log, msgs, cfg.FontDir)
	if err != nil {
		return nil, fmt.Errorf("init report renderer: %w", err)
	}

	catalogSvc, catalogCloser, err := wireCatalog(ctx, log, cfg, clients.Embedder)
	if err != nil {
		return nil, err
	}
	out.Catalog = catalogSvc
	if catalogCloser != nil {
		out.closers = append(out.closers, catalogCloser)
	}

	out.Sessions, err = newSessionStore(ctx, log, cfg)
	if err != nil {
		out.Close()
		return nil, err
	}
	out.closers = append(out.closers, out.Sessions)

	out.Uploads, err = upload.NewSaver(log, cfg.UploadDir)
	if err != nil {
		out.Close()
		return nil, err
	}
	out.Sweeper = upload.NewSweeper(log, cfg.UploadDir, cfg.UploadMaxAge)
	return out, nil
}

// wireCatalog opens the configured catalog store and loads the catalog. The
// returned closer, when non-nil, releases the store.
func wireCatalog(ctx context.Context, log *logger.Logger, cfg Config, embedder catalog.Embedder) (*catalog.Catalog, io.Closer, error) {
	store, closer, err := newCatalogStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init catalog store: %w", err)
	}
	c, err := catalog.New(ctx, log, embedder, store, catalog.Config{Dimension: cfg.EmbeddingDimension})
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, fmt.Errorf("init catalog: %w", err)
	}
	return c, closer, nil
}
