package app

import (
	httpx "github.com/yungbote/materials-advisor/internal/http"
	httpH "github.com/yungbote/materials-advisor/internal/http/handlers"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
	"github.com/yungbote/materials-advisor/internal/upload"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Page     *httpH.PageHandler
	Analysis *httpH.AnalysisHandler
	Material *httpH.MaterialHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services *Services) Handlers {
	log.Info("Wiring handlers...")
	deps := httpH.AnalysisHandlerDeps{
		Log:          log,
		Msgs:         services.Msgs,
		Analyzer:     services.Analysis,
		OCR:          services.OCR,
		Uploads:      services.Uploads,
		Validator:    upload.NewValidator(cfg.MaxUploadBytes),
		Sessions:     services.Sessions,
		Reports:      services.Reports,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	}
	if cfg.EmbeddingAPIKey != "" {
		deps.Materials = services.Catalog
	}
	return Handlers{
		Health: httpH.NewHealthHandler(httpH.HealthHandlerDeps{
			LLMProvider: cfg.LLMProvider,
			OCREngine:   services.OCR.EngineName(),
			Catalog:     services.Catalog,
		}),
		Page:     httpH.NewPageHandler(services.Msgs, cfg.CookieSecure),
		Analysis: httpH.NewAnalysisHandlerWithDeps(deps),
		Material: httpH.NewMaterialHandlerWithDeps(httpH.MaterialHandlerDeps{
			Log:     log,
			Msgs:    services.Msgs,
			Catalog: services.Catalog,
		}),
	}
}

func wireServer(log *logger.Logger, cfg Config, services *Services, handlers Handlers) (*httpx.Server, error) {
	return httpx.NewServer(httpx.RouterConfig{
		Log:             log,
		Msgs:            services.Msgs,
		ServiceName:     cfg.Otel.ServiceName,
		AllowedOrigins:  cfg.AllowedOrigins,
		PageHandler:     handlers.Page,
		AnalysisHandler: handlers.Analysis,
		MaterialHandler: handlers.Material,
		HealthHandler:   handlers.Health,
	})
}
