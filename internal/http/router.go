package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/materials-advisor/internal/http/handlers"
	httpMW "github.com/yungbote/materials-advisor/internal/http/middleware"
	"github.com/yungbote/materials-advisor/internal/http/views"
	"github.com/yungbote/materials-advisor/internal/i18n"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Msgs           *i18n.Bundle
	ServiceName    string
	AllowedOrigins []string

	PageHandler     *httpH.PageHandler
	AnalysisHandler *httpH.AnalysisHandler
	MaterialHandler *httpH.MaterialHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "materials-advisor"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachRequestData())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.ResolveLanguage(cfg.Msgs))
	r.SetHTMLTemplate(tmpl)

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	// Pages
	if cfg.PageHandler != nil {
		r.GET("/", cfg.PageHandler.Index)
		r.GET("/set_language/:language", cfg.PageHandler.SetLanguage)
		r.NoRoute(cfg.PageHandler.NotFound)
	}
	if cfg.AnalysisHandler != nil {
		r.POST("/analyze", cfg.AnalysisHandler.Analyze)
		r.GET("/download_pdf", cfg.AnalysisHandler.DownloadPDF)
	}

	api := r.Group("/api")
	api.Use(httpMW.CORS(cfg.AllowedOrigins))
	{
		if cfg.AnalysisHandler != nil {
			api.POST("/analyze", cfg.AnalysisHandler.APIAnalyze)
			api.GET("/analyses/:id", cfg.AnalysisHandler.GetAnalysis)
			api.GET("/analyses/:id/pdf", cfg.AnalysisHandler.AnalysisPDF)
		}
		if cfg.MaterialHandler != nil {
			api.GET("/materials", cfg.MaterialHandler.List)
			api.GET("/materials/search", cfg.MaterialHandler.Search)
			api.POST("/materials", cfg.MaterialHandler.Add)
		}
	}

	return r, nil
}
