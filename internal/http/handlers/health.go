package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandlerDeps describes the components reported by the health check.
// Any field may be left empty.
type HealthHandlerDeps struct {
	LLMProvider string
	OCREngine   string
	Catalog     interface{ Len() int }
}

type HealthHandler struct {
	deps HealthHandlerDeps
}

func NewHealthHandler(deps HealthHandlerDeps) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HealthCheck always answers 200; the body says which optional components
// are active.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.deps.LLMProvider != "" {
		body["llm"] = h.deps.LLMProvider
	}
	if h.deps.OCREngine != "" {
		body["ocr"] = h.deps.OCREngine
	}
	if h.deps.Catalog != nil {
		body["catalog_entries"] = h.deps.Catalog.Len()
	}
	c.JSON(http.StatusOK, body)
}
