package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/catalog"
	"github.com/yungbote/materials-advisor/internal/http/middleware"
	"github.com/yungbote/materials-advisor/internal/http/response"
	"github.com/yungbote/materials-advisor/internal/i18n"
	"github.com/yungbote/materials-advisor/internal/platform/apierr"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

const maxSearchK = 50

type MaterialCatalog interface {
	MaterialFinder
	List() []catalog.Entry
	Add(ctx context.Context, e catalog.Entry) error
}

type MaterialHandlerDeps struct {
	Log     *logger.Logger
	Msgs    *i18n.Bundle
	Catalog MaterialCatalog
}

type MaterialHandler struct {
	log     *logger.Logger
	msgs    *i18n.Bundle
	catalog MaterialCatalog
}

func NewMaterialHandlerWithDeps(deps MaterialHandlerDeps) *MaterialHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &MaterialHandler{log: log.With("handler", "MaterialHandler"), msgs: deps.Msgs, catalog: deps.Catalog}
}

type materialsResponse struct {
	Materials []catalog.Entry `json:"materials"`
	Count     int             `json:"count"`
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []catalog.Match `json:"results"`
}

func (h *MaterialHandler) List(c *gin.Context) {
	entries := h.catalog.List()
	response.RespondOK(c, materialsResponse{Materials: entries, Count: len(entries)})
}

// Search handles GET /api/materials/search?q=&k=.
func (h *MaterialHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		h.fail(c, apierr.New(http.StatusBadRequest, "missing_query", nil).WithMessage("error.bad_request"))
		return
	}
	k := 0
	if raw := strings.TrimSpace(c.Query("k")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.fail(c, apierr.New(http.StatusBadRequest, "invalid_k", err).WithMessage("error.bad_request"))
			return
		}
		k = min(n, maxSearchK)
	}
	matches, err := h.catalog.Search(c.Request.Context(), q, k)
	if err != nil {
		h.fail(c, catalogError(err))
		return
	}
	if matches == nil {
		matches = []catalog.Match{}
	}
	response.RespondOK(c, searchResponse{Query: q, Results: matches})
}

// Add handles POST /api/materials with a JSON entry.
func (h *MaterialHandler) Add(c *gin.Context) {
	var e catalog.Entry
	if err := c.ShouldBindJSON(&e); err != nil {
		h.fail(c, apierr.New(http.StatusBadRequest, "invalid_json", err).WithMessage("error.bad_request"))
		return
	}
	if err := h.catalog.Add(c.Request.Context(), e); err != nil {
		h.fail(c, catalogError(err))
		return
	}
	h.log.Info("material added", "name", e.Name)
	c.JSON(http.StatusCreated, e)
}

func (h *MaterialHandler) fail(c *gin.Context, aerr *apierr.Error) {
	response.RespondError(c, aerr, h.msgs.Tf(middleware.Language(c), aerr.MessageKey, aerr.MessageArgs...))
}

func catalogError(err error) *apierr.Error {
	switch {
	case errors.Is(err, catalog.ErrNameMissing):
		return apierr.New(http.StatusBadRequest, "name_required", err).WithMessage("error.bad_request")
	case errors.Is(err, catalog.ErrEmbedding):
		return apierr.New(http.StatusServiceUnavailable, "catalog_unavailable", err).WithMessage("error.catalog_unavailable")
	default:
		return apierr.New(http.StatusInternalServerError, "catalog_error", err).WithMessage("error.internal")
	}
}
