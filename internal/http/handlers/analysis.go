package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/analysis"
	"github.com/yungbote/materials-advisor/internal/catalog"
	"github.com/yungbote/materials-advisor/internal/domain"
	"github.com/yungbote/materials-advisor/internal/http/middleware"
	"github.com/yungbote/materials-advisor/internal/http/response"
	"github.com/yungbote/materials-advisor/internal/http/views"
	"github.com/yungbote/materials-advisor/internal/i18n"
	"github.com/yungbote/materials-advisor/internal/platform/apierr"
	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
	"github.com/yungbote/materials-advisor/internal/report"
	"github.com/yungbote/materials-advisor/internal/session"
	"github.com/yungbote/materials-advisor/internal/upload"
)

const (
	AnalysisCookie      = "analysis_id"
	defaultRelatedLimit = 3
	multipartMemory     = 32 << 20
	// formOverhead is the allowance for the description and multipart framing
	// on top of the drawing size limit.
	formOverhead = 1 << 20
)

type Analyzer interface {
	Analyze(ctx context.Context, text string, lang domain.Language) (analysis.Result, error)
}

type TextExtractor interface {
	ExtractText(ctx context.Context, path string) string
}

type ReportRenderer interface {
	Render(ctx context.Context, w io.Writer, in report.Input) error
}

type MaterialFinder interface {
	Search(ctx context.Context, query string, topK int) ([]catalog.Match, error)
}

type AnalysisHandlerDeps struct {
	Log       *logger.Logger
	Msgs      *i18n.Bundle
	Analyzer  Analyzer
	OCR       TextExtractor
	Uploads   *upload.Saver
	Validator upload.Validator
	Sessions  session.Store
	Reports   ReportRenderer
	// Materials is optional; without it the analysis page lists no related materials.
	Materials    MaterialFinder
	RelatedLimit int
	SessionTTL   time.Duration
	CookieSecure bool
	Now          func() time.Time
}

type AnalysisHandler struct {
	deps AnalysisHandlerDeps
	log  *logger.Logger
}

func NewAnalysisHandlerWithDeps(deps AnalysisHandlerDeps) *AnalysisHandler {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.RelatedLimit <= 0 {
		deps.RelatedLimit = defaultRelatedLimit
	}
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = session.DefaultTTL
	}
	if deps.Validator.MaxBytes <= 0 {
		deps.Validator = upload.NewValidator(0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &AnalysisHandler{deps: deps, log: deps.Log.With("handler", "AnalysisHandler")}
}

// outcome is a finished analysis plus the OCR status note for the page.
type outcome struct {
	analysis *session.Analysis
	notice   string
}

// Analyze handles the HTML form.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	lang := middleware.Language(c)
	out, description, aerr := h.run(c, lang)
	if aerr != nil {
		page := views.NewPage(h.deps.Msgs, lang)
		page.Error = h.deps.Msgs.Tf(lang, aerr.MessageKey, aerr.MessageArgs...)
		page.Description = description
		if aerr.Err != nil {
			_ = c.Error(aerr.Err)
		}
		c.HTML(aerr.Status, views.IndexPage, page)
		return
	}

	a := out.analysis
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AnalysisCookie, a.ID, int(h.deps.SessionTTL.Seconds()), "/", "", h.deps.CookieSecure, true)

	page := views.NewPage(h.deps.Msgs, lang)
	page.Notice = out.notice
	page.Analysis = &views.Analysis{
		ID:           a.ID,
		InputText:    a.InputText,
		OCRExtracted: a.OCRExtracted,
		Fallback:     a.Fallback,
		Sections:     views.BuildSections(h.deps.Msgs, lang, a.Record),
		Related:      h.related(c.Request.Context(), a.InputText),
	}
	c.HTML(http.StatusOK, views.AnalysisPage, page)
}

type analyzeResponse struct {
	AnalysisID   string          `json:"analysis_id"`
	Language     domain.Language `json:"language"`
	OCRExtracted bool            `json:"ocr_extracted"`
	Fallback     bool            `json:"fallback"`
	Analysis     analysis.Record `json:"analysis"`
}

// APIAnalyze is the JSON variant of Analyze.
func (h *AnalysisHandler) APIAnalyze(c *gin.Context) {
	lang := middleware.Language(c)
	out, _, aerr := h.run(c, lang)
	if aerr != nil {
		response.RespondError(c, aerr, h.deps.Msgs.Tf(lang, aerr.MessageKey, aerr.MessageArgs...))
		return
	}
	a := out.analysis
	response.RespondOK(c, analyzeResponse{
		AnalysisID:   a.ID,
		Language:     a.Language,
		OCRExtracted: a.OCRExtracted,
		Fallback:     a.Fallback,
		Analysis:     a.Record,
	})
}

// GetAnalysis returns a stored analysis as JSON.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	lang := middleware.Language(c)
	a, aerr := h.load(c.Request.Context(), c.Param("id"))
	if aerr != nil {
		response.RespondError(c, aerr, h.deps.Msgs.Tf(lang, aerr.MessageKey, aerr.MessageArgs...))
		return
	}
	response.RespondOK(c, a)
}

// DownloadPDF serves the report for the analysis named by the analysis_id
// query parameter or cookie.
func (h *AnalysisHandler) DownloadPDF(c *gin.Context) {
	id := strings.TrimSpace(c.Query(AnalysisCookie))
	if id == "" {
		id, _ = c.Cookie(AnalysisCookie)
	}
	h.servePDF(c, id, func(aerr *apierr.Error) {
		lang := middleware.Language(c)
		page := views.NewPage(h.deps.Msgs, lang)
		page.Error = h.deps.Msgs.Tf(lang, aerr.MessageKey, aerr.MessageArgs...)
		if aerr.Err != nil {
			_ = c.Error(aerr.Err)
		}
		c.HTML(aerr.Status, views.IndexPage, page)
	})
}

// AnalysisPDF serves the report for /api/analyses/:id/pdf.
func (h *AnalysisHandler) AnalysisPDF(c *gin.Context) {
	h.servePDF(c, c.Param("id"), func(aerr *apierr.Error) {
		response.RespondError(c, aerr, h.deps.Msgs.Tf(middleware.Language(c), aerr.MessageKey, aerr.MessageArgs...))
	})
}

func (h *AnalysisHandler) servePDF(c *gin.Context, id string, fail func(*apierr.Error)) {
	ctx := c.Request.Context()
	a, aerr := h.load(ctx, id)
	if aerr != nil {
		fail(aerr)
		return
	}

	var buf bytes.Buffer
	err := h.deps.Reports.Render(ctx, &buf, report.Input{
		Record:      a.Record,
		InputText:   a.InputText,
		Language:    a.Language,
		GeneratedAt: h.deps.Now(),
	})
	if err != nil {
		h.log.Error("pdf render failed", "analysis_id", a.ID, "error", err)
		fail(apierr.New(http.StatusInternalServerError, "pdf_failed", err).WithMessage("error.internal"))
		return
	}

	name := fmt.Sprintf("material_analysis_report_%s.pdf", a.Language)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *AnalysisHandler) load(ctx context.Context, id string) (*session.Analysis, *apierr.Error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apierr.New(http.StatusNotFound, "analysis_not_found", nil).WithMessage("error.no_analysis")
	}
	a, err := h.deps.Sessions.Get(ctx, id)
	if errors.Is(err, session.ErrNotFound) {
		return nil, apierr.New(http.StatusNotFound, "analysis_not_found", nil).WithMessage("error.no_analysis")
	}
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "session_error", err).WithMessage("error.internal")
	}
	ctxutil.SetAnalysisID(ctx, a.ID)
	return a, nil
}

// run validates the form, extracts text from the drawing, calls the model
// and stores the analysis. The description is returned so the form can be
// refilled on error.
func (h *AnalysisHandler) run(c *gin.Context, lang domain.Language) (*outcome, string, *apierr.Error) {
	ctx := c.Request.Context()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.deps.Validator.MaxBytes+formOverhead)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", apierr.New(http.StatusBadRequest, "file_too_large", err).WithMessage("error.file_too_large", i18n.Size(h.deps.Validator.MaxBytes))
		}
		return nil, "", apierr.New(http.StatusBadRequest, "bad_request", err).WithMessage("error.bad_request")
	}

	description := strings.TrimSpace(c.PostForm("description"))
	fh, err := c.FormFile("drawing")
	if err != nil {
		fh = nil
	}
	if description == "" && fh == nil {
		return nil, description, apierr.New(http.StatusBadRequest, "no_input", nil).WithMessage("error.no_input")
	}

	var (
		ocrText string
		notice  string
	)
	if fh != nil {
		text, aerr := h.extract(ctx, fh)
		if aerr != nil {
			return nil, description, aerr
		}
		ocrText = text
		if ocrText != "" {
			notice = h.deps.Msgs.T(lang, "status.ocr_success")
		} else {
			notice = h.deps.Msgs.T(lang, "status.ocr_empty")
		}
	}

	combined := strings.TrimSpace(description + "\n\n" + ocrText)
	if combined == "" {
		return nil, description, apierr.New(http.StatusBadRequest, "no_text", nil).WithMessage("error.no_text")
	}

	res, err := h.deps.Analyzer.Analyze(ctx, combined, lang)
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return nil, description, apierr.New(http.StatusBadRequest, "no_text", err).WithMessage("error.no_text")
	case err != nil:
		h.log.Error("analysis failed", "error", err, "language", lang)
		return nil, description, apierr.New(http.StatusBadGateway, "analysis_failed", err).WithMessage("error.analysis_failed")
	}

	a := session.NewAnalysis(combined, res, ocrText != "", lang, h.deps.Now())
	if err := h.deps.Sessions.Put(ctx, a); err != nil {
		h.log.Error("store analysis failed", "analysis_id", a.ID, "error", err)
		return nil, description, apierr.New(http.StatusInternalServerError, "session_error", err).WithMessage("error.internal")
	}
	ctxutil.SetAnalysisID(ctx, a.ID)
	h.log.Info("analysis complete", "analysis_id", a.ID, "language", lang, "fallback", a.Fallback, "ocr_extracted", a.OCRExtracted)
	return &outcome{analysis: a, notice: notice}, description, nil
}

// extract validates and stores the drawing, runs OCR and removes the file.
func (h *AnalysisHandler) extract(ctx context.Context, fh *multipart.FileHeader) (string, *apierr.Error) {
	f, err := fh.Open()
	if err != nil {
		return "", apierr.New(http.StatusBadRequest, "invalid_file", err).WithMessage("error.invalid_file")
	}
	defer f.Close()

	head := make([]byte, upload.SniffLen)
	n, _ := io.ReadFull(f, head)
	if err := h.deps.Validator.Validate(fh.Filename, fh.Size, head[:n]); err != nil {
		switch {
		case errors.Is(err, upload.ErrTooLarge):
			return "", apierr.New(http.StatusBadRequest, "file_too_large", err).WithMessage("error.file_too_large", i18n.Size(h.deps.Validator.MaxBytes))
		case errors.Is(err, upload.ErrNoFile):
			return "", apierr.New(http.StatusBadRequest, "no_input", err).WithMessage("error.no_input")
		default:
			return "", apierr.New(http.StatusBadRequest, "invalid_file", err).WithMessage("error.invalid_file")
		}
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", apierr.New(http.StatusInternalServerError, "upload_error", err).WithMessage("error.internal")
	}

	path, err := h.deps.Uploads.Save(f, fh.Filename)
	if err != nil {
		return "", apierr.New(http.StatusInternalServerError, "upload_error", err).WithMessage("error.internal")
	}
	defer h.deps.Uploads.Remove(path)

	if h.deps.OCR == nil {
		return "", nil
	}
	return h.deps.OCR.ExtractText(ctx, path), nil
}

func (h *AnalysisHandler) related(ctx context.Context, text string) []catalog.Match {
	if h.deps.Materials == nil {
		return nil
	}
	matches, err := h.deps.Materials.Search(ctx, text, h.deps.RelatedLimit)
	if err != nil {
		h.log.Warn("related materials lookup failed", "error", err)
		return nil
	}
	return matches
}
