package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
)

func TestAttachRequestData(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen *ctxutil.RequestData
	r := gin.New()
	r.Use(AttachRequestData())
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetRequestData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen == nil || seen.RequestID != "req-42" || seen.TraceID == "" {
		t.Fatalf("request data = %+v", seen)
	}
	if got := w.Header().Get(headerRequestID); got != "req-42" {
		t.Fatalf("%s = %q", headerRequestID, got)
	}
	if got := w.Header().Get(headerTraceID); got != seen.TraceID {
		t.Fatalf("%s = %q, want %q", headerTraceID, got, seen.TraceID)
	}
}

func TestAttachRequestDataGeneratesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachRequestData())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(headerRequestID) == "" || w.Header().Get(headerTraceID) == "" {
		t.Fatalf("missing generated ids: %v", w.Header())
	}
}
