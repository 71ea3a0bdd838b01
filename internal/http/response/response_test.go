package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/platform/apierr"
)

func TestRespondErrorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondError(c, apierr.New(http.StatusBadGateway, "analysis_failed", errors.New("upstream 503 body")), "Failed to generate material analysis. Please try again.")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Error.Code != "analysis_failed" || env.Error.Message != "Failed to generate material analysis. Please try again." {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("cause not recorded on context")
	}
}

func TestRespondErrorDefaultsToInternal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondError(c, nil, "oops")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
}
