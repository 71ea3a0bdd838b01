package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes the JSON error envelope. message is the user-facing
// text; the wrapped cause is recorded on the gin context for the request log.
func RespondError(c *gin.Context, err *apierr.Error, message string) {
	if err == nil {
		err = apierr.From(nil)
	}
	if err.Err != nil {
		_ = c.Error(err.Err)
	}
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: message,
			Code:    err.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
