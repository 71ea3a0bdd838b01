package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/materials-advisor/internal/platform/ctxutil"
	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

// quietPaths are logged at debug level when they succeed.
var quietPaths = map[string]bool{
	"/healthcheck": true,
}

// RequestLogger writes one structured line per request once the handler
// chain has finished. Handler errors attached via c.Error are included.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil {
			fields = append(fields, "trace_id", rd.TraceID, "request_id", rd.RequestID)
			if rd.AnalysisID != "" {
				fields = append(fields, "analysis_id", rd.AnalysisID)
			}
		}
		if lang, ok := c.Get(languageKey); ok {
			fields = append(fields, "language", lang)
		}
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case quietPaths[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
