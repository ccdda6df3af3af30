package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"jpashop/src/infra/logger"
)

// maxLoggedBody caps how much of a request body ends up in the log.
const maxLoggedBody = 2048

// Logging emits one structured line per request. Request bodies of write
// requests are included, truncated to maxLoggedBody. Errors attached with
// c.Error are reported under "error".
func Logging(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		var body []byte
		if c.Request.Body != nil && c.Request.Method != "GET" {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", time.Since(start),
			"bytes", c.Writer.Size(),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}
		if len(body) > 0 {
			if len(body) > maxLoggedBody {
				body = body[:maxLoggedBody]
			}
			attrs = append(attrs, "body", string(body))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		reqLog := logger.WithRequestID(log, GetRequestID(c))
		switch {
		case status >= 500:
			reqLog.Error("request failed", attrs...)
		case status >= 400:
			reqLog.Warn("request rejected", attrs...)
		default:
			reqLog.Info("request handled", attrs...)
		}
	}
}
