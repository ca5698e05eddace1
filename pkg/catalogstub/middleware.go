package catalogstub

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oyaguma3/scan4health-console/pkg/httputil"
	"github.com/oyaguma3/scan4health-console/pkg/logging"
)

// コンテキストキー
const (
	TraceIDKey  = "trace_id"
	UsernameKey = "username"
)

const traceIDHeader = "X-Trace-ID"

// TraceIDMiddleware はX-Trace-IDヘッダからトレースIDを取得する。
// ヘッダが無い場合は新規に採番する。
func TraceIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(traceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(traceIDHeader, traceID)
		c.Next()
	}
}

// LoggingMiddleware はリクエストログを出力する。
func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("request completed",
			logging.WithTraceID(c.GetString(TraceIDKey)),
			slog.String(logging.FieldMethod, c.Request.Method),
			slog.String(logging.FieldPath, c.Request.URL.Path),
			logging.WithHTTPStatus(c.Writer.Status()),
			logging.WithLatency(time.Since(start).Milliseconds()),
		)
	}
}

// RecoveryMiddleware はパニックからの復旧を行う。
func RecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					logging.WithTraceID(c.GetString(TraceIDKey)),
					"error", err,
				)
				httputil.AbortWithError(c, httputil.InternalServerError("An unexpected error occurred"))
			}
		}()
		c.Next()
	}
}

// AuthMiddleware はBearerトークンを検証する。
func AuthMiddleware(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := httputil.BearerToken(c)
		if !ok {
			httputil.AbortWithError(c, httputil.Unauthorized("No token provided"))
			return
		}
		username, ok := store.TokenUser(token)
		if !ok {
			httputil.AbortWithError(c, httputil.Unauthorized("Invalid or expired token"))
			return
		}
		c.Set(UsernameKey, username)
		c.Next()
	}
}
