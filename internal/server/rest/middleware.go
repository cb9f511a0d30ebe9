package rest

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/stockkeeper/internal/common"
	"github.com/dmitrijs2005/stockkeeper/internal/logging"
	"github.com/dmitrijs2005/stockkeeper/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID reuses the caller's X-Request-Id or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func Recovery(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				l.Error(c.Request.Context(), "panic recovered",
					"error", fmt.Sprintf("%v", p),
					"stack", string(debug.Stack()),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDKey),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, messageResponse{Message: "Internal server error"})
			}
		}()
		c.Next()
	}
}

// RequestLogger logs method, path, status and latency of every request.
// Query strings and headers are left out so credentials never reach the log.
func RequestLogger(l logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"request_id", c.GetString(requestIDKey),
		}
		if user, ok := auth.IdentityFromContext(c.Request.Context()); ok {
			args = append(args, "user", user)
		}

		ctx := c.Request.Context()
		switch {
		case status >= http.StatusInternalServerError:
			l.Error(ctx, "request completed", args...)
		case status >= http.StatusBadRequest:
			l.Warn(ctx, "request completed", args...)
		default:
			l.Debug(ctx, "request completed", args...)
		}
	}
}

// AuthGate admits public routes and requests carrying a valid bearer token.
// Admitted identities are stored in the request context. Rejections are
// logged with their precise reason while the client gets a plain 401.
func AuthGate(policy *auth.RoutePolicy, verifier auth.TokenVerifier, l logging.Logger, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := auth.Decide(c.Request.URL.Path, c.GetHeader(common.AuthorizationHeaderName), policy, verifier, now())
		if !d.Admitted {
			l.Warn(c.Request.Context(), "request rejected",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"reason", d.Reason,
				"request_id", c.GetString(requestIDKey),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, messageResponse{Message: "Unauthorized"})
			return
		}
		if d.Identity != "" {
			c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), d.Identity))
		}
		c.Next()
	}
}
