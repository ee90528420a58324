package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"leads_service/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// cors allows any origin and answers preflight requests with an empty 200.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Content-Type", "application/json")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)

			return
		}

		c.Next()
	}
}

// AuthMiddleware resolves the caller from the bearer token. Every lead
// operation in the request is scoped to that user.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		const op = "handler.AuthMiddleware"

		log := h.logger(c, op)

		userID, err := h.authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			respondError(c, log, err)

			return
		}

		c.Set(ctxUserID, userID)

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(ctxRequestID, requestID)
		c.Header(headerRequestID, requestID)

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()

		if h.metrics != nil {
			h.metrics.Observe(c.Request.Method, c.FullPath(), status, elapsed)
		}

		h.log.Debug("request",
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", elapsed),
			slog.String("client_ip", c.ClientIP()),
		)
	}
}

func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		const op = "handler.recovery"

		respondError(c, h.logger(c, op), apperr.Internal(fmt.Errorf("panic: %v", rec)))
	})
}
