package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	apiName    = "LeadsHub API"
	apiVersion = "1.0.0"

	dbStatusOK          = "ok"
	dbStatusUnavailable = "unavailable"

	pingTimeout = 2 * time.Second
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database,omitempty"`
}

type indexResponse struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

var endpoints = map[string]string{
	"POST /api/auth/login":    "Authenticate user",
	"POST /api/auth/register": "Register new user",
	"GET /api/leads":          "List all leads",
	"POST /api/leads":         "Create lead",
	"GET /api/leads/{id}":     "Get lead",
	"PUT /api/leads/{id}":     "Update lead",
	"DELETE /api/leads/{id}":  "Delete lead",
	"GET /api/health":         "Liveness check",
}

// ANY /health
// Liveness stays 200 while the database is down; the database field carries its state.
func (h *Handler) Health(c *gin.Context) {
	const op = "handler.Health"

	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		resp.Database = dbStatusOK
		if err := h.db.Ping(ctx); err != nil {
			h.logger(c, op).Warn("database ping failed", slog.Any("error", err))
			resp.Database = dbStatusUnavailable
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ANY /
func (h *Handler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, indexResponse{
		Name:      apiName,
		Version:   apiVersion,
		Endpoints: endpoints,
	})
}
