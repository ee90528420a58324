package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"leads_service/internal/apperr"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// bindJSON decodes the request body into dst. An empty body leaves dst at its zero value.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.KindInvalidInput, "Invalid request body", err)
	}
	return nil
}

// POST /auth/register
func (h *Handler) Register(c *gin.Context) {
	const op = "handler.Register"

	log := h.logger(c, op)

	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, log, err)

		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, log, err)

		return
	}

	log.Info("user registered", slog.String("user_id", resp.User.ID.String()))

	c.JSON(http.StatusCreated, resp)
}

// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	const op = "handler.Login"

	log := h.logger(c, op)

	var req credentialsRequest
	if err := bindJSON(c, &req); err != nil {
		respondError(c, log, err)

		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, log, err)

		return
	}

	c.JSON(http.StatusOK, resp)
}
